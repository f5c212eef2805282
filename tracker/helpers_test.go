package tracker

import (
	"errors"
	"time"
)

// manualClock only moves when Advance is called.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 10, 29, 17, 6, 14, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordedTick struct {
	event Event
	tick  *Tick
	// counters as seen by the Report during dispatch
	processed int
}

// recordingSubscriber remembers every Tick it receives.
type recordingSubscriber struct {
	name    string
	ticks   []recordedTick
	order   *[]string
	failOn  Event
	failErr error
}

func (r *recordingSubscriber) record(event Event, tick *Tick) error {
	r.ticks = append(r.ticks, recordedTick{
		event:     event,
		tick:      tick,
		processed: tick.Report().NumItemsProcessed(),
	})
	if r.order != nil {
		*r.order = append(*r.order, r.name)
	}
	if r.failOn == event {
		return r.failErr
	}
	return nil
}

func (r *recordingSubscriber) OnStart(tick *Tick) error  { return r.record(EventStart, tick) }
func (r *recordingSubscriber) OnTick(tick *Tick) error   { return r.record(EventTick, tick) }
func (r *recordingSubscriber) OnFinish(tick *Tick) error { return r.record(EventFinish, tick) }
func (r *recordingSubscriber) OnAbort(tick *Tick) error  { return r.record(EventAbort, tick) }

func (r *recordingSubscriber) events() []Event {
	out := make([]Event, 0, len(r.ticks))
	for _, rt := range r.ticks {
		out = append(out, rt.event)
	}
	return out
}

func (r *recordingSubscriber) messages(event Event) []string {
	out := []string{}
	for _, rt := range r.ticks {
		if rt.event == event {
			out = append(out, rt.tick.Message())
		}
	}
	return out
}

var errBoom = errors.New("boom")

func fixedMemory(values ...uint64) MemoryProbe {
	i := 0
	return func() (uint64, bool) {
		v := values[min(i, len(values)-1)]
		i++
		return v, true
	}
}
