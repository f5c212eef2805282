package subscriber

import (
	"time"

	"github.com/konveyor/tasktracker/tracker"
)

type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 10, 29, 17, 6, 14, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func fixedMemory(bytes uint64) tracker.MemoryProbe {
	return func() (uint64, bool) { return bytes, true }
}

// newTracker builds a tracker on a manual clock with a constant 2.5MB
// memory reading.
func newTracker(total int, subs ...tracker.Subscriber) (*tracker.Tracker, *manualClock) {
	clock := newManualClock()
	t := tracker.New(total,
		tracker.WithSubscribers(subs...),
		tracker.WithClock(clock),
		tracker.WithMemoryProbe(fixedMemory(2_500_000)),
	)
	return t, clock
}

// counting records how many events of each kind reached it.
type counting struct {
	events   map[tracker.Event]int
	messages []string
}

func newCounting() *counting {
	return &counting{events: map[tracker.Event]int{}}
}

func (c *counting) handle(event tracker.Event) func(*tracker.Tick) error {
	return func(tick *tracker.Tick) error {
		c.events[event]++
		c.messages = append(c.messages, tick.Message())
		return nil
	}
}

func (c *counting) subscriber() tracker.Subscriber {
	return tracker.SubscriberFuncs{
		Start:  c.handle(tracker.EventStart),
		Tick:   c.handle(tracker.EventTick),
		Finish: c.handle(tracker.EventFinish),
		Abort:  c.handle(tracker.EventAbort),
	}
}
