package subscriber

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/konveyor/tasktracker/tracker"
)

// DefaultThrottleInterval is the interval used by NewThrottled when given a
// non-positive interval.
const DefaultThrottleInterval = 500 * time.Millisecond

// Throttled wraps a subscriber and drops ticks that arrive too quickly.
//
// Start, finish and abort events are always forwarded. A tick is forwarded
// when any of these hold:
//   - it is the first tick since start
//   - it brings the processed count up to a known total
//   - the interval has elapsed since the last forwarded tick
//
// Intervals are measured on tick timestamps, not on the wall clock, so a
// tracker with a manual clock throttles deterministically.
//
// Example:
//
//	bar := subscriber.NewThrottled(subscriber.NewProgressBar(os.Stderr, subscriber.Normal), 100*time.Millisecond)
type Throttled struct {
	next     tracker.Subscriber
	interval time.Duration

	mu            sync.Mutex
	lastForwarded time.Time
	forwardedTick bool
	skipped       atomic.Uint64
}

// NewThrottled wraps next.
func NewThrottled(next tracker.Subscriber, interval time.Duration) *Throttled {
	if interval <= 0 {
		interval = DefaultThrottleInterval
	}
	return &Throttled{
		next:     next,
		interval: interval,
	}
}

// Unwrap returns the wrapped subscriber.
func (t *Throttled) Unwrap() tracker.Subscriber {
	return t.next
}

// Skipped returns how many ticks were dropped.
func (t *Throttled) Skipped() uint64 {
	return t.skipped.Load()
}

func (t *Throttled) OnStart(tick *tracker.Tick) error {
	t.mu.Lock()
	t.forwardedTick = false
	t.lastForwarded = tick.Timestamp()
	t.mu.Unlock()
	return t.next.OnStart(tick)
}

func (t *Throttled) OnTick(tick *tracker.Tick) error {
	if !t.shouldForward(tick) {
		t.skipped.Add(1)
		return nil
	}
	return t.next.OnTick(tick)
}

func (t *Throttled) OnFinish(tick *tracker.Tick) error {
	return t.next.OnFinish(tick)
}

func (t *Throttled) OnAbort(tick *tracker.Tick) error {
	return t.next.OnAbort(tick)
}

func (t *Throttled) shouldForward(tick *tracker.Tick) bool {
	report := tick.Report()
	total := report.TotalItemCount()

	t.mu.Lock()
	defer t.mu.Unlock()

	isFirst := !t.forwardedTick
	isLast := total != tracker.Unknown && report.NumItemsProcessed() >= total
	intervalElapsed := tick.Timestamp().Sub(t.lastForwarded) >= t.interval

	if !isFirst && !isLast && !intervalElapsed {
		return false
	}
	t.forwardedTick = true
	t.lastForwarded = tick.Timestamp()
	return true
}
