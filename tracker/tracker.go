package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Tracker maintains the state of one long-running task and dispatches a Tick
// to its subscribers on every Start, Tick, Finish and Abort.
//
// The zero value is not usable; build a Tracker with New, Build or a Factory.
type Tracker struct {
	id                uuid.UUID
	status            Status
	numTotalItems     int
	numProcessedItems map[TickStatus]int
	startTime         time.Time
	lastTick          *Tick
	subscribers       []Subscriber

	clock    Clock
	memProbe MemoryProbe
	log      logr.Logger
}

// Option configures a Tracker.
type Option func(t *Tracker)

// WithSubscribers registers subscribers, in order, after any already
// registered.
func WithSubscribers(subscribers ...Subscriber) Option {
	return func(t *Tracker) {
		t.subscribers = append(t.subscribers, subscribers...)
	}
}

// WithClock replaces the wall clock used for the start time and Tick
// timestamps.
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		t.clock = c
	}
}

// WithMemoryProbe replaces RuntimeMemoryProbe.
func WithMemoryProbe(p MemoryProbe) Option {
	return func(t *Tracker) {
		t.memProbe = p
	}
}

// WithLogger sets the logger used for lifecycle and tick debug output.
func WithLogger(log logr.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

// New creates a Tracker for totalItems items, or Unknown. Any negative
// count is treated as Unknown.
func New(totalItems int, opts ...Option) *Tracker {
	if totalItems < 0 {
		totalItems = Unknown
	}
	t := &Tracker{
		id:                uuid.New(),
		status:            NotStarted,
		numTotalItems:     totalItems,
		numProcessedItems: map[TickStatus]int{},
		clock:             systemClock{},
		memProbe:          RuntimeMemoryProbe,
		log:               logr.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = systemClock{}
	}
	if t.memProbe == nil {
		t.memProbe = NoMemoryProbe
	}
	t.log = t.log.WithValues("tracker", t.id.String())
	return t
}

// Build creates a Tracker with the given subscribers registered.
func Build(subscribers []Subscriber, totalItems int, opts ...Option) *Tracker {
	return New(totalItems, append([]Option{WithSubscribers(subscribers...)}, opts...)...)
}

// ID returns the random identifier of this Tracker.
func (t *Tracker) ID() uuid.UUID { return t.id }

// AddSubscriber registers s after all existing subscribers.
func (t *Tracker) AddSubscriber(s Subscriber) {
	t.subscribers = append(t.subscribers, s)
}

// Subscribers returns the registered subscribers in dispatch order.
func (t *Tracker) Subscribers() []Subscriber {
	return append([]Subscriber(nil), t.subscribers...)
}

// NumTotalItems returns the target item count, or Unknown.
func (t *Tracker) NumTotalItems() int { return t.numTotalItems }

// NumProcessedItems returns the number of items processed across all
// statuses.
func (t *Tracker) NumProcessedItems() int {
	total := 0
	for _, n := range t.numProcessedItems {
		total += n
	}
	return total
}

// NumProcessedItemsByStatus returns the number of items processed with the
// given status, zero if none were.
func (t *Tracker) NumProcessedItemsByStatus(status TickStatus) int {
	return t.numProcessedItems[status]
}

// StartTime returns when the tracker started; zero if it has not.
func (t *Tracker) StartTime() time.Time { return t.startTime }

// LastTick returns the most recently dispatched Tick, or nil.
func (t *Tracker) LastTick() *Tick { return t.lastTick }

// Status returns the lifecycle state.
func (t *Tracker) Status() Status { return t.status }

// IsRunning reports whether the tracker is Running.
func (t *Tracker) IsRunning() bool { return t.status == Running }

// Start moves the tracker to Running and dispatches EventStart with a
// zero-increment Success Tick. Calling Start is optional; the first Tick
// starts the tracker implicitly.
func (t *Tracker) Start(msg string, opts ...TickOption) (*Report, error) {
	if t.status != NotStarted {
		return nil, fmt.Errorf("cannot start tracker in state %s: %w", t.status, ErrAlreadyStarted)
	}

	t.status = Running
	t.startTime = t.clock.Now()
	t.log.V(3).Info("tracker started", "totalItems", t.numTotalItems)

	o := applyTickOptions(opts)
	o.incrementBy = 0
	tick, err := newTick(t, Success, msg, o)
	if err != nil {
		return nil, err
	}
	return t.emit(EventStart, tick)
}

// Tick records the processing of one or more items and dispatches EventTick.
//
// The Tick's Report is computed before the counters are updated; the
// counters are updated before subscribers run.
func (t *Tracker) Tick(status TickStatus, msg string, opts ...TickOption) (*Report, error) {
	if t.status == Finished || t.status == Aborted {
		return nil, fmt.Errorf("cannot tick tracker in state %s: %w", t.status, ErrNotRunning)
	}

	o := applyTickOptions(opts)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(status))
	}
	if o.incrementBy < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIncrement, o.incrementBy)
	}

	if t.status == NotStarted {
		if _, err := t.Start(""); err != nil {
			return nil, err
		}
	}

	tick, err := newTick(t, status, msg, o)
	if err != nil {
		return nil, err
	}
	t.numProcessedItems[tick.Status()] += tick.IncrementBy()
	t.log.V(5).Info("tick",
		"status", tick.Status().String(),
		"incrementBy", tick.IncrementBy(),
		"processed", t.NumProcessedItems(),
	)
	return t.emit(EventTick, tick)
}

// Success is shorthand for Tick(Success, msg, opts...).
func (t *Tracker) Success(msg string, opts ...TickOption) (*Report, error) {
	return t.Tick(Success, msg, opts...)
}

// Fail is shorthand for Tick(Fail, msg, opts...).
func (t *Tracker) Fail(msg string, opts ...TickOption) (*Report, error) {
	return t.Tick(Fail, msg, opts...)
}

// Skip is shorthand for Tick(Skip, msg, opts...).
func (t *Tracker) Skip(msg string, opts ...TickOption) (*Report, error) {
	return t.Tick(Skip, msg, opts...)
}

// Finish moves a Running tracker to Finished and dispatches EventFinish with
// a zero-increment Success Tick.
func (t *Tracker) Finish(msg string, opts ...TickOption) (*Report, error) {
	return t.end(Finished, EventFinish, Success, msg, opts)
}

// Abort moves a Running tracker to Aborted and dispatches EventAbort with a
// zero-increment Fail Tick.
func (t *Tracker) Abort(msg string, opts ...TickOption) (*Report, error) {
	return t.end(Aborted, EventAbort, Fail, msg, opts)
}

func (t *Tracker) end(to Status, event Event, status TickStatus, msg string, opts []TickOption) (*Report, error) {
	if t.status != Running {
		return nil, fmt.Errorf("cannot %s tracker in state %s: %w", strings.TrimPrefix(string(event), "tracker."), t.status, ErrNotRunning)
	}

	o := applyTickOptions(opts)
	o.incrementBy = 0
	tick, err := newTick(t, status, msg, o)
	if err != nil {
		return nil, err
	}
	t.status = to
	t.log.V(3).Info("tracker "+to.String(),
		"processed", t.NumProcessedItems(),
		"elapsed", tick.Report().TimeElapsed(),
	)
	return t.emit(event, tick)
}

// emit dispatches tick and, if every subscriber accepted it, records it as
// the last Tick.
func (t *Tracker) emit(event Event, tick *Tick) (*Report, error) {
	if err := dispatch(t.subscribers, event, tick); err != nil {
		return nil, err
	}
	t.lastTick = tick
	return tick.Report(), nil
}
