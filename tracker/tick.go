package tracker

import (
	"fmt"
	"maps"
	"time"
)

// Tick is a single progress event: one item (or batch of items) processed,
// or a start/finish/abort marker. A Tick is immutable once built.
type Tick struct {
	message     string
	timestamp   time.Time
	status      TickStatus
	incrementBy int
	extraInfo   map[string]any
	report      *Report
}

type tickOptions struct {
	extraInfo   map[string]any
	incrementBy int
}

// TickOption configures optional Tick fields.
type TickOption func(o *tickOptions)

// WithExtraInfo attaches structured data to the Tick, for consumers such as
// structured loggers. The map is copied.
func WithExtraInfo(extra map[string]any) TickOption {
	return func(o *tickOptions) {
		o.extraInfo = maps.Clone(extra)
	}
}

// WithIncrementBy sets how many items the Tick represents. The default is 1.
func WithIncrementBy(n int) TickOption {
	return func(o *tickOptions) {
		o.incrementBy = n
	}
}

func applyTickOptions(opts []TickOption) tickOptions {
	o := tickOptions{incrementBy: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.extraInfo == nil {
		o.extraInfo = map[string]any{}
	}
	return o
}

// NewTick builds a Tick for t and its Report.
//
// The Report is computed from the tracker's state as it is right now, before
// the Tracker folds this Tick's increment into its counters. NewTick never
// modifies t.
func NewTick(t *Tracker, status TickStatus, message string, opts ...TickOption) (*Tick, error) {
	return newTick(t, status, message, applyTickOptions(opts))
}

func newTick(t *Tracker, status TickStatus, message string, o tickOptions) (*Tick, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(status))
	}
	if o.incrementBy < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIncrement, o.incrementBy)
	}
	tick := &Tick{
		message:     message,
		timestamp:   t.clock.Now(),
		status:      status,
		incrementBy: o.incrementBy,
		extraInfo:   o.extraInfo,
	}
	tick.report = newReport(tick, t)
	return tick, nil
}

// Message returns the free-text message, empty if none was given.
func (t *Tick) Message() string { return t.message }

// Timestamp returns when the Tick was built.
func (t *Tick) Timestamp() time.Time { return t.timestamp }

// Status returns the outcome the Tick records.
func (t *Tick) Status() TickStatus { return t.status }

// IncrementBy returns the number of items the Tick represents. It is zero for
// start, finish and abort ticks.
func (t *Tick) IncrementBy() int { return t.incrementBy }

// Report returns the statistics snapshot for this Tick.
func (t *Tick) Report() *Report { return t.report }

// ExtraInfo returns a copy of the structured data attached to the Tick.
func (t *Tick) ExtraInfo() map[string]any { return maps.Clone(t.extraInfo) }
