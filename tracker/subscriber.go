package tracker

import "fmt"

// Event identifies which Tracker operation produced a Tick.
type Event string

const (
	// EventStart is dispatched by Start, including the implicit start of the
	// first Tick.
	EventStart Event = "tracker.start"

	// EventTick is dispatched by Tick.
	EventTick Event = "tracker.tick"

	// EventFinish is dispatched by Finish.
	EventFinish Event = "tracker.finish"

	// EventAbort is dispatched by Abort.
	EventAbort Event = "tracker.abort"
)

// Events lists every Event in lifecycle order.
var Events = []Event{EventStart, EventTick, EventFinish, EventAbort}

// Subscriber receives Ticks from a Tracker.
//
// Handlers are called synchronously on the goroutine driving the Tracker, in
// registration order. A handler that returns an error stops the dispatch:
// later subscribers do not see the Tick and the error is returned to the
// caller of the Tracker method.
//
// Subscribers that only care about some events can embed NoopSubscriber or
// use SubscriberFuncs.
type Subscriber interface {
	OnStart(tick *Tick) error
	OnTick(tick *Tick) error
	OnFinish(tick *Tick) error
	OnAbort(tick *Tick) error
}

// NoopSubscriber ignores every event. Embed it to implement a subset of
// Subscriber.
type NoopSubscriber struct{}

func (NoopSubscriber) OnStart(*Tick) error  { return nil }
func (NoopSubscriber) OnTick(*Tick) error   { return nil }
func (NoopSubscriber) OnFinish(*Tick) error { return nil }
func (NoopSubscriber) OnAbort(*Tick) error  { return nil }

// SubscriberFuncs adapts plain functions to Subscriber. Nil fields ignore
// their event.
type SubscriberFuncs struct {
	Start  func(tick *Tick) error
	Tick   func(tick *Tick) error
	Finish func(tick *Tick) error
	Abort  func(tick *Tick) error
}

func (f SubscriberFuncs) OnStart(tick *Tick) error  { return call(f.Start, tick) }
func (f SubscriberFuncs) OnTick(tick *Tick) error   { return call(f.Tick, tick) }
func (f SubscriberFuncs) OnFinish(tick *Tick) error { return call(f.Finish, tick) }
func (f SubscriberFuncs) OnAbort(tick *Tick) error  { return call(f.Abort, tick) }

func call(fn func(*Tick) error, tick *Tick) error {
	if fn == nil {
		return nil
	}
	return fn(tick)
}

// Handle calls the handler of s that matches event.
func Handle(s Subscriber, event Event, tick *Tick) error {
	switch event {
	case EventStart:
		return s.OnStart(tick)
	case EventTick:
		return s.OnTick(tick)
	case EventFinish:
		return s.OnFinish(tick)
	case EventAbort:
		return s.OnAbort(tick)
	}
	return fmt.Errorf("unknown tracker event %q", event)
}

func dispatch(subscribers []Subscriber, event Event, tick *Tick) error {
	for i, s := range subscribers {
		if err := Handle(s, event, tick); err != nil {
			return fmt.Errorf("%s: subscriber %d (%T): %w", event, i, s, err)
		}
	}
	return nil
}
