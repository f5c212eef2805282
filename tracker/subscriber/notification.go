package subscriber

import (
	"github.com/google/uuid"

	"github.com/konveyor/tasktracker/tracker"
)

// Notification is a detached copy of one tracker event. It holds no
// reference to the Tracker and is safe to hand to another goroutine.
type Notification struct {
	Event     tracker.Event    `json:"event" yaml:"event"`
	TrackerID uuid.UUID        `json:"trackerId" yaml:"trackerId"`
	Snapshot  tracker.Snapshot `json:"report" yaml:"report"`
}

// NewNotification copies the event and the tick's report.
func NewNotification(event tracker.Event, tick *tracker.Tick) Notification {
	report := tick.Report()
	return Notification{
		Event:     event,
		TrackerID: report.TrackerID(),
		Snapshot:  report.Snapshot(),
	}
}

// forward adapts a per-event handler to the four Subscriber methods.
type forward func(event tracker.Event, tick *tracker.Tick) error

func (f forward) OnStart(tick *tracker.Tick) error  { return f(tracker.EventStart, tick) }
func (f forward) OnTick(tick *tracker.Tick) error   { return f(tracker.EventTick, tick) }
func (f forward) OnFinish(tick *tracker.Tick) error { return f(tracker.EventFinish, tick) }
func (f forward) OnAbort(tick *tracker.Tick) error  { return f(tracker.EventAbort, tick) }
