package subscriber

import (
	"sync"

	"github.com/konveyor/tasktracker/tracker"
)

// Latest remembers the most recent Notification so that another goroutine,
// such as an HTTP handler, can poll it.
type Latest struct {
	forward
	mu   sync.RWMutex
	last Notification
	ok   bool
}

// NewLatest creates an empty Latest.
func NewLatest() *Latest {
	l := &Latest{}
	l.forward = l.store
	return l
}

func (l *Latest) store(event tracker.Event, tick *tracker.Tick) error {
	n := NewNotification(event, tick)
	l.mu.Lock()
	l.last, l.ok = n, true
	l.mu.Unlock()
	return nil
}

// Get returns the last Notification, and false if no event was seen yet.
func (l *Latest) Get() (Notification, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last, l.ok
}
