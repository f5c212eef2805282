package subscriber

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/konveyor/tasktracker/tracker"
)

const defaultChannelBuffer = 100

// Channel sends a Notification for every tracker event to a buffered Go
// channel, for consumers running on another goroutine.
//
// Sends never block the tracker. When the buffer is full the notification is
// dropped and counted, see Dropped. The channel is closed when the context
// passed to NewChannel is cancelled or Close is called, whichever comes
// first; events after that are ignored.
//
// Example:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	ch := subscriber.NewChannel(ctx)
//
//	go func() {
//	    for n := range ch.Notifications() {
//	        fmt.Println(n.Event, n.Snapshot.NumItemsProcessed)
//	    }
//	}()
//
//	t := tracker.New(tracker.Unknown, tracker.WithSubscribers(ch))
type Channel struct {
	forward
	notifications chan Notification
	done          chan struct{}
	mu            sync.RWMutex
	closed        bool
	closeOnce     sync.Once
	dropped       atomic.Uint64
	log           logr.Logger
}

// ChannelOption configures a Channel.
type ChannelOption func(*channelOptions)

type channelOptions struct {
	buffer int
	log    logr.Logger
}

// WithLogger logs each dropped notification at V(1).
func WithLogger(log logr.Logger) ChannelOption {
	return func(o *channelOptions) {
		o.log = log
	}
}

// WithBufferSize sets the channel capacity. The default is 100.
func WithBufferSize(n int) ChannelOption {
	return func(o *channelOptions) {
		o.buffer = max(n, 0)
	}
}

// NewChannel creates a Channel that closes when ctx is done.
func NewChannel(ctx context.Context, opts ...ChannelOption) *Channel {
	o := channelOptions{
		buffer: defaultChannelBuffer,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Channel{
		notifications: make(chan Notification, o.buffer),
		done:          make(chan struct{}),
		log:           o.log,
	}
	c.forward = c.send

	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()
	return c
}

func (c *Channel) send(event tracker.Event, tick *tracker.Tick) error {
	n := NewNotification(event, tick)

	// the read lock keeps Close from closing the channel mid-send
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil
	}

	select {
	case c.notifications <- n:
	default:
		dropped := c.dropped.Add(1)
		c.log.V(1).Info("tracker notification dropped due to slow consumer",
			"event", event,
			"tracker", n.TrackerID,
			"total_dropped", dropped,
		)
	}
	return nil
}

// Notifications returns the receive side of the channel.
func (c *Channel) Notifications() <-chan Notification {
	return c.notifications
}

// Dropped returns how many notifications were dropped because the buffer was
// full.
func (c *Channel) Dropped() uint64 {
	return c.dropped.Load()
}

// Close closes the notification channel. It is safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.notifications)
		close(c.done)
		c.mu.Unlock()
	})
}
