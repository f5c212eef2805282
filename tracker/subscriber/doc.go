// Package subscriber provides tracker.Subscriber implementations that render
// or forward tracker events.
//
// Console output:
//   - ConsoleLog writes one line per event, with more detail as the
//     Verbosity rises
//   - ProgressBar redraws a single in-place bar, for interactive terminals
//   - Template renders user supplied mustache templates per event
//
// Machine output:
//   - JSON writes newline-delimited JSON, one object per event
//   - Logger forwards events to a logrus.FieldLogger with the report as fields
//   - Prometheus keeps counters, gauges and histograms up to date
//
// Plumbing:
//   - Channel hands detached Notifications to another goroutine
//   - Latest keeps the most recent Notification for polling readers
//   - Throttled wraps another subscriber and drops ticks that arrive faster
//     than a configured interval
//
// Subscribers run synchronously on the goroutine that drives the tracker. The
// ones that may be read from elsewhere (Channel, Latest, Prometheus) are safe
// for concurrent use; the writers guard their output with a mutex so one
// instance may be shared between trackers.
//
// Usage:
//
//	t := tracker.New(len(files), tracker.WithSubscribers(
//	    subscriber.NewConsoleLog(os.Stderr, subscriber.Verbose),
//	))
package subscriber
