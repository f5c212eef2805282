// Package tracker provides progress tracking for long-running batch tasks.
//
// A Tracker owns the cumulative state of one task: the target item count, the
// number of items processed per status, the start time and the most recent
// Tick. Every call to Start, Tick, Finish or Abort builds a Tick, whose Report
// carries derived statistics (elapsed time, item time, min/max/average item
// time, memory usage), and dispatches it synchronously to every registered
// Subscriber in registration order.
//
// Basic usage:
//
//	t := tracker.New(len(items),
//	    tracker.WithSubscribers(subscriber.NewConsoleLog(os.Stderr)),
//	)
//	for _, item := range items {
//	    if err := process(item); err != nil {
//	        t.Fail(err.Error())
//	        continue
//	    }
//	    t.Success(item.Name)
//	}
//	report, err := t.Finish("done")
//
// Tick auto-starts the tracker, so calling Start explicitly is optional.
//
// # Thread Safety
//
// A Tracker is not safe for concurrent use. It is designed to be driven by one
// goroutine; concurrent tasks should each own their own Tracker. Subscribers
// run on the calling goroutine and must finish before the Tracker method
// returns.
package tracker
