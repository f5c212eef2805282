package tracker

import "iter"

// Run calls fn once for each item in items and returns the Report of the
// last Tick the tracker dispatched, or nil if it never dispatched one.
//
// fn decides whether and how to tick. Run stops at the first error fn
// returns and hands it back along with the last Report. Run does not start,
// finish or abort the tracker itself.
//
//	report, err := tracker.Run(t, slices.Values(files), func(t *tracker.Tracker, f string) error {
//	    _, err := t.Success(f)
//	    return err
//	})
func Run[T any](t *Tracker, items iter.Seq[T], fn func(t *Tracker, item T) error) (*Report, error) {
	for item := range items {
		if err := fn(t, item); err != nil {
			return lastReport(t), err
		}
	}
	return lastReport(t), nil
}

func lastReport(t *Tracker) *Report {
	if last := t.LastTick(); last != nil {
		return last.Report()
	}
	return nil
}
