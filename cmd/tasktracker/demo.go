package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/konveyor/tasktracker/tracker"
)

type demoOptions struct {
	items      int
	delay      time.Duration
	failEvery  int
	skipEvery  int
	abortAfter int
}

var demoOpts demoOptions

func DemoCmd(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a synthetic workload to try out output formats",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			run("demo", demoOpts.items, func(ctx context.Context, t *tracker.Tracker) error {
				return demo(ctx, t, demoOpts)
			})
		},
	}

	cmd.Flags().IntVar(&demoOpts.items, "items", 50, "number of items to process")
	cmd.Flags().DurationVar(&demoOpts.delay, "delay", 100*time.Millisecond, "time spent on each item")
	cmd.Flags().IntVar(&demoOpts.failEvery, "fail-every", 0, "fail every Nth item, 0 never fails")
	cmd.Flags().IntVar(&demoOpts.skipEvery, "skip-every", 0, "skip every Nth item, 0 never skips")
	cmd.Flags().IntVar(&demoOpts.abortAfter, "abort-after", 0, "abort after N items, 0 runs to completion")
	return cmd
}

func demo(ctx context.Context, t *tracker.Tracker, o demoOptions) error {
	if _, err := t.Start("Running demo"); err != nil {
		return err
	}

	for i := 1; i <= o.items; i++ {
		if o.abortAfter > 0 && i > o.abortAfter {
			_, err := t.Abort(fmt.Sprintf("Aborted after %d items", o.abortAfter))
			return err
		}

		select {
		case <-ctx.Done():
			return abort(t, ctx.Err())
		case <-time.After(o.delay):
		}

		status := tracker.Success
		switch {
		case o.failEvery > 0 && i%o.failEvery == 0:
			status = tracker.Fail
		case o.skipEvery > 0 && i%o.skipEvery == 0:
			status = tracker.Skip
		}
		if _, err := t.Tick(status, fmt.Sprintf("item %d", i), tracker.WithExtraInfo(map[string]any{"item": i})); err != nil {
			return err
		}
	}

	_, err := t.Finish("")
	return err
}
