package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/konveyor/tasktracker/tracker"
)

var (
	trackTotal int
	trackInput string
)

const (
	failPrefix = "FAIL "
	skipPrefix = "SKIP "
)

func TrackCmd(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Report one item per input line",
		Long: `Reads lines from stdin, or from --input, and ticks the tracker once per
non-empty line. Lines starting with "FAIL " or "SKIP " are counted with that
status and the prefix is dropped from the message; any other line is a
success. End of input finishes the tracker, a read error aborts it.`,
		Args: cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			run("track", trackTotal, func(ctx context.Context, t *tracker.Tracker) error {
				var in io.Reader = os.Stdin
				if trackInput != "" && trackInput != "-" {
					f, err := os.Open(trackInput)
					if err != nil {
						return fmt.Errorf("open input: %w", err)
					}
					defer f.Close()
					in = f
				}
				return track(ctx, t, in)
			})
		},
	}

	cmd.Flags().IntVar(&trackTotal, "total", tracker.Unknown, "expected number of lines, -1 when unknown")
	cmd.Flags().StringVar(&trackInput, "input", "", "file to read instead of stdin")
	return cmd
}

func track(ctx context.Context, t *tracker.Tracker, in io.Reader) error {
	if _, err := t.Start(""); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	for {
		if err := ctx.Err(); err != nil {
			return abort(t, err)
		}
		select {
		case <-ctx.Done():
			return abort(t, ctx.Err())
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return abort(t, fmt.Errorf("read input: %w", err))
				default:
				}
				_, err := t.Finish("")
				return err
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			status, msg := parseLine(line)
			if _, err := t.Tick(status, msg); err != nil {
				return err
			}
		}
	}
}

// readLines sends each line of in, without its line ending, until EOF, a read
// error or done is closed. A read error is sent on the error channel before
// the line channel is closed. Lines have no length limit.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if line != "" {
				line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
				select {
				case lines <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errc <- err
				}
				return
			}
		}
	}()
	return lines, errc
}

func parseLine(line string) (tracker.TickStatus, string) {
	switch {
	case strings.HasPrefix(line, failPrefix):
		return tracker.Fail, strings.TrimPrefix(line, failPrefix)
	case strings.HasPrefix(line, skipPrefix):
		return tracker.Skip, strings.TrimPrefix(line, skipPrefix)
	default:
		return tracker.Success, line
	}
}

// abort aborts t with cause as the message and returns cause joined with any
// abort failure.
func abort(t *tracker.Tracker, cause error) error {
	if _, err := t.Abort(cause.Error()); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
