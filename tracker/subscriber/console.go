package subscriber

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/konveyor/tasktracker/tracker"
	"github.com/konveyor/tasktracker/tracker/format"
)

// Verbosity controls how much detail the console subscribers print.
type Verbosity int

const (
	// Normal prints progress counts and the message.
	Normal Verbosity = iota
	// Verbose adds elapsed time and per-status counts.
	Verbose
	// VeryVerbose adds memory usage.
	VeryVerbose
)

// DefaultPrefixes are the line prefixes ConsoleLog uses per tick status.
var DefaultPrefixes = map[tracker.TickStatus]string{
	tracker.Success: "SUCC»",
	tracker.Fail:    "FAIL»",
	tracker.Skip:    "SKIP»",
}

// ConsoleLog writes one plain text line per tracker event.
//
// Tick lines are laid out as
//
//	PREFIX [processed/total] [elapsed (success/skip/fail)] [{mem/peak}] message
//
// where the total is left out for trackers with an Unknown total, the
// bracketed middle segments depend on the Verbosity, and an empty message is
// replaced by "Processing item N".
//
// Example output at Verbose:
//
//	Starting . . .
//	SUCC» [1/3] 00:01 (1/0/0) parsed a.txt
//	FAIL» [2/3] 00:02 (1/0/1) b.txt: permission denied
//	SKIP» [3/3] 00:02 (1/1/1) Processing item 3
//	. . . Finished
type ConsoleLog struct {
	writer    io.Writer
	verbosity Verbosity
	prefixes  map[tracker.TickStatus]string
	mu        sync.Mutex
}

// ConsoleLogOption configures a ConsoleLog.
type ConsoleLogOption func(*ConsoleLog)

// WithPrefix replaces the line prefix for one tick status.
func WithPrefix(status tracker.TickStatus, prefix string) ConsoleLogOption {
	return func(c *ConsoleLog) {
		c.prefixes[status] = prefix
	}
}

// WithPrefixes replaces the line prefixes for every status present in m.
func WithPrefixes(m map[tracker.TickStatus]string) ConsoleLogOption {
	return func(c *ConsoleLog) {
		for status, prefix := range m {
			c.prefixes[status] = prefix
		}
	}
}

// NewConsoleLog creates a ConsoleLog writing to w.
func NewConsoleLog(w io.Writer, verbosity Verbosity, opts ...ConsoleLogOption) *ConsoleLog {
	c := &ConsoleLog{
		writer:    w,
		verbosity: verbosity,
		prefixes:  make(map[tracker.TickStatus]string, len(DefaultPrefixes)),
	}
	for status, prefix := range DefaultPrefixes {
		c.prefixes[status] = prefix
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConsoleLog) OnStart(tick *tracker.Tick) error {
	return c.writeln(orDefault(tick.Message(), "Starting . . ."))
}

func (c *ConsoleLog) OnTick(tick *tracker.Tick) error {
	return c.writeln(c.tickLine(tick))
}

func (c *ConsoleLog) OnFinish(tick *tracker.Tick) error {
	return c.writeln(orDefault(tick.Message(), ". . . Finished"))
}

func (c *ConsoleLog) OnAbort(tick *tracker.Tick) error {
	return c.writeln(orDefault(tick.Message(), "Aborted!"))
}

func (c *ConsoleLog) tickLine(tick *tracker.Tick) string {
	r := tick.Report()

	segs := []string{c.prefixes[tick.Status()], progressCount(r)}

	if c.verbosity >= Verbose {
		segs = append(segs,
			format.Seconds(r.TimeElapsed()),
			fmt.Sprintf("(%d/%d/%d)", r.NumItemsSuccess(), r.NumItemsSkip(), r.NumItemsFail()),
		)
	}
	if c.verbosity >= VeryVerbose {
		segs = append(segs, fmt.Sprintf("{%s/%s}", memory(r.MemUsage()), memory(r.MemPeakUsage())))
	}

	segs = append(segs, orDefault(tick.Message(),
		"Processing item "+format.Number(int64(r.NumItemsProcessed()))))
	return strings.Join(segs, " ")
}

func (c *ConsoleLog) writeln(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.writer, line); err != nil {
		return fmt.Errorf("write console log: %w", err)
	}
	return nil
}

// progressCount renders "[processed/total]", or "[processed]" when the total
// is Unknown.
func progressCount(r *tracker.Report) string {
	if r.TotalItemCount() == tracker.Unknown {
		return fmt.Sprintf("[%d]", r.NumItemsProcessed())
	}
	return fmt.Sprintf("[%d/%d]", r.NumItemsProcessed(), r.TotalItemCount())
}

func memory(bytes int64) string {
	if bytes == tracker.MemUnavailable {
		return "n/a"
	}
	return format.Bytes(float64(bytes), 2)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
