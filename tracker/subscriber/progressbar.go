package subscriber

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/konveyor/tasktracker/tracker"
	"github.com/konveyor/tasktracker/tracker/format"
)

const (
	barWidth      = 25
	maxMessageLen = 50
)

// ProgressBar draws the tracker's progress as a single line that is
// redrawn in place with carriage returns.
//
// With a known total the line shows the percentage, a bar of filled (█) and
// empty (░) segments and the item count. With an Unknown total it shows only
// the processed count. The tick message follows, joined with further
// segments as the Verbosity rises:
//
//	42% |██████████░░░░░░░░░░░░░░░| 99/235  b.txt | Processed: 97 | Skipped: 1 | Failed: 1
//
// ProgressBar is meant for terminals. Use ConsoleLog or JSON when the output
// is a pipe or a file.
type ProgressBar struct {
	writer      io.Writer
	verbosity   Verbosity
	mu          sync.Mutex
	lastLineLen int
	// err is the first write error of the event being drawn.
	err error
}

// NewProgressBar creates a ProgressBar writing to w, usually os.Stderr.
func NewProgressBar(w io.Writer, verbosity Verbosity) *ProgressBar {
	return &ProgressBar{
		writer:    w,
		verbosity: verbosity,
	}
}

// OnStart prints the start message, if any, and draws an empty bar.
func (p *ProgressBar) OnStart(tick *tracker.Tick) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = nil
	p.clearLine()
	if tick.Message() != "" {
		p.print(tick.Message(), "\n")
	}
	p.draw(p.line(tick.Report(), ""))
	return p.writeErr()
}

// OnTick redraws the bar.
func (p *ProgressBar) OnTick(tick *tracker.Tick) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = nil
	p.draw(p.line(tick.Report(), p.message(tick)))
	return p.writeErr()
}

// OnFinish leaves the final bar on screen and prints the finish message.
func (p *ProgressBar) OnFinish(tick *tracker.Tick) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = nil
	p.draw(p.line(tick.Report(), ""))
	p.print("\n")
	p.lastLineLen = 0
	if tick.Message() != "" {
		p.print(tick.Message(), "\n")
	}
	return p.writeErr()
}

// OnAbort clears the bar and prints the abort message.
func (p *ProgressBar) OnAbort(tick *tracker.Tick) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = nil
	p.clearLine()
	p.print(orDefault(tick.Message(), "Aborted"), "\n")
	return p.writeErr()
}

func (p *ProgressBar) line(r *tracker.Report, message string) string {
	var line string
	total := r.TotalItemCount()
	if total == tracker.Unknown {
		line = fmt.Sprintf("%s processed", format.Number(int64(r.NumItemsProcessed())))
	} else {
		percent := 100.0
		if total > 0 {
			percent = min(float64(r.NumItemsProcessed())/float64(total)*100.0, 100.0)
		}
		filled := int(float64(barWidth) * percent / 100.0)
		line = fmt.Sprintf("%3d%% |%s%s| %d/%d",
			int(percent),
			strings.Repeat("█", filled),
			strings.Repeat("░", barWidth-filled),
			r.NumItemsProcessed(), total)
	}
	if message != "" {
		line += "  " + message
	}
	return line
}

func (p *ProgressBar) message(tick *tracker.Tick) string {
	r := tick.Report()

	var segs []string
	if msg := tick.Message(); msg != "" {
		if utf8.RuneCountInString(msg) > maxMessageLen {
			msg = string([]rune(msg)[:maxMessageLen-3]) + "..."
		}
		segs = append(segs, msg)
	}
	if p.verbosity >= Verbose {
		segs = append(segs,
			"Processed: "+format.Number(int64(r.NumItemsSuccess())),
			"Skipped: "+format.Number(int64(r.NumItemsSkip())),
			"Failed: "+format.Number(int64(r.NumItemsFail())),
		)
	}
	if p.verbosity >= VeryVerbose {
		segs = append(segs,
			fmt.Sprintf("Avg: %.2fs", r.AvgItemTime().Seconds()),
			fmt.Sprintf("Memory: %s/%s", memory(r.MemUsage()), memory(r.MemPeakUsage())),
		)
	}
	return strings.Join(segs, " | ")
}

func (p *ProgressBar) draw(line string) {
	p.clearLine()
	p.print(line)
	p.lastLineLen = utf8.RuneCountInString(line)
}

// clearLine blanks the current bar, if one is displayed.
func (p *ProgressBar) clearLine() {
	if p.lastLineLen > 0 {
		p.print("\r", strings.Repeat(" ", p.lastLineLen), "\r")
		p.lastLineLen = 0
	}
}

// print writes the strings unless an earlier write of the event failed.
func (p *ProgressBar) print(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.writer, s)
	}
}

func (p *ProgressBar) writeErr() error {
	if p.err != nil {
		return fmt.Errorf("write progress bar: %w", p.err)
	}
	return nil
}
