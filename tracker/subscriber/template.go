package subscriber

import (
	"fmt"
	"io"
	"sync"

	"github.com/cbroglie/mustache"

	"github.com/konveyor/tasktracker/tracker"
	"github.com/konveyor/tasktracker/tracker/format"
)

// Templates holds one mustache template per event. An empty template
// suppresses output for that event.
type Templates struct {
	Start  string `mapstructure:"start" yaml:"start"`
	Tick   string `mapstructure:"tick" yaml:"tick"`
	Finish string `mapstructure:"finish" yaml:"finish"`
	Abort  string `mapstructure:"abort" yaml:"abort"`
}

// DefaultTemplates reproduce the ConsoleLog layout at Verbose.
var DefaultTemplates = Templates{
	Start:  "{{#message}}{{message}}{{/message}}{{^message}}Starting . . .{{/message}}",
	Tick:   "{{statusName}} [{{progress}}] {{elapsed}} ({{numItemsSuccess}}/{{numItemsSkip}}/{{numItemsFail}}) {{message}}",
	Finish: "{{#message}}{{message}}{{/message}}{{^message}}. . . Finished{{/message}}",
	Abort:  "{{#message}}{{message}}{{/message}}{{^message}}Aborted!{{/message}}",
}

// Template renders a mustache template for every event and writes the
// result as one line.
//
// Templates see every report field under its Fields name, plus:
//
//	event            tracker.start, tracker.tick, ...
//	trackerId        the tracker ID
//	statusName       success, fail or skip
//	progress         "processed/total", or "processed" for an Unknown total
//	elapsed          TimeElapsed as MM:SS
//	itemTimeSeconds  ItemTime in seconds, two decimals
//	avgItemSeconds   AvgItemTime in seconds, two decimals
//	memUsageHuman    MemUsage as 12.34MB
//	memPeakHuman     MemPeakUsage as 12.34MB
//
// Values are not HTML escaped.
type Template struct {
	forward
	writer    io.Writer
	templates map[tracker.Event]*mustache.Template
	mu        sync.Mutex
}

// NewTemplate parses t and returns a Template writing to w.
func NewTemplate(w io.Writer, t Templates) (*Template, error) {
	s := &Template{
		writer:    w,
		templates: map[tracker.Event]*mustache.Template{},
	}
	s.forward = s.render

	for event, src := range map[tracker.Event]string{
		tracker.EventStart:  t.Start,
		tracker.EventTick:   t.Tick,
		tracker.EventFinish: t.Finish,
		tracker.EventAbort:  t.Abort,
	} {
		if src == "" {
			continue
		}
		tmpl, err := mustache.ParseStringRaw(src, true)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", event, err)
		}
		s.templates[event] = tmpl
	}
	return s, nil
}

func (s *Template) render(event tracker.Event, tick *tracker.Tick) error {
	tmpl, ok := s.templates[event]
	if !ok {
		return nil
	}
	out, err := tmpl.Render(templateContext(event, tick))
	if err != nil {
		return fmt.Errorf("render %s template: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.writer, out); err != nil {
		return fmt.Errorf("write %s template: %w", event, err)
	}
	return nil
}

func templateContext(event tracker.Event, tick *tracker.Tick) map[string]any {
	r := tick.Report()
	ctx := r.Fields()

	progress := fmt.Sprintf("%d", r.NumItemsProcessed())
	if r.TotalItemCount() != tracker.Unknown {
		progress += fmt.Sprintf("/%d", r.TotalItemCount())
	}

	ctx["event"] = string(event)
	ctx["trackerId"] = r.TrackerID().String()
	ctx["statusName"] = tick.Status().String()
	ctx["progress"] = progress
	ctx["elapsed"] = format.Seconds(r.TimeElapsed())
	ctx["itemTimeSeconds"] = fmt.Sprintf("%.2f", r.ItemTime().Seconds())
	ctx["avgItemSeconds"] = fmt.Sprintf("%.2f", r.AvgItemTime().Seconds())
	ctx["memUsageHuman"] = memory(r.MemUsage())
	ctx["memPeakHuman"] = memory(r.MemPeakUsage())
	return ctx
}
