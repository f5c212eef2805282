package subscriber

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/konveyor/tasktracker/tracker"
)

// JSON writes every tracker event as one line of newline-delimited JSON.
//
// Each object carries the event name, the tracker ID and the report fields.
// Durations are encoded as nanoseconds.
//
// Example output:
//
//	{"event":"tracker.start","trackerId":"8c0e…","message":"","timestamp":"2024-10-29T17:06:14Z","status":"success",...}
//	{"event":"tracker.tick","trackerId":"8c0e…","message":"a.txt","numItemsProcessed":1,...}
type JSON struct {
	forward
	writer io.Writer
	mu     sync.Mutex
}

type jsonLine struct {
	Event     tracker.Event `json:"event"`
	TrackerID uuid.UUID     `json:"trackerId"`
	tracker.Snapshot
}

// NewJSON creates a JSON subscriber writing to w.
func NewJSON(w io.Writer) *JSON {
	j := &JSON{writer: w}
	j.forward = j.write
	return j
}

func (j *JSON) write(event tracker.Event, tick *tracker.Tick) error {
	report := tick.Report()
	data, err := json.Marshal(jsonLine{
		Event:     event,
		TrackerID: report.TrackerID(),
		Snapshot:  report.Snapshot(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := fmt.Fprintln(j.writer, string(data)); err != nil {
		return fmt.Errorf("write %s event: %w", event, err)
	}
	return nil
}
