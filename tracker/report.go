package tracker

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Report is a read-only statistics snapshot attached to exactly one Tick.
//
// Memory usage and the item time triad (ItemTime, MinItemTime, MaxItemTime)
// are captured once, when the Report is built. Every other accessor reads the
// owning Tick or the Tracker at call time, so counters read during dispatch
// already include the Tick's own increment.
type Report struct {
	tick    *Tick
	tracker *Tracker

	memUsage     int64
	memPeakUsage int64
	itemTime     time.Duration
	minItemTime  time.Duration
	maxItemTime  time.Duration
}

func newReport(tick *Tick, t *Tracker) *Report {
	r := &Report{
		tick:         tick,
		tracker:      t,
		memUsage:     MemUnavailable,
		memPeakUsage: MemUnavailable,
	}

	var prev *Report
	if last := t.LastTick(); last != nil {
		prev = last.Report()
	}

	if usage, ok := t.memProbe(); ok {
		r.memUsage = int64(usage)
		r.memPeakUsage = r.memUsage
	}
	if prev != nil && prev.memPeakUsage > r.memPeakUsage {
		r.memPeakUsage = prev.memPeakUsage
	}

	if prev != nil {
		r.itemTime = tick.Timestamp().Sub(prev.tick.Timestamp())
		r.minItemTime = min(r.itemTime, prev.minItemTime)
		r.maxItemTime = max(r.itemTime, prev.maxItemTime)
	} else {
		r.itemTime = r.TimeElapsed()
		r.minItemTime = r.itemTime
		r.maxItemTime = r.itemTime
	}
	return r
}

// Tick returns the Tick this Report belongs to.
func (r *Report) Tick() *Tick { return r.tick }

// TrackerID returns the ID of the tracker that produced the Tick.
func (r *Report) TrackerID() uuid.UUID { return r.tracker.ID() }

// TimeStarted returns when the tracker started; zero if it has not.
func (r *Report) TimeStarted() time.Time { return r.tracker.StartTime() }

// TotalItemCount returns the tracker's target item count, or Unknown.
func (r *Report) TotalItemCount() int { return r.tracker.NumTotalItems() }

// NumItemsProcessed returns the number of items processed across all statuses.
func (r *Report) NumItemsProcessed() int { return r.tracker.NumProcessedItems() }

// NumItemsSuccess returns the number of items processed successfully.
func (r *Report) NumItemsSuccess() int { return r.tracker.NumProcessedItemsByStatus(Success) }

// NumItemsFail returns the number of items that failed.
func (r *Report) NumItemsFail() int { return r.tracker.NumProcessedItemsByStatus(Fail) }

// NumItemsSkip returns the number of items that were skipped.
func (r *Report) NumItemsSkip() int { return r.tracker.NumProcessedItemsByStatus(Skip) }

// TimeElapsed returns the time between the tracker start and this Tick.
func (r *Report) TimeElapsed() time.Duration {
	started := r.tracker.StartTime()
	if started.IsZero() {
		return 0
	}
	return r.tick.Timestamp().Sub(started)
}

// ItemTime returns the time since the previous Tick, or since the tracker
// started when there is no previous Tick.
func (r *Report) ItemTime() time.Duration { return r.itemTime }

// MinItemTime returns the shortest ItemTime seen so far.
func (r *Report) MinItemTime() time.Duration { return r.minItemTime }

// MaxItemTime returns the longest ItemTime seen so far.
func (r *Report) MaxItemTime() time.Duration { return r.maxItemTime }

// AvgItemTime returns TimeElapsed divided by NumItemsProcessed, or zero when
// nothing has been processed.
func (r *Report) AvgItemTime() time.Duration {
	n := r.NumItemsProcessed()
	if n == 0 {
		return 0
	}
	return time.Duration(float64(r.TimeElapsed()) / float64(n))
}

// Message returns the Tick message.
func (r *Report) Message() string { return r.tick.Message() }

// Timestamp returns the Tick timestamp.
func (r *Report) Timestamp() time.Time { return r.tick.Timestamp() }

// Status returns the Tick status.
func (r *Report) Status() TickStatus { return r.tick.Status() }

// IncrementBy returns the Tick increment.
func (r *Report) IncrementBy() int { return r.tick.IncrementBy() }

// ExtraInfo returns a copy of the Tick extra info.
func (r *Report) ExtraInfo() map[string]any { return r.tick.ExtraInfo() }

// MemUsage returns the process memory usage in bytes when the Report was
// built, or MemUnavailable.
func (r *Report) MemUsage() int64 { return r.memUsage }

// MemPeakUsage returns the highest MemUsage seen so far, or MemUnavailable.
func (r *Report) MemPeakUsage() int64 { return r.memPeakUsage }

// Field names used by Fields and by the JSON and YAML encodings of Snapshot.
const (
	FieldMessage           = "message"
	FieldTimestamp         = "timestamp"
	FieldStatus            = "status"
	FieldIncrementBy       = "incrementBy"
	FieldExtraInfo         = "extraInfo"
	FieldTimeStarted       = "timeStarted"
	FieldTotalItemCount    = "totalItemCount"
	FieldNumItemsProcessed = "numItemsProcessed"
	FieldTimeElapsed       = "timeElapsed"
	FieldNumItemsSuccess   = "numItemsSuccess"
	FieldNumItemsFail      = "numItemsFail"
	FieldNumItemsSkip      = "numItemsSkip"
	FieldItemTime          = "itemTime"
	FieldMaxItemTime       = "maxItemTime"
	FieldMinItemTime       = "minItemTime"
	FieldAvgItemTime       = "avgItemTime"
	FieldMemUsage          = "memUsage"
	FieldMemPeakUsage      = "memPeakUsage"
)

// FieldNames lists every key of Fields, in a stable order.
var FieldNames = []string{
	FieldMessage,
	FieldTimestamp,
	FieldStatus,
	FieldIncrementBy,
	FieldExtraInfo,
	FieldTimeStarted,
	FieldTotalItemCount,
	FieldNumItemsProcessed,
	FieldTimeElapsed,
	FieldNumItemsSuccess,
	FieldNumItemsFail,
	FieldNumItemsSkip,
	FieldItemTime,
	FieldMaxItemTime,
	FieldMinItemTime,
	FieldAvgItemTime,
	FieldMemUsage,
	FieldMemPeakUsage,
}

// Fields flattens the Report into a map keyed by FieldNames. Values keep the
// accessor types (time.Time, time.Duration, int, int64, TickStatus, string).
// The Report and Tick themselves are not included.
func (r *Report) Fields() map[string]any {
	return r.Snapshot().Fields()
}

// Snapshot copies every Report value into a detached Snapshot.
func (r *Report) Snapshot() Snapshot {
	return Snapshot{
		Message:           r.Message(),
		Timestamp:         r.Timestamp(),
		Status:            r.Status(),
		IncrementBy:       r.IncrementBy(),
		ExtraInfo:         r.ExtraInfo(),
		TimeStarted:       r.TimeStarted(),
		TotalItemCount:    r.TotalItemCount(),
		NumItemsProcessed: r.NumItemsProcessed(),
		TimeElapsed:       r.TimeElapsed(),
		NumItemsSuccess:   r.NumItemsSuccess(),
		NumItemsFail:      r.NumItemsFail(),
		NumItemsSkip:      r.NumItemsSkip(),
		ItemTime:          r.ItemTime(),
		MaxItemTime:       r.MaxItemTime(),
		MinItemTime:       r.MinItemTime(),
		AvgItemTime:       r.AvgItemTime(),
		MemUsage:          r.MemUsage(),
		MemPeakUsage:      r.MemPeakUsage(),
	}
}

// Snapshot is a plain copy of a Report's values. Unlike a Report it holds no
// reference to the Tracker, so it can be retained or handed to another
// goroutine. Durations encode as integer nanoseconds in JSON and as
// time.Duration strings ("1.5s") in YAML.
type Snapshot struct {
	Message           string         `json:"message" yaml:"message"`
	Timestamp         time.Time      `json:"timestamp" yaml:"timestamp"`
	Status            TickStatus     `json:"status" yaml:"status"`
	IncrementBy       int            `json:"incrementBy" yaml:"incrementBy"`
	ExtraInfo         map[string]any `json:"extraInfo" yaml:"extraInfo"`
	TimeStarted       time.Time      `json:"timeStarted" yaml:"timeStarted"`
	TotalItemCount    int            `json:"totalItemCount" yaml:"totalItemCount"`
	NumItemsProcessed int            `json:"numItemsProcessed" yaml:"numItemsProcessed"`
	TimeElapsed       time.Duration  `json:"timeElapsed" yaml:"timeElapsed"`
	NumItemsSuccess   int            `json:"numItemsSuccess" yaml:"numItemsSuccess"`
	NumItemsFail      int            `json:"numItemsFail" yaml:"numItemsFail"`
	NumItemsSkip      int            `json:"numItemsSkip" yaml:"numItemsSkip"`
	ItemTime          time.Duration  `json:"itemTime" yaml:"itemTime"`
	MaxItemTime       time.Duration  `json:"maxItemTime" yaml:"maxItemTime"`
	MinItemTime       time.Duration  `json:"minItemTime" yaml:"minItemTime"`
	AvgItemTime       time.Duration  `json:"avgItemTime" yaml:"avgItemTime"`
	MemUsage          int64          `json:"memUsage" yaml:"memUsage"`
	MemPeakUsage      int64          `json:"memPeakUsage" yaml:"memPeakUsage"`
}

// Fields flattens the Snapshot into a map keyed by FieldNames.
func (s Snapshot) Fields() map[string]any {
	return map[string]any{
		FieldMessage:           s.Message,
		FieldTimestamp:         s.Timestamp,
		FieldStatus:            s.Status,
		FieldIncrementBy:       s.IncrementBy,
		FieldExtraInfo:         maps.Clone(s.ExtraInfo),
		FieldTimeStarted:       s.TimeStarted,
		FieldTotalItemCount:    s.TotalItemCount,
		FieldNumItemsProcessed: s.NumItemsProcessed,
		FieldTimeElapsed:       s.TimeElapsed,
		FieldNumItemsSuccess:   s.NumItemsSuccess,
		FieldNumItemsFail:      s.NumItemsFail,
		FieldNumItemsSkip:      s.NumItemsSkip,
		FieldItemTime:          s.ItemTime,
		FieldMaxItemTime:       s.MaxItemTime,
		FieldMinItemTime:       s.MinItemTime,
		FieldAvgItemTime:       s.AvgItemTime,
		FieldMemUsage:          s.MemUsage,
		FieldMemPeakUsage:      s.MemPeakUsage,
	}
}
