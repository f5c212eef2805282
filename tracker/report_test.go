package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_FirstReport(t *testing.T) {
	clock := newManualClock()
	tr := New(Unknown, WithClock(clock))

	report, err := tr.Start("")
	require.NoError(t, err)

	assert.Equal(t, report.TimeElapsed(), report.ItemTime())
	assert.Equal(t, report.ItemTime(), report.MinItemTime())
	assert.Equal(t, report.ItemTime(), report.MaxItemTime())
	assert.Equal(t, clock.Now(), report.TimeStarted())
}

func TestReport_FirstItemTick(t *testing.T) {
	clock := newManualClock()
	tr := New(Unknown, WithClock(clock))
	_, err := tr.Start("")
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	report, err := tr.Success("")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, report.TimeElapsed())
	assert.Equal(t, report.TimeElapsed(), report.ItemTime())
}

func TestReport_ItemTimeBounds(t *testing.T) {
	clock := newManualClock()
	tr := New(Unknown, WithClock(clock))

	steps := []time.Duration{time.Second, 3 * time.Second, 2 * time.Second, 500 * time.Millisecond, 4 * time.Second}
	var reports []*Report
	for _, step := range steps {
		clock.Advance(step)
		report, err := tr.Success("")
		require.NoError(t, err)
		reports = append(reports, report)
	}

	for i, report := range reports {
		if i == 0 {
			// the implicit start tick shares the timestamp of the first tick
			assert.Equal(t, time.Duration(0), report.ItemTime())
			continue
		}
		assert.Equal(t, steps[i], report.ItemTime())
		assert.GreaterOrEqual(t, report.MaxItemTime(), reports[i-1].MaxItemTime())
		assert.LessOrEqual(t, report.MinItemTime(), reports[i-1].MinItemTime())
		assert.GreaterOrEqual(t, report.MaxItemTime(), report.ItemTime())
		assert.LessOrEqual(t, report.MinItemTime(), report.ItemTime())
	}
	assert.Equal(t, 4*time.Second, reports[4].MaxItemTime())
	assert.Equal(t, 3*time.Second, reports[2].MaxItemTime())
}

func TestReport_NewTickReadsChain(t *testing.T) {
	clock := newManualClock()
	tr := New(Unknown, WithClock(clock))
	_, err := tr.Start("")
	require.NoError(t, err)

	// NewTick reads but never records, so it can inspect the chain directly
	clock.Advance(3 * time.Second)
	tick, err := NewTick(tr, Success, "")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, tick.Report().ItemTime())
	assert.Equal(t, 3*time.Second, tick.Report().MaxItemTime())
	assert.Equal(t, time.Duration(0), tick.Report().MinItemTime())
}

func TestReport_AvgItemTime(t *testing.T) {
	clock := newManualClock()
	tr := New(Unknown, WithClock(clock))

	report, err := tr.Start("")
	require.NoError(t, err)
	assert.Equal(t, 0, report.NumItemsProcessed())
	assert.Equal(t, time.Duration(0), report.AvgItemTime())

	clock.Advance(3 * time.Second)
	report, err = tr.Success("", WithIncrementBy(2))
	require.NoError(t, err)
	clock.Advance(4 * time.Second)
	report, err = tr.Success("")
	require.NoError(t, err)

	require.Equal(t, 3, report.NumItemsProcessed())
	want := float64(report.TimeElapsed()) / float64(report.NumItemsProcessed())
	assert.InDelta(t, want, float64(report.AvgItemTime()), 1)
	assert.InDelta(t, float64(7*time.Second)/3, float64(report.AvgItemTime()), 1)
}

func TestReport_AvgItemTimeZeroWhenOnlySkippedZero(t *testing.T) {
	clock := newManualClock()
	tr := New(Unknown, WithClock(clock))
	clock.Advance(time.Second)
	report, err := tr.Skip("", WithIncrementBy(0))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), report.AvgItemTime())
}

func TestReport_LiveCountersFrozenTimes(t *testing.T) {
	clock := newManualClock()
	tr := New(10, WithClock(clock))

	clock.Advance(time.Second)
	first, err := tr.Success("")
	require.NoError(t, err)
	itemTime := first.ItemTime()
	maxItemTime := first.MaxItemTime()

	clock.Advance(5 * time.Second)
	_, err = tr.Fail("")
	require.NoError(t, err)

	// counters delegate to the tracker
	assert.Equal(t, 2, first.NumItemsProcessed())
	assert.Equal(t, 1, first.NumItemsFail())
	// item times were captured when the report was built
	assert.Equal(t, itemTime, first.ItemTime())
	assert.Equal(t, maxItemTime, first.MaxItemTime())
}

func TestReport_Memory(t *testing.T) {
	tr := New(Unknown, WithMemoryProbe(fixedMemory(100, 300, 200)))

	start, err := tr.Start("")
	require.NoError(t, err)
	second, err := tr.Success("")
	require.NoError(t, err)
	third, err := tr.Success("")
	require.NoError(t, err)

	assert.Equal(t, int64(100), start.MemUsage())
	assert.Equal(t, int64(100), start.MemPeakUsage())
	assert.Equal(t, int64(300), second.MemUsage())
	assert.Equal(t, int64(300), second.MemPeakUsage())
	assert.Equal(t, int64(200), third.MemUsage())
	assert.Equal(t, int64(300), third.MemPeakUsage())
}

func TestReport_MemoryUnavailable(t *testing.T) {
	tr := New(Unknown, WithMemoryProbe(NoMemoryProbe))
	report, err := tr.Success("")
	require.NoError(t, err)

	assert.Equal(t, MemUnavailable, report.MemUsage())
	assert.Equal(t, MemUnavailable, report.MemPeakUsage())
}

func TestReport_RuntimeMemoryProbe(t *testing.T) {
	usage, ok := RuntimeMemoryProbe()
	require.True(t, ok)
	assert.Greater(t, usage, uint64(0))
}

func TestReport_FieldsKeys(t *testing.T) {
	report, err := New(25).Success("msg", WithExtraInfo(map[string]any{"foo": "bar"}))
	require.NoError(t, err)

	fields := report.Fields()
	assert.Len(t, fields, len(FieldNames))
	for _, name := range FieldNames {
		assert.Contains(t, fields, name)
	}
	assert.NotContains(t, fields, "report")
	assert.NotContains(t, fields, "tick")
}

func TestReport_FieldsMatchAccessors(t *testing.T) {
	clock := newManualClock()
	tr := New(25, WithClock(clock), WithMemoryProbe(fixedMemory(1024, 4096)))
	_, err := tr.Start("")
	require.NoError(t, err)
	clock.Advance(1500 * time.Millisecond)
	report, err := tr.Fail("msg", WithExtraInfo(map[string]any{"foo": "bar"}), WithIncrementBy(3))
	require.NoError(t, err)

	fields := report.Fields()
	accessors := map[string]any{
		FieldMessage:           report.Message(),
		FieldTimestamp:         report.Timestamp(),
		FieldStatus:            report.Status(),
		FieldIncrementBy:       report.IncrementBy(),
		FieldExtraInfo:         report.ExtraInfo(),
		FieldTimeStarted:       report.TimeStarted(),
		FieldTotalItemCount:    report.TotalItemCount(),
		FieldNumItemsProcessed: report.NumItemsProcessed(),
		FieldTimeElapsed:       report.TimeElapsed(),
		FieldNumItemsSuccess:   report.NumItemsSuccess(),
		FieldNumItemsFail:      report.NumItemsFail(),
		FieldNumItemsSkip:      report.NumItemsSkip(),
		FieldItemTime:          report.ItemTime(),
		FieldMaxItemTime:       report.MaxItemTime(),
		FieldMinItemTime:       report.MinItemTime(),
		FieldAvgItemTime:       report.AvgItemTime(),
		FieldMemUsage:          report.MemUsage(),
		FieldMemPeakUsage:      report.MemPeakUsage(),
	}
	require.Len(t, accessors, len(FieldNames))
	for name, want := range accessors {
		assert.Equal(t, want, fields[name], name)
	}

	assert.Equal(t, 1500*time.Millisecond, fields[FieldItemTime])
	assert.Equal(t, 3, fields[FieldNumItemsFail])
	assert.Equal(t, Fail, fields[FieldStatus])
	assert.Equal(t, int64(4096), fields[FieldMemPeakUsage])
}

func TestReport_SnapshotIsDetached(t *testing.T) {
	tr := New(Unknown)
	report, err := tr.Success("")
	require.NoError(t, err)

	snap := report.Snapshot()
	_, err = tr.Success("")
	require.NoError(t, err)

	assert.Equal(t, 1, snap.NumItemsProcessed)
	assert.Equal(t, 2, report.NumItemsProcessed())
}
