package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TotalItems(t *testing.T) {
	assert.Equal(t, Unknown, New(Unknown).NumTotalItems())
	assert.Equal(t, 8, New(8).NumTotalItems())
	assert.Equal(t, 0, New(0).NumTotalItems())
	assert.Equal(t, Unknown, New(-5).NumTotalItems())
	assert.Equal(t, Unknown, Build(nil, -2).NumTotalItems())
}

func TestNew_NegativeTotalReportsUnknown(t *testing.T) {
	tr := New(-5)
	r, err := tr.Success("a")
	require.NoError(t, err)
	assert.Equal(t, Unknown, r.TotalItemCount())
}

func TestNew_UniqueIDs(t *testing.T) {
	assert.NotEqual(t, New(Unknown).ID(), New(Unknown).ID())
}

func TestTracker_ProcessedItemsZeroBeforeStart(t *testing.T) {
	tr := New(8)
	assert.Equal(t, 0, tr.NumProcessedItems())
	assert.Equal(t, 0, tr.NumProcessedItemsByStatus(Success))
	assert.False(t, tr.IsRunning())
	assert.True(t, tr.StartTime().IsZero())
}

func TestTracker_ProcessedItemsWhileRunning(t *testing.T) {
	tr := New(12)

	_, err := tr.Start("")
	require.NoError(t, err)
	for i := 1; i <= 12; i++ {
		var status TickStatus
		switch {
		case i <= 3:
			status = Success
		case i <= 6:
			status = Skip
		default:
			status = Fail
		}
		_, err := tr.Tick(status, "")
		require.NoError(t, err)
	}
	_, err = tr.Finish("")
	require.NoError(t, err)

	assert.Equal(t, 12, tr.NumProcessedItems())
	assert.Equal(t, 3, tr.NumProcessedItemsByStatus(Success))
	assert.Equal(t, 3, tr.NumProcessedItemsByStatus(Skip))
	assert.Equal(t, 6, tr.NumProcessedItemsByStatus(Fail))
	assert.Equal(t, Finished, tr.Status())
}

func TestTracker_IncrementBy(t *testing.T) {
	tr := New(Unknown)

	_, err := tr.Success("batch", WithIncrementBy(5))
	require.NoError(t, err)
	_, err = tr.Fail("bad batch", WithIncrementBy(2))
	require.NoError(t, err)
	_, err = tr.Skip("nothing", WithIncrementBy(0))
	require.NoError(t, err)

	assert.Equal(t, 7, tr.NumProcessedItems())
	assert.Equal(t, 5, tr.NumProcessedItemsByStatus(Success))
	assert.Equal(t, 2, tr.NumProcessedItemsByStatus(Fail))
	assert.Equal(t, 0, tr.NumProcessedItemsByStatus(Skip))
}

func TestTracker_TwoItemScenario(t *testing.T) {
	tr := New(2)

	_, err := tr.Tick(Success, "one")
	require.NoError(t, err)
	report, err := tr.Tick(Skip, "two")
	require.NoError(t, err)

	assert.Equal(t, 2, tr.NumProcessedItems())
	assert.Equal(t, 1, tr.NumProcessedItemsByStatus(Success))
	assert.Equal(t, 1, tr.NumProcessedItemsByStatus(Skip))
	assert.Equal(t, 2, report.TotalItemCount())
}

func TestTracker_StartTwice(t *testing.T) {
	tr := New(Unknown)
	_, err := tr.Start("")
	require.NoError(t, err)

	_, err = tr.Start("")
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestTracker_FinishAndAbortBeforeStart(t *testing.T) {
	_, err := New(Unknown).Finish("")
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = New(Unknown).Abort("")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestTracker_TerminalStates(t *testing.T) {
	for _, end := range []struct {
		name   string
		status Status
		call   func(*Tracker) (*Report, error)
	}{
		{"finish", Finished, func(tr *Tracker) (*Report, error) { return tr.Finish("") }},
		{"abort", Aborted, func(tr *Tracker) (*Report, error) { return tr.Abort("") }},
	} {
		t.Run(end.name, func(t *testing.T) {
			tr := New(Unknown)
			_, err := tr.Success("")
			require.NoError(t, err)
			_, err = end.call(tr)
			require.NoError(t, err)
			assert.Equal(t, end.status, tr.Status())

			_, err = tr.Success("")
			assert.ErrorIs(t, err, ErrNotRunning)
			_, err = tr.Start("")
			assert.ErrorIs(t, err, ErrAlreadyStarted)
			_, err = tr.Finish("")
			assert.ErrorIs(t, err, ErrNotRunning)
			_, err = tr.Abort("")
			assert.ErrorIs(t, err, ErrNotRunning)

			assert.Equal(t, end.status, tr.Status())
			assert.Equal(t, 1, tr.NumProcessedItems())
		})
	}
}

func TestTracker_TickAutoStarts(t *testing.T) {
	rec := &recordingSubscriber{}
	tr := New(Unknown, WithSubscribers(rec))

	_, err := tr.Success("first")
	require.NoError(t, err)

	assert.True(t, tr.IsRunning())
	assert.False(t, tr.StartTime().IsZero())
	assert.Equal(t, []Event{EventStart, EventTick}, rec.events())
}

func TestTracker_InvalidTickHasNoSideEffects(t *testing.T) {
	rec := &recordingSubscriber{}
	tr := New(Unknown, WithSubscribers(rec))

	_, err := tr.Tick(TickStatus(9), "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = tr.Success("", WithIncrementBy(-3))
	assert.ErrorIs(t, err, ErrInvalidIncrement)

	assert.Equal(t, NotStarted, tr.Status())
	assert.Empty(t, rec.ticks)
}

func TestTracker_ReturnsReports(t *testing.T) {
	tr := New(Unknown)
	for i := 0; i < 3; i++ {
		report, err := tr.Success("")
		require.NoError(t, err)
		require.NotNil(t, report)
	}

	report, err := tr.Abort("stop")
	require.NoError(t, err)
	assert.Equal(t, Fail, report.Status())
	assert.Equal(t, 0, report.IncrementBy())
	assert.Equal(t, "stop", report.Message())
	assert.Equal(t, 3, report.NumItemsProcessed())
	assert.Same(t, report.Tick(), tr.LastTick())
}

func TestTracker_EventDispatch(t *testing.T) {
	rec := &recordingSubscriber{}
	tr := New(Unknown)
	tr.AddSubscriber(rec)

	_, err := tr.Tick(Success, "msg1")
	require.NoError(t, err)
	_, err = tr.Tick(Success, "msg2")
	require.NoError(t, err)

	assert.Equal(t, []string{"msg1", "msg2"}, rec.messages(EventTick))
}

func TestTracker_FullLifecycleEvents(t *testing.T) {
	rec := &recordingSubscriber{}
	tr := New(2, WithSubscribers(rec))

	_, err := tr.Start("begin", WithIncrementBy(10))
	require.NoError(t, err)
	_, err = tr.Success("a")
	require.NoError(t, err)
	_, err = tr.Fail("b")
	require.NoError(t, err)
	_, err = tr.Finish("end")
	require.NoError(t, err)

	assert.Equal(t, []Event{EventStart, EventTick, EventTick, EventFinish}, rec.events())
	// start ignores WithIncrementBy
	assert.Equal(t, 0, rec.ticks[0].tick.IncrementBy())
	assert.Equal(t, Success, rec.ticks[0].tick.Status())
	assert.Equal(t, Success, rec.ticks[3].tick.Status())
	assert.Equal(t, 0, rec.ticks[3].tick.IncrementBy())
}

func TestTracker_CountersUpdatedBeforeDispatch(t *testing.T) {
	rec := &recordingSubscriber{}
	tr := New(Unknown, WithSubscribers(rec))

	_, err := tr.Success("", WithIncrementBy(2))
	require.NoError(t, err)
	_, err = tr.Success("", WithIncrementBy(3))
	require.NoError(t, err)

	require.Len(t, rec.ticks, 3)
	assert.Equal(t, 0, rec.ticks[0].processed)
	assert.Equal(t, 2, rec.ticks[1].processed)
	assert.Equal(t, 5, rec.ticks[2].processed)
}

func TestTracker_DispatchOrder(t *testing.T) {
	order := []string{}
	first := &recordingSubscriber{name: "first", order: &order}
	second := &recordingSubscriber{name: "second", order: &order}
	third := &recordingSubscriber{name: "third", order: &order}

	tr := Build([]Subscriber{first, second}, Unknown)
	tr.AddSubscriber(third)

	_, err := tr.Success("")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"first", "second", "third", // start
		"first", "second", "third", // tick
	}, order)
}

func TestTracker_SubscriberErrorStopsDispatch(t *testing.T) {
	order := []string{}
	first := &recordingSubscriber{name: "first", order: &order}
	failing := &recordingSubscriber{name: "failing", order: &order, failOn: EventTick, failErr: errBoom}
	last := &recordingSubscriber{name: "last", order: &order}
	tr := New(Unknown, WithSubscribers(first, failing, last))

	_, err := tr.Start("")
	require.NoError(t, err)
	startTick := tr.LastTick()
	order = order[:0]

	report, err := tr.Success("item")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, errBoom))
	assert.Contains(t, err.Error(), string(EventTick))

	assert.Equal(t, []string{"first", "failing"}, order)
	assert.Empty(t, last.messages(EventTick))
	// the counter was already folded in; the last tick was not replaced
	assert.Equal(t, 1, tr.NumProcessedItems())
	assert.Same(t, startTick, tr.LastTick())
}

func TestTracker_SubscriberFuncs(t *testing.T) {
	var finished []string
	tr := New(Unknown, WithSubscribers(SubscriberFuncs{
		Finish: func(tick *Tick) error {
			finished = append(finished, tick.Message())
			return nil
		},
	}))

	_, err := tr.Success("")
	require.NoError(t, err)
	_, err = tr.Finish("done")
	require.NoError(t, err)

	assert.Equal(t, []string{"done"}, finished)
}

func TestTracker_NoopSubscriberEmbedding(t *testing.T) {
	type tickCounter struct {
		NoopSubscriber
	}
	tr := New(Unknown, WithSubscribers(tickCounter{}))

	_, err := tr.Success("")
	require.NoError(t, err)
	_, err = tr.Abort("")
	require.NoError(t, err)
}

func TestHandle_UnknownEvent(t *testing.T) {
	err := Handle(NoopSubscriber{}, Event("tracker.pause"), nil)
	assert.Error(t, err)
}

func TestTracker_StartTimeSetOnce(t *testing.T) {
	clock := newManualClock()
	tr := New(Unknown, WithClock(clock))
	started := clock.Now()

	_, err := tr.Start("")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = tr.Success("")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = tr.Finish("")
	require.NoError(t, err)

	assert.Equal(t, started, tr.StartTime())
}
