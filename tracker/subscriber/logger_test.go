package subscriber

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konveyor/tasktracker/tracker"
)

func TestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	l := NewLogger(log)
	tr, _ := newTracker(2, l)

	_, err := tr.Start("")
	require.NoError(t, err)
	_, err = tr.Success("a")
	require.NoError(t, err)
	_, err = tr.Fail("")
	require.NoError(t, err)
	_, err = tr.Abort("")
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)

	want := []struct {
		level   logrus.Level
		message string
	}{
		{logrus.InfoLevel, "Started"},
		{logrus.InfoLevel, "[1/2] a"},
		{logrus.WarnLevel, "[2/2] Tick"},
		{logrus.WarnLevel, "Aborted"},
	}
	for i, w := range want {
		assert.Equal(t, w.level, entries[i].Level, w.message)
		assert.Equal(t, w.message, entries[i].Message)
		assert.Equal(t, tr.ID().String(), entries[i].Data["tracker"])
	}

	assert.Equal(t, 1, entries[1].Data[tracker.FieldNumItemsSuccess])
	assert.Equal(t, tracker.Fail, entries[2].Data[tracker.FieldStatus])
	assert.Same(t, log, l.FieldLogger())
}

func TestLogger_FinishAndUnknownTotal(t *testing.T) {
	log, hook := test.NewNullLogger()
	tr, _ := newTracker(tracker.Unknown, NewLogger(log))

	_, err := tr.Skip("")
	require.NoError(t, err)
	_, err = tr.Finish("all done")
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "[1] Tick", entries[1].Message)
	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, "all done", hook.LastEntry().Message)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}
