package subscriber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konveyor/tasktracker/tracker"
)

func TestLatest(t *testing.T) {
	l := NewLatest()
	_, ok := l.Get()
	assert.False(t, ok)

	tr, _ := newTracker(10, l)
	_, err := tr.Success("a", tracker.WithIncrementBy(3))
	require.NoError(t, err)

	n, ok := l.Get()
	require.True(t, ok)
	assert.Equal(t, tracker.EventTick, n.Event)
	assert.Equal(t, tr.ID(), n.TrackerID)
	assert.Equal(t, 3, n.Snapshot.NumItemsProcessed)
	assert.Equal(t, 10, n.Snapshot.TotalItemCount)

	_, err = tr.Finish("done")
	require.NoError(t, err)
	n, _ = l.Get()
	assert.Equal(t, tracker.EventFinish, n.Event)
	assert.Equal(t, "done", n.Snapshot.Message)
}
