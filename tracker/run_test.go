package tracker

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tr := Build(nil, 10)

	report, err := Run(tr, slices.Values([]string{"msg1", "msg2"}), func(t *Tracker, item string) error {
		_, err := t.Success(item)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.NumItemsProcessed())
	assert.Equal(t, "msg2", report.Message())
}

func TestRun_StopsOnError(t *testing.T) {
	tr := New(Unknown)
	seen := 0

	report, err := Run(tr, slices.Values([]int{1, 2, 3, 4}), func(t *Tracker, item int) error {
		seen++
		if item == 3 {
			return errBoom
		}
		_, err := t.Success("")
		return err
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 3, seen)
	require.NotNil(t, report)
	assert.Equal(t, 2, report.NumItemsProcessed())
}

func TestRun_NoTicks(t *testing.T) {
	report, err := Run(New(Unknown), slices.Values([]int{1, 2}), func(*Tracker, int) error {
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, report)
}
