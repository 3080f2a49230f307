package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(v uint16) CaptureFunc {
	return func() (uint16, error) { return v, nil }
}

func TestFlowStartsWaitingWhenUnloaded(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Load())
	assert.Equal(t, StageWaitClear, NewFlow(s).Stage())
}

func TestFlowStartsIdleWhenLoaded(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(900, 300))
	assert.Equal(t, StageNone, NewFlow(s).Stage())
}

func TestFlowTwoPressesStoreBothReferencesInOrder(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Load())
	f := NewFlow(s)

	st, err := f.LongPress(capture(880))
	require.NoError(t, err)
	assert.Equal(t, StageWaitCloudy, st)

	pending, ok := f.PendingClear()
	require.True(t, ok)
	assert.Equal(t, uint16(880), pending)

	st, err = f.LongPress(capture(310))
	require.NoError(t, err)
	assert.Equal(t, StageDone, st)

	rec, ok := s.Record()
	require.True(t, ok)
	assert.Equal(t, Record{ClearRaw: 880, CloudyRaw: 310}, rec)
}

func TestFlowRestartFromDoneRequiresBothCaptures(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(900, 300))
	f := NewFlow(s)

	st, err := f.LongPress(capture(0))
	require.NoError(t, err)
	assert.Equal(t, StageWaitClear, st)
	assert.False(t, s.Loaded())

	_, ok := f.PendingClear()
	assert.False(t, ok, "previous clear value must not be reused")
}

func TestFlowStaysInWaitCloudyOnDegenerateCapture(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Load())
	f := NewFlow(s)

	_, err := f.LongPress(capture(500))
	require.NoError(t, err)

	st, err := f.LongPress(capture(500))
	assert.ErrorIs(t, err, ErrDegenerate)
	assert.Equal(t, StageWaitCloudy, st)
	assert.False(t, s.Loaded())

	// retaking the point with a distinct value completes the flow
	st, err = f.LongPress(capture(200))
	require.NoError(t, err)
	assert.Equal(t, StageDone, st)
}

func TestFlowResetDiscardsStagedClear(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Load())
	f := NewFlow(s)

	_, err := f.LongPress(capture(700))
	require.NoError(t, err)
	require.Equal(t, StageWaitCloudy, f.Stage())

	require.NoError(t, f.Reset())
	assert.Equal(t, StageWaitClear, f.Stage())
	_, ok := f.PendingClear()
	assert.False(t, ok)
}

func TestFlowResetFromLoaded(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(900, 300))
	f := NewFlow(s)

	require.NoError(t, f.Reset())
	assert.Equal(t, StageWaitClear, f.Stage())
	assert.False(t, s.Loaded())
}

func TestFlowPropagatesCaptureError(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Load())
	f := NewFlow(s)

	st, err := f.LongPress(func() (uint16, error) { return 0, assert.AnError })
	assert.Error(t, err)
	assert.Equal(t, StageWaitClear, st)
}
