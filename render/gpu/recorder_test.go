package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordFrame(t *testing.T, r *Recorder) {
	t.Helper()
	require.NoError(t, r.BeginFrame())
	r.SetRenderTarget(nil, 0)
	r.ClearScreen(ClearColor | ClearDepth)
	r.Draw(DrawCall{})
	require.NoError(t, r.Present())
}

func TestRecorderKeepsOnlyCurrentFrame(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < 100; i++ {
		recordFrame(t, r)
		require.Len(t, r.Commands, 5, "frame %d", i)
	}
	assert.Equal(t, CmdBeginFrame, r.Commands[0].Kind)
	assert.Len(t, r.Of(CmdPresent), 1)
}

func TestRecorderKeepHistory(t *testing.T) {
	r := NewRecorder()
	r.KeepHistory = true
	for i := 0; i < 3; i++ {
		recordFrame(t, r)
	}
	assert.Len(t, r.Commands, 15)
	assert.Len(t, r.Of(CmdBeginFrame), 3)

	r.Reset()
	assert.Empty(t, r.Commands)
}
