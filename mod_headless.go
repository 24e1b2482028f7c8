package lumen

import "github.com/gekko3d/lumen/render/gpu"

// HeadlessModule renders into a gpu.Recorder instead of a window.
type HeadlessModule struct {
	// Frames > 0 requests exit once that many frames have run.
	Frames int
	// KeepHistory keeps every frame's commands on the recorder.
	KeepHistory bool
}

type headlessState struct {
	recorder *gpu.Recorder
	frames   int
	limit    int
}

func (mod HeadlessModule) Install(app *App, cmd *Commands) {
	rec := gpu.NewRecorder()
	rec.KeepHistory = mod.KeepHistory
	cmd.AddResources(
		&RenderDevice{Device: rec},
		&headlessState{recorder: rec, limit: mod.Frames},
	)
	app.UseSystem(
		System(headlessFrameSystem).
			InStage(Finale).
			RunAlways(),
	)
}

// Recorder returns the recording device installed by HeadlessModule.
func (app *App) Recorder() (*gpu.Recorder, bool) {
	s, ok := Resource[headlessState](app)
	if !ok {
		return nil, false
	}
	return s.recorder, true
}

func headlessFrameSystem(state *headlessState, cmd *Commands) {
	state.frames++
	if state.limit > 0 && state.frames >= state.limit {
		cmd.Exit()
	}
}
