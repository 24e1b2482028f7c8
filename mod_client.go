package lumen

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/lumen/render/gpu"
)

// RenderDevice is the resource holding the device every renderer provides.
type RenderDevice struct {
	Device gpu.Device
}

// ClientModule opens a glfw window and renders into it through wgpu.
type ClientModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	VSync        bool
}

type clientState struct {
	window *WindowState
	gpu    *GpuState
	device *gpu.WGPUDevice
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	width, height, title := mod.WindowWidth, mod.WindowHeight, mod.WindowTitle
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Lumen"
	}

	window, err := createWindowState(width, height, title)
	if err != nil {
		panic(err)
	}
	gpuState, err := createGpuState(window, mod.VSync)
	if err != nil {
		panic(err)
	}

	logger := app.Logger()
	device, err := gpu.NewWGPUDevice(gpuState.adapter, gpuState.device, gpuState.surface, gpuState.surfaceConfig, logger)
	if err != nil {
		panic(err)
	}
	logger.Infof("Created window %dx%d '%s' (vsync=%v)", window.WindowWidth, window.WindowHeight, title, mod.VSync)

	cmd.AddResources(
		window,
		&RenderDevice{Device: device},
		&clientState{window: window, gpu: gpuState, device: device},
	)

	app.UseSystem(
		System(windowEventsSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(clientShutdownSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func windowEventsSystem(state *clientState, cmd *Commands) {
	glfw.PollEvents()
	if state.window.ShouldClose() {
		cmd.Exit()
		return
	}
	if state.window.resized {
		state.window.resized = false
		if err := state.device.Resize(state.window.WindowWidth, state.window.WindowHeight); err != nil {
			cmd.app.Logger().Errorf("Failed to resize surface: %v", err)
		}
	}
}

func clientShutdownSystem(state *clientState, cmd *Commands) {
	if !cmd.app.exitRequested {
		return
	}
	state.device.Release()
	state.gpu.Release()
	state.window.Destroy()
}
