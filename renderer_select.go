package lumen

import "fmt"

// RendererName identifies a concrete renderer module.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererHeadless RendererName = "headless"
)

// Renderer is a Module that provides the RenderDevice resource.
type Renderer interface {
	Module
}

// RendererTag records which renderer owns the render device.
type RendererTag struct {
	Name RendererName
}

// claimRenderer registers name as the app's renderer. A second, different
// renderer panics; re-selecting the same one is allowed.
func (app *App) claimRenderer(name RendererName) {
	tag, ok := Resource[RendererTag](app)
	if !ok {
		app.addResources(&RendererTag{Name: name})
		return
	}
	if tag.Name != name {
		msg := fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name)
		app.Logger().Errorf("%s", msg)
		panic(msg)
	}
}

// UseRenderer installs exactly one renderer module.
// Usage:
//
//	app.UseRenderer(RendererWGPU, ClientModule{})
func (app *App) UseRenderer(name RendererName, mod Renderer) *App {
	app.claimRenderer(name)
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// UseWGPU selects the wgpu renderer with a window of the given size.
func (app *App) UseWGPU(width, height int, title string, vsync bool) *App {
	return app.UseRenderer(RendererWGPU, ClientModule{
		WindowWidth:  width,
		WindowHeight: height,
		WindowTitle:  title,
		VSync:        vsync,
	})
}

// UseHeadless selects the recording renderer. frames > 0 stops the app after
// that many frames.
func (app *App) UseHeadless(frames int) *App {
	return app.UseRenderer(RendererHeadless, HeadlessModule{Frames: frames})
}
