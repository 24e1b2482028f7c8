package main

import (
	"flag"
	"path/filepath"
	"runtime"

	"github.com/gekko3d/lumen"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	scenePath := flag.String("scene", "", "Scene file to load")
	width := flag.Int("width", 1280, "Window width in pixels")
	height := flag.Int("height", 720, "Window height in pixels")
	debug := flag.Bool("debug", false, "Enable debug logging and frame statistics")
	vsync := flag.Bool("vsync", true, "Wait for vertical sync when presenting")
	flag.Parse()

	var statsEvery uint64
	if *debug {
		statsEvery = 120
	}

	title := "Lumen"
	root := ""
	if *scenePath != "" {
		title = "Lumen - " + filepath.Base(*scenePath)
		root = filepath.Dir(*scenePath)
	}

	app := lumen.NewAppBuilder().
		UseModule(
			lumen.LoggingModule{Prefix: "lumen", Debug: *debug},
			lumen.TimeModule{},
			lumen.AssetServerModule{Root: root},
		).
		Build()

	app.UseWGPU(*width, *height, title, *vsync)
	app.UseModules(
		lumen.InputModule{},
		lumen.SceneModule{
			ScenePath:  *scenePath,
			ClearColor: [3]float32{0.1, 0.1, 0.12},
			StatsEvery: statsEvery,
		},
		lumen.FlyingCameraModule{},
	)

	app.Run()
}
