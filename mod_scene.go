package lumen

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/core"
	"github.com/gekko3d/lumen/render/scene"
)

// SceneModule installs the *scene.Scene resource and renders it in the Render
// stage. It needs a renderer installed first, and an AssetServerModule when
// ScenePath or Skybox is set.
type SceneModule struct {
	ScenePath string
	// ShadowMapSize is used by lights that enable shadows in the scene file.
	ShadowMapSize int
	// ClearColor is given to the default camera added when the scene has none.
	ClearColor [3]float32
	// Skybox lists six face images in +X, -X, +Y, -Y, +Z, -Z order. Empty means no skybox.
	Skybox [6]string
	// StatsEvery logs frame statistics at debug level every N frames. Zero disables it.
	StatsEvery uint64
}

type sceneState struct {
	statsEvery uint64
	frames     uint64
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	dev, ok := Resource[RenderDevice](app)
	if !ok {
		panic("SceneModule requires a renderer; install ClientModule or HeadlessModule first")
	}

	logger := app.Logger()
	s := scene.New(dev.Device, logger)

	listener, ok := Resource[AudioListener](app)
	if !ok {
		listener = &AudioListener{}
		cmd.AddResources(listener)
	}
	s.SetAudioListener(listener)

	if mod.ScenePath != "" {
		contents, err := mod.load(app, logger)
		if err != nil {
			panic(err)
		}
		for _, e := range contents.Entities {
			s.Add(e)
		}
		logger.Infof("Loaded scene %s: %d entities, %d materials, %d textures",
			mod.ScenePath, len(contents.Entities), len(contents.Materials), len(contents.Textures))
	}

	if mod.Skybox[0] != "" {
		assets, ok := Resource[AssetServer](app)
		if !ok {
			panic("SceneModule skybox requires AssetServerModule")
		}
		sky, err := assets.LoadTextureCube("skybox", mod.Skybox)
		if err != nil {
			panic(err)
		}
		s.SetSkybox(sky)
	}

	if !hasScreenCamera(s) {
		s.Add(mod.defaultCamera())
		logger.Debugf("Scene has no screen camera, added a default one")
	}

	cmd.AddResources(s, &sceneState{statsEvery: mod.StatsEvery})
	app.UseSystem(
		System(sceneRenderSystem).
			InStage(Render).
			RunAlways(),
	)
}

func (mod SceneModule) load(app *App, logger Logger) (*scene.Contents, error) {
	assets, ok := Resource[AssetServer](app)
	if !ok {
		return nil, fmt.Errorf("loading %s: SceneModule requires AssetServerModule", mod.ScenePath)
	}

	f, err := os.Open(mod.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	defer f.Close()

	d := &scene.Deserializer{
		Loader:        assets,
		Logger:        logger,
		ShadowMapSize: mod.ShadowMapSize,
	}
	return d.Deserialize(f, mod.ScenePath)
}

func (mod SceneModule) defaultCamera() *core.Entity {
	e := core.NewEntity("default camera")
	e.Transform = core.NewTransform()
	e.Transform.Position = mgl32.Vec3{0, 0, 10}
	e.Camera = core.NewCamera()
	e.Camera.ClearColor = mgl32.Vec3(mod.ClearColor)
	e.Camera.SetPerspective(45, 16.0/9.0, 0.1, 400)
	return e
}

func hasScreenCamera(s *scene.Scene) bool {
	for _, e := range s.Entities() {
		if e.Camera != nil && e.Transform != nil && e.Camera.TargetTexture == nil {
			return true
		}
	}
	return false
}

func sceneRenderSystem(s *scene.Scene, state *sceneState, cmd *Commands) {
	logger := cmd.app.Logger()
	if err := s.Render(); err != nil {
		logger.Errorf("Scene render failed: %v", err)
		return
	}

	state.frames++
	if state.statsEvery > 0 && state.frames%state.statsEvery == 0 && logger.DebugEnabled() {
		st := s.Device().Stats()
		logger.Debugf("frame %d: %d draws, %d target binds, %d clears, %d shader binds",
			state.frames, st.DrawCalls, st.RenderTargetBinds, st.Clears, st.ShaderBinds)
	}
}
