package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/core"
	"github.com/gekko3d/lumen/render/gpu"
	"github.com/gekko3d/lumen/render/mesh"
	"github.com/gekko3d/lumen/render/shaders"
)

// Logger is the diagnostics sink for render and load problems.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// AudioListener receives the pose of each perspective screen camera as it renders.
type AudioListener interface {
	SetListener(position, forward mgl32.Vec3)
}

// cubeFaceDirections and cubeFaceUps aim a camera at each cube face, in
// +X, -X, +Y, -Y, +Z, -Z order.
var (
	cubeFaceDirections = [6]mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	cubeFaceUps = [6]mgl32.Vec3{
		{0, -1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}, {0, -1, 0}, {0, -1, 0},
	}
)

const cubeFaceReach = 2000

// Scene owns the registry of entities to render and drives each frame:
// bounds refresh, render-target cameras, then per screen camera a shadow pass
// followed by the color and depth-normals passes.
type Scene struct {
	device   gpu.Device
	logger   Logger
	listener AudioListener

	entities []*core.Entity
	aabb     core.AABB
	skybox   *gpu.TextureCube
	skyMesh  *mesh.Mesh
	globals  *core.MaterialGlobals

	// shadowCamera is created on the first shadow-casting light and re-aimed
	// for every caster, one after another.
	shadowCamera *core.Entity
}

func New(device gpu.Device, logger Logger) *Scene {
	return &Scene{
		device:  device,
		logger:  logger,
		aabb:    core.EmptyAABB(),
		globals: core.NewMaterialGlobals(),
	}
}

func (s *Scene) SetAudioListener(l AudioListener) { s.listener = l }
func (s *Scene) Device() gpu.Device               { return s.device }
func (s *Scene) Globals() *core.MaterialGlobals   { return s.globals }

// Add registers e once; adding it again is a no-op.
func (s *Scene) Add(e *core.Entity) {
	if e == nil {
		return
	}
	for _, existing := range s.entities {
		if existing == e {
			return
		}
	}
	s.entities = append(s.entities, e)
}

// Remove drops e from the registry. The entity itself is left intact.
func (s *Scene) Remove(e *core.Entity) {
	for i, existing := range s.entities {
		if existing == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return
		}
	}
}

// Entities returns the registered entities in insertion order.
func (s *Scene) Entities() []*core.Entity {
	out := make([]*core.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// AABB returns the world bounds computed by the last Render or RefreshAABB.
func (s *Scene) AABB() core.AABB { return s.aabb }

func (s *Scene) SetSkybox(sky *gpu.TextureCube) {
	s.skybox = sky
	if sky != nil && s.skyMesh == nil {
		s.skyMesh = mesh.Cube(1)
	}
}

// ShadowCamera returns nil until a shadow-casting light has been rendered.
func (s *Scene) ShadowCamera() *core.Entity { return s.shadowCamera }

// RefreshAABB recomputes the world bounds of every entity with both a mesh
// renderer and a transform. A renderer without a mesh contributes a unit cube.
func (s *Scene) RefreshAABB() {
	box := core.EmptyAABB()
	for _, e := range s.entities {
		if e.MeshRenderer == nil || e.Transform == nil {
			continue
		}
		local := core.UnitAABB()
		if m := e.MeshRenderer.Mesh(); m != nil {
			local = core.AABB{Min: m.AABBMin, Max: m.AABBMax}
		}
		box = box.Union(local.Transformed(e.Transform.ObjectToWorld()))
	}
	s.aabb = box
}

// Render draws one frame.
func (s *Scene) Render() error {
	if err := s.device.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	s.RefreshAABB()
	s.device.ResetFrameStatistics()
	for _, e := range s.entities {
		if e.Transform != nil {
			e.Transform.UpdateLocalMatrix()
		}
	}

	rtCameras, screenCameras := s.partitionCameras()

	for _, e := range rtCameras {
		if !e.Camera.TargetTexture.IsCube() {
			s.renderWithCamera(e, 0)
			continue
		}
		t := e.Transform
		saved := t.Rotation
		for face := 0; face < 6; face++ {
			t.LookAt(t.Position, t.Position.Add(cubeFaceDirections[face].Mul(cubeFaceReach)), cubeFaceUps[face])
			s.renderWithCamera(e, face)
		}
		t.Rotation = saved
	}

	for _, e := range screenCameras {
		if s.listener != nil && e.Camera.ProjectionType() == core.Perspective {
			s.listener.SetListener(e.Transform.Position, e.Transform.ViewDirection())
		}
		s.renderShadows(e)
		s.renderWithCamera(e, 0)
	}

	if err := s.device.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// partitionCameras splits cameras with a transform into render-target cameras
// (insertion order) and screen cameras (stable by RenderOrder).
func (s *Scene) partitionCameras() (rt, screen []*core.Entity) {
	for _, e := range s.entities {
		if e.Camera == nil || e.Transform == nil {
			continue
		}
		if e.Camera.TargetTexture != nil {
			rt = append(rt, e)
		} else {
			screen = append(screen, e)
		}
	}
	sort.SliceStable(screen, func(i, j int) bool {
		return screen[i].Camera.RenderOrder < screen[j].Camera.RenderOrder
	})
	return rt, screen
}

func (s *Scene) ensureShadowCamera() *core.Entity {
	if s.shadowCamera == nil {
		e := core.NewEntity("shadow camera")
		e.Camera = core.NewCamera()
		e.Camera.ClearColor = mgl32.Vec3{1, 1, 1}
		e.Transform = core.NewTransform()
		s.shadowCamera = e
	}
	return s.shadowCamera
}

// renderShadows renders every shadow-casting light as seen from the screen
// camera eye. Casters are not filtered by the eye camera's layer mask.
func (s *Scene) renderShadows(eye *core.Entity) {
	for _, e := range s.entities {
		if e.Transform == nil {
			continue
		}
		dir := e.DirectionalLight
		spot := e.SpotLight
		dirCasts := dir != nil && dir.CastsShadow()
		spotCasts := spot != nil && spot.CastsShadow()
		if !dirCasts && !spotCasts {
			continue
		}

		eyeFrustum := eye.MustCamera().Frustum(eye.MustTransform())
		sc := s.ensureShadowCamera()

		var target *gpu.RenderTexture
		if dirCasts {
			target = dir.ShadowMap()
			sc.Camera.TargetTexture = target
			FitDirectional(e.Transform.ViewDirection(), &eyeFrustum, s.aabb, sc.Camera, sc.Transform)
		} else {
			target = spot.ShadowMap()
			sc.Camera.TargetTexture = target
			FitSpot(e.Transform.Position, e.Transform.ViewDirection(), sc.Camera, sc.Transform)
		}

		s.renderShadowsWithCamera(sc)
		s.globals.SetTexture(core.GlobalShadowMap, target)
	}
}

func (s *Scene) renderShadowsWithCamera(e *core.Entity) {
	cam := e.MustCamera()
	t := e.MustTransform()

	s.device.SetRenderTarget(cam.TargetTexture, 0)
	s.device.SetClearColor(cam.ClearColor.X(), cam.ClearColor.Y(), cam.ClearColor.Z())
	if cam.ClearFlag == core.ClearDepthAndColor {
		s.device.ClearScreen(gpu.ClearColor | gpu.ClearDepth)
	}

	view := t.ViewMatrix()
	projection := cam.Projection()
	s.globals.SetMatrix(core.GlobalLightViewProjection, projection.Mul4(view))

	frustum := cam.Frustum(t)
	var casters []*core.Entity
	for _, c := range s.entities {
		if c.MeshRenderer != nil && c.MeshRenderer.Mesh() != nil && c.Transform != nil {
			casters = append(casters, c)
		}
	}
	groupByMesh(casters)
	s.drawMeshes(casters, view, projection, &frustum, shaders.Moments)

	s.check("Scene render shadows end")
}

func (s *Scene) renderWithCamera(e *core.Entity, face int) {
	if face < 0 || face >= 6 {
		panic(fmt.Sprintf("invalid cube map face %d", face))
	}
	cam := e.MustCamera()
	t := e.MustTransform()

	s.device.SetClearColor(cam.ClearColor.X(), cam.ClearColor.Y(), cam.ClearColor.Z())
	s.device.SetRenderTarget(cam.TargetTexture, face)
	s.device.ClearScreen(cam.ClearFlag.DeviceFlags())

	projection := cam.Projection()
	if s.skybox != nil {
		s.renderSkybox(projection.Mul4(t.RotationViewMatrix()))
	}

	view := t.ViewMatrix()
	frustum := cam.Frustum(t)

	var meshes []*core.Entity
	for _, o := range s.entities {
		if !o.VisibleTo(cam.LayerMask) {
			continue
		}
		model := mgl32.Ident4()
		if o.Transform != nil {
			model = o.Transform.LocalMatrix()
		}
		if o.SpriteRenderer != nil {
			o.SpriteRenderer.Render(s.device, projection.Mul4(model))
		}
		if o.TextRenderer != nil {
			o.TextRenderer.Render(s.device, projection.Mul4(model))
		}
		if o.MeshRenderer != nil && o.MeshRenderer.Mesh() != nil && o.Transform != nil {
			meshes = append(meshes, o)
		}
	}
	groupByMesh(meshes)
	s.drawMeshes(meshes, view, projection, &frustum, nil)
	s.check("Scene render after rendering")

	if cam.DepthNormalsTexture == nil {
		return
	}
	s.device.SetRenderTarget(cam.DepthNormalsTexture, face)
	s.device.ClearScreen(gpu.ClearColor | gpu.ClearDepth)
	s.drawMeshes(meshes, view, projection, &frustum, shaders.DepthNormals)
	s.device.SetRenderTarget(nil, 0)
	s.check("Scene render end")
}

func (s *Scene) renderSkybox(viewProjection mgl32.Mat4) {
	sm := &s.skyMesh.SubMeshes[0]
	s.device.Draw(gpu.DrawCall{
		Buffer:    sm.Buffer,
		StartFace: 0,
		EndFace:   sm.Buffer.FaceCount(),
		Shader:    shaders.Skybox,
		Blend:     gpu.BlendOff,
		Depth:     gpu.DepthNoneWriteOff,
		Cull:      gpu.CullFront,
		Uniforms: gpu.Uniforms{
			ModelViewProjection: viewProjection,
			ModelView:           mgl32.Ident4(),
			LocalToWorld:        mgl32.Ident4(),
			LightViewProjection: mgl32.Ident4(),
			Tint:                mgl32.Vec4{1, 1, 1, 1},
		},
		Textures: []gpu.TextureBinding{{Name: shaders.SlotCubemap, Texture: s.skybox}},
	})
}

func (s *Scene) drawMeshes(list []*core.Entity, view, projection mgl32.Mat4, frustum *core.Frustum, override *gpu.Shader) {
	for _, o := range list {
		model := o.Transform.LocalMatrix()
		mv := view.Mul4(model)
		o.MeshRenderer.Render(s.device, core.DrawParams{
			ModelView:           mv,
			ModelViewProjection: projection.Mul4(mv),
			LocalToWorld:        model,
			Frustum:             frustum,
			Override:            override,
			Globals:             s.globals,
		})
	}
}

func (s *Scene) check(tag string) {
	if err := s.device.ErrorCheck(tag); err != nil && s.logger != nil {
		s.logger.Errorf("%s: %v", tag, err)
	}
}

// groupByMesh makes entities sharing a mesh contiguous. Groups keep the order
// of their first member and members keep their relative order.
func groupByMesh(list []*core.Entity) {
	first := make(map[*mesh.Mesh]int, len(list))
	for i, e := range list {
		m := e.MeshRenderer.Mesh()
		if _, ok := first[m]; !ok {
			first[m] = i
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return first[list[i].MeshRenderer.Mesh()] < first[list[j].MeshRenderer.Mesh()]
	})
}
