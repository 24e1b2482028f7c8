package lumen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/core"
	"github.com/gekko3d/lumen/render/scene"
)

// FlyingCameraModule steers the first screen camera of the scene with
// WASD, Space/Ctrl and the captured mouse.
type FlyingCameraModule struct {
	Speed       float32
	Sensitivity float32
}

// FlyingCamera is the controller state. Yaw and Pitch are in degrees; zero
// yaw looks down -Z.
type FlyingCamera struct {
	Speed       float32
	Sensitivity float32
	Yaw         float32
	Pitch       float32

	target *core.Entity
}

func (m FlyingCameraModule) Install(app *App, cmd *Commands) {
	fly := &FlyingCamera{Speed: m.Speed, Sensitivity: m.Sensitivity}
	if fly.Speed == 0 {
		fly.Speed = 5.0
	}
	if fly.Sensitivity == 0 {
		fly.Sensitivity = 0.1
	}
	cmd.AddResources(fly)
	app.UseSystem(
		System(flyingCameraSystem).
			InStage(Update).
			RunAlways(),
	)
}

func flyingCameraSystem(input *Input, fly *FlyingCamera, s *scene.Scene, time *Time) {
	if fly.target == nil || fly.target.Transform == nil {
		fly.attach(s)
		if fly.target == nil {
			return
		}
	}

	var move mgl32.Vec3
	if input.Pressed[KeyW] {
		move[2] += 1
	}
	if input.Pressed[KeyS] {
		move[2] -= 1
	}
	if input.Pressed[KeyA] {
		move[0] -= 1
	}
	if input.Pressed[KeyD] {
		move[0] += 1
	}
	if input.Pressed[KeySpace] {
		move[1] += 1
	}
	if input.Pressed[KeyControl] {
		move[1] -= 1
	}
	look := mgl32.Vec2{float32(input.MouseDeltaX), float32(input.MouseDeltaY)}

	fly.Step(fly.target.Transform, move, look, float32(time.Dt.Seconds()))
}

// attach picks the first screen camera and derives yaw and pitch from its
// current orientation.
func (fly *FlyingCamera) attach(s *scene.Scene) {
	for _, e := range s.Entities() {
		if e.Camera == nil || e.Transform == nil || e.Camera.TargetTexture != nil {
			continue
		}
		fly.target = e
		dir := e.Transform.ViewDirection()
		fly.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(dir.Y(), -1, 1)))))
		fly.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(dir.X()), float64(-dir.Z()))))
		return
	}
}

// Step applies one frame of movement. move is (right, up, forward) in -1..1,
// look is the mouse delta in pixels.
func (fly *FlyingCamera) Step(t *core.Transform, move mgl32.Vec3, look mgl32.Vec2, dt float32) {
	fly.Yaw += look[0] * fly.Sensitivity
	fly.Pitch -= look[1] * fly.Sensitivity
	fly.Pitch = mgl32.Clamp(fly.Pitch, -89, 89)

	yawRad := mgl32.DegToRad(fly.Yaw)
	pitchRad := mgl32.DegToRad(fly.Pitch)
	forward := mgl32.Vec3{
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(-math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}.Normalize()
	up := mgl32.Vec3{0, 1, 0}
	right := forward.Cross(up).Normalize()

	dir := right.Mul(move[0]).Add(up.Mul(move[1])).Add(forward.Mul(move[2]))
	if dt > 0 && dir.Len() > 0 {
		t.Position = t.Position.Add(dir.Normalize().Mul(fly.Speed * dt))
	}
	t.LookAt(t.Position, t.Position.Add(forward), up)
}
