package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/gpu"
)

type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

func (p ProjectionType) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

type ClearFlag int

const (
	ClearDepthAndColor ClearFlag = iota
	ClearDepthOnly
	ClearNone
)

// DeviceFlags maps the camera clear behavior to device clear bits.
func (c ClearFlag) DeviceFlags() gpu.ClearFlags {
	switch c {
	case ClearDepthAndColor:
		return gpu.ClearColor | gpu.ClearDepth
	case ClearDepthOnly:
		return gpu.ClearDepth
	}
	return gpu.ClearDontClear
}

// clipCorrection remaps OpenGL-style clip depth [-1,1] to the [0,1] range webgpu expects.
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera holds projection parameters and where and how its output is written.
type Camera struct {
	ClearFlag  ClearFlag
	ClearColor mgl32.Vec3
	// TargetTexture is nil for cameras that render to the screen.
	TargetTexture       *gpu.RenderTexture
	DepthNormalsTexture *gpu.RenderTexture
	// RenderOrder sorts screen cameras ascending; ties keep insertion order.
	RenderOrder int
	LayerMask   uint32

	projectionType ProjectionType
	fovDegrees     float32
	aspect         float32
	near           float32
	far            float32
	left           float32
	right          float32
	bottom         float32
	top            float32
}

func NewCamera() *Camera {
	return &Camera{
		ClearFlag:  ClearDepthAndColor,
		ClearColor: mgl32.Vec3{0, 0, 0},
		LayerMask:  0xFFFFFFFF,
		fovDegrees: 45,
		aspect:     1,
		near:       1,
		far:        400,
		left:       0,
		right:      1,
		bottom:     0,
		top:        1,
	}
}

func (c *Camera) SetProjectionType(p ProjectionType) { c.projectionType = p }
func (c *Camera) ProjectionType() ProjectionType     { return c.projectionType }

// SetPerspective sets perspective parameters; the projection type is unchanged.
func (c *Camera) SetPerspective(fovDegrees, aspect, near, far float32) {
	c.fovDegrees = fovDegrees
	c.aspect = aspect
	c.near = near
	c.far = far
}

// SetOrthographic sets orthographic parameters; the projection type is unchanged.
func (c *Camera) SetOrthographic(left, right, bottom, top, near, far float32) {
	c.left = left
	c.right = right
	c.bottom = bottom
	c.top = top
	c.near = near
	c.far = far
}

func (c *Camera) FovDegrees() float32 { return c.fovDegrees }
func (c *Camera) Aspect() float32     { return c.aspect }
func (c *Camera) Near() float32       { return c.near }
func (c *Camera) Far() float32        { return c.far }
func (c *Camera) Left() float32       { return c.left }
func (c *Camera) Right() float32      { return c.right }
func (c *Camera) Bottom() float32     { return c.bottom }
func (c *Camera) Top() float32        { return c.top }

// Projection returns the clip matrix with depth mapped to [0,1].
func (c *Camera) Projection() mgl32.Mat4 {
	var p mgl32.Mat4
	if c.projectionType == Orthographic {
		p = mgl32.Ortho(c.left, c.right, c.bottom, c.top, c.near, c.far)
	} else {
		p = mgl32.Perspective(mgl32.DegToRad(c.fovDegrees), c.aspect, c.near, c.far)
	}
	return clipCorrection.Mul4(p)
}

// Frustum builds the world-space view volume for this camera at t.
func (c *Camera) Frustum(t *Transform) Frustum {
	var f Frustum
	if c.projectionType == Perspective {
		f.SetPerspective(c.fovDegrees, c.aspect, c.near, c.far)
	} else {
		f.SetOrthographic(c.left, c.right, c.bottom, c.top, c.near, c.far)
	}
	f.Update(t.Position, t.ViewDirection())
	return f
}
