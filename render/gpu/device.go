package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ClearFlags uint32

const (
	ClearDontClear ClearFlags = 0
	ClearColor     ClearFlags = 1 << 0
	ClearDepth     ClearFlags = 1 << 1
)

type BlendMode uint32

const (
	BlendOff BlendMode = iota
	BlendAlpha
	BlendAdditive
)

type DepthFunc uint32

const (
	DepthLessOrEqualWriteOn DepthFunc = iota
	DepthLessOrEqualWriteOff
	DepthNoneWriteOff
)

type CullMode uint32

const (
	CullBack CullMode = iota
	CullFront
	CullOff
)

// Uniforms is the per-draw constant block shared by every builtin shader.
// Layout matches the WGSL `Uniforms` struct in render/shaders.
type Uniforms struct {
	ModelViewProjection mgl32.Mat4
	ModelView           mgl32.Mat4
	LocalToWorld        mgl32.Mat4
	LightViewProjection mgl32.Mat4
	Tint                mgl32.Vec4
	Params              mgl32.Vec4
}

// TextureBinding binds a sampleable texture to a named shader slot.
type TextureBinding struct {
	Name    string
	Texture Sampleable
}

// DrawCall is one indexed draw over the face range [StartFace, EndFace).
type DrawCall struct {
	Buffer    *VertexBuffer
	StartFace int
	EndFace   int
	Shader    *Shader
	Blend     BlendMode
	Depth     DepthFunc
	Cull      CullMode
	Uniforms  Uniforms
	Textures  []TextureBinding
}

// Stats holds per-frame counters. They are observable only and never drive rendering decisions.
type Stats struct {
	DrawCalls         int
	RenderTargetBinds int
	Clears            int
	ShaderBinds       int
}

// Logger is the diagnostics sink used by device implementations.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Device is the GPU backend. Calls are made from a single goroutine in frame order;
// any blocking on in-flight GPU work happens inside the implementation.
type Device interface {
	BeginFrame() error
	// SetRenderTarget binds target (nil means the presentation surface). face selects
	// the cube face for cube targets and must be 0 otherwise.
	SetRenderTarget(target *RenderTexture, face int)
	SetClearColor(r, g, b float32)
	ClearScreen(flags ClearFlags)
	Draw(call DrawCall)
	Present() error
	// ErrorCheck reports any backend error raised since the previous check, tagged for diagnostics.
	ErrorCheck(tag string) error
	ResetFrameStatistics()
	Stats() Stats
}
