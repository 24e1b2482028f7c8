package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the single interleaved vertex format used by every builtin shader:
// position, texcoord, normal, tangent, color. 64 bytes.
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec4
	Color    mgl32.Vec4
}

const VertexSize = 64

// Face is a triangle of 16-bit indices.
type Face [3]uint16

// VertexBuffer keeps geometry on the CPU side; backends upload it on first use and
// again whenever Version changes.
type VertexBuffer struct {
	Vertices []Vertex
	Faces    []Face
	Version  uint64

	handle any
}

func NewVertexBuffer(vertices []Vertex, faces []Face) *VertexBuffer {
	return &VertexBuffer{Vertices: vertices, Faces: faces, Version: 1}
}

// Update replaces the geometry and marks it for re-upload.
func (vb *VertexBuffer) Update(vertices []Vertex, faces []Face) {
	vb.Vertices = vertices
	vb.Faces = faces
	vb.Version++
}

func (vb *VertexBuffer) FaceCount() int {
	return len(vb.Faces)
}

// Shader is a WGSL program with vs_main/fs_main entry points. TextureSlots lists the
// named textures it samples, in binding order of bind group 1.
type Shader struct {
	Name         string
	Source       string
	TextureSlots []string
	// CubeSlots marks slots sampled as cube textures.
	CubeSlots map[string]bool
	// DepthOnlyColor marks shaders whose color output encodes depth (moments, depth-normals)
	// and therefore need a float color target.
	DepthOnlyColor bool
}

// Sampleable is implemented by every texture kind a shader slot can read.
type Sampleable interface {
	TextureName() string
}

type Texture2D struct {
	Name   string
	Path   string
	Width  int
	Height int
	// Pixels is RGBA8, row-major.
	Pixels []byte

	handle any
}

func NewTexture2D(name string, width, height int, pixels []byte) *Texture2D {
	if len(pixels) != width*height*4 {
		panic(fmt.Sprintf("texture %s: expected %d bytes of RGBA, got %d", name, width*height*4, len(pixels)))
	}
	return &Texture2D{Name: name, Width: width, Height: height, Pixels: pixels}
}

func (t *Texture2D) TextureName() string { return t.Name }

// TextureCube holds six square RGBA8 faces in +X, -X, +Y, -Y, +Z, -Z order.
type TextureCube struct {
	Name  string
	Size  int
	Faces [6][]byte

	handle any
}

func (t *TextureCube) TextureName() string { return t.Name }

type DataType int

const (
	DataTypeUByte DataType = iota
	DataTypeFloat
)

// RenderTexture is an off-screen color+depth target, either 2D or a six-face cube.
// Backend storage is allocated lazily by the device on first bind.
type RenderTexture struct {
	Name     string
	width    int
	height   int
	cube     bool
	dataType DataType
	created  bool

	handle any
}

func (rt *RenderTexture) Create2D(width, height int, dataType DataType, name string) {
	rt.set(width, height, false, dataType, name)
}

func (rt *RenderTexture) CreateCube(dimension int, dataType DataType, name string) {
	rt.set(dimension, dimension, true, dataType, name)
}

func (rt *RenderTexture) set(width, height int, cube bool, dataType DataType, name string) {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("render texture %s: invalid size %dx%d", name, width, height))
	}
	rt.width = width
	rt.height = height
	rt.cube = cube
	rt.dataType = dataType
	rt.Name = name
	rt.created = true
	rt.handle = nil
}

func (rt *RenderTexture) Width() int          { return rt.width }
func (rt *RenderTexture) Height() int         { return rt.height }
func (rt *RenderTexture) IsCube() bool        { return rt.cube }
func (rt *RenderTexture) IsCreated() bool     { return rt.created }
func (rt *RenderTexture) DataType() DataType  { return rt.dataType }
func (rt *RenderTexture) TextureName() string { return rt.Name }
