package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/gpu"
)

var (
	// ErrCorrupted is returned for a wrong magic number or truncated data.
	ErrCorrupted = errors.New("mesh corrupted or old format")
	// ErrOutOfMemory is returned when a declared vertex or face block exceeds the allocation limit.
	ErrOutOfMemory = errors.New("mesh allocation exceeds limit")
)

var magic = [2]byte{'a', '9'}

const faceSize = 6

// DefaultMaxAllocation bounds a single vertex or face block.
const DefaultMaxAllocation = 64 << 20

// Decoder reads the binary mesh format. All values are little-endian.
type Decoder struct {
	MaxAllocation int
}

// Decode parses data with the default allocation limit.
func Decode(data []byte, path string) (*Mesh, error) {
	return Decoder{MaxAllocation: DefaultMaxAllocation}.Decode(data, path)
}

func (d Decoder) Decode(data []byte, path string) (*Mesh, error) {
	if d.MaxAllocation <= 0 {
		d.MaxAllocation = DefaultMaxAllocation
	}
	c := &cursor{data: data}

	var m [2]byte
	c.read(m[:])
	if c.err != nil || m != magic {
		return nil, fmt.Errorf("%s: wrong magic number: %w", path, ErrCorrupted)
	}

	out := &Mesh{Path: path}
	out.AABBMin = c.vec3()
	out.AABBMax = c.vec3()
	count := int(c.u16())
	if c.err != nil {
		return nil, fmt.Errorf("%s: header: %w", path, c.err)
	}

	out.SubMeshes = make([]SubMesh, count)
	for i := range out.SubMeshes {
		sm := &out.SubMeshes[i]
		sm.AABBMin = c.vec3()
		sm.AABBMax = c.vec3()
		sm.Name = string(c.bytes(int(c.u16())))

		vertexCount := int(c.u16())
		if c.err != nil {
			return nil, fmt.Errorf("%s: submesh %d: %w", path, i, c.err)
		}
		if vertexCount*gpu.VertexSize > d.MaxAllocation {
			return nil, fmt.Errorf("%s: submesh %s: %d vertices: %w", path, sm.Name, vertexCount, ErrOutOfMemory)
		}
		vertices := make([]gpu.Vertex, vertexCount)
		for v := range vertices {
			vertices[v] = gpu.Vertex{
				Position: c.vec3(),
				UV:       mgl32.Vec2{c.f32(), c.f32()},
				Normal:   c.vec3(),
				Tangent:  c.vec4(),
				Color:    c.vec4(),
			}
		}

		faceCount := int(c.u16())
		if c.err != nil {
			return nil, fmt.Errorf("%s: submesh %s vertices: %w", path, sm.Name, c.err)
		}
		if faceCount*faceSize > d.MaxAllocation {
			return nil, fmt.Errorf("%s: submesh %s: %d faces: %w", path, sm.Name, faceCount, ErrOutOfMemory)
		}
		faces := make([]gpu.Face, faceCount)
		for f := range faces {
			faces[f] = gpu.Face{c.u16(), c.u16(), c.u16()}
		}
		if c.err != nil {
			return nil, fmt.Errorf("%s: submesh %s faces: %w", path, sm.Name, c.err)
		}
		sm.Buffer = gpu.NewVertexBuffer(vertices, faces)
	}
	return out, nil
}

// Encode writes m in the binary mesh format.
func Encode(m *Mesh) ([]byte, error) {
	if len(m.SubMeshes) > math.MaxUint16 {
		return nil, fmt.Errorf("too many submeshes: %d", len(m.SubMeshes))
	}
	out := append([]byte(nil), magic[:]...)
	out = putVec3(out, m.AABBMin)
	out = putVec3(out, m.AABBMax)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(m.SubMeshes)))

	for _, sm := range m.SubMeshes {
		var vertices []gpu.Vertex
		var faces []gpu.Face
		if sm.Buffer != nil {
			vertices, faces = sm.Buffer.Vertices, sm.Buffer.Faces
		}
		if len(sm.Name) > math.MaxUint16 || len(vertices) > math.MaxUint16 || len(faces) > math.MaxUint16 {
			return nil, fmt.Errorf("submesh %s exceeds 16-bit counts", sm.Name)
		}
		out = putVec3(out, sm.AABBMin)
		out = putVec3(out, sm.AABBMax)
		out = binary.LittleEndian.AppendUint16(out, uint16(len(sm.Name)))
		out = append(out, sm.Name...)
		out = binary.LittleEndian.AppendUint16(out, uint16(len(vertices)))
		for _, v := range vertices {
			out = putVec3(out, v.Position)
			out = putF32(out, v.UV[0])
			out = putF32(out, v.UV[1])
			out = putVec3(out, v.Normal)
			out = putVec4(out, v.Tangent)
			out = putVec4(out, v.Color)
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(len(faces)))
		for _, f := range faces {
			out = binary.LittleEndian.AppendUint16(out, f[0])
			out = binary.LittleEndian.AppendUint16(out, f[1])
			out = binary.LittleEndian.AppendUint16(out, f[2])
		}
	}
	return out, nil
}

func putF32(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

func putVec3(b []byte, v mgl32.Vec3) []byte {
	return putF32(putF32(putF32(b, v[0]), v[1]), v[2])
}

func putVec4(b []byte, v mgl32.Vec4) []byte {
	return putF32(putVec3(b, v.Vec3()), v[3])
}

// cursor reads fields in order; the first short read latches ErrCorrupted and
// every later read returns zero values.
type cursor struct {
	data []byte
	off  int
	err  error
}

func (c *cursor) bytes(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.off+n > len(c.data) {
		c.err = fmt.Errorf("truncated at offset %d: %w", c.off, ErrCorrupted)
		return nil
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b
}

func (c *cursor) read(dst []byte) {
	copy(dst, c.bytes(len(dst)))
}

func (c *cursor) u16() uint16 {
	b := c.bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (c *cursor) f32() float32 {
	b := c.bytes(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (c *cursor) vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.f32(), c.f32(), c.f32()}
}

func (c *cursor) vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.f32(), c.f32(), c.f32(), c.f32()}
}
