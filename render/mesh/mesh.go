package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/gpu"
)

// SubMesh is one named draw range of a Mesh, with its own bounds and geometry.
type SubMesh struct {
	Name    string
	AABBMin mgl32.Vec3
	AABBMax mgl32.Vec3
	Buffer  *gpu.VertexBuffer
}

// Mesh is loaded geometry. The scene only holds references; ownership stays
// with whoever loaded it (usually the AssetServer).
type Mesh struct {
	Path      string
	AABBMin   mgl32.Vec3
	AABBMax   mgl32.Vec3
	SubMeshes []SubMesh
}

// SubMeshIndex returns the index of the named submesh or -1.
func (m *Mesh) SubMeshIndex(name string) int {
	for i := range m.SubMeshes {
		if m.SubMeshes[i].Name == name {
			return i
		}
	}
	return -1
}

// Cube returns a unit cube mesh centered at the origin with half extent s.
func Cube(s float32) *Mesh {
	type side struct {
		n, u, v mgl32.Vec3
	}
	sides := []side{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	uvs := []mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	signs := [][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	var vertices []gpu.Vertex
	var faces []gpu.Face
	for _, sd := range sides {
		base := uint16(len(vertices))
		for i, sg := range signs {
			p := sd.n.Add(sd.u.Mul(sg[0])).Add(sd.v.Mul(sg[1])).Mul(s)
			vertices = append(vertices, gpu.Vertex{
				Position: p,
				UV:       uvs[i],
				Normal:   sd.n,
				Tangent:  sd.u.Vec4(1),
				Color:    mgl32.Vec4{1, 1, 1, 1},
			})
		}
		faces = append(faces, gpu.Face{base, base + 1, base + 2}, gpu.Face{base, base + 2, base + 3})
	}

	min, max := mgl32.Vec3{-s, -s, -s}, mgl32.Vec3{s, s, s}
	return &Mesh{
		Path:    "builtin:cube",
		AABBMin: min,
		AABBMax: max,
		SubMeshes: []SubMesh{{
			Name:    "cube",
			AABBMin: min,
			AABBMax: max,
			Buffer:  gpu.NewVertexBuffer(vertices, faces),
		}},
	}
}

// Quad returns a unit quad in the XY plane facing +Z, with one submesh named "quad".
func Quad() *Mesh {
	white := mgl32.Vec4{1, 1, 1, 1}
	n := mgl32.Vec3{0, 0, 1}
	t := mgl32.Vec4{1, 0, 0, 1}
	buffer := gpu.NewVertexBuffer([]gpu.Vertex{
		{Position: mgl32.Vec3{0, 0, 0}, UV: mgl32.Vec2{0, 1}, Normal: n, Tangent: t, Color: white},
		{Position: mgl32.Vec3{1, 0, 0}, UV: mgl32.Vec2{1, 1}, Normal: n, Tangent: t, Color: white},
		{Position: mgl32.Vec3{1, 1, 0}, UV: mgl32.Vec2{1, 0}, Normal: n, Tangent: t, Color: white},
		{Position: mgl32.Vec3{0, 1, 0}, UV: mgl32.Vec2{0, 0}, Normal: n, Tangent: t, Color: white},
	}, []gpu.Face{{0, 1, 2}, {0, 2, 3}})
	max := mgl32.Vec3{1, 1, 0}
	return &Mesh{
		Path:      "builtin:quad",
		AABBMax:   max,
		SubMeshes: []SubMesh{{Name: "quad", AABBMax: max, Buffer: buffer}},
	}
}
