package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned box. Min > Max on any axis means empty.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

const aabbSentinel = 99999999

// EmptyAABB returns an inverted box that any Extend call replaces.
func EmptyAABB() AABB {
	return AABB{
		Min: mgl32.Vec3{aabbSentinel, aabbSentinel, aabbSentinel},
		Max: mgl32.Vec3{-aabbSentinel, -aabbSentinel, -aabbSentinel},
	}
}

// UnitAABB is the bound used for renderables without a mesh.
func UnitAABB() AABB {
	return AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
}

func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

func (b AABB) Corners() [8]mgl32.Vec3 {
	mn, mx := b.Min, b.Max
	return [8]mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mx[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
}

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min(b.Min[0], o.Min[0]), min(b.Min[1], o.Min[1]), min(b.Min[2], o.Min[2])},
		Max: mgl32.Vec3{max(b.Max[0], o.Max[0]), max(b.Max[1], o.Max[1]), max(b.Max[2], o.Max[2])},
	}
}

// Transformed returns the bounds of all eight corners under m.
func (b AABB) Transformed(m mgl32.Mat4) AABB {
	corners := b.Corners()
	for i := range corners {
		corners[i] = TransformPoint(m, corners[i])
	}
	mn, mx := GetMinMax(corners[:])
	return AABB{Min: mn, Max: mx}
}

// TransformPoint applies m to p with w = 1.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// GetMinMax returns the component-wise extremes of points.
func GetMinMax(points []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	e := EmptyAABB()
	mn, mx := e.Min, e.Max
	for _, p := range points {
		for i := 0; i < 3; i++ {
			mn[i] = min(mn[i], p[i])
			mx[i] = max(mx[i], p[i])
		}
	}
	return mn, mx
}
