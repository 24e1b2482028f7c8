package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Corner indexes Frustum.Corners.
type Corner int

const (
	NearTopLeft Corner = iota
	NearTopRight
	NearBottomLeft
	NearBottomRight
	FarTopLeft
	FarTopRight
	FarBottomLeft
	FarBottomRight
)

// Plane indexes Frustum.Planes. Normals point inside.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum is a perspective or orthographic view volume positioned in world space.
// Corners and planes are computed eagerly by Update; any projection change makes
// them stale until the next Update.
type Frustum struct {
	orthographic bool
	fovDegrees   float32
	aspect       float32
	near         float32
	far          float32
	left         float32
	right        float32
	bottom       float32
	top          float32

	corners [8]mgl32.Vec3
	planes  [6]mgl32.Vec4
	current bool
}

func (f *Frustum) SetPerspective(fovDegrees, aspect, near, far float32) {
	f.orthographic = false
	f.fovDegrees = fovDegrees
	f.aspect = aspect
	f.near = near
	f.far = far
	f.current = false
}

func (f *Frustum) SetOrthographic(left, right, bottom, top, near, far float32) {
	f.orthographic = true
	f.left = left
	f.right = right
	f.bottom = bottom
	f.top = top
	f.near = near
	f.far = far
	f.current = false
}

// Update recomputes corners and planes for a volume at position looking along viewDirection.
func (f *Frustum) Update(position, viewDirection mgl32.Vec3) {
	dir := viewDirection.Normalize()
	worldUp := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Dot(worldUp)) > 0.999 {
		worldUp = mgl32.Vec3{0, 0, 1}
	}
	right := dir.Cross(worldUp).Normalize()
	up := right.Cross(dir)

	nearCenter := position.Add(dir.Mul(f.near))
	farCenter := position.Add(dir.Mul(f.far))

	var nl, nr, nb, nt, fl, fr, fb, ft float32
	if f.orthographic {
		nl, nr, nb, nt = f.left, f.right, f.bottom, f.top
		fl, fr, fb, ft = f.left, f.right, f.bottom, f.top
	} else {
		tanHalf := float32(math.Tan(float64(mgl32.DegToRad(f.fovDegrees)) * 0.5))
		nh := tanHalf * f.near
		fh := tanHalf * f.far
		nl, nr, nb, nt = -nh*f.aspect, nh*f.aspect, -nh, nh
		fl, fr, fb, ft = -fh*f.aspect, fh*f.aspect, -fh, fh
	}

	at := func(center mgl32.Vec3, x, y float32) mgl32.Vec3 {
		return center.Add(right.Mul(x)).Add(up.Mul(y))
	}
	f.corners[NearTopLeft] = at(nearCenter, nl, nt)
	f.corners[NearTopRight] = at(nearCenter, nr, nt)
	f.corners[NearBottomLeft] = at(nearCenter, nl, nb)
	f.corners[NearBottomRight] = at(nearCenter, nr, nb)
	f.corners[FarTopLeft] = at(farCenter, fl, ft)
	f.corners[FarTopRight] = at(farCenter, fr, ft)
	f.corners[FarBottomLeft] = at(farCenter, fl, fb)
	f.corners[FarBottomRight] = at(farCenter, fr, fb)
	f.current = true

	inside := f.Centroid()
	c := f.corners
	f.planes[PlaneLeft] = planeFrom(c[NearTopLeft], c[NearBottomLeft], c[FarBottomLeft], inside)
	f.planes[PlaneRight] = planeFrom(c[NearTopRight], c[FarTopRight], c[FarBottomRight], inside)
	f.planes[PlaneBottom] = planeFrom(c[NearBottomLeft], c[NearBottomRight], c[FarBottomRight], inside)
	f.planes[PlaneTop] = planeFrom(c[NearTopLeft], c[FarTopLeft], c[FarTopRight], inside)
	f.planes[PlaneNear] = planeFrom(c[NearTopLeft], c[NearTopRight], c[NearBottomRight], inside)
	f.planes[PlaneFar] = planeFrom(c[FarTopLeft], c[FarBottomLeft], c[FarBottomRight], inside)
}

func planeFrom(a, b, c, inside mgl32.Vec3) mgl32.Vec4 {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	d := -n.Dot(a)
	if n.Dot(inside)+d < 0 {
		n = n.Mul(-1)
		d = -d
	}
	return n.Vec4(d)
}

func (f *Frustum) mustBeCurrent() {
	if !f.current {
		panic(fmt.Sprintf("frustum queried before Update (orthographic=%v)", f.orthographic))
	}
}

func (f *Frustum) Corner(c Corner) mgl32.Vec3 {
	f.mustBeCurrent()
	return f.corners[c]
}

func (f *Frustum) Corners() [8]mgl32.Vec3 {
	f.mustBeCurrent()
	return f.corners
}

func (f *Frustum) NearTopLeft() mgl32.Vec3     { return f.Corner(NearTopLeft) }
func (f *Frustum) NearTopRight() mgl32.Vec3    { return f.Corner(NearTopRight) }
func (f *Frustum) NearBottomLeft() mgl32.Vec3  { return f.Corner(NearBottomLeft) }
func (f *Frustum) NearBottomRight() mgl32.Vec3 { return f.Corner(NearBottomRight) }
func (f *Frustum) FarTopLeft() mgl32.Vec3      { return f.Corner(FarTopLeft) }
func (f *Frustum) FarTopRight() mgl32.Vec3     { return f.Corner(FarTopRight) }
func (f *Frustum) FarBottomLeft() mgl32.Vec3   { return f.Corner(FarBottomLeft) }
func (f *Frustum) FarBottomRight() mgl32.Vec3  { return f.Corner(FarBottomRight) }

// Centroid is the average of the eight corners.
func (f *Frustum) Centroid() mgl32.Vec3 {
	f.mustBeCurrent()
	var sum mgl32.Vec3
	for _, c := range f.corners {
		sum = sum.Add(c)
	}
	return sum.Mul(1.0 / 8.0)
}

func (f *Frustum) NearClipPlane() float32 { return f.near }
func (f *Frustum) FarClipPlane() float32  { return f.far }
func (f *Frustum) IsOrthographic() bool   { return f.orthographic }

func (f *Frustum) Planes() [6]mgl32.Vec4 {
	f.mustBeCurrent()
	return f.planes
}

// BoxInFrustum reports whether the box is at least partially inside.
func (f *Frustum) BoxInFrustum(box AABB) bool {
	return AABBInFrustum(box, f.Planes())
}

// AABBInFrustum tests a box against inward-facing planes. For each plane the
// corner furthest along the normal is checked; if even that corner is behind,
// the whole box is outside.
func AABBInFrustum(box AABB, planes [6]mgl32.Vec4) bool {
	for _, plane := range planes {
		var p mgl32.Vec3
		for i := 0; i < 3; i++ {
			if plane[i] > 0 {
				p[i] = box.Max[i]
			} else {
				p[i] = box.Min[i]
			}
		}
		if plane[0]*p[0]+plane[1]*p[1]+plane[2]*p[2]+plane[3] < 0 {
			return false
		}
	}
	return true
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
