package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3, msg string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-3, "%s[%d]: want %v got %v", msg, i, want, got)
	}
}

func TestFrustumPerspectiveCorners(t *testing.T) {
	var f Frustum
	f.SetPerspective(90, 1, 1, 10)
	f.Update(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})

	assertVec3(t, mgl32.Vec3{-1, 1, -1}, f.NearTopLeft(), "ntl")
	assertVec3(t, mgl32.Vec3{1, 1, -1}, f.NearTopRight(), "ntr")
	assertVec3(t, mgl32.Vec3{-1, -1, -1}, f.NearBottomLeft(), "nbl")
	assertVec3(t, mgl32.Vec3{1, -1, -1}, f.NearBottomRight(), "nbr")
	assertVec3(t, mgl32.Vec3{-10, 10, -10}, f.FarTopLeft(), "ftl")
	assertVec3(t, mgl32.Vec3{10, -10, -10}, f.FarBottomRight(), "fbr")
	assertVec3(t, mgl32.Vec3{0, 0, -5.5}, f.Centroid(), "centroid")
	assert.Equal(t, float32(10), f.FarClipPlane())
	assert.Equal(t, float32(1), f.NearClipPlane())
}

func TestFrustumOrthographicCorners(t *testing.T) {
	var f Frustum
	f.SetOrthographic(-2, 4, -1, 3, 0.5, 20)
	f.Update(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1})

	assertVec3(t, mgl32.Vec3{-1, 3, -0.5}, f.NearTopLeft(), "ntl")
	assertVec3(t, mgl32.Vec3{5, -1, -20}, f.FarBottomRight(), "fbr")
	assert.True(t, f.IsOrthographic())
}

func TestFrustumStaleAfterProjectionChange(t *testing.T) {
	var f Frustum
	assert.Panics(t, func() { f.Centroid() })

	f.SetPerspective(60, 1.5, 0.1, 100)
	f.Update(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	assert.NotPanics(t, func() { f.Corners() })

	f.SetPerspective(60, 1.5, 0.1, 50)
	assert.Panics(t, func() { f.FarTopLeft() })
}

func TestFrustumLookingStraightUp(t *testing.T) {
	var f Frustum
	f.SetPerspective(90, 1, 1, 10)
	f.Update(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	c := f.Centroid()
	assert.InDelta(t, 5.5, c.Y(), 1e-3)
	for _, p := range f.Corners() {
		assert.False(t, p.X() != p.X(), "NaN corner")
	}
}

func TestBoxInFrustum(t *testing.T) {
	var f Frustum
	f.SetPerspective(90, 1, 1, 100)
	f.Update(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"Inside (center)", AABB{mgl32.Vec3{-1, -1, -10}, mgl32.Vec3{1, 1, -5}}, true},
		{"Outside (Left)", AABB{mgl32.Vec3{-20, -1, -10}, mgl32.Vec3{-15, 1, -5}}, false},
		{"Outside (Right)", AABB{mgl32.Vec3{15, -1, -10}, mgl32.Vec3{20, 1, -5}}, false},
		{"Outside (Behind/Near)", AABB{mgl32.Vec3{-1, -1, 2}, mgl32.Vec3{1, 1, 5}}, false},
		{"Outside (Far)", AABB{mgl32.Vec3{-1, -1, -200}, mgl32.Vec3{1, 1, -150}}, false},
		{"Intersecting (Left Plane)", AABB{mgl32.Vec3{-15, -1, -10}, mgl32.Vec3{-5, 1, -5}}, true},
		{"Encompassing (Huge box)", AABB{mgl32.Vec3{-1000, -1000, -1000}, mgl32.Vec3{1000, 1000, 1000}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, f.BoxInFrustum(tc.box))
		})
	}
}
