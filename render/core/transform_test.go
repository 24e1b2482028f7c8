package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformMatrices(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	tr.Scale = 2

	m := tr.ObjectToWorld()
	inv := tr.WorldToObject()
	p := mgl32.Vec3{0.5, -1, 4}
	assertVec3(t, p, TransformPoint(inv, TransformPoint(m, p)), "roundtrip")

	// Local +X rotates to -Z under +90 degrees about Y.
	assertVec3(t, mgl32.Vec3{1, 2, 1}, TransformPoint(m, mgl32.Vec3{1, 0, 0}), "rotated")

	// The cached matrix only changes on refresh.
	assert.Equal(t, mgl32.Ident4(), tr.LocalMatrix())
	tr.UpdateLocalMatrix()
	local := tr.LocalMatrix()
	assert.InDeltaSlice(t, m[:], local[:], 1e-5)
}

func TestTransformViewMatrix(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{0, 0, 5}

	assertVec3(t, mgl32.Vec3{0, 0, -1}, tr.ViewDirection(), "forward")
	assertVec3(t, mgl32.Vec3{0, 0, -5}, TransformPoint(tr.ViewMatrix(), mgl32.Vec3{}), "origin in view")

	rot := tr.RotationViewMatrix()
	assert.Equal(t, float32(0), rot.Col(3).X())
	assert.Equal(t, float32(0), rot.Col(3).Z())
}

func TestTransformLookAt(t *testing.T) {
	tr := NewTransform()
	eye := mgl32.Vec3{10, 4, -3}
	target := mgl32.Vec3{0, 0, 0}
	tr.LookAt(eye, target, mgl32.Vec3{0, 1, 0})

	want := target.Sub(eye).Normalize()
	assertVec3(t, want, tr.ViewDirection(), "direction")
	view, lookAt := tr.ViewMatrix(), mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	assert.InDeltaSlice(t, lookAt[:], view[:], 1e-4)

	// The target sits straight ahead on the view axis.
	inView := TransformPoint(tr.ViewMatrix(), target)
	assert.InDelta(t, 0, inView.X(), 1e-4)
	assert.InDelta(t, 0, inView.Y(), 1e-4)
	assert.InDelta(t, -eye.Len(), inView.Z(), 1e-3)
}
