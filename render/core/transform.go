package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a flat (unparented) pose. The scene refreshes the cached local
// matrix once per frame.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    float32

	localMatrix mgl32.Mat4
}

func NewTransform() *Transform {
	t := &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    1,
	}
	t.UpdateLocalMatrix()
	return t
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale, t.Scale, t.Scale)

	return translate.Mul4(rotate).Mul4(scale)
}

func (t *Transform) WorldToObject() mgl32.Mat4 {
	// inv(M) = inv(S) * inv(R) * inv(T)
	invScale := mgl32.Scale3D(1.0/t.Scale, 1.0/t.Scale, 1.0/t.Scale)
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// UpdateLocalMatrix recomputes the cached object-to-world matrix.
func (t *Transform) UpdateLocalMatrix() {
	t.localMatrix = t.ObjectToWorld()
}

// LocalMatrix returns the matrix cached by the last UpdateLocalMatrix.
func (t *Transform) LocalMatrix() mgl32.Mat4 {
	return t.localMatrix
}

// ViewMatrix is the inverse rotation composed with the translation by the
// negated position. Scale is ignored.
func (t *Transform) ViewMatrix() mgl32.Mat4 {
	rotation := t.Rotation.Conjugate().Mat4()
	translation := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())
	return rotation.Mul4(translation)
}

// RotationViewMatrix is ViewMatrix with the translation cancelled.
func (t *Transform) RotationViewMatrix() mgl32.Mat4 {
	return t.Rotation.Conjugate().Mat4()
}

// ViewDirection is the world-space forward axis (local -Z).
func (t *Transform) ViewDirection() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

// LookAt places the transform at eye and orients local -Z toward target.
func (t *Transform) LookAt(eye, target, up mgl32.Vec3) {
	view := mgl32.LookAtV(eye, target, up)
	t.Position = eye
	t.Rotation = mgl32.Mat4ToQuat(view.Mat3().Transpose().Mat4()).Normalize()
}
