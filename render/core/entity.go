package core

import "fmt"

// Entity carries at most one of each component kind. The scene holds entities
// by pointer; removing one from a scene does not touch its components.
type Entity struct {
	Name string
	// Layer is a bitmask tested against Camera.LayerMask.
	Layer uint32

	Transform        *Transform
	Camera           *Camera
	MeshRenderer     *MeshRenderer
	SpriteRenderer   *SpriteRenderer
	TextRenderer     *TextRenderer
	AudioSource      *AudioSource
	DirectionalLight *DirectionalLight
	SpotLight        *SpotLight
}

func NewEntity(name string) *Entity {
	return &Entity{Name: name, Layer: 1}
}

// MustCamera returns the camera component or panics.
func (e *Entity) MustCamera() *Camera {
	if e.Camera == nil {
		panic(fmt.Sprintf("entity %q has no camera component", e.Name))
	}
	return e.Camera
}

// MustTransform returns the transform component or panics.
func (e *Entity) MustTransform() *Transform {
	if e.Transform == nil {
		panic(fmt.Sprintf("entity %q has no transform component", e.Name))
	}
	return e.Transform
}

// VisibleTo reports whether the entity's layer intersects mask.
func (e *Entity) VisibleTo(mask uint32) bool {
	return e.Layer&mask != 0
}
