package lumen

import "github.com/go-gl/mathgl/mgl32"

// AudioListener holds the pose of the ear in the world. The scene moves it to
// each perspective screen camera as that camera renders, so after a frame it
// matches the last one drawn.
type AudioListener struct {
	Position mgl32.Vec3
	Forward  mgl32.Vec3
	Updates  uint64
}

func (l *AudioListener) SetListener(position, forward mgl32.Vec3) {
	l.Position = position
	l.Forward = forward
	l.Updates++
}
