package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/gpu"
)

// Sprite is one textured screen-space rectangle, in pixels.
type Sprite struct {
	Texture   *gpu.Texture2D
	Position  mgl32.Vec3
	Dimension mgl32.Vec2
	Tint      mgl32.Vec4
}

// SpriteRenderer batches its sprites into one vertex buffer and draws each
// sprite as its own face range.
type SpriteRenderer struct {
	Shader  *gpu.Shader
	sprites []Sprite
	buffer  *gpu.VertexBuffer
	dirty   bool
}

func (r *SpriteRenderer) Add(s Sprite) {
	r.sprites = append(r.sprites, s)
	r.dirty = true
}

func (r *SpriteRenderer) Clear() {
	r.sprites = nil
	r.dirty = true
}

func (r *SpriteRenderer) Sprites() []Sprite {
	return r.sprites
}

func (r *SpriteRenderer) rebuild() {
	vertices := make([]gpu.Vertex, 0, len(r.sprites)*4)
	faces := make([]gpu.Face, 0, len(r.sprites)*2)
	n := mgl32.Vec3{0, 0, 1}
	t := mgl32.Vec4{1, 0, 0, 1}
	for _, s := range r.sprites {
		base := uint16(len(vertices))
		x0, y0, z := s.Position[0], s.Position[1], s.Position[2]
		x1, y1 := x0+s.Dimension[0], y0+s.Dimension[1]
		vertices = append(vertices,
			gpu.Vertex{Position: mgl32.Vec3{x0, y0, z}, UV: mgl32.Vec2{0, 1}, Normal: n, Tangent: t, Color: s.Tint},
			gpu.Vertex{Position: mgl32.Vec3{x1, y0, z}, UV: mgl32.Vec2{1, 1}, Normal: n, Tangent: t, Color: s.Tint},
			gpu.Vertex{Position: mgl32.Vec3{x1, y1, z}, UV: mgl32.Vec2{1, 0}, Normal: n, Tangent: t, Color: s.Tint},
			gpu.Vertex{Position: mgl32.Vec3{x0, y1, z}, UV: mgl32.Vec2{0, 0}, Normal: n, Tangent: t, Color: s.Tint},
		)
		faces = append(faces, gpu.Face{base, base + 1, base + 2}, gpu.Face{base, base + 2, base + 3})
	}
	if r.buffer == nil {
		r.buffer = gpu.NewVertexBuffer(vertices, faces)
	} else {
		r.buffer.Update(vertices, faces)
	}
	r.dirty = false
}

// Render draws every sprite with the given projection * model matrix.
func (r *SpriteRenderer) Render(dev gpu.Device, projectionModel mgl32.Mat4) {
	if len(r.sprites) == 0 || r.Shader == nil {
		return
	}
	if r.dirty || r.buffer == nil {
		r.rebuild()
	}
	for i, s := range r.sprites {
		if s.Texture == nil {
			continue
		}
		dev.Draw(gpu.DrawCall{
			Buffer:    r.buffer,
			StartFace: i * 2,
			EndFace:   i*2 + 2,
			Shader:    r.Shader,
			Blend:     gpu.BlendAlpha,
			Depth:     gpu.DepthNoneWriteOff,
			Cull:      gpu.CullOff,
			Uniforms: gpu.Uniforms{
				ModelViewProjection: projectionModel,
				ModelView:           mgl32.Ident4(),
				LocalToWorld:        mgl32.Ident4(),
				LightViewProjection: mgl32.Ident4(),
				Tint:                mgl32.Vec4{1, 1, 1, 1},
			},
			Textures: []gpu.TextureBinding{{Name: r.textureSlot(), Texture: s.Texture}},
		})
	}
}

func (r *SpriteRenderer) textureSlot() string {
	if len(r.Shader.TextureSlots) > 0 {
		return r.Shader.TextureSlots[0]
	}
	return ""
}
