package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/gpu"
)

// maxGlyphs keeps glyph quads addressable by 16-bit indices.
const maxGlyphs = 65536 / 4

// TextRenderer draws a string in pixel space, origin at the first baseline, y up.
type TextRenderer struct {
	Font   *Font
	Shader *gpu.Shader
	Color  mgl32.Vec4

	text   string
	buffer *gpu.VertexBuffer
	dirty  bool
}

func NewTextRenderer(f *Font, shader *gpu.Shader) *TextRenderer {
	return &TextRenderer{Font: f, Shader: shader, Color: mgl32.Vec4{1, 1, 1, 1}}
}

func (r *TextRenderer) SetText(text string) {
	if text == r.text {
		return
	}
	r.text = text
	r.dirty = true
}

func (r *TextRenderer) Text() string { return r.text }

// SetColor changes the vertex color and rebuilds the glyph quads.
func (r *TextRenderer) SetColor(c mgl32.Vec4) {
	r.Color = c
	r.dirty = true
}

func (r *TextRenderer) rebuild() {
	var vertices []gpu.Vertex
	var faces []gpu.Face
	n := mgl32.Vec3{0, 0, 1}
	t := mgl32.Vec4{1, 0, 0, 1}

	lineHeight := r.Font.LineHeight()
	penX, penY := float32(0), float32(0)
	for _, ch := range r.text {
		if ch == '\n' {
			penX = 0
			penY -= lineHeight
			continue
		}
		g, ok := r.Font.Glyphs[ch]
		if !ok {
			continue
		}
		if len(vertices)/4 >= maxGlyphs {
			break
		}
		x0 := penX + g.Off[0]
		x1 := x0 + g.Size[0]
		y0 := penY - g.Off[1]
		y1 := y0 - g.Size[1]

		base := uint16(len(vertices))
		vertices = append(vertices,
			gpu.Vertex{Position: mgl32.Vec3{x0, y0, 0}, UV: mgl32.Vec2{g.UVMin[0], g.UVMin[1]}, Normal: n, Tangent: t, Color: r.Color},
			gpu.Vertex{Position: mgl32.Vec3{x1, y0, 0}, UV: mgl32.Vec2{g.UVMax[0], g.UVMin[1]}, Normal: n, Tangent: t, Color: r.Color},
			gpu.Vertex{Position: mgl32.Vec3{x1, y1, 0}, UV: mgl32.Vec2{g.UVMax[0], g.UVMax[1]}, Normal: n, Tangent: t, Color: r.Color},
			gpu.Vertex{Position: mgl32.Vec3{x0, y1, 0}, UV: mgl32.Vec2{g.UVMin[0], g.UVMax[1]}, Normal: n, Tangent: t, Color: r.Color},
		)
		faces = append(faces, gpu.Face{base, base + 2, base + 1}, gpu.Face{base, base + 3, base + 2})
		penX += g.Adv
	}

	if r.buffer == nil {
		r.buffer = gpu.NewVertexBuffer(vertices, faces)
	} else {
		r.buffer.Update(vertices, faces)
	}
	r.dirty = false
}

// Render draws the text with the given projection * model matrix.
func (r *TextRenderer) Render(dev gpu.Device, projectionModel mgl32.Mat4) {
	if r.Font == nil || r.Shader == nil || r.text == "" {
		return
	}
	if r.dirty || r.buffer == nil {
		r.rebuild()
	}
	if r.buffer.FaceCount() == 0 {
		return
	}
	slot := ""
	if len(r.Shader.TextureSlots) > 0 {
		slot = r.Shader.TextureSlots[0]
	}
	dev.Draw(gpu.DrawCall{
		Buffer:    r.buffer,
		StartFace: 0,
		EndFace:   r.buffer.FaceCount(),
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
		Textures: []gpu.TextureBinding{{Name: slot, Texture: r.Font.Atlas}},
	})
}
