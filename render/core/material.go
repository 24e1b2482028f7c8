package core

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/gpu"
)

// Material binds a shader with its render state, tint and named textures.
type Material struct {
	Name   string
	Shader *gpu.Shader
	Tint   mgl32.Vec4
	Blend  gpu.BlendMode
	Depth  gpu.DepthFunc
	Cull   gpu.CullMode
	// ReceiveShadows samples the published shadow map when one is bound.
	ReceiveShadows bool

	textures map[string]gpu.Sampleable
}

func NewMaterial(name string, shader *gpu.Shader) *Material {
	return &Material{
		Name:           name,
		Shader:         shader,
		Tint:           mgl32.Vec4{1, 1, 1, 1},
		Blend:          gpu.BlendOff,
		Depth:          gpu.DepthLessOrEqualWriteOn,
		Cull:           gpu.CullBack,
		ReceiveShadows: true,
		textures:       map[string]gpu.Sampleable{},
	}
}

func (m *Material) SetTexture(uniform string, tex gpu.Sampleable) {
	if m.textures == nil {
		m.textures = map[string]gpu.Sampleable{}
	}
	if tex == nil {
		delete(m.textures, uniform)
		return
	}
	m.textures[uniform] = tex
}

func (m *Material) Texture(uniform string) gpu.Sampleable {
	return m.textures[uniform]
}

// Textures returns the bindings ordered by uniform name.
func (m *Material) Textures() []gpu.TextureBinding {
	out := make([]gpu.TextureBinding, 0, len(m.textures))
	for name, tex := range m.textures {
		out = append(out, gpu.TextureBinding{Name: name, Texture: tex})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MaterialGlobals are bindings every draw can see, such as the active shadow map.
type MaterialGlobals struct {
	textures map[string]gpu.Sampleable
	matrices map[string]mgl32.Mat4
}

func NewMaterialGlobals() *MaterialGlobals {
	return &MaterialGlobals{
		textures: map[string]gpu.Sampleable{},
		matrices: map[string]mgl32.Mat4{},
	}
}

func (g *MaterialGlobals) SetTexture(name string, tex gpu.Sampleable) {
	g.textures[name] = tex
}

func (g *MaterialGlobals) Texture(name string) gpu.Sampleable {
	if g == nil {
		return nil
	}
	return g.textures[name]
}

func (g *MaterialGlobals) SetMatrix(name string, m mgl32.Mat4) {
	g.matrices[name] = m
}

func (g *MaterialGlobals) Matrix(name string) (mgl32.Mat4, bool) {
	if g == nil {
		return mgl32.Ident4(), false
	}
	m, ok := g.matrices[name]
	if !ok {
		return mgl32.Ident4(), false
	}
	return m, true
}

// bindings merges material textures with globals; material entries win.
func bindings(m *Material, g *MaterialGlobals) []gpu.TextureBinding {
	out := m.Textures()
	if g == nil {
		return out
	}
	names := make([]string, 0, len(g.textures))
	for name := range g.textures {
		if _, ok := m.textures[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, gpu.TextureBinding{Name: name, Texture: g.textures[name]})
	}
	return out
}
