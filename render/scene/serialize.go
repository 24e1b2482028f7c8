package scene

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/gekko3d/lumen/render/core"
	"github.com/gekko3d/lumen/render/gpu"
)

// Serialize writes entities in the format read by Deserializer. Textures and
// materials referenced by the entities are written first so every name used
// later on is already defined. Textures without a Path cannot be reloaded and
// are left out.
func Serialize(w io.Writer, entities []*core.Entity) error {
	bw := bufio.NewWriter(w)
	s := &serializer{
		w:            bw,
		textureNames: map[*gpu.Texture2D]string{},
		usedTextures: map[string]bool{},
		materials:    map[*core.Material]string{},
		usedMaterial: map[string]bool{},
	}

	for _, e := range entities {
		s.collect(e)
	}
	for _, e := range entities {
		s.entity(e)
	}
	if s.err != nil {
		return s.err
	}
	return bw.Flush()
}

type serializer struct {
	w   *bufio.Writer
	err error

	textureNames map[*gpu.Texture2D]string
	usedTextures map[string]bool
	materials    map[*core.Material]string
	usedMaterial map[string]bool
}

func (s *serializer) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *serializer) texture(t *gpu.Texture2D) (string, bool) {
	if t == nil || t.Path == "" {
		return "", false
	}
	if name, ok := s.textureNames[t]; ok {
		return name, true
	}
	name := uniqueName(t.Name, "texture", s.usedTextures)
	s.textureNames[t] = name
	s.printf("texture2d %s %s\n", name, t.Path)
	return name, true
}

func (s *serializer) material(m *core.Material) string {
	if name, ok := s.materials[m]; ok {
		return name
	}
	for _, b := range m.Textures() {
		if t, ok := b.Texture.(*gpu.Texture2D); ok {
			s.texture(t)
		}
	}

	name := uniqueName(m.Name, "material", s.usedMaterial)
	s.materials[m] = name
	shader := "standard"
	if m.Shader != nil {
		shader = m.Shader.Name
	}
	s.printf("material %s %s\n", name, shader)
	s.printf("param_tint %s\n", floats(m.Tint[:]...))
	for _, b := range m.Textures() {
		t, ok := b.Texture.(*gpu.Texture2D)
		if !ok {
			continue
		}
		if texName, ok := s.textureNames[t]; ok {
			s.printf("param_texture %s %s\n", b.Name, texName)
		}
	}
	return name
}

func (s *serializer) collect(e *core.Entity) {
	if mr := e.MeshRenderer; mr != nil && mr.Mesh() != nil {
		for i := range mr.Mesh().SubMeshes {
			if m := mr.Material(i); m != nil {
				s.material(m)
			}
		}
	}
	if sr := e.SpriteRenderer; sr != nil {
		for _, sp := range sr.Sprites() {
			s.texture(sp.Texture)
		}
	}
}

func (s *serializer) entity(e *core.Entity) {
	s.printf("gameobject %s\n", e.Name)
	s.printf("layer %d\n", e.Layer)

	if mr := e.MeshRenderer; mr != nil {
		m := mr.Mesh()
		if m != nil && m.Path != "" {
			s.printf("meshrenderer %s\n", m.Path)
			for i, sub := range m.SubMeshes {
				if mat := mr.Material(i); mat != nil {
					s.printf("mesh_material %s %s\n", sub.Name, s.materials[mat])
				}
			}
		} else {
			s.printf("meshrenderer\n")
		}
	}

	if t := e.Transform; t != nil {
		s.printf("transform\n")
		s.printf("position %s\n", floats(t.Position[:]...))
		s.printf("rotation %s\n", floats(t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2], t.Rotation.W))
		s.printf("scale %s\n", floats(t.Scale))
	}

	if c := e.Camera; c != nil {
		s.printf("camera\n")
		s.printf("persp %s\n", floats(c.FovDegrees(), c.Aspect(), c.Near(), c.Far()))
		s.printf("ortho %s\n", floats(c.Left(), c.Right(), c.Bottom(), c.Top(), c.Near(), c.Far()))
		projection := "perspective"
		if c.ProjectionType() == core.Orthographic {
			projection = "orthographic"
		}
		s.printf("projection %s\n", projection)
		s.printf("clearcolor %s\n", floats(c.ClearColor[:]...))
		s.printf("clearflag %s\n", clearFlagName(c.ClearFlag))
		s.printf("renderorder %d\n", c.RenderOrder)
		s.printf("layermask %d\n", c.LayerMask)
	}

	if sr := e.SpriteRenderer; sr != nil {
		s.printf("spriterenderer\n")
		for _, sp := range sr.Sprites() {
			name, ok := s.textureNames[sp.Texture]
			if !ok {
				continue
			}
			s.printf("sprite %s %s %s %s\n", name,
				floats(sp.Position[:]...), floats(sp.Dimension[:]...), floats(sp.Tint[:]...))
		}
	}

	if tr := e.TextRenderer; tr != nil {
		s.printf("textrenderer %s\n", floats(tr.Color[:]...))
		if tr.Text() != "" {
			s.printf("text %s\n", strconv.Quote(tr.Text()))
		}
	}

	if a := e.AudioSource; a != nil {
		loop := 0
		if a.Loop {
			loop = 1
		}
		if a.Clip != "" {
			s.printf("audiosource %s %d\n", a.Clip, loop)
		} else {
			s.printf("audiosource\n")
		}
	}

	if l := e.DirectionalLight; l != nil {
		s.printf("dirlight\n")
		s.printf("shadow %d\n", boolInt(l.CastsShadow()))
	}

	if l := e.SpotLight; l != nil {
		s.printf("spotlight\n")
		s.printf("coneangle %s\n", floats(l.ConeAngle))
		s.printf("shadow %d\n", boolInt(l.CastsShadow()))
	}
}

func floats(v ...float32) string {
	buf := make([]byte, 0, len(v)*8)
	for i, f := range v {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendFloat(buf, float64(f), 'g', -1, 32)
	}
	return string(buf)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func uniqueName(name, fallback string, used map[string]bool) string {
	if name == "" {
		name = fallback
	}
	candidate := name
	for i := 1; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	used[candidate] = true
	return candidate
}
