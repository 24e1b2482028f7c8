package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/core"
	"github.com/gekko3d/lumen/render/gpu"
	"github.com/gekko3d/lumen/render/mesh"
	"github.com/gekko3d/lumen/render/shaders"
)

// Loader resolves asset paths referenced by scene files.
type Loader interface {
	LoadMesh(path string) (*mesh.Mesh, error)
	LoadTexture2D(path string) (*gpu.Texture2D, error)
}

// Contents is everything constructed from one scene file.
type Contents struct {
	Entities  []*core.Entity
	Materials map[string]*core.Material
	Textures  map[string]*gpu.Texture2D
	Meshes    []*mesh.Mesh
}

// Deserializer reads the line-oriented scene format. Unknown tokens are skipped.
type Deserializer struct {
	Loader        Loader
	Logger        Logger
	Font          *core.Font
	ShadowMapSize int
}

const (
	defaultFontSize      = 16
	defaultShadowMapSize = 512
)

type parser struct {
	d        *Deserializer
	path     string
	line     int
	token    string
	out      *Contents
	material *core.Material
}

// Deserialize parses r. On a parse error nothing is returned.
func (d *Deserializer) Deserialize(r io.Reader, path string) (*Contents, error) {
	p := &parser{
		d:    d,
		path: path,
		out: &Contents{
			Materials: map[string]*core.Material{},
			Textures:  map[string]*gpu.Texture2D{},
		},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		raw := scanner.Text()
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		p.token = fields[0]
		if err := p.handle(fields[1:], raw); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.out, nil
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{Path: p.path, Line: p.line, Token: p.token, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) warnf(format string, args ...any) {
	if p.d.Logger != nil {
		p.d.Logger.Warnf("%s:%d: %s", p.path, p.line, fmt.Sprintf(format, args...))
	}
}

func (p *parser) entity() (*core.Entity, error) {
	if len(p.out.Entities) == 0 {
		return nil, p.fail("found %s but there are no game objects defined before this line", p.token)
	}
	return p.out.Entities[len(p.out.Entities)-1], nil
}

func (p *parser) transform() (*core.Transform, error) {
	e, err := p.entity()
	if err != nil {
		return nil, err
	}
	if e.Transform == nil {
		return nil, p.fail("found %s but the game object doesn't have a transform component", p.token)
	}
	return e.Transform, nil
}

func (p *parser) camera() (*core.Camera, error) {
	e, err := p.entity()
	if err != nil {
		return nil, err
	}
	if e.Camera == nil {
		return nil, p.fail("found %s but the game object doesn't have a camera component", p.token)
	}
	return e.Camera, nil
}

func (p *parser) floats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, p.fail("expected %d values, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, p.fail("invalid number %q", args[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (p *parser) integer(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, p.fail("expected an integer")
	}
	v, err := strconv.ParseInt(args[0], 0, 64)
	if err != nil {
		return 0, p.fail("invalid integer %q", args[0])
	}
	return v, nil
}

func (p *parser) mask(args []string) (uint32, error) {
	if len(args) < 1 {
		return 0, p.fail("expected a bit mask")
	}
	v, err := strconv.ParseUint(args[0], 0, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, p.fail("bit mask %q overflows 32 bits", args[0])
	}
	if err != nil {
		return 0, p.fail("invalid bit mask %q", args[0])
	}
	return uint32(v), nil
}

func (p *parser) words(args []string, n int) error {
	if len(args) < n {
		return p.fail("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func (p *parser) handle(args []string, raw string) error {
	switch p.token {
	case "gameobject":
		name := strings.Join(args, " ")
		p.out.Entities = append(p.out.Entities, core.NewEntity(name))

	case "layer":
		e, err := p.entity()
		if err != nil {
			return err
		}
		v, err := p.mask(args)
		if err != nil {
			return err
		}
		e.Layer = v

	case "transform":
		e, err := p.entity()
		if err != nil {
			return err
		}
		e.Transform = core.NewTransform()

	case "position":
		t, err := p.transform()
		if err != nil {
			return err
		}
		v, err := p.floats(args, 3)
		if err != nil {
			return err
		}
		t.Position = mgl32.Vec3{v[0], v[1], v[2]}

	case "rotation":
		t, err := p.transform()
		if err != nil {
			return err
		}
		v, err := p.floats(args, 4)
		if err != nil {
			return err
		}
		t.Rotation = mgl32.Quat{V: mgl32.Vec3{v[0], v[1], v[2]}, W: v[3]}

	case "scale":
		t, err := p.transform()
		if err != nil {
			return err
		}
		v, err := p.floats(args, 1)
		if err != nil {
			return err
		}
		t.Scale = v[0]

	case "camera":
		e, err := p.entity()
		if err != nil {
			return err
		}
		e.Camera = core.NewCamera()

	case "ortho":
		c, err := p.camera()
		if err != nil {
			return err
		}
		v, err := p.floats(args, 6)
		if err != nil {
			return err
		}
		c.SetOrthographic(v[0], v[1], v[2], v[3], v[4], v[5])

	case "persp":
		c, err := p.camera()
		if err != nil {
			return err
		}
		v, err := p.floats(args, 4)
		if err != nil {
			return err
		}
		c.SetPerspective(v[0], v[1], v[2], v[3])

	case "projection":
		c, err := p.camera()
		if err != nil {
			return err
		}
		if err := p.words(args, 1); err != nil {
			return err
		}
		switch args[0] {
		case "orthographic":
			c.SetProjectionType(core.Orthographic)
		case "perspective":
			c.SetProjectionType(core.Perspective)
		default:
			return p.fail("camera has unknown projection type %s", args[0])
		}

	case "clearcolor":
		c, err := p.camera()
		if err != nil {
			return err
		}
		v, err := p.floats(args, 3)
		if err != nil {
			return err
		}
		c.ClearColor = mgl32.Vec3{v[0], v[1], v[2]}

	case "clearflag":
		c, err := p.camera()
		if err != nil {
			return err
		}
		if err := p.words(args, 1); err != nil {
			return err
		}
		flag, ok := parseClearFlag(args[0])
		if !ok {
			return p.fail("unknown clear flag %s", args[0])
		}
		c.ClearFlag = flag

	case "renderorder":
		c, err := p.camera()
		if err != nil {
			return err
		}
		v, err := p.integer(args)
		if err != nil {
			return err
		}
		c.RenderOrder = int(v)

	case "layermask":
		c, err := p.camera()
		if err != nil {
			return err
		}
		v, err := p.mask(args)
		if err != nil {
			return err
		}
		c.LayerMask = v

	case "dirlight":
		e, err := p.entity()
		if err != nil {
			return err
		}
		e.DirectionalLight = &core.DirectionalLight{}

	case "spotlight":
		e, err := p.entity()
		if err != nil {
			return err
		}
		e.SpotLight = core.NewSpotLight()

	case "coneangle":
		e, err := p.entity()
		if err != nil {
			return err
		}
		if e.SpotLight == nil {
			return p.fail("found coneangle but the game object doesn't have a spot light component")
		}
		v, err := p.floats(args, 1)
		if err != nil {
			return err
		}
		e.SpotLight.ConeAngle = v[0]

	case "shadow":
		e, err := p.entity()
		if err != nil {
			return err
		}
		v, err := p.integer(args)
		if err != nil {
			return err
		}
		size := p.d.ShadowMapSize
		if size <= 0 {
			size = defaultShadowMapSize
		}
		switch {
		case e.SpotLight != nil:
			e.SpotLight.SetCastShadow(v != 0, size)
		case e.DirectionalLight != nil:
			e.DirectionalLight.SetCastShadow(v != 0, size)
		default:
			return p.fail("found shadow but the game object doesn't have a light component")
		}

	case "meshrenderer":
		e, err := p.entity()
		if err != nil {
			return err
		}
		e.MeshRenderer = &core.MeshRenderer{}
		if len(args) == 0 {
			break
		}
		if p.d.Loader == nil {
			p.warnf("no loader for mesh %s", args[0])
			break
		}
		m, err := p.d.Loader.LoadMesh(args[0])
		if err != nil {
			p.warnf("failed to load mesh %s: %v", args[0], err)
			break
		}
		p.out.Meshes = append(p.out.Meshes, m)
		e.MeshRenderer.SetMesh(m)

	case "mesh_material":
		e, err := p.entity()
		if err != nil {
			return err
		}
		if e.MeshRenderer == nil {
			return p.fail("found mesh_material but the last defined game object doesn't have a mesh renderer component")
		}
		if err := p.words(args, 2); err != nil {
			return err
		}
		m := e.MeshRenderer.Mesh()
		if m == nil {
			p.warnf("mesh_material %s on a mesh renderer without a mesh", args[0])
			break
		}
		mat, ok := p.out.Materials[args[1]]
		if !ok {
			p.warnf("undefined material %s", args[1])
			break
		}
		for i := range m.SubMeshes {
			if m.SubMeshes[i].Name == args[0] {
				e.MeshRenderer.SetMaterial(mat, i)
			}
		}

	case "texture2d":
		if err := p.words(args, 2); err != nil {
			return err
		}
		name, path := args[0], args[1]
		if p.d.Loader == nil {
			p.warnf("no loader for texture %s", path)
			break
		}
		tex, err := p.d.Loader.LoadTexture2D(path)
		if err != nil {
			p.warnf("failed to load texture %s: %v", path, err)
			break
		}
		tex.Name = name
		tex.Path = path
		p.out.Textures[name] = tex

	case "material":
		if err := p.words(args, 1); err != nil {
			return err
		}
		shader := shaders.Standard
		if len(args) > 1 {
			s, ok := shaders.ByName(args[1])
			if !ok {
				p.warnf("unknown shader %s, using %s", args[1], shaders.Standard.Name)
			} else {
				shader = s
			}
		}
		p.material = core.NewMaterial(args[0], shader)
		p.out.Materials[args[0]] = p.material

	case "param_texture":
		if p.material == nil {
			return p.fail("found param_texture but there is no material defined before this line")
		}
		if err := p.words(args, 2); err != nil {
			return err
		}
		tex, ok := p.out.Textures[args[1]]
		if !ok {
			p.warnf("undefined texture %s", args[1])
			break
		}
		p.material.SetTexture(args[0], tex)

	case "param_tint":
		if p.material == nil {
			return p.fail("found param_tint but there is no material defined before this line")
		}
		v, err := p.floats(args, 4)
		if err != nil {
			return err
		}
		p.material.Tint = mgl32.Vec4{v[0], v[1], v[2], v[3]}

	case "spriterenderer":
		e, err := p.entity()
		if err != nil {
			return err
		}
		e.SpriteRenderer = &core.SpriteRenderer{Shader: shaders.Sprite}

	case "sprite":
		e, err := p.entity()
		if err != nil {
			return err
		}
		if e.SpriteRenderer == nil {
			return p.fail("found sprite but the game object doesn't have a sprite renderer component")
		}
		if err := p.words(args, 1); err != nil {
			return err
		}
		v, err := p.floats(args[1:], 9)
		if err != nil {
			return err
		}
		tex, ok := p.out.Textures[args[0]]
		if !ok {
			p.warnf("undefined texture %s", args[0])
		}
		e.SpriteRenderer.Add(core.Sprite{
			Texture:   tex,
			Position:  mgl32.Vec3{v[0], v[1], v[2]},
			Dimension: mgl32.Vec2{v[3], v[4]},
			Tint:      mgl32.Vec4{v[5], v[6], v[7], v[8]},
		})

	case "textrenderer":
		e, err := p.entity()
		if err != nil {
			return err
		}
		tr := core.NewTextRenderer(p.font(), shaders.Text)
		if len(args) >= 4 {
			v, err := p.floats(args, 4)
			if err != nil {
				return err
			}
			tr.Color = mgl32.Vec4{v[0], v[1], v[2], v[3]}
		}
		e.TextRenderer = tr

	case "text":
		e, err := p.entity()
		if err != nil {
			return err
		}
		if e.TextRenderer == nil {
			return p.fail("found text but the game object doesn't have a text renderer component")
		}
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "text"))
		text, err := strconv.Unquote(rest)
		if err != nil {
			text = rest
		}
		e.TextRenderer.SetText(text)

	case "audiosource":
		e, err := p.entity()
		if err != nil {
			return err
		}
		a := &core.AudioSource{}
		if len(args) > 0 {
			a.Clip = args[0]
		}
		if len(args) > 1 {
			a.Loop = args[1] == "1"
		}
		e.AudioSource = a
	}
	return nil
}

func (p *parser) font() *core.Font {
	if p.d.Font != nil {
		return p.d.Font
	}
	f, err := core.DefaultFont(defaultFontSize)
	if err != nil {
		p.warnf("failed to create default font: %v", err)
		return nil
	}
	p.d.Font = f
	return f
}

func parseClearFlag(s string) (core.ClearFlag, bool) {
	switch s {
	case "color_depth":
		return core.ClearDepthAndColor, true
	case "depth":
		return core.ClearDepthOnly, true
	case "none":
		return core.ClearNone, true
	}
	return 0, false
}

func clearFlagName(f core.ClearFlag) string {
	switch f {
	case core.ClearDepthOnly:
		return "depth"
	case core.ClearNone:
		return "none"
	}
	return "color_depth"
}
