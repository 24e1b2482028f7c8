package scene

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/lumen/render/core"
	"github.com/gekko3d/lumen/render/gpu"
	"github.com/gekko3d/lumen/render/mesh"
	"github.com/gekko3d/lumen/render/shaders"
)

type fakeLoader struct {
	meshes   map[string]*mesh.Mesh
	textures map[string]*gpu.Texture2D
}

func newFakeLoader() *fakeLoader {
	cube := mesh.Cube(1)
	cube.Path = "assets/cube.a9"
	return &fakeLoader{
		meshes:   map[string]*mesh.Mesh{cube.Path: cube},
		textures: map[string]*gpu.Texture2D{
			"assets/wall.png":   gpu.SolidTexture2D("", 200, 200, 200, 255),
			"assets/button.png": gpu.SolidTexture2D("", 255, 0, 0, 255),
		},
	}
}

func (l *fakeLoader) LoadMesh(path string) (*mesh.Mesh, error) {
	if m, ok := l.meshes[path]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

func (l *fakeLoader) LoadTexture2D(path string) (*gpu.Texture2D, error) {
	if t, ok := l.textures[path]; ok {
		return t, nil
	}
	return nil, errors.New("not found")
}

func (l *fakeLoader) deserializer(log Logger) *Deserializer {
	return &Deserializer{Loader: l, Logger: log, Font: testFont}
}

var testFont = &core.Font{Glyphs: map[rune]core.GlyphInfo{}}

const sampleScene = `# sample
texture2d wall assets/wall.png
texture2d button assets/button.png
material brick standard
param_texture _MainTex wall
param_tint 1 0.5 0.5 1

gameobject main camera
layer 1
transform
position 0 2 10
rotation 0 0 0 1
scale 1
camera
persp 60 1.5 0.5 300
projection perspective
clearcolor 0.1 0.2 0.3
clearflag depth
renderorder 2
layermask 3

gameobject box
layer 2
meshrenderer assets/cube.a9
mesh_material cube brick
transform
position 1 0 -5
scale 2

gameobject sun
transform
rotation -0.38268343 0 0 0.9238795
dirlight
shadow 1

gameobject lamp
transform
position 0 5 0
spotlight
coneangle 30
shadow 1
audiosource hum.ogg 1

gameobject hud
camera
ortho 0 800 0 600 -1 1
projection orthographic
spriterenderer
sprite button 10 20 0 64 32 1 1 1 0.5
textrenderer 1 1 0 1
text "Hello \"world\""
`

func TestDeserializeSampleScene(t *testing.T) {
	log := &testLogger{}
	c, err := newFakeLoader().deserializer(log).Deserialize(strings.NewReader(sampleScene), "sample.scene")
	require.NoError(t, err)
	require.Len(t, c.Entities, 5)
	assert.Empty(t, log.warnings)

	cam := c.Entities[0]
	assert.Equal(t, "main camera", cam.Name)
	require.NotNil(t, cam.Camera)
	assert.Equal(t, mgl32.Vec3{0, 2, 10}, cam.Transform.Position)
	assert.Equal(t, float32(60), cam.Camera.FovDegrees())
	assert.Equal(t, float32(1.5), cam.Camera.Aspect())
	assert.Equal(t, core.ClearDepthOnly, cam.Camera.ClearFlag)
	assert.Equal(t, 2, cam.Camera.RenderOrder)
	assert.Equal(t, uint32(3), cam.Camera.LayerMask)

	box := c.Entities[1]
	assert.Equal(t, uint32(2), box.Layer)
	require.NotNil(t, box.MeshRenderer.Mesh())
	mat := box.MeshRenderer.Material(0)
	require.NotNil(t, mat)
	assert.Same(t, c.Materials["brick"], mat)
	assert.Same(t, shaders.Standard, mat.Shader)
	assert.Same(t, c.Textures["wall"], mat.Texture(shaders.SlotMainTex))
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0.5, 1}, mat.Tint)
	assert.Equal(t, float32(2), box.Transform.Scale)

	sun := c.Entities[2]
	require.NotNil(t, sun.DirectionalLight)
	assert.True(t, sun.DirectionalLight.CastsShadow())
	assert.Equal(t, 512, sun.DirectionalLight.ShadowMap().Width())

	lamp := c.Entities[3]
	require.NotNil(t, lamp.SpotLight)
	assert.Equal(t, float32(30), lamp.SpotLight.ConeAngle)
	assert.True(t, lamp.SpotLight.CastsShadow())
	require.NotNil(t, lamp.AudioSource)
	assert.Equal(t, "hum.ogg", lamp.AudioSource.Clip)
	assert.True(t, lamp.AudioSource.Loop)

	hud := c.Entities[4]
	assert.Nil(t, hud.Transform)
	assert.Equal(t, core.Orthographic, hud.Camera.ProjectionType())
	assert.Equal(t, float32(800), hud.Camera.Right())
	sprites := hud.SpriteRenderer.Sprites()
	require.Len(t, sprites, 1)
	assert.Same(t, c.Textures["button"], sprites[0].Texture)
	assert.Equal(t, mgl32.Vec2{64, 32}, sprites[0].Dimension)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 0.5}, sprites[0].Tint)
	assert.Equal(t, `Hello "world"`, hud.TextRenderer.Text())
	assert.Equal(t, mgl32.Vec4{1, 1, 0, 1}, hud.TextRenderer.Color)
}

func TestSerializeRoundTrip(t *testing.T) {
	loader := newFakeLoader()
	d := loader.deserializer(&testLogger{})
	first, err := d.Deserialize(strings.NewReader(sampleScene), "sample.scene")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, first.Entities))

	second, err := d.Deserialize(bytes.NewReader(buf.Bytes()), "roundtrip.scene")
	require.NoError(t, err, buf.String())
	require.Len(t, second.Entities, len(first.Entities))

	for i, a := range first.Entities {
		b := second.Entities[i]
		assert.Equal(t, a.Name, b.Name)
		assert.Equal(t, a.Layer, b.Layer)
		assert.Equal(t, a.Transform == nil, b.Transform == nil, a.Name)
		if a.Transform != nil {
			assert.Equal(t, a.Transform.Position, b.Transform.Position, a.Name)
			assert.Equal(t, a.Transform.Rotation, b.Transform.Rotation, a.Name)
			assert.Equal(t, a.Transform.Scale, b.Transform.Scale, a.Name)
		}
		assert.Equal(t, a.Camera == nil, b.Camera == nil, a.Name)
		if a.Camera != nil {
			assert.Equal(t, a.Camera.ProjectionType(), b.Camera.ProjectionType(), a.Name)
			assert.Equal(t, a.Camera.Projection(), b.Camera.Projection(), a.Name)
			assert.Equal(t, a.Camera.ClearColor, b.Camera.ClearColor, a.Name)
			assert.Equal(t, a.Camera.ClearFlag, b.Camera.ClearFlag, a.Name)
			assert.Equal(t, a.Camera.RenderOrder, b.Camera.RenderOrder, a.Name)
			assert.Equal(t, a.Camera.LayerMask, b.Camera.LayerMask, a.Name)
		}
		assert.Equal(t, a.MeshRenderer == nil, b.MeshRenderer == nil, a.Name)
		if a.MeshRenderer != nil {
			assert.Same(t, a.MeshRenderer.Mesh(), b.MeshRenderer.Mesh(), a.Name)
			require.NotNil(t, b.MeshRenderer.Material(0))
			assert.Equal(t, a.MeshRenderer.Material(0).Name, b.MeshRenderer.Material(0).Name)
			assert.Equal(t, a.MeshRenderer.Material(0).Tint, b.MeshRenderer.Material(0).Tint)
			assert.Same(t, a.MeshRenderer.Material(0).Texture(shaders.SlotMainTex), b.MeshRenderer.Material(0).Texture(shaders.SlotMainTex))
		}
		assert.Equal(t, a.DirectionalLight == nil, b.DirectionalLight == nil, a.Name)
		if a.DirectionalLight != nil {
			assert.Equal(t, a.DirectionalLight.CastsShadow(), b.DirectionalLight.CastsShadow())
		}
		assert.Equal(t, a.SpotLight == nil, b.SpotLight == nil, a.Name)
		if a.SpotLight != nil {
			assert.Equal(t, a.SpotLight.ConeAngle, b.SpotLight.ConeAngle)
			assert.Equal(t, a.SpotLight.CastsShadow(), b.SpotLight.CastsShadow())
		}
		assert.Equal(t, a.AudioSource, b.AudioSource, a.Name)
		if a.SpriteRenderer != nil {
			assert.Equal(t, a.SpriteRenderer.Sprites(), b.SpriteRenderer.Sprites())
		}
		if a.TextRenderer != nil {
			assert.Equal(t, a.TextRenderer.Text(), b.TextRenderer.Text())
			assert.Equal(t, a.TextRenderer.Color, b.TextRenderer.Color)
		}
	}
}

func TestSerializeWritesSideTablesFirst(t *testing.T) {
	c, err := newFakeLoader().deserializer(nil).Deserialize(strings.NewReader(sampleScene), "sample.scene")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, c.Entities))
	out := buf.String()

	firstObject := strings.Index(out, "gameobject")
	require.GreaterOrEqual(t, firstObject, 0)
	assert.Less(t, strings.Index(out, "texture2d wall assets/wall.png"), firstObject)
	assert.Less(t, strings.Index(out, "material brick standard"), firstObject)
	assert.Less(t, strings.Index(out, "param_texture _MainTex wall"), firstObject)
	assert.Contains(t, out, "mesh_material cube brick")
	assert.Contains(t, out, `text "Hello \"world\""`)
}

func TestDeserializeComponentBeforeGameObjectFails(t *testing.T) {
	c, err := newFakeLoader().deserializer(nil).Deserialize(strings.NewReader("position 1 2 3\ngameobject late\n"), "bad.scene")
	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
	assert.Equal(t, "position", pe.Token)
	assert.Equal(t, "bad.scene", pe.Path)
}

func TestDeserializeParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing transform":    "gameobject a\nposition 1 2 3\n",
		"missing camera":       "gameobject a\npersp 45 1 1 100\n",
		"bad projection":       "gameobject a\ncamera\nprojection fisheye\n",
		"bad number":           "gameobject a\ntransform\nposition 1 two 3\n",
		"too few values":       "gameobject a\ntransform\nrotation 0 0 1\n",
		"mesh_material first":  "gameobject a\nmesh_material cube brick\n",
		"shadow without light": "gameobject a\nshadow 1\n",
		"param_texture first":  "texture2d wall assets/wall.png\nparam_texture _MainTex wall\n",
		"bad clear flag":       "gameobject a\ncamera\nclearflag sometimes\n",
		"layer overflow":       "gameobject a\nlayer 4294967296\n",
		"negative layer":       "gameobject a\nlayer -1\n",
		"layermask overflow":   "gameobject a\ncamera\nlayermask 0x1ffffffff\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := newFakeLoader().deserializer(nil).Deserialize(strings.NewReader(src), "case.scene")
			assert.ErrorIs(t, err, ErrParse)
			assert.Nil(t, c)
		})
	}
}

func TestDeserializeLayerMasksUseFullRange(t *testing.T) {
	src := "gameobject a\nlayer 4294967295\ncamera\nlayermask 0x80000001\n"
	c, err := newFakeLoader().deserializer(nil).Deserialize(strings.NewReader(src), "mask.scene")
	require.NoError(t, err)
	require.Len(t, c.Entities, 1)
	assert.Equal(t, uint32(0xffffffff), c.Entities[0].Layer)
	assert.Equal(t, uint32(0x80000001), c.Entities[0].Camera.LayerMask)

	_, err = newFakeLoader().deserializer(nil).Deserialize(strings.NewReader("gameobject a\nlayer 4294967296\n"), "mask.scene")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "layer", pe.Token)
	assert.Contains(t, pe.Reason, "overflows")
}

func TestDeserializeMissingAssetsWarn(t *testing.T) {
	log := &testLogger{}
	src := "texture2d gone assets/missing.png\nmaterial m\nparam_texture _MainTex gone\n" +
		"gameobject a\nmeshrenderer assets/missing.a9\nmesh_material cube m\n" +
		"gameobject b\nmeshrenderer assets/cube.a9\nmesh_material cube undefined\nfrobnicate 1 2 3\n"

	c, err := newFakeLoader().deserializer(log).Deserialize(strings.NewReader(src), "warn.scene")
	require.NoError(t, err)
	require.Len(t, c.Entities, 2)
	assert.Nil(t, c.Entities[0].MeshRenderer.Mesh())
	assert.Nil(t, c.Entities[1].MeshRenderer.Material(0))
	assert.Nil(t, c.Materials["m"].Texture(shaders.SlotMainTex))
	assert.Same(t, shaders.Standard, c.Materials["m"].Shader)
	assert.Len(t, log.warnings, 5)
}
