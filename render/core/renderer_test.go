package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/lumen/render/gpu"
	"github.com/gekko3d/lumen/render/mesh"
)

var (
	testShader     = &gpu.Shader{Name: "test", TextureSlots: []string{"_MainTex", GlobalShadowMap}}
	overrideShader = &gpu.Shader{Name: "override"}
)

func twoSubMeshes() *mesh.Mesh {
	cube := mesh.Cube(1)
	far := cube.SubMeshes[0]
	far.Name = "far"
	far.AABBMin = mgl32.Vec3{500, 500, 500}
	far.AABBMax = mgl32.Vec3{501, 501, 501}
	return &mesh.Mesh{SubMeshes: []mesh.SubMesh{cube.SubMeshes[0], far}}
}

func frustumAt(z float32) *Frustum {
	var f Frustum
	f.SetPerspective(60, 1, 0.1, 100)
	f.Update(mgl32.Vec3{0, 0, z}, mgl32.Vec3{0, 0, -1})
	return &f
}

func TestMeshRendererSkipsMissingMaterials(t *testing.T) {
	r := &MeshRenderer{}
	r.SetMesh(mesh.Cube(1))
	rec := gpu.NewRecorder()

	r.Render(rec, DrawParams{LocalToWorld: mgl32.Ident4(), Frustum: frustumAt(5)})
	assert.Empty(t, rec.Draws(""))

	r.SetMaterial(NewMaterial("m", testShader), 3)
	r.Render(rec, DrawParams{LocalToWorld: mgl32.Ident4(), Frustum: frustumAt(5)})
	assert.Empty(t, rec.Draws(""))
	assert.Nil(t, r.Material(1))

	r.SetMaterial(NewMaterial("m", testShader), 0)
	r.Render(rec, DrawParams{LocalToWorld: mgl32.Ident4(), Frustum: frustumAt(5)})
	assert.Len(t, rec.Draws("test"), 1)
}

func TestMeshRendererCullsSubMeshes(t *testing.T) {
	r := &MeshRenderer{}
	r.SetMesh(twoSubMeshes())
	mat := NewMaterial("m", testShader)
	r.SetMaterial(mat, 0)
	r.SetMaterial(mat, 1)

	rec := gpu.NewRecorder()
	r.Render(rec, DrawParams{LocalToWorld: mgl32.Ident4(), Frustum: frustumAt(5)})
	draws := rec.Draws("")
	require.Len(t, draws, 1)
	assert.Equal(t, r.Mesh().SubMeshes[0].Buffer, draws[0].Buffer)
	assert.Equal(t, 12, draws[0].EndFace)

	rec.Reset()
	r.Render(rec, DrawParams{LocalToWorld: mgl32.Ident4()})
	assert.Len(t, rec.Draws(""), 2)
}

func TestMeshRendererOverrideShader(t *testing.T) {
	r := &MeshRenderer{}
	r.SetMesh(mesh.Cube(1))

	rec := gpu.NewRecorder()
	mvp := mgl32.Translate3D(1, 2, 3)
	r.Render(rec, DrawParams{ModelViewProjection: mvp, LocalToWorld: mgl32.Ident4(), Frustum: frustumAt(5), Override: overrideShader})

	draws := rec.Draws("override")
	require.Len(t, draws, 1)
	assert.Equal(t, mvp, draws[0].Uniforms.ModelViewProjection)
	assert.Empty(t, draws[0].Textures)
}

func TestMeshRendererBindsGlobals(t *testing.T) {
	r := &MeshRenderer{}
	r.SetMesh(mesh.Cube(1))
	mat := NewMaterial("m", testShader)
	white := gpu.SolidTexture2D("white", 255, 255, 255, 255)
	mat.SetTexture("_MainTex", white)
	r.SetMaterial(mat, 0)

	globals := NewMaterialGlobals()
	var shadow gpu.RenderTexture
	shadow.Create2D(64, 64, gpu.DataTypeFloat, "shadow")
	lightVP := mgl32.Scale3D(2, 2, 2)
	globals.SetTexture(GlobalShadowMap, &shadow)
	globals.SetMatrix(GlobalLightViewProjection, lightVP)

	rec := gpu.NewRecorder()
	r.Render(rec, DrawParams{LocalToWorld: mgl32.Ident4(), Globals: globals})
	draws := rec.Draws("test")
	require.Len(t, draws, 1)
	assert.Equal(t, []gpu.TextureBinding{
		{Name: "_MainTex", Texture: white},
		{Name: GlobalShadowMap, Texture: &shadow},
	}, draws[0].Textures)
	assert.Equal(t, lightVP, draws[0].Uniforms.LightViewProjection)
	assert.Equal(t, float32(1), draws[0].Uniforms.Params.X())

	mat.ReceiveShadows = false
	rec.Reset()
	r.Render(rec, DrawParams{LocalToWorld: mgl32.Ident4(), Globals: globals})
	assert.Equal(t, float32(0), rec.Draws("test")[0].Uniforms.Params.X())
}

func TestSpriteRendererFaceRanges(t *testing.T) {
	r := &SpriteRenderer{Shader: &gpu.Shader{Name: "sprite", TextureSlots: []string{"_MainTex"}}}
	a := gpu.SolidTexture2D("a", 255, 0, 0, 255)
	b := gpu.SolidTexture2D("b", 0, 255, 0, 255)
	r.Add(Sprite{Texture: a, Position: mgl32.Vec3{0, 0, 0}, Dimension: mgl32.Vec2{10, 10}, Tint: mgl32.Vec4{1, 1, 1, 1}})
	r.Add(Sprite{Texture: nil, Dimension: mgl32.Vec2{5, 5}})
	r.Add(Sprite{Texture: b, Position: mgl32.Vec3{20, 0, 0}, Dimension: mgl32.Vec2{4, 8}, Tint: mgl32.Vec4{1, 1, 1, 1}})

	rec := gpu.NewRecorder()
	r.Render(rec, mgl32.Ident4())
	draws := rec.Draws("sprite")
	require.Len(t, draws, 2)
	assert.Equal(t, 0, draws[0].StartFace)
	assert.Equal(t, 2, draws[0].EndFace)
	assert.Equal(t, 4, draws[1].StartFace)
	assert.Equal(t, 6, draws[1].EndFace)
	assert.Equal(t, gpu.BlendAlpha, draws[1].Blend)
	assert.Equal(t, mgl32.Vec3{24, 8, 0}, draws[1].Buffer.Vertices[10].Position)
}

func TestTextRendererBuildsGlyphQuads(t *testing.T) {
	f, err := DefaultFont(16)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Glyphs)
	assert.Equal(t, 512, f.Atlas.Width)

	r := NewTextRenderer(f, &gpu.Shader{Name: "text", TextureSlots: []string{"_FontAtlas"}})
	rec := gpu.NewRecorder()
	r.Render(rec, mgl32.Ident4())
	assert.Empty(t, rec.Draws(""))

	r.SetText("Hi there")
	r.Render(rec, mgl32.Ident4())
	draws := rec.Draws("text")
	require.Len(t, draws, 1)
	// Space has no visible glyph mask but still advances.
	assert.GreaterOrEqual(t, draws[0].EndFace, 14)
	assert.Equal(t, f.Atlas, draws[0].Textures[0].Texture)

	w, h := f.Measure("Hi\nthere")
	assert.Greater(t, w, float32(0))
	assert.Equal(t, 2*f.LineHeight(), h)
}
