package lumen

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/lumen/render/mesh"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestAssetServer_LoadMesh(t *testing.T) {
	root := t.TempDir()
	data, err := mesh.Encode(mesh.Cube(2))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "crate.a9"), data, 0o644))

	server := NewAssetServer(root)
	m, err := server.LoadMesh("crate.a9")
	require.NoError(t, err)
	assert.Equal(t, "crate.a9", m.Path)
	require.Len(t, m.SubMeshes, 1)
	assert.Equal(t, float32(2), m.AABBMax.X())

	again, err := server.LoadMesh("crate.a9")
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Len(t, server.meshes, 1)
}

func TestAssetServer_LoadMeshErrors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.a9"), []byte("xx"), 0o644))
	server := NewAssetServer(root)

	_, err := server.LoadMesh("missing.a9")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = server.LoadMesh("bad.a9")
	assert.ErrorIs(t, err, mesh.ErrCorrupted)
	assert.Empty(t, server.meshes)
}

func TestAssetServer_LoadMeshAllocationLimit(t *testing.T) {
	root := t.TempDir()
	data, err := mesh.Encode(mesh.Cube(1))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "cube.a9"), data, 0o644))

	app := NewAppBuilder().UseModule(AssetServerModule{Root: root, MaxMeshAllocation: 64}).Build()
	server, ok := Resource[AssetServer](app)
	require.True(t, ok)

	_, err = server.LoadMesh("cube.a9")
	assert.ErrorIs(t, err, mesh.ErrOutOfMemory)
}

func TestAssetServer_Builtins(t *testing.T) {
	server := NewAssetServer("")
	cube, err := server.LoadMesh(BuiltinCube)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), cube.AABBMax.X())

	quad, err := server.LoadMesh(BuiltinQuad)
	require.NoError(t, err)
	assert.Equal(t, "quad", quad.SubMeshes[0].Name)

	id := server.AddMesh(mesh.Cube(3))
	m, ok := server.Mesh(id)
	require.True(t, ok)
	assert.Equal(t, float32(3), m.AABBMax.X())
}

func TestAssetServer_LoadTexture2D(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "red.png"), 4, 2, color.RGBA{R: 255, A: 255})
	server := NewAssetServer(root)

	tex, err := server.LoadTexture2D("red.png")
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, "red.png", tex.Path)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[:4])

	again, err := server.LoadTexture2D("red.png")
	require.NoError(t, err)
	assert.Same(t, tex, again)

	_, err = server.LoadTexture2D("missing.png")
	assert.Error(t, err)
}

func TestAssetServer_LoadTextureCube(t *testing.T) {
	root := t.TempDir()
	var faces [6]string
	for i := range faces {
		faces[i] = filepath.Join(root, "face"+string(rune('0'+i))+".png")
		writePNG(t, faces[i], 2, 2, color.RGBA{B: uint8(i * 40), A: 255})
	}
	server := NewAssetServer("")

	cube, err := server.LoadTextureCube("sky", faces)
	require.NoError(t, err)
	assert.Equal(t, 2, cube.Size)
	assert.Equal(t, uint8(200), cube.Faces[5][2])

	faces[3] = filepath.Join(root, "wide.png")
	writePNG(t, faces[3], 4, 2, color.RGBA{A: 255})
	_, err = server.LoadTextureCube("broken", faces)
	assert.Error(t, err)
}
