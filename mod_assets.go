package lumen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gekko3d/lumen/render/gpu"
	"github.com/gekko3d/lumen/render/mesh"
)

type AssetId string

// Builtin mesh paths resolved without touching the filesystem.
const (
	BuiltinCube = "builtin:cube"
	BuiltinQuad = "builtin:quad"
)

// AssetServer loads meshes and textures once per path and hands out shared
// instances. It satisfies scene.Loader.
type AssetServer struct {
	root string

	meshes   map[AssetId]*mesh.Mesh
	textures map[AssetId]*gpu.Texture2D
	cubes    map[AssetId]*gpu.TextureCube
	byPath   map[string]AssetId

	decoder mesh.Decoder
}

type AssetServerModule struct {
	// Root is the base directory for relative asset paths.
	Root string
	// MaxMeshAllocation caps the bytes a mesh file may declare. Zero uses the decoder default.
	MaxMeshAllocation int
}

func NewAssetServer(root string) *AssetServer {
	return &AssetServer{
		root:     root,
		meshes:   make(map[AssetId]*mesh.Mesh),
		textures: make(map[AssetId]*gpu.Texture2D),
		cubes:    make(map[AssetId]*gpu.TextureCube),
		byPath:   make(map[string]AssetId),
	}
}

func (server *AssetServer) resolve(path string) string {
	if filepath.IsAbs(path) || server.root == "" {
		return path
	}
	return filepath.Join(server.root, path)
}

func (server *AssetServer) Mesh(id AssetId) (*mesh.Mesh, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

func (server *AssetServer) Texture(id AssetId) (*gpu.Texture2D, bool) {
	t, ok := server.textures[id]
	return t, ok
}

// AddMesh registers an already built mesh under a fresh id.
func (server *AssetServer) AddMesh(m *mesh.Mesh) AssetId {
	id := makeAssetId()
	server.meshes[id] = m
	if m.Path != "" {
		server.byPath["mesh:"+m.Path] = id
	}
	return id
}

// LoadMesh returns the mesh stored at path, decoding it on first use.
func (server *AssetServer) LoadMesh(path string) (*mesh.Mesh, error) {
	if id, ok := server.byPath["mesh:"+path]; ok {
		return server.meshes[id], nil
	}

	var m *mesh.Mesh
	switch path {
	case BuiltinCube:
		m = mesh.Cube(0.5)
	case BuiltinQuad:
		m = mesh.Quad()
	default:
		data, err := os.ReadFile(server.resolve(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read mesh %s: %w", path, err)
		}
		m, err = server.decoder.Decode(data, path)
		if err != nil {
			return nil, err
		}
	}
	m.Path = path

	server.AddMesh(m)
	return m, nil
}

// LoadTexture2D returns the texture stored at path, decoding it on first use.
func (server *AssetServer) LoadTexture2D(path string) (*gpu.Texture2D, error) {
	if id, ok := server.byPath["tex:"+path]; ok {
		return server.textures[id], nil
	}

	data, err := os.ReadFile(server.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read texture %s: %w", path, err)
	}
	tex, err := gpu.DecodeTexture2D(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}
	tex.Path = path

	id := makeAssetId()
	server.textures[id] = tex
	server.byPath["tex:"+path] = id
	return tex, nil
}

// LoadTextureCube builds a cube texture from six square images in
// +X, -X, +Y, -Y, +Z, -Z order.
func (server *AssetServer) LoadTextureCube(name string, faces [6]string) (*gpu.TextureCube, error) {
	key := "cube:" + strings.Join(faces[:], "|")
	if id, ok := server.byPath[key]; ok {
		return server.cubes[id], nil
	}

	cube := &gpu.TextureCube{Name: name}
	for i, path := range faces {
		tex, err := server.LoadTexture2D(path)
		if err != nil {
			return nil, err
		}
		if tex.Width != tex.Height {
			return nil, fmt.Errorf("cube face %s is not square: %dx%d", path, tex.Width, tex.Height)
		}
		if i == 0 {
			cube.Size = tex.Width
		} else if tex.Width != cube.Size {
			return nil, fmt.Errorf("cube face %s is %d pixels, expected %d", path, tex.Width, cube.Size)
		}
		cube.Faces[i] = tex.Pixels
	}

	id := makeAssetId()
	server.cubes[id] = cube
	server.byPath[key] = id
	return cube, nil
}

func (mod AssetServerModule) Install(app *App, cmd *Commands) {
	server := NewAssetServer(mod.Root)
	server.decoder.MaxAllocation = mod.MaxMeshAllocation
	app.addResources(server)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
