package shaders

import (
	_ "embed"

	"github.com/gekko3d/lumen/render/gpu"
)

//go:embed standard.wgsl
var StandardWGSL string

//go:embed moments.wgsl
var MomentsWGSL string

//go:embed depth_normals.wgsl
var DepthNormalsWGSL string

//go:embed skybox.wgsl
var SkyboxWGSL string

//go:embed sprite.wgsl
var SpriteWGSL string

//go:embed text.wgsl
var TextWGSL string

// Texture slot names shared by materials, globals and shaders.
const (
	SlotMainTex   = "_MainTex"
	SlotShadowMap = "_ShadowMap"
	SlotCubemap   = "_Cubemap"
	SlotFontAtlas = "_FontAtlas"
)

var (
	Standard = &gpu.Shader{
		Name:         "standard",
		Source:       StandardWGSL,
		TextureSlots: []string{SlotMainTex, SlotShadowMap},
	}
	Moments = &gpu.Shader{
		Name:           "moments",
		Source:         MomentsWGSL,
		DepthOnlyColor: true,
	}
	DepthNormals = &gpu.Shader{
		Name:           "depthNormals",
		Source:         DepthNormalsWGSL,
		DepthOnlyColor: true,
	}
	Skybox = &gpu.Shader{
		Name:         "skybox",
		Source:       SkyboxWGSL,
		TextureSlots: []string{SlotCubemap},
		CubeSlots:    map[string]bool{SlotCubemap: true},
	}
	Sprite = &gpu.Shader{
		Name:         "sprite",
		Source:       SpriteWGSL,
		TextureSlots: []string{SlotMainTex},
	}
	Text = &gpu.Shader{
		Name:         "text",
		Source:       TextWGSL,
		TextureSlots: []string{SlotFontAtlas},
	}
)

// ByName resolves a builtin shader, as referenced from scene files.
func ByName(name string) (*gpu.Shader, bool) {
	switch name {
	case Standard.Name:
		return Standard, true
	case Moments.Name:
		return Moments, true
	case DepthNormals.Name:
		return DepthNormals, true
	case Skybox.Name:
		return Skybox, true
	case Sprite.Name:
		return Sprite, true
	case Text.Name:
		return Text, true
	}
	return nil, false
}
