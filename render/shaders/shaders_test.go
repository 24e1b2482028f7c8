package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinShadersHaveEntryPoints(t *testing.T) {
	for _, s := range []string{Standard.Name, Moments.Name, DepthNormals.Name, Skybox.Name, Sprite.Name, Text.Name} {
		sh, ok := ByName(s)
		require.True(t, ok, s)
		assert.True(t, strings.Contains(sh.Source, "fn vs_main"), s)
		assert.True(t, strings.Contains(sh.Source, "fn fs_main"), s)
		assert.True(t, strings.Contains(sh.Source, "struct Uniforms"), s)
	}
}

func TestTextureSlotsMatchBindings(t *testing.T) {
	for _, s := range []string{Standard.Name, Skybox.Name, Sprite.Name, Text.Name} {
		sh, _ := ByName(s)
		for i := range sh.TextureSlots {
			assert.Contains(t, sh.Source, "@group(1) @binding("+string(rune('0'+2*i))+")", s)
			assert.Contains(t, sh.Source, "@group(1) @binding("+string(rune('0'+2*i+1))+")", s)
		}
	}
}

func TestUnknownShader(t *testing.T) {
	_, ok := ByName("nope")
	assert.False(t, ok)
}
