package core

import (
	"github.com/gekko3d/lumen/render/gpu"
)

// DefaultShadowMapSize is used when a light enables shadows without a size.
const DefaultShadowMapSize = 1024

// shadowCaster owns a lazily allocated moments shadow map.
type shadowCaster struct {
	castShadow bool
	shadowMap  gpu.RenderTexture
}

// SetCastShadow toggles shadow casting. The shadow map is allocated on the
// first enable and kept afterwards.
func (s *shadowCaster) SetCastShadow(enable bool, size int) {
	s.castShadow = enable
	if !enable || s.shadowMap.IsCreated() {
		return
	}
	if size <= 0 {
		size = DefaultShadowMapSize
	}
	s.shadowMap.Create2D(size, size, gpu.DataTypeFloat, "shadow map")
}

func (s *shadowCaster) CastsShadow() bool { return s.castShadow }

// ShadowMap returns nil until shadows have been enabled once.
func (s *shadowCaster) ShadowMap() *gpu.RenderTexture {
	if !s.shadowMap.IsCreated() {
		return nil
	}
	return &s.shadowMap
}

// DirectionalLight shines along its transform's view direction.
type DirectionalLight struct {
	shadowCaster
}

// SpotLight shines from its transform's position along its view direction.
type SpotLight struct {
	shadowCaster
	ConeAngle float32
}

func NewSpotLight() *SpotLight {
	return &SpotLight{ConeAngle: 45}
}
