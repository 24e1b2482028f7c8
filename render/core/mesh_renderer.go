package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/gpu"
	"github.com/gekko3d/lumen/render/mesh"
)

// Global binding names published by the shadow pass.
const (
	GlobalShadowMap           = "_ShadowMap"
	GlobalLightViewProjection = "_LightViewProjection"
)

const (
	shadowMinVariance    = 0.00002
	shadowBleedReduction = 0.2
)

// MeshRenderer references an externally owned mesh and one material per submesh.
// The material list is independent of the submesh count; a submesh without a
// material is skipped.
type MeshRenderer struct {
	mesh      *mesh.Mesh
	materials []*Material
}

func (r *MeshRenderer) SetMesh(m *mesh.Mesh) { r.mesh = m }
func (r *MeshRenderer) Mesh() *mesh.Mesh     { return r.mesh }

func (r *MeshRenderer) SetMaterial(m *Material, subMeshIndex int) {
	if subMeshIndex < 0 {
		return
	}
	for len(r.materials) <= subMeshIndex {
		r.materials = append(r.materials, nil)
	}
	r.materials[subMeshIndex] = m
}

// Material returns the material for a submesh or nil.
func (r *MeshRenderer) Material(subMeshIndex int) *Material {
	if subMeshIndex < 0 || subMeshIndex >= len(r.materials) {
		return nil
	}
	return r.materials[subMeshIndex]
}

// DrawParams carries per-entity matrices and pass state into Render.
type DrawParams struct {
	ModelView           mgl32.Mat4
	ModelViewProjection mgl32.Mat4
	LocalToWorld        mgl32.Mat4
	Frustum             *Frustum
	// Override replaces every material's shader and state (moments, depth-normals).
	Override *gpu.Shader
	Globals  *MaterialGlobals
}

// Render issues one draw per submesh that survives frustum culling.
func (r *MeshRenderer) Render(dev gpu.Device, p DrawParams) {
	if r.mesh == nil {
		return
	}
	lightVP, hasLight := p.Globals.Matrix(GlobalLightViewProjection)

	for i := range r.mesh.SubMeshes {
		sm := &r.mesh.SubMeshes[i]
		if sm.Buffer == nil || sm.Buffer.FaceCount() == 0 {
			continue
		}
		if p.Frustum != nil {
			world := AABB{Min: sm.AABBMin, Max: sm.AABBMax}.Transformed(p.LocalToWorld)
			if !p.Frustum.BoxInFrustum(world) {
				continue
			}
		}

		call := gpu.DrawCall{
			Buffer:    sm.Buffer,
			StartFace: 0,
			EndFace:   sm.Buffer.FaceCount(),
			Uniforms: gpu.Uniforms{
				ModelViewProjection: p.ModelViewProjection,
				ModelView:           p.ModelView,
				LocalToWorld:        p.LocalToWorld,
				LightViewProjection: lightVP,
				Tint:                mgl32.Vec4{1, 1, 1, 1},
			},
		}

		if p.Override != nil {
			call.Shader = p.Override
			call.Blend = gpu.BlendOff
			call.Depth = gpu.DepthLessOrEqualWriteOn
			call.Cull = gpu.CullBack
		} else {
			mat := r.Material(i)
			if mat == nil || mat.Shader == nil {
				continue
			}
			call.Shader = mat.Shader
			call.Blend = mat.Blend
			call.Depth = mat.Depth
			call.Cull = mat.Cull
			call.Uniforms.Tint = mat.Tint
			call.Textures = bindings(mat, p.Globals)
			receive := float32(0)
			if mat.ReceiveShadows && hasLight && p.Globals.Texture(GlobalShadowMap) != nil {
				receive = 1
			}
			call.Uniforms.Params = mgl32.Vec4{receive, shadowMinVariance, shadowBleedReduction, 0}
		}
		dev.Draw(call)
	}
}
