package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen/render/core"
)

// Spot shadows use a fixed frustum that ignores the cone angle and reach of the light.
const (
	spotShadowReach = 200
	spotShadowFov   = 45
	spotShadowNear  = 1
	spotShadowFar   = 200
)

// shadowUp is +Y unless the shadow camera looks along Y, where +Z is used.
func shadowUp(direction mgl32.Vec3) mgl32.Vec3 {
	if d := direction.Normalize().Y(); d > 0.999 || d < -0.999 {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{0, 1, 0}
}

// FitSpot aims the shadow camera from the light position along its direction.
func FitSpot(position, direction mgl32.Vec3, cam *core.Camera, t *core.Transform) {
	t.LookAt(position, position.Add(direction.Mul(spotShadowReach)), shadowUp(direction))
	cam.SetProjectionType(core.Perspective)
	cam.SetPerspective(spotShadowFov, 1, spotShadowNear, spotShadowFar)
}

// LightSpaceBounds are the extents of the eye frustum and the scene box in the
// shadow camera's view space, before the near plane is widened.
type LightSpaceBounds struct {
	ViewMin  mgl32.Vec3
	ViewMax  mgl32.Vec3
	SceneMin mgl32.Vec3
	SceneMax mgl32.Vec3
}

// FitDirectional fits an orthographic shadow camera around the eye frustum.
// The camera is placed at the frustum centroid pushed back along the light
// direction by the eye far distance, looking at the centroid with +Y up, or +Z
// up when the light is vertical. The x/y extents
// come from the eye frustum in light space; the near plane is pulled back to
// the scene box when the box reaches closer to the light than the frustum does.
// Light space looks down -Z, so the depth range is [-maxZ, -minZ].
func FitDirectional(lightDirection mgl32.Vec3, eye *core.Frustum, scene core.AABB, cam *core.Camera, t *core.Transform) LightSpaceBounds {
	centroid := eye.Centroid()

	assertNotNaN(lightDirection, "light direction")
	assertNotNaN(scene.Min, "scene AABB min")
	assertNotNaN(scene.Max, "scene AABB max")
	assertNotNaN(centroid, "eye frustum")
	if cam.TargetTexture == nil {
		panic("shadow camera needs a target texture")
	}
	if l := lightDirection.Len(); l <= 0.9 || l >= 1.1 {
		panic(fmt.Sprintf("light direction must be normalized, length is %f", l))
	}

	position := centroid.Add(lightDirection.Mul(eye.FarClipPlane()))
	t.LookAt(position, centroid, shadowUp(lightDirection))
	view := t.ViewMatrix()

	corners := eye.Corners()
	for i := range corners {
		corners[i] = core.TransformPoint(view, corners[i])
	}
	var b LightSpaceBounds
	b.ViewMin, b.ViewMax = core.GetMinMax(corners[:])

	if !scene.IsEmpty() {
		sceneCorners := scene.Corners()
		for i := range sceneCorners {
			sceneCorners[i] = core.TransformPoint(view, sceneCorners[i])
		}
		b.SceneMin, b.SceneMax = core.GetMinMax(sceneCorners[:])
	} else {
		b.SceneMin, b.SceneMax = b.ViewMin, b.ViewMax
	}

	minLS, maxLS := b.ViewMin, b.ViewMax
	// Only the near side is widened, and only toward the light.
	if b.SceneMax.Z() > maxLS.Z() {
		maxLS[2] = b.SceneMax.Z()
	}

	cam.SetProjectionType(core.Orthographic)
	cam.SetOrthographic(minLS.X(), maxLS.X(), minLS.Y(), maxLS.Y(), -maxLS.Z(), -minLS.Z())
	return b
}

func assertNotNaN(v mgl32.Vec3, what string) {
	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(v[i])) {
			panic(fmt.Sprintf("invalid %s: %v", what, v))
		}
	}
}
