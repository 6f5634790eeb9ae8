package sync

import (
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

// rayVisibilityMask converts per-ray switches into a render visibility mask.
func rayVisibilityMask(v host.RayVisibility) uint32 {
	var mask uint32
	if v.Camera {
		mask |= render.PathRayCamera
	}
	if v.Diffuse {
		mask |= render.PathRayDiffuse
	}
	if v.Glossy {
		mask |= render.PathRayGlossy
	}
	if v.Transmission {
		mask |= render.PathRayTransmission
	}
	if v.VolumeScatter {
		mask |= render.PathRayVolumeScatter
	}
	if v.Shadow {
		mask |= render.PathRayShadow
	}
	return mask
}

// resolveVisibility composes the final visibility mask and holdout flag for
// an object under its instancing parent. Parent flags restrict, never
// extend. Indirect-only parents clear the camera bit unless the object is a
// holdout. A zero mask means the object must not be synced at all.
func resolveVisibility(ob, parent host.Object, layer host.ViewLayer) (mask uint32, holdout bool) {
	mask = rayVisibilityMask(ob.RayVisibility()) & render.PathRayAllVisibility

	if parent.Handle() != ob.Handle() {
		mask &= rayVisibilityMask(parent.RayVisibility())
	}

	holdout = ob.Holdout() || layer.Holdout(parent)

	if !holdout && layer.IndirectOnly(parent) {
		mask &^= render.PathRayCamera
	}

	return mask, holdout
}
