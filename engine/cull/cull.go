// Package cull provides the early-rejection predicates the sync core runs
// before paying geometry conversion cost. A culled object is skipped
// entirely, not merely hidden.
package cull

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/host"
)

// Culler decides per object whether sync should skip it.
type Culler interface {
	// Test reports whether the object at the given world transform must be
	// skipped. It runs once per enumerated instance, before any conversion.
	Test(ob host.Object, tfm mgl32.Mat4) bool
}

// None is a Culler that never culls.
type None struct{}

// Test implements Culler.
func (None) Test(host.Object, mgl32.Mat4) bool { return false }

// Frustum culls objects whose scaled bounding sphere lies fully outside a
// camera frustum, expanded by a relative margin.
type Frustum struct {
	frustum common.Frustum
	margin  float32
}

// NewFrustum creates a frustum culler from a combined view-projection
// matrix. margin expands every object's bounding radius by the given factor
// (0.05 = 5%), keeping objects that cast into the frame from popping.
func NewFrustum(viewProj mgl32.Mat4, margin float32) *Frustum {
	return &Frustum{
		frustum: common.ExtractFrustum(viewProj),
		margin:  margin,
	}
}

// Test implements Culler.
func (f *Frustum) Test(ob host.Object, tfm mgl32.Mat4) bool {
	center := common.TransformTranslation(tfm)
	radius := ob.BoundingRadius() * common.TransformMaxScale(tfm)
	radius *= 1 + f.margin
	return !f.frustum.IntersectsSphere(center, radius)
}
