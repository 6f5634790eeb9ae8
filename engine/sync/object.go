package sync

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

// objectIsGeometry reports whether an object's data can produce render
// geometry. Curves only qualify when something gives them faces; exporting
// face-less curves is pure overhead when many exist for path animation.
// Volumes and point clouds qualify because they export attached to a host
// mesh.
func objectIsGeometry(ob host.Object) bool {
	data := ob.Data()
	if data == nil {
		return false
	}
	switch ob.Kind() {
	case host.KindVolume, host.KindPointCloud:
		return true
	case host.KindCurve:
		curve, ok := data.(host.CurveData)
		if !ok {
			return false
		}
		return curve.HasBevelObject() || curve.Extrude() != 0 || curve.BevelDepth() != 0 ||
			curve.Is2D() || ob.ModifierCount() > 0
	case host.KindMesh, host.KindMetaball:
		return true
	default:
		return false
	}
}

// objectMotionSteps returns the motion sample count for an object, or 0 when
// motion blur is off for it. The parent is consulted too so instancers can
// control blur for linked duplicates. Uneven counts keep a keyframe at the
// current frame; power-of-two spacing keeps objects with differing counts on
// matching sample times.
func objectMotionSteps(parent, ob host.Object, maxSteps int) int {
	if !ob.UseMotionBlur() {
		return 0
	}
	steps := max(1, ob.MotionSteps())
	if parent.Handle() != ob.Handle() {
		if !parent.UseMotionBlur() {
			return 0
		}
		steps = max(steps, parent.MotionSteps())
	}
	return min((2<<(steps-1))+1, maxSteps)
}

func objectUseDeformMotion(parent, ob host.Object) bool {
	if parent.Handle() != ob.Handle() && !parent.UseDeformMotion() {
		return false
	}
	return ob.UseDeformMotion()
}

// assetName walks parent links to the root and returns that ancestor's name,
// grouping all children of one asset under it. The walk is depth-bounded so
// cyclic host parent links terminate at the last visited ancestor.
func assetName(ob host.Object) string {
	parent := ob.Parent()
	if parent == nil {
		return ob.Name()
	}
	for depth := 0; parent.Parent() != nil && depth < maxParentDepth; depth++ {
		parent = parent.Parent()
	}
	return parent.Name()
}

// syncObject is the per-instance state machine. In order, first match wins:
// lights delegate to light sync (terminal), non-geometry data skips, culled
// and fully invisible objects skip, motion passes only update the matching
// motion slot of an existing entity, and everything else full-syncs.
func (s *Syncer) syncObject(inst host.Instance, motionTime float32, hair bool, disp *geometryDispatcher, usePortal *bool) (*render.Object, error) {
	isInstance := inst.IsInstance()
	ob := inst.Object()
	parent := inst.Parent()
	obInstance := inst.InstanceObject()
	motion := motionTime != 0
	tfm := inst.MatrixWorld()

	if !motion && ob.Kind() == host.KindLight {
		if !s.showLights {
			s.stats.Skipped++
			return nil, nil
		}
		return nil, s.syncLight(inst, tfm, usePortal)
	}

	if !objectIsGeometry(ob) {
		s.stats.Skipped++
		return nil, nil
	}

	// Cull before any conversion cost is paid.
	if s.culler.Test(ob, tfm) {
		s.stats.Culled++
		return nil, nil
	}

	visibility, holdout := resolveVisibility(ob, parent, s.graph.ViewLayer())
	if visibility == 0 {
		s.stats.Invisible++
		return nil, nil
	}

	// Pool only for non-instances: duplicated instances may request
	// conversion of the same shared source geometry concurrently.
	objectDisp := disp
	if isInstance {
		objectDisp = nil
	}

	key := NewObjectKey(parent, obInstance, inst.PersistentID(), hair)

	if motion {
		object, found := s.objectMap.Find(key)
		if !found || !object.UseMotion() {
			// Absent rows were fully occluded in the base pass; a no-op.
			return object, nil
		}
		if step := object.MotionStep(motionTime); step >= 0 {
			object.SetMotionAt(step, tfm)
		}
		s.syncGeometryMotion(obInstance, object, motionTime, hair, objectDisp)
		return object, nil
	}

	object, objectUpdated, err := s.objectMap.AddOrUpdate(key, func() (*render.Object, error) {
		return s.scene.CreateObject(ob.Name()), nil
	})
	if err != nil {
		return nil, err
	}

	geometry, err := s.syncGeometry(obInstance, objectUpdated, hair, objectDisp)
	if err != nil {
		return nil, err
	}
	object.SetGeometry(geometry)

	// Attribute changes are not tracked by the entity update flags.
	if s.syncObjectAttributes(inst, object) {
		objectUpdated = true
	}

	object.SetHoldout(holdout)
	if object.HoldoutModified() {
		s.scene.TagUpdate(render.UpdateHoldout)
	}

	object.SetVisibility(visibility)
	object.SetShadowCatcher(ob.ShadowCatcher())
	object.SetShadowTerminatorOffset(ob.ShadowTerminatorOffset())
	object.SetAssetName(assetName(ob))

	// Transform comparison should not be needed, but instancers don't always
	// signal changes through the host graph, so it stays as a workaround.
	if object.Modified() || objectUpdated || geometry.Modified() || tfm != object.Transform() {
		object.Name = ob.Name()
		object.SetPassID(ob.PassIndex())
		object.SetColor(ob.Color())
		object.SetTransform(tfm)
		object.SetMotion(nil)

		if s.motion != MotionNone {
			s.syncObjectMotionSteps(parent, ob, object, geometry, tfm)
		}

		if isInstance {
			object.SetDupliGenerated(inst.Orco().Mul(0.5).Sub(mgl32.Vec3{0.5, 0.5, 0.5}))
			object.SetDupliUV(inst.UV())
			object.SetRandomID(inst.RandomID())
		} else {
			object.SetDupliGenerated(mgl32.Vec3{})
			object.SetDupliUV(mgl32.Vec2{})
			object.SetRandomID(common.HashUint2(common.HashString(object.Name), 0))
		}

		object.TagUpdate(s.scene)
		s.stats.Updated++
	}
	s.stats.Objects++

	if isInstance {
		if err := s.syncDupliParticle(inst, object); err != nil {
			return nil, err
		}
	}

	return object, nil
}

// syncObjectMotionSteps sizes the motion sample array, anchors the center
// slot at the base transform, and collects every sample's relative time for
// the motion sub-passes that follow the base pass.
func (s *Syncer) syncObjectMotionSteps(parent, ob host.Object, object *render.Object, geometry *render.Geometry, tfm mgl32.Mat4) {
	geometry.SetUseMotionBlur(false)
	geometry.SetMotionSteps(0)

	var steps int
	if s.motion == MotionBlur {
		steps = objectMotionSteps(parent, ob, s.maxMotionSteps)
		geometry.SetMotionSteps(steps)
		if steps > 0 && objectUseDeformMotion(parent, ob) {
			geometry.SetUseMotionBlur(true)
		}
	} else {
		steps = 3
		geometry.SetMotionSteps(steps)
	}

	if steps == 0 {
		return
	}

	motion := make([]mgl32.Mat4, steps)
	motion[steps/2] = tfm
	object.SetMotion(motion)

	for step := 0; step < steps; step++ {
		s.motionTimes[object.MotionTime(step)] = struct{}{}
	}
}
