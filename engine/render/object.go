package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
)

// Attribute is one named, resolved attribute value stored on an object.
// Order in the attribute slice is insignificant for correctness but stable,
// which keeps diffing cheap.
type Attribute struct {
	Name  string
	Value common.Float4
}

// Object is the persistent render entity for one source element. Its setters
// diff against the stored value and raise the modified flag only on actual
// change; the flag stays raised until the scene-level ClearModified between
// frames, never mid-pass.
type Object struct {
	Name      string
	AssetName string

	geometry *Geometry

	tfm        mgl32.Mat4
	motion     []mgl32.Mat4
	visibility uint32

	holdout          bool
	shadowCatcher    bool
	shadowTermOffset float32

	passID         int
	color          mgl32.Vec3
	dupliGenerated mgl32.Vec3
	dupliUV        mgl32.Vec2
	randomID       uint32

	particleSystem *ParticleSystem
	particleIndex  int

	attributes []Attribute

	modified        bool
	holdoutModified bool
}

// Modified reports whether any field changed since the last ClearModified.
func (o *Object) Modified() bool { return o.modified }

// HoldoutModified reports whether the holdout field changed since the last
// ClearModified. The sync core uses it to tag holdout-specific updates.
func (o *Object) HoldoutModified() bool { return o.holdoutModified }

// Geometry returns the shared geometry entity, or nil.
func (o *Object) Geometry() *Geometry { return o.geometry }

// SetGeometry points the object at a (shared) geometry entity.
func (o *Object) SetGeometry(g *Geometry) {
	if o.geometry != g {
		o.geometry = g
		o.modified = true
	}
}

// Transform returns the object's world transform.
func (o *Object) Transform() mgl32.Mat4 { return o.tfm }

// SetTransform stores the world transform.
func (o *Object) SetTransform(tfm mgl32.Mat4) {
	if o.tfm != tfm {
		o.tfm = tfm
		o.modified = true
	}
}

// Motion returns the motion sample transforms. Empty when the object carries
// no motion blur.
func (o *Object) Motion() []mgl32.Mat4 { return o.motion }

// SetMotion replaces the motion sample array. The samples are copied so a
// caller reusing its slice cannot alias the stored array past the diff.
func (o *Object) SetMotion(motion []mgl32.Mat4) {
	if motionEqual(o.motion, motion) {
		return
	}
	o.motion = append([]mgl32.Mat4(nil), motion...)
	o.modified = true
}

func motionEqual(a, b []mgl32.Mat4) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetMotionAt writes one motion sample slot in place. Used by motion passes,
// which must not disturb unrelated state.
func (o *Object) SetMotionAt(step int, tfm mgl32.Mat4) {
	if step >= 0 && step < len(o.motion) {
		o.motion[step] = tfm
	}
}

// UseMotion reports whether the object carries motion samples.
func (o *Object) UseMotion() bool { return len(o.motion) > 1 }

// MotionTime returns the relative time offset in [-1, 1] for a motion step.
// The center step maps to 0.
func (o *Object) MotionTime(step int) float32 {
	n := len(o.motion)
	if n < 2 || step < 0 || step >= n {
		return 0
	}
	return 2.0*float32(step)/float32(n-1) - 1.0
}

// MotionStep returns the motion step index for a relative time offset, or -1
// when the offset is not one of this object's sample times.
func (o *Object) MotionStep(time float32) int {
	for step := range o.motion {
		if o.MotionTime(step) == time {
			return step
		}
	}
	return -1
}

// Visibility returns the composed ray-visibility mask.
func (o *Object) Visibility() uint32 { return o.visibility }

// SetVisibility stores the composed ray-visibility mask.
func (o *Object) SetVisibility(mask uint32) {
	if o.visibility != mask {
		o.visibility = mask
		o.modified = true
	}
}

// Holdout reports whether the object is a holdout matte.
func (o *Object) Holdout() bool { return o.holdout }

// SetHoldout stores the holdout flag, tracking it separately so holdout
// membership changes can be tagged on their own.
func (o *Object) SetHoldout(v bool) {
	if o.holdout != v {
		o.holdout = v
		o.modified = true
		o.holdoutModified = true
	}
}

// ShadowCatcher reports whether the object only catches shadows.
func (o *Object) ShadowCatcher() bool { return o.shadowCatcher }

// SetShadowCatcher stores the shadow catcher flag.
func (o *Object) SetShadowCatcher(v bool) {
	if o.shadowCatcher != v {
		o.shadowCatcher = v
		o.modified = true
	}
}

// ShadowTerminatorOffset returns the shadow terminator correction.
func (o *Object) ShadowTerminatorOffset() float32 { return o.shadowTermOffset }

// SetShadowTerminatorOffset stores the shadow terminator correction.
func (o *Object) SetShadowTerminatorOffset(v float32) {
	if o.shadowTermOffset != v {
		o.shadowTermOffset = v
		o.modified = true
	}
}

// PassID returns the render pass id.
func (o *Object) PassID() int { return o.passID }

// SetPassID stores the render pass id.
func (o *Object) SetPassID(id int) {
	if o.passID != id {
		o.passID = id
		o.modified = true
	}
}

// Color returns the object color.
func (o *Object) Color() mgl32.Vec3 { return o.color }

// SetColor stores the object color.
func (o *Object) SetColor(c mgl32.Vec3) {
	if o.color != c {
		o.color = c
		o.modified = true
	}
}

// DupliGenerated returns the instance generated coordinate.
func (o *Object) DupliGenerated() mgl32.Vec3 { return o.dupliGenerated }

// SetDupliGenerated stores the instance generated coordinate.
func (o *Object) SetDupliGenerated(v mgl32.Vec3) {
	if o.dupliGenerated != v {
		o.dupliGenerated = v
		o.modified = true
	}
}

// DupliUV returns the instancer UV coordinate.
func (o *Object) DupliUV() mgl32.Vec2 { return o.dupliUV }

// SetDupliUV stores the instancer UV coordinate.
func (o *Object) SetDupliUV(v mgl32.Vec2) {
	if o.dupliUV != v {
		o.dupliUV = v
		o.modified = true
	}
}

// RandomID returns the per-entity random id.
func (o *Object) RandomID() uint32 { return o.randomID }

// SetRandomID stores the per-entity random id.
func (o *Object) SetRandomID(id uint32) {
	if o.randomID != id {
		o.randomID = id
		o.modified = true
	}
}

// SetAssetName stores the asset grouping name.
func (o *Object) SetAssetName(name string) {
	if o.AssetName != name {
		o.AssetName = name
		o.modified = true
	}
}

// ParticleSystem returns the particle system entity this object's generating
// particle belongs to, or nil.
func (o *Object) ParticleSystem() *ParticleSystem { return o.particleSystem }

// ParticleIndex returns the index into the particle system's particle array.
func (o *Object) ParticleIndex() int { return o.particleIndex }

// SetParticleData links the object to its generating particle.
func (o *Object) SetParticleData(psys *ParticleSystem, index int) {
	if o.particleSystem != psys || o.particleIndex != index {
		o.particleSystem = psys
		o.particleIndex = index
		o.modified = true
	}
}

// Attributes returns the stored attribute slice. The reconciler mutates it
// through RemoveAttributeAt/AppendAttribute and the pointers FindAttribute
// returns.
func (o *Object) Attributes() []Attribute { return o.attributes }

// FindAttribute returns a pointer into the stored attribute slice, or nil.
func (o *Object) FindAttribute(name string) *Attribute {
	for i := range o.attributes {
		if o.attributes[i].Name == name {
			return &o.attributes[i]
		}
	}
	return nil
}

// RemoveAttributeAt deletes the attribute at index i, preserving order.
func (o *Object) RemoveAttributeAt(i int) {
	o.attributes = append(o.attributes[:i], o.attributes[i+1:]...)
	o.modified = true
}

// AppendAttribute adds a new attribute value.
func (o *Object) AppendAttribute(a Attribute) {
	o.attributes = append(o.attributes, a)
	o.modified = true
}

// TagUpdate reports this object's pending changes to the scene.
func (o *Object) TagUpdate(s *Scene) {
	s.TagUpdate(UpdateObject)
}
