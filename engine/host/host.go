// Package host defines the read-only interface the sync engine consumes from
// an authoring application's scene. The engine never reaches into host memory
// directly: every source element is observed through these interfaces, and
// identity is carried by opaque Handle tokens rather than pointers.
package host

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
)

// Handle is an opaque identity token for a host-side datablock. Handles
// compare by value and must remain stable for the logical element they were
// issued for; a reused handle in a later frame means the same logical element.
type Handle uint64

// NoHandle is the zero Handle, used where an element is absent.
const NoHandle Handle = 0

// ObjectKind classifies a host object by the data it carries.
type ObjectKind int

const (
	KindEmpty ObjectKind = iota
	KindMesh
	KindCurve
	KindMetaball
	KindVolume
	KindPointCloud
	KindLight
	KindCamera
)

// String returns the lowercase kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindCurve:
		return "curve"
	case KindMetaball:
		return "metaball"
	case KindVolume:
		return "volume"
	case KindPointCloud:
		return "pointcloud"
	case KindLight:
		return "light"
	case KindCamera:
		return "camera"
	default:
		return "empty"
	}
}

// PersistentIDSize is the fixed length of instancing persistent ids.
const PersistentIDSize = 8

// PersistentID identifies one generated instance within its instancer across
// frames. The zero value (Valid=false) marks a non-instanced element.
type PersistentID struct {
	Values [PersistentIDSize]int32
	Valid  bool
}

// MakePersistentID builds a valid PersistentID from up to PersistentIDSize
// values; missing trailing values stay zero.
func MakePersistentID(values ...int32) PersistentID {
	var id PersistentID
	copy(id.Values[:], values)
	id.Valid = true
	return id
}

// RayVisibility carries an object's per-ray-type visibility switches.
type RayVisibility struct {
	Camera        bool
	Diffuse       bool
	Glossy        bool
	Transmission  bool
	VolumeScatter bool
	Shadow        bool
}

// AllVisible is the default visibility with every ray type enabled.
var AllVisible = RayVisibility{
	Camera:        true,
	Diffuse:       true,
	Glossy:        true,
	Transmission:  true,
	VolumeScatter: true,
	Shadow:        true,
}

// PropertyHolder is anything that supports named-property lookup: objects,
// datablocks, and particle settings. A lookup miss is not an error.
type PropertyHolder interface {
	// LookupProperty resolves a named property to a 4-component float value.
	//
	// Parameters:
	//   - name: the property path, either a literal name or the indexed
	//     `["name"]` custom-property form
	//
	// Returns:
	//   - common.Float4: the resolved value
	//   - bool: true when the property exists and is numeric
	LookupProperty(name string) (common.Float4, bool)
}

// DataBlock is the object-independent data an object carries (mesh, curve,
// volume grid, light settings). Multiple objects may share one DataBlock.
type DataBlock interface {
	PropertyHolder

	// Handle returns the datablock's identity token.
	Handle() Handle

	// Name returns the datablock name.
	Name() string
}

// CurveData extends DataBlock with the fields that decide whether a curve
// produces renderable geometry.
type CurveData interface {
	DataBlock

	// HasBevelObject reports whether another object bevels this curve.
	HasBevelObject() bool

	// Extrude returns the curve extrusion amount.
	Extrude() float32

	// BevelDepth returns the curve bevel depth.
	BevelDepth() float32

	// Is2D reports whether the curve is authored in 2D mode.
	Is2D() bool
}

// Object is a single authored scene object.
type Object interface {
	PropertyHolder

	// Handle returns the object's identity token.
	Handle() Handle

	// Name returns the object name.
	Name() string

	// Kind returns the object's data classification.
	Kind() ObjectKind

	// Data returns the object's datablock, or nil for empties.
	Data() DataBlock

	// Parent returns the transform parent, or nil at the root.
	Parent() Object

	// MatrixWorld returns the object's world transform at the host's current
	// scene time.
	MatrixWorld() mgl32.Mat4

	// PassIndex returns the object's render pass index.
	PassIndex() int

	// Color returns the object's display color.
	Color() mgl32.Vec3

	// RayVisibility returns the object's per-ray visibility switches.
	RayVisibility() RayVisibility

	// Holdout reports whether the object is a holdout matte.
	Holdout() bool

	// ShadowCatcher reports whether the object only catches shadows.
	ShadowCatcher() bool

	// ShadowTerminatorOffset returns the shadow terminator correction.
	ShadowTerminatorOffset() float32

	// VisibleInViewport reports viewport-level visibility.
	VisibleInViewport() bool

	// ModifierCount returns the number of modifiers on the object.
	ModifierCount() int

	// HasObjectLinkedMaterial reports whether any material slot links its
	// material at the object level rather than the data level.
	HasObjectLinkedMaterial() bool

	// UseMotionBlur reports whether motion blur is enabled for the object.
	UseMotionBlur() bool

	// MotionSteps returns the authored motion step exponent (>= 1 when
	// motion blur is enabled).
	MotionSteps() int

	// UseDeformMotion reports whether deformation motion blur is enabled.
	UseDeformMotion() bool

	// HasParticleHair reports whether a particle system on the object emits
	// hair.
	HasParticleHair() bool

	// BoundingRadius returns the radius of the object's local-space bounding
	// sphere, used by culling.
	BoundingRadius() float32
}

// Particle is one evaluated particle of a particle system.
type Particle struct {
	Index           int
	Age             float32
	Lifetime        float32
	Location        mgl32.Vec3
	Rotation        common.Float4
	Size            float32
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
}

// ParticleSystem is an evaluated particle system on an instancing parent.
type ParticleSystem interface {
	// Handle returns the particle system's identity token.
	Handle() Handle

	// Name returns the particle system name.
	Name() string

	// Settings returns the system's settings datablock for property lookup.
	Settings() DataBlock

	// Particle returns the evaluated particle at the given index.
	Particle(index int) (Particle, bool)
}

// Instance is one occurrence of an object for the current scene time, as
// produced by the host's dependency graph. Duplicated/instanced objects
// appear once per generated copy.
type Instance interface {
	// Object returns the evaluated object of this occurrence.
	Object() Object

	// MatrixWorld returns this occurrence's world transform. For generated
	// instances this differs from the object's own transform.
	MatrixWorld() mgl32.Mat4

	// IsInstance reports whether this occurrence was generated by an
	// instancer rather than authored directly.
	IsInstance() bool

	// Parent returns the instancing parent for generated instances, and the
	// object itself otherwise.
	Parent() Object

	// InstanceObject returns the original (non-evaluated) object a generated
	// instance duplicates, and the object itself otherwise.
	InstanceObject() Object

	// PersistentID returns the instancing persistent id; Valid is false for
	// non-instanced occurrences.
	PersistentID() PersistentID

	// RandomID returns the instancer-assigned random id (0 when not an
	// instance).
	RandomID() uint32

	// Orco returns the generated texture coordinate of the instance.
	Orco() mgl32.Vec3

	// UV returns the instancer UV coordinate of the instance.
	UV() mgl32.Vec2

	// ParticleSystem returns the particle system that generated this
	// instance, or nil.
	ParticleSystem() ParticleSystem

	// ParticleIndex returns the generating particle's index, or -1.
	ParticleIndex() int

	// ShowSelf reports whether the object itself should render.
	ShowSelf() bool

	// ShowParticles reports whether particle-generated geometry should
	// render.
	ShowParticles() bool
}

// ViewLayer exposes per-parent view-layer state that composes into an
// entity's final visibility.
type ViewLayer interface {
	// Holdout reports whether the parent is a holdout in this view layer.
	Holdout(parent Object) bool

	// IndirectOnly reports whether the parent contributes only to indirect
	// light in this view layer.
	IndirectOnly(parent Object) bool
}

// Graph is the host's evaluated dependency graph for one scene time.
type Graph interface {
	// Instances returns all object occurrences for the current scene time.
	// The slice is re-evaluated on every call.
	Instances() []Instance

	// ViewLayer returns the active view layer.
	ViewLayer() ViewLayer

	// Camera returns the active camera object, or nil.
	Camera() Object

	// FrameCurrent returns the current integer frame.
	FrameCurrent() int

	// FrameSubframe returns the fractional subframe in [0, 1).
	FrameSubframe() float32
}

// FrameSetter advances the host scene to a new time. The engine only invokes
// it under a scoped exclusive section, never concurrently with instance
// enumeration.
type FrameSetter interface {
	// SetFrame moves the host scene to frame + subframe.
	SetFrame(frame int, subframe float32)
}

// Progress is the engine's per-instance cancellation and status callback.
type Progress interface {
	// Cancelled reports whether the top-level sync was cancelled. Polled
	// once per enumerated instance.
	Cancelled() bool

	// SetStatus publishes a human-readable sync status.
	SetStatus(status string)
}
