package render

import "github.com/go-gl/mathgl/mgl32"

// GeometryKind classifies converted geometry.
type GeometryKind int

const (
	GeometryMesh GeometryKind = iota
	GeometryHair
	GeometryVolume
	GeometryPointCloud
)

// String returns the lowercase kind name.
func (k GeometryKind) String() string {
	switch k {
	case GeometryHair:
		return "hair"
	case GeometryVolume:
		return "volume"
	case GeometryPointCloud:
		return "pointcloud"
	default:
		return "mesh"
	}
}

// AttributeKind describes where an attribute's value is sourced from.
type AttributeKind int

const (
	// AttributeGeometry values are baked into converted geometry buffers and
	// bypass object-level resolution entirely.
	AttributeGeometry AttributeKind = iota
	// AttributeObject values resolve from the object and its datablock.
	AttributeObject
	// AttributeInstancer values resolve from the particle system settings
	// and instancing parent before falling back to the object chain.
	AttributeInstancer
)

// AttributeRequest names one attribute a geometry's shaders need.
type AttributeRequest struct {
	Name string
	Kind AttributeKind
}

// Geometry is converted source data shared by every object entity with a
// structurally identical source. No single object owns it; the identity map
// sweep releases it once nothing referenced it during a pass.
//
// During a parallel conversion task the submitting pass owns the geometry
// exclusively; nothing else may read or write it until the pool drains.
type Geometry struct {
	Name string
	kind GeometryKind

	// Converted buffers. Hair stores curve keys in Vertices with no indices;
	// volumes store a grid bound in Vertices.
	Vertices []mgl32.Vec3
	Indices  []uint32

	// MotionVertices holds per-motion-step deformed positions, indexed by
	// motion step, populated by deform motion sync.
	MotionVertices map[int][]mgl32.Vec3

	UsedShaders []ShaderHandle

	motionSteps   int
	useMotionBlur bool

	needed   []AttributeRequest
	modified bool
}

// Kind returns the geometry classification.
func (g *Geometry) Kind() GeometryKind { return g.kind }

// Modified reports whether the geometry changed since the last ClearModified.
func (g *Geometry) Modified() bool { return g.modified }

// MarkModified raises the modified flag; converters call it after rewriting
// buffers.
func (g *Geometry) MarkModified() { g.modified = true }

// MotionSteps returns the number of motion sample steps.
func (g *Geometry) MotionSteps() int { return g.motionSteps }

// SetMotionSteps stores the number of motion sample steps.
func (g *Geometry) SetMotionSteps(steps int) {
	if g.motionSteps != steps {
		g.motionSteps = steps
		g.modified = true
	}
}

// UseMotionBlur reports whether deform motion blur applies to this geometry.
func (g *Geometry) UseMotionBlur() bool { return g.useMotionBlur }

// SetUseMotionBlur stores the deform motion blur flag.
func (g *Geometry) SetUseMotionBlur(v bool) {
	if g.useMotionBlur != v {
		g.useMotionBlur = v
		g.modified = true
	}
}

// NeededAttributes returns the attribute requests this geometry's shaders
// depend on.
func (g *Geometry) NeededAttributes() []AttributeRequest { return g.needed }

// SetNeededAttributes replaces the needed-attribute set; converters call it
// after (re)building shader bindings.
func (g *Geometry) SetNeededAttributes(reqs []AttributeRequest) {
	g.needed = reqs
}

// TagUpdate reports this geometry's pending changes to the scene.
func (g *Geometry) TagUpdate(s *Scene) {
	s.TagUpdate(UpdateGeometry)
}
