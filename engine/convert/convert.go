package convert

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
	"github.com/lumen-render/lumen/engine/sync"
)

type basicImpl struct {
	surface render.ShaderHandle
	volume  render.ShaderHandle

	strandCount int
	strandKeys  int

	needed []render.AttributeRequest
}

var _ sync.Converter = &basicImpl{}

// NewBasic creates a procedural geometry converter. Meshes become a box
// sized by the object's bounding radius, hair becomes strands rooted on that
// box, volumes and point clouds become their bounds. It stands in for a host
// tessellation backend in tools and tests.
//
// Parameters:
//   - options: functional options to configure the converter
//
// Returns:
//   - sync.Converter: the newly created converter
func NewBasic(options ...BasicBuilderOption) sync.Converter {
	c := &basicImpl{
		strandCount: 16,
		strandKeys:  4,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *basicImpl) BindShaders(ob host.Object, geom *render.Geometry, _ bool) error {
	switch geom.Kind() {
	case render.GeometryVolume:
		geom.UsedShaders = []render.ShaderHandle{c.volume}
	case render.GeometryMesh, render.GeometryHair, render.GeometryPointCloud:
		geom.UsedShaders = []render.ShaderHandle{c.surface}
	default:
		return fmt.Errorf("convert: unsupported geometry kind %s for %q", geom.Kind(), ob.Name())
	}

	geom.SetNeededAttributes(c.needed)
	return nil
}

func (c *basicImpl) ConvertGeometry(ob host.Object, geom *render.Geometry, _ bool) error {
	radius := ob.BoundingRadius()
	if radius <= 0 {
		radius = 1
	}

	switch geom.Kind() {
	case render.GeometryMesh:
		geom.Vertices, geom.Indices = boxMesh(radius)
	case render.GeometryHair:
		geom.Vertices = c.strands(ob.Name(), radius)
		geom.Indices = nil
	case render.GeometryVolume, render.GeometryPointCloud:
		geom.Vertices = bounds(radius)
		geom.Indices = nil
	default:
		return fmt.Errorf("convert: unsupported geometry kind %s for %q", geom.Kind(), ob.Name())
	}

	return nil
}

func (c *basicImpl) ConvertGeometryMotion(ob host.Object, geom *render.Geometry, motionStep int) error {
	if geom.MotionVertices == nil {
		geom.MotionVertices = map[int][]mgl32.Vec3{}
	}
	// Procedural sources deform rigidly, so each motion step samples the
	// same local positions. Hosts with real deformation override this.
	step := make([]mgl32.Vec3, len(geom.Vertices))
	copy(step, geom.Vertices)
	geom.MotionVertices[motionStep] = step
	return nil
}

// boxMesh builds an axis-aligned cube with half-extent r.
func boxMesh(r float32) ([]mgl32.Vec3, []uint32) {
	vertices := []mgl32.Vec3{
		{-r, -r, -r}, {r, -r, -r}, {r, r, -r}, {-r, r, -r},
		{-r, -r, r}, {r, -r, r}, {r, r, r}, {-r, r, r},
	}
	indices := []uint32{
		0, 1, 2, 0, 2, 3,
		4, 6, 5, 4, 7, 6,
		0, 4, 5, 0, 5, 1,
		3, 2, 6, 3, 6, 7,
		0, 3, 7, 0, 7, 4,
		1, 5, 6, 1, 6, 2,
	}
	return vertices, indices
}

// bounds returns the two corner points of the axis-aligned bound with
// half-extent r.
func bounds(r float32) []mgl32.Vec3 {
	return []mgl32.Vec3{{-r, -r, -r}, {r, r, r}}
}

// strands generates curve keys for strandCount hair strands rooted on the
// top face, seeded from the object name so re-conversion is stable.
func (c *basicImpl) strands(name string, r float32) []mgl32.Vec3 {
	seed := common.HashString(name)
	keys := make([]mgl32.Vec3, 0, c.strandCount*c.strandKeys)
	for i := 0; i < c.strandCount; i++ {
		h := common.HashUint2(seed, uint32(i))
		// Root position on the top face from two hash-derived fractions.
		fx := float32(h&0xffff)/0xffff*2 - 1
		fz := float32(h>>16)/0xffff*2 - 1
		root := mgl32.Vec3{fx * r, r, fz * r}
		for k := 0; k < c.strandKeys; k++ {
			t := float32(k) / float32(c.strandKeys-1)
			sway := r * 0.1 * float32(math.Sin(float64(h%7)+float64(t)*2))
			keys = append(keys, root.Add(mgl32.Vec3{sway, t * r * 0.5, 0}))
		}
	}
	return keys
}
