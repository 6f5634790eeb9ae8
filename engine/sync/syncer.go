package sync

import (
	stdsync "sync"
	"sync/atomic"

	"github.com/lumen-render/lumen/engine/cull"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

// MotionMode selects how motion data is synced.
type MotionMode int

const (
	// MotionNone disables motion sync entirely.
	MotionNone MotionMode = iota
	// MotionPass syncs fixed previous/next frame samples for motion vector
	// passes, using a fixed two-frame shutter.
	MotionPass
	// MotionBlur syncs per-object motion samples across the camera shutter.
	MotionBlur
)

// MotionPosition anchors the shutter interval relative to the current frame.
type MotionPosition int

const (
	// MotionPositionCenter opens the shutter symmetrically around the frame.
	MotionPositionCenter MotionPosition = iota
	// MotionPositionStart opens the shutter at the frame.
	MotionPositionStart
	// MotionPositionEnd closes the shutter at the frame.
	MotionPositionEnd
)

// DefaultMaxMotionSteps bounds per-object motion sample counts.
const DefaultMaxMotionSteps = 7

// maxParentDepth bounds the asset-name parent walk so cyclic host parent
// links terminate.
const maxParentDepth = 64

// Converter turns host source data into render geometry buffers. The sync
// core treats implementations as black boxes; a conversion task owns its
// geometry target exclusively until the dispatcher drains.
type Converter interface {
	// BindShaders assigns geom's shaders and needed-attribute set from the
	// object's source data. It always runs on the driving thread, before
	// the geometry's buffer conversion is dispatched, so attribute
	// resolution in the same pass observes the fresh set.
	BindShaders(ob host.Object, geom *render.Geometry, hair bool) error

	// ConvertGeometry (re)builds geom's buffers from the object's source
	// data. hair selects the particle-hair variant. May run on a worker.
	ConvertGeometry(ob host.Object, geom *render.Geometry, hair bool) error

	// ConvertGeometryMotion writes the deformed vertex positions for one
	// motion step of a geometry that uses deform motion blur.
	ConvertGeometryMotion(ob host.Object, geom *render.Geometry, motionStep int) error
}

// Stats summarizes one base pass plus its motion sub-passes.
type Stats struct {
	// Objects is the number of geometry-bearing entities fully synced.
	Objects int
	// Lights is the number of light entities synced.
	Lights int
	// Updated is the number of entities that produced a dirty tag.
	Updated int
	// Skipped counts instances rejected by type or light gating.
	Skipped int
	// Culled counts instances rejected by the culling test.
	Culled int
	// Invisible counts instances whose visibility mask resolved to zero.
	Invisible int
	// GeometryConversions counts conversion tasks dispatched or run inline.
	GeometryConversions int
	// ConversionErrors counts failed conversion tasks.
	ConversionErrors int
	// UnresolvedAttributes counts needed attributes that resolved nowhere
	// and fell back to the zero vector.
	UnresolvedAttributes int
	// MotionPasses counts motion sub-passes run.
	MotionPasses int
	// Removed counts entities swept by post-sync.
	Removed int
}

// Syncer drives incremental synchronization of one host scene into one
// render scene. A single goroutine drives it; only geometry conversion fans
// out to the worker pool.
type Syncer struct {
	graph     host.Graph
	scene     *render.Scene
	converter Converter

	frames   host.FrameSetter
	progress host.Progress
	culler   cull.Culler

	showLights     bool
	motion         MotionMode
	motionPosition MotionPosition
	shutterTime    float32
	maxMotionSteps int
	workers        int

	dispatcher *geometryDispatcher

	objectMap         *IDMap[ObjectKey, *render.Object]
	geometryMap       *IDMap[GeometryKey, *render.Geometry]
	lightMap          *IDMap[ObjectKey, *render.Light]
	particleSystemMap *IDMap[ParticleSystemKey, *render.ParticleSystem]

	motionTimes          map[float32]struct{}
	geometrySynced       map[GeometryKey]struct{}
	geometryMotionSynced map[GeometryKey]struct{}
	particlesTouched     map[ParticleSystemKey]struct{}

	backgroundLight *render.Light

	// frameMu is the scoped exclusive section around the host's time-advance
	// primitive.
	frameMu stdsync.Mutex

	stats      Stats
	convErrors atomic.Int64
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithWorkers sets the geometry conversion worker count (default NumCPU-1).
func WithWorkers(n int) Option {
	return func(s *Syncer) { s.workers = n }
}

// WithCuller installs the culling predicate (default: no culling).
func WithCuller(c cull.Culler) Option {
	return func(s *Syncer) {
		if c != nil {
			s.culler = c
		}
	}
}

// WithProgress installs the per-instance progress/cancel callback.
func WithProgress(p host.Progress) Option {
	return func(s *Syncer) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithFrameSetter installs the host time-advance primitive, required for
// motion sub-passes.
func WithFrameSetter(f host.FrameSetter) Option {
	return func(s *Syncer) { s.frames = f }
}

// WithShowLights toggles whether source lights produce render lights.
func WithShowLights(show bool) Option {
	return func(s *Syncer) { s.showLights = show }
}

// WithMotionBlur enables shutter motion blur with the given shutter time (in
// frames) and shutter position.
func WithMotionBlur(shutterTime float32, position MotionPosition) Option {
	return func(s *Syncer) {
		s.motion = MotionBlur
		s.shutterTime = shutterTime
		s.motionPosition = position
	}
}

// WithMotionPass enables fixed previous/next-frame motion sampling instead
// of shutter blur.
func WithMotionPass() Option {
	return func(s *Syncer) { s.motion = MotionPass }
}

// WithMaxMotionSteps bounds per-object motion sample counts (default 7).
// Even bounds round down so a sample stays anchored at the frame center.
func WithMaxMotionSteps(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.maxMotionSteps = n - 1 + n%2
		}
	}
}

// New creates a Syncer for one host graph / render scene pair. All three
// required collaborators must be non-nil and New panics otherwise, matching
// how the engine treats wiring errors as programming errors.
func New(graph host.Graph, scene *render.Scene, converter Converter, options ...Option) *Syncer {
	if graph == nil {
		panic("sync: New requires a non-nil host graph")
	}
	if scene == nil {
		panic("sync: New requires a non-nil render scene")
	}
	if converter == nil {
		panic("sync: New requires a non-nil converter")
	}

	s := &Syncer{
		graph:          graph,
		scene:          scene,
		converter:      converter,
		progress:       noProgress{},
		culler:         cull.None{},
		showLights:     true,
		maxMotionSteps: DefaultMaxMotionSteps,

		objectMap:         NewIDMap[ObjectKey, *render.Object](),
		geometryMap:       NewIDMap[GeometryKey, *render.Geometry](),
		lightMap:          NewIDMap[ObjectKey, *render.Light](),
		particleSystemMap: NewIDMap[ParticleSystemKey, *render.ParticleSystem](),

		motionTimes:          make(map[float32]struct{}),
		geometrySynced:       make(map[GeometryKey]struct{}),
		geometryMotionSynced: make(map[GeometryKey]struct{}),
		particlesTouched:     make(map[ParticleSystemKey]struct{}),
	}

	for _, option := range options {
		option(s)
	}

	// The dispatcher is built after options so WithWorkers can override the
	// default.
	s.dispatcher = newGeometryDispatcher(s.workers)

	return s
}

// Stats returns the counters accumulated since the last base pass started.
func (s *Syncer) Stats() Stats {
	stats := s.stats
	stats.ConversionErrors = int(s.convErrors.Load())
	return stats
}

// Scene returns the render scene this syncer maintains.
func (s *Syncer) Scene() *render.Scene { return s.scene }

type noProgress struct{}

func (noProgress) Cancelled() bool   { return false }
func (noProgress) SetStatus(string) {}
