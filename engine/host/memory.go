package host

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
)

// MemScene is an in-memory host scene. It implements Graph and FrameSetter
// and backs the CLI, examples, and tests. Authoring happens through NewObject
// and the MemObject setters; instancing through AddInstancer.
type MemScene struct {
	mu         sync.Mutex
	objects    []*MemObject
	camera     *MemObject
	frame      int
	subframe   float32
	layer      *memViewLayer
	nextHandle Handle
}

// NewMemScene creates an empty in-memory scene positioned at frame 1.
func NewMemScene() *MemScene {
	return &MemScene{
		frame: 1,
		layer: &memViewLayer{
			holdout:      make(map[Handle]bool),
			indirectOnly: make(map[Handle]bool),
		},
		nextHandle: 1,
	}
}

func (s *MemScene) allocHandle() Handle {
	h := s.nextHandle
	s.nextHandle++
	return h
}

// NewObject creates an object of the given kind, allocates its handles, and
// adds it to the scene. Objects default to fully visible with identity
// transforms.
func (s *MemScene) NewObject(name string, kind ObjectKind) *MemObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	ob := &MemObject{
		scene:          s,
		handle:         s.allocHandle(),
		name:           name,
		kind:           kind,
		transform:      mgl32.Ident4(),
		color:          mgl32.Vec3{0.8, 0.8, 0.8},
		visibility:     AllVisible,
		viewport:       true,
		deformMotion:   true,
		boundingRadius: 1.0,
		showSelf:       true,
		showParticles:  true,
		props:          make(map[string]common.Float4),
	}
	if kind != KindEmpty {
		ob.data = &MemData{
			handle: s.allocHandle(),
			name:   fmt.Sprintf("%s.data", name),
			props:  make(map[string]common.Float4),
		}
	}
	s.objects = append(s.objects, ob)
	if kind == KindCamera && s.camera == nil {
		s.camera = ob
	}
	return ob
}

// RemoveObject removes an object (and its generated instances) from the
// scene. Removing an absent object is a no-op.
func (s *MemScene) RemoveObject(ob *MemObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.objects {
		if o == ob {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// SetCamera marks an object as the active camera.
func (s *MemScene) SetCamera(ob *MemObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = ob
}

// SetLayerHoldout marks an object as a holdout within the view layer.
func (s *MemScene) SetLayerHoldout(ob *MemObject, holdout bool) {
	s.layer.holdout[ob.handle] = holdout
}

// SetLayerIndirectOnly marks an object as indirect-only within the view layer.
func (s *MemScene) SetLayerIndirectOnly(ob *MemObject, indirect bool) {
	s.layer.indirectOnly[ob.handle] = indirect
}

// AddInstancer attaches a particle system to parent that instances object
// count times. Each generated instance gets a persistent id, a mixed random
// id, and a deterministic particle record.
func (s *MemScene) AddInstancer(parent, object *MemObject, count int) *MemParticleSystem {
	s.mu.Lock()
	defer s.mu.Unlock()

	psys := &MemParticleSystem{
		handle: s.allocHandle(),
		name:   fmt.Sprintf("%s.particles", parent.name),
		settings: &MemData{
			handle: s.allocHandle(),
			name:   fmt.Sprintf("%s.particles.settings", parent.name),
			props:  make(map[string]common.Float4),
		},
		parent: parent,
		object: object,
		count:  count,
	}
	for i := 0; i < count; i++ {
		psys.particles = append(psys.particles, Particle{
			Index:    i,
			Age:      float32(i),
			Lifetime: 100,
			Location: mgl32.Vec3{float32(i) * 2, 0, 0},
			Rotation: common.Float4{0, 0, 0, 1},
			Size:     1,
		})
	}
	parent.particleSystems = append(parent.particleSystems, psys)
	return psys
}

// Time returns the current absolute scene time (frame + subframe).
func (s *MemScene) Time() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float32(s.frame) + s.subframe
}

// Instances implements Graph. Every visible-by-authoring object emits one
// occurrence of itself plus one occurrence per generated instance.
func (s *MemScene) Instances() []Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Instance
	for _, ob := range s.objects {
		if ob.kind == KindCamera {
			continue
		}
		out = append(out, &memInstance{object: ob})
		for _, psys := range ob.particleSystems {
			for i := 0; i < psys.count; i++ {
				out = append(out, &memInstance{
					object:        psys.object,
					parent:        ob,
					psys:          psys,
					particleIndex: i,
					instance:      true,
				})
			}
		}
	}
	return out
}

// ViewLayer implements Graph.
func (s *MemScene) ViewLayer() ViewLayer { return s.layer }

// Camera implements Graph.
func (s *MemScene) Camera() Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.camera == nil {
		return nil
	}
	return s.camera
}

// FrameCurrent implements Graph.
func (s *MemScene) FrameCurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// FrameSubframe implements Graph.
func (s *MemScene) FrameSubframe() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subframe
}

// SetFrame implements FrameSetter.
func (s *MemScene) SetFrame(frame int, subframe float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
	s.subframe = subframe
}

type memViewLayer struct {
	holdout      map[Handle]bool
	indirectOnly map[Handle]bool
}

func (l *memViewLayer) Holdout(parent Object) bool {
	return l.holdout[parent.Handle()]
}

func (l *memViewLayer) IndirectOnly(parent Object) bool {
	return l.indirectOnly[parent.Handle()]
}

// MemObject is the in-memory Object implementation. State is authored via
// setters; a nil animation function means the base transform is used at every
// scene time.
type MemObject struct {
	scene  *MemScene
	handle Handle
	name   string
	kind   ObjectKind
	data   *MemData
	parent *MemObject

	transform mgl32.Mat4
	animate   func(time float32) mgl32.Mat4

	passIndex        int
	color            mgl32.Vec3
	visibility       RayVisibility
	holdout          bool
	shadowCatcher    bool
	shadowTermOffset float32
	viewport         bool
	modifierCount    int
	objectMaterial   bool
	motionBlur       bool
	motionSteps      int
	deformMotion     bool
	particleHair     bool
	boundingRadius   float32
	showSelf         bool
	showParticles    bool

	particleSystems []*MemParticleSystem
	props           map[string]common.Float4

	// curve qualification fields, meaningful for KindCurve only
	curveBevelObject bool
	curveExtrude     float32
	curveBevelDepth  float32
	curve2D          bool
}

// SetTransform sets the object's base world transform.
func (o *MemObject) SetTransform(m mgl32.Mat4) *MemObject { o.transform = m; return o }

// SetAnimation installs a time-dependent world transform. The function is
// evaluated at the scene's current time on every MatrixWorld call.
func (o *MemObject) SetAnimation(fn func(time float32) mgl32.Mat4) *MemObject {
	o.animate = fn
	return o
}

// SetParent sets the transform parent used for asset-name resolution.
func (o *MemObject) SetParent(parent *MemObject) *MemObject { o.parent = parent; return o }

// SetPassIndex sets the render pass index.
func (o *MemObject) SetPassIndex(i int) *MemObject { o.passIndex = i; return o }

// SetColor sets the display color.
func (o *MemObject) SetColor(c mgl32.Vec3) *MemObject { o.color = c; return o }

// SetRayVisibility sets the per-ray visibility switches.
func (o *MemObject) SetRayVisibility(v RayVisibility) *MemObject { o.visibility = v; return o }

// SetHoldout marks the object as a holdout matte.
func (o *MemObject) SetHoldout(v bool) *MemObject { o.holdout = v; return o }

// SetShadowCatcher marks the object as a shadow catcher.
func (o *MemObject) SetShadowCatcher(v bool) *MemObject { o.shadowCatcher = v; return o }

// SetShadowTerminatorOffset sets the shadow terminator correction.
func (o *MemObject) SetShadowTerminatorOffset(v float32) *MemObject {
	o.shadowTermOffset = v
	return o
}

// SetViewportVisible sets viewport-level visibility.
func (o *MemObject) SetViewportVisible(v bool) *MemObject { o.viewport = v; return o }

// SetModifierCount sets the number of modifiers on the object.
func (o *MemObject) SetModifierCount(n int) *MemObject { o.modifierCount = n; return o }

// SetObjectLinkedMaterial marks a material slot as object-linked.
func (o *MemObject) SetObjectLinkedMaterial(v bool) *MemObject { o.objectMaterial = v; return o }

// SetMotionBlur enables motion blur with the given step exponent.
func (o *MemObject) SetMotionBlur(steps int) *MemObject {
	o.motionBlur = true
	o.motionSteps = steps
	return o
}

// SetDeformMotion toggles deformation motion blur.
func (o *MemObject) SetDeformMotion(v bool) *MemObject { o.deformMotion = v; return o }

// SetParticleHair marks the object as carrying hair-emitting particles.
func (o *MemObject) SetParticleHair(v bool) *MemObject { o.particleHair = v; return o }

// SetBoundingRadius sets the local-space bounding sphere radius.
func (o *MemObject) SetBoundingRadius(r float32) *MemObject { o.boundingRadius = r; return o }

// SetShowSelf toggles whether the object itself renders.
func (o *MemObject) SetShowSelf(v bool) *MemObject { o.showSelf = v; return o }

// SetShowParticles toggles whether particle-generated geometry renders.
func (o *MemObject) SetShowParticles(v bool) *MemObject { o.showParticles = v; return o }

// SetProperty stores a named custom property on the object.
func (o *MemObject) SetProperty(name string, value common.Float4) *MemObject {
	o.props[name] = value
	return o
}

// SetDataProperty stores a named custom property on the object's datablock.
// A no-op for empties, which carry no data.
func (o *MemObject) SetDataProperty(name string, value common.Float4) *MemObject {
	if o.data != nil {
		o.data.props[name] = value
	}
	return o
}

// SetCurveInfo sets the curve geometry-qualification fields.
func (o *MemObject) SetCurveInfo(bevelObject bool, extrude, bevelDepth float32, is2D bool) *MemObject {
	o.curveBevelObject = bevelObject
	o.curveExtrude = extrude
	o.curveBevelDepth = bevelDepth
	o.curve2D = is2D
	return o
}

func (o *MemObject) Handle() Handle    { return o.handle }
func (o *MemObject) Name() string      { return o.name }
func (o *MemObject) Kind() ObjectKind  { return o.kind }
func (o *MemObject) PassIndex() int    { return o.passIndex }
func (o *MemObject) Color() mgl32.Vec3 { return o.color }

func (o *MemObject) Data() DataBlock {
	if o.data == nil {
		return nil
	}
	if o.kind == KindCurve {
		return &memCurveData{MemData: o.data, owner: o}
	}
	return o.data
}

func (o *MemObject) Parent() Object {
	if o.parent == nil {
		return nil
	}
	return o.parent
}

func (o *MemObject) MatrixWorld() mgl32.Mat4 {
	if o.animate != nil {
		return o.animate(o.scene.Time())
	}
	return o.transform
}

func (o *MemObject) RayVisibility() RayVisibility    { return o.visibility }
func (o *MemObject) Holdout() bool                   { return o.holdout }
func (o *MemObject) ShadowCatcher() bool             { return o.shadowCatcher }
func (o *MemObject) ShadowTerminatorOffset() float32 { return o.shadowTermOffset }
func (o *MemObject) VisibleInViewport() bool         { return o.viewport }
func (o *MemObject) ModifierCount() int              { return o.modifierCount }
func (o *MemObject) HasObjectLinkedMaterial() bool   { return o.objectMaterial }
func (o *MemObject) UseMotionBlur() bool             { return o.motionBlur }
func (o *MemObject) MotionSteps() int                { return o.motionSteps }
func (o *MemObject) UseDeformMotion() bool           { return o.deformMotion }
func (o *MemObject) HasParticleHair() bool           { return o.particleHair }
func (o *MemObject) BoundingRadius() float32         { return o.boundingRadius }

func (o *MemObject) LookupProperty(name string) (common.Float4, bool) {
	v, ok := o.props[name]
	return v, ok
}

// MemData is the in-memory DataBlock implementation.
type MemData struct {
	handle Handle
	name   string
	props  map[string]common.Float4
}

func (d *MemData) Handle() Handle { return d.handle }
func (d *MemData) Name() string   { return d.name }

// SetProperty stores a named custom property on the datablock.
func (d *MemData) SetProperty(name string, value common.Float4) *MemData {
	d.props[name] = value
	return d
}

func (d *MemData) LookupProperty(name string) (common.Float4, bool) {
	v, ok := d.props[name]
	return v, ok
}

type memCurveData struct {
	*MemData
	owner *MemObject
}

func (c *memCurveData) HasBevelObject() bool { return c.owner.curveBevelObject }
func (c *memCurveData) Extrude() float32     { return c.owner.curveExtrude }
func (c *memCurveData) BevelDepth() float32  { return c.owner.curveBevelDepth }
func (c *memCurveData) Is2D() bool           { return c.owner.curve2D }

// MemParticleSystem is the in-memory ParticleSystem implementation.
type MemParticleSystem struct {
	handle    Handle
	name      string
	settings  *MemData
	parent    *MemObject
	object    *MemObject
	count     int
	particles []Particle
}

func (p *MemParticleSystem) Handle() Handle      { return p.handle }
func (p *MemParticleSystem) Name() string        { return p.name }
func (p *MemParticleSystem) Settings() DataBlock { return p.settings }

// SettingsData returns the mutable settings block for authoring.
func (p *MemParticleSystem) SettingsData() *MemData { return p.settings }

func (p *MemParticleSystem) Particle(index int) (Particle, bool) {
	if index < 0 || index >= len(p.particles) {
		return Particle{}, false
	}
	return p.particles[index], true
}

type memInstance struct {
	object        *MemObject
	parent        *MemObject
	psys          *MemParticleSystem
	particleIndex int
	instance      bool
}

func (i *memInstance) Object() Object { return i.object }

func (i *memInstance) MatrixWorld() mgl32.Mat4 {
	base := i.object.MatrixWorld()
	if !i.instance {
		return base
	}
	p := i.psys.particles[i.particleIndex]
	offset := mgl32.Translate3D(p.Location.X(), p.Location.Y(), p.Location.Z())
	return offset.Mul4(base)
}

func (i *memInstance) IsInstance() bool { return i.instance }

func (i *memInstance) Parent() Object {
	if i.instance {
		return i.parent
	}
	return i.object
}

func (i *memInstance) InstanceObject() Object { return i.object }

func (i *memInstance) PersistentID() PersistentID {
	if !i.instance {
		return PersistentID{}
	}
	return MakePersistentID(int32(i.particleIndex))
}

func (i *memInstance) RandomID() uint32 {
	if !i.instance {
		return 0
	}
	return common.HashUint2(uint32(i.particleIndex), uint32(i.psys.handle))
}

func (i *memInstance) Orco() mgl32.Vec3 {
	if !i.instance {
		return mgl32.Vec3{}
	}
	n := float32(i.psys.count)
	return mgl32.Vec3{float32(i.particleIndex) / n, 0, 0}
}

func (i *memInstance) UV() mgl32.Vec2 {
	if !i.instance {
		return mgl32.Vec2{}
	}
	n := float32(i.psys.count)
	return mgl32.Vec2{float32(i.particleIndex) / n, 0}
}

func (i *memInstance) ParticleSystem() ParticleSystem {
	if i.psys == nil {
		return nil
	}
	return i.psys
}

func (i *memInstance) ParticleIndex() int {
	if !i.instance {
		return -1
	}
	return i.particleIndex
}

func (i *memInstance) ShowSelf() bool {
	if i.instance {
		return true
	}
	return i.object.showSelf
}

func (i *memInstance) ShowParticles() bool { return i.object.showParticles }
