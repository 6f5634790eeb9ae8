// Package render holds the render-engine side of the sync boundary: the
// persistent scene container and the entities the sync core creates, mutates,
// and sweeps. Entities are plain structs with change-tracking setters; the
// Scene is the factory and the collection point for update tags.
package render

import "sync"

// UpdateFlag describes which part of the render scene a change invalidates.
type UpdateFlag uint32

const (
	// UpdateObject marks object-level changes (transform, fields, attributes).
	UpdateObject UpdateFlag = 1 << iota
	// UpdateGeometry marks converted geometry changes.
	UpdateGeometry
	// UpdateLight marks light changes.
	UpdateLight
	// UpdateHoldout marks holdout membership changes.
	UpdateHoldout
	// UpdateVisibility marks visibility mask changes.
	UpdateVisibility
	// UpdateParticles marks particle system changes.
	UpdateParticles
)

// ShaderHandle refers to a shader owned by the render engine. Shader graphs
// themselves are outside this module; only default handles travel through it.
type ShaderHandle uint32

// Scene is the render engine's persistent scene. The sync core allocates
// entities through it, tags it when entities change, and releases entities
// during the post-sync sweep. All mutation happens on the sync driving
// thread; the mutex only guards against readers on other threads (the CLI's
// inspect path).
type Scene struct {
	mu sync.Mutex

	objects         []*Object
	geometries      []*Geometry
	lights          []*Light
	particleSystems []*ParticleSystem

	updateFlags UpdateFlag
	updateCount uint64

	// DefaultSurface and DefaultVolume are the fallback shader handles for
	// converted geometry without material slots.
	DefaultSurface ShaderHandle
	DefaultVolume  ShaderHandle
}

// NewScene creates an empty render scene.
func NewScene() *Scene {
	return &Scene{
		DefaultSurface: 1,
		DefaultVolume:  2,
	}
}

// CreateObject allocates a new object entity in the scene.
func (s *Scene) CreateObject(name string) *Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	ob := &Object{Name: name, modified: true}
	s.objects = append(s.objects, ob)
	return ob
}

// CreateGeometry allocates a new geometry entity in the scene.
func (s *Scene) CreateGeometry(name string, kind GeometryKind) *Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &Geometry{Name: name, kind: kind, modified: true}
	s.geometries = append(s.geometries, g)
	return g
}

// CreateLight allocates a new light entity in the scene.
func (s *Scene) CreateLight(name string) *Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &Light{Name: name, modified: true}
	s.lights = append(s.lights, l)
	return l
}

// CreateParticleSystem allocates a new particle system entity in the scene.
func (s *Scene) CreateParticleSystem(name string) *ParticleSystem {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &ParticleSystem{Name: name}
	s.particleSystems = append(s.particleSystems, p)
	return p
}

// ReleaseObject removes an object entity from the scene.
func (s *Scene) ReleaseObject(ob *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.objects {
		if o == ob {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// ReleaseGeometry removes a geometry entity from the scene.
func (s *Scene) ReleaseGeometry(g *Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.geometries {
		if e == g {
			s.geometries = append(s.geometries[:i], s.geometries[i+1:]...)
			return
		}
	}
}

// ReleaseLight removes a light entity from the scene.
func (s *Scene) ReleaseLight(l *Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.lights {
		if e == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

// ReleaseParticleSystem removes a particle system entity from the scene.
func (s *Scene) ReleaseParticleSystem(p *ParticleSystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.particleSystems {
		if e == p {
			s.particleSystems = append(s.particleSystems[:i], s.particleSystems[i+1:]...)
			return
		}
	}
}

// TagUpdate records that part of the scene needs a device-side update.
func (s *Scene) TagUpdate(flags UpdateFlag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateFlags |= flags
	s.updateCount++
}

// UpdateFlags returns the accumulated update flags.
func (s *Scene) UpdateFlags() UpdateFlag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateFlags
}

// UpdateCount returns the total number of update tags since scene creation.
// The counter is monotone; callers diff it across passes.
func (s *Scene) UpdateCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCount
}

// ClearUpdateFlags resets the accumulated flags, normally after the render
// engine consumed the pending updates.
func (s *Scene) ClearUpdateFlags() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateFlags = 0
}

// ClearModified clears the modified flag on every entity. Called between
// frames once the render engine has seen the changes; never during a pass.
func (s *Scene) ClearModified() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.objects {
		o.modified = false
		o.holdoutModified = false
	}
	for _, g := range s.geometries {
		g.modified = false
	}
	for _, l := range s.lights {
		l.modified = false
	}
}

// Objects returns the scene's object entities.
func (s *Scene) Objects() []*Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Object(nil), s.objects...)
}

// Geometries returns the scene's geometry entities.
func (s *Scene) Geometries() []*Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Geometry(nil), s.geometries...)
}

// Lights returns the scene's light entities.
func (s *Scene) Lights() []*Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Light(nil), s.lights...)
}

// ParticleSystems returns the scene's particle system entities.
func (s *Scene) ParticleSystems() []*ParticleSystem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ParticleSystem(nil), s.particleSystems...)
}
