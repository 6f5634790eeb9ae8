package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
)

// Particle is one synced particle record available to shaders via the object
// info node.
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

// ParticleSystem is the render-side collection of synced particles for one
// source particle system. Particles are rebuilt each base pass.
type ParticleSystem struct {
	Name      string
	Particles []Particle
}

// Clear drops all particle records, keeping capacity for the rebuild.
func (p *ParticleSystem) Clear() {
	p.Particles = p.Particles[:0]
}

// Add appends a particle record and returns its index within the system.
func (p *ParticleSystem) Add(particle Particle) int {
	p.Particles = append(p.Particles, particle)
	return len(p.Particles) - 1
}

// TagUpdate reports this particle system's pending changes to the scene.
func (p *ParticleSystem) TagUpdate(s *Scene) {
	s.TagUpdate(UpdateParticles)
}
