package sync

import (
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

// syncDupliParticle attaches the generating particle's data to an instanced
// object. The particle system entity rebuilds lazily: its first touch in a
// pass clears the previous pass's records. Runs on the driving thread only.
func (s *Syncer) syncDupliParticle(inst host.Instance, object *render.Object) error {
	psys := inst.ParticleSystem()
	if psys == nil {
		return nil
	}
	particle, ok := psys.Particle(inst.ParticleIndex())
	if !ok {
		return nil
	}

	key := ParticleSystemKey{System: psys.Handle()}
	entity, _, err := s.particleSystemMap.AddOrUpdate(key, func() (*render.ParticleSystem, error) {
		return s.scene.CreateParticleSystem(psys.Name()), nil
	})
	if err != nil {
		return err
	}

	if _, touched := s.particlesTouched[key]; !touched {
		s.particlesTouched[key] = struct{}{}
		entity.Clear()
		entity.TagUpdate(s.scene)
	}

	index := entity.Add(render.Particle{
		Index:           particle.Index,
		Age:             particle.Age,
		Lifetime:        particle.Lifetime,
		Location:        particle.Location,
		Rotation:        particle.Rotation,
		Size:            particle.Size,
		Velocity:        particle.Velocity,
		AngularVelocity: particle.AngularVelocity,
	})
	object.SetParticleData(entity, index)

	return nil
}
