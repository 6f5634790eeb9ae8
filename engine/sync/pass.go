package sync

import (
	"fmt"
	"log"
	"sort"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/render"
)

// Sync runs a full synchronization: the base pass at the current frame,
// followed by every motion sub-pass the base pass requested.
func (s *Syncer) Sync() error {
	if err := s.SyncPass(0); err != nil {
		return err
	}
	return s.SyncMotionPasses()
}

// SyncPass reconciles the host graph into the render scene for one point in
// time. A motionTime of 0 is the base pass: it resets generation state,
// performs removal sweeps at the end, and records which motion sub-passes are
// needed. Nonzero motionTime only fills motion transform and deformation
// slots of entities the base pass produced.
func (s *Syncer) SyncPass(motionTime float32) error {
	motion := motionTime != 0

	if !motion {
		s.objectMap.PreSync()
		s.geometryMap.PreSync()
		s.lightMap.PreSync()
		s.particleSystemMap.PreSync()
		s.motionTimes = map[float32]struct{}{}
		s.particlesTouched = map[ParticleSystemKey]struct{}{}
		s.stats = Stats{}
		s.convErrors.Store(0)
	}
	s.geometrySynced = map[GeometryKey]struct{}{}

	disp := s.dispatcher
	usePortal := false
	cancelled := false

	for _, inst := range s.graph.Instances() {
		if s.progress.Cancelled() {
			cancelled = true
			break
		}

		ob := inst.Object()
		if !ob.VisibleInViewport() {
			s.stats.Skipped++
			continue
		}

		hair := inst.ShowParticles() && ob.HasParticleHair()
		showSelf := inst.ShowSelf()

		// When hair follows, the base object's geometry conversion runs
		// inline. Hair strand roots sample the base surface, so its task
		// must not still be in flight when the hair entity converts.
		if showSelf {
			objectDisp := disp
			if hair {
				objectDisp = nil
			}
			if _, err := s.syncObject(inst, motionTime, false, objectDisp, &usePortal); err != nil {
				disp.drain()
				return fmt.Errorf("sync: %s: %w", ob.Name(), err)
			}
		}
		if hair {
			if _, err := s.syncObject(inst, motionTime, true, disp, &usePortal); err != nil {
				disp.drain()
				return fmt.Errorf("sync: %s hair: %w", ob.Name(), err)
			}
		}
	}

	disp.drain()
	s.progress.SetStatus("")

	if motion {
		s.geometryMotionSynced = map[GeometryKey]struct{}{}
		s.stats.MotionPasses++
		return nil
	}
	if cancelled {
		return nil
	}

	if s.showLights {
		s.syncBackgroundLight(usePortal)
	}
	if s.motion == MotionBlur {
		s.collectCameraMotionTimes()
	}

	s.sweep()
	return nil
}

// collectCameraMotionTimes adds the camera's own shutter sample times to the
// motion schedule, so camera-only motion still produces sub-passes.
func (s *Syncer) collectCameraMotionTimes() {
	cam := s.graph.Camera()
	if cam == nil {
		return
	}
	steps := objectMotionSteps(cam, cam, s.maxMotionSteps)
	for step := 0; step < steps; step++ {
		if steps > 1 {
			s.motionTimes[2.0*float32(step)/float32(steps-1)-1.0] = struct{}{}
		}
	}
}

// sweep releases every entity the pass did not visit and tags the scene for
// each category that lost members.
func (s *Syncer) sweep() {
	removed := s.objectMap.PostSync(func(ob *render.Object) {
		s.scene.ReleaseObject(ob)
	})
	if removed > 0 {
		s.scene.TagUpdate(render.UpdateObject | render.UpdateVisibility)
		s.stats.Removed += removed
	}

	removed = s.geometryMap.PostSync(func(g *render.Geometry) {
		s.scene.ReleaseGeometry(g)
	})
	if removed > 0 {
		s.scene.TagUpdate(render.UpdateGeometry)
		s.stats.Removed += removed
	}

	removed = s.lightMap.PostSync(func(l *render.Light) {
		s.scene.ReleaseLight(l)
	})
	if removed > 0 {
		s.scene.TagUpdate(render.UpdateLight)
		s.stats.Removed += removed
	}

	removed = s.particleSystemMap.PostSync(func(p *render.ParticleSystem) {
		s.scene.ReleaseParticleSystem(p)
	})
	if removed > 0 {
		s.scene.TagUpdate(render.UpdateParticles)
		s.stats.Removed += removed
	}
}

// SyncMotionPasses steps the host graph through every relative motion time
// the base pass collected and runs a motion sub-pass at each, restoring the
// original frame afterwards. Without a frame setter the host graph cannot be
// moved in time, so motion sub-passes are skipped.
func (s *Syncer) SyncMotionPasses() error {
	if s.motion == MotionNone || s.frames == nil {
		return nil
	}

	frameCenter := s.graph.FrameCurrent()
	subframeCenter := s.graph.FrameSubframe()

	// The pass rendering exports two explicit sample times one frame apart,
	// so the shutter spans a fixed two frames regardless of settings.
	shutter := s.shutterTime
	if s.motion == MotionPass {
		shutter = 2.0
	}

	var frameCenterDelta float32
	switch s.motionPosition {
	case MotionPositionStart:
		frameCenterDelta = shutter / 2
	case MotionPositionEnd:
		frameCenterDelta = -shutter / 2
	}

	// A shifted shutter center means the base pass sampled the wrong time.
	// Re-run it at the shifted center before filling the outer samples.
	if s.motion == MotionBlur && frameCenterDelta != 0 {
		s.setRelativeFrame(frameCenter, subframeCenter, frameCenterDelta, shutter, 0)
		if err := s.SyncPass(0); err != nil {
			return err
		}
	}

	for _, time := range s.sortedMotionTimes() {
		if time == 0 {
			continue
		}
		if s.progress.Cancelled() {
			break
		}
		log.Printf("[sync] synchronizing motion for relative time %v", time)

		s.setRelativeFrame(frameCenter, subframeCenter, frameCenterDelta, shutter, time)
		if err := s.SyncPass(time); err != nil {
			return err
		}
	}

	s.frameMu.Lock()
	s.frames.SetFrame(frameCenter, subframeCenter)
	s.frameMu.Unlock()
	return nil
}

// setRelativeFrame moves the host graph to the absolute time corresponding
// to a shutter-relative offset around the (possibly shifted) frame center.
func (s *Syncer) setRelativeFrame(frameCenter int, subframeCenter, frameCenterDelta, shutter, relative float32) {
	time := float32(frameCenter) + subframeCenter + frameCenterDelta + relative*shutter/2
	frame, subframe := common.SplitFrame(time)

	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.frames.SetFrame(frame, subframe)
}

func (s *Syncer) sortedMotionTimes() []float32 {
	times := make([]float32, 0, len(s.motionTimes))
	for t := range s.motionTimes {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}
