package sync

import (
	"log"

	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

func geometryKind(ob host.Object, hair bool) render.GeometryKind {
	if hair {
		return render.GeometryHair
	}
	switch ob.Kind() {
	case host.KindVolume:
		return render.GeometryVolume
	case host.KindPointCloud:
		return render.GeometryPointCloud
	default:
		return render.GeometryMesh
	}
}

// syncGeometry resolves the shared geometry entity for an object and decides
// whether its source must be (re)converted. Conversion runs at most once per
// pass per shared geometry, on the dispatcher when one is supplied and
// inline otherwise. ob must be the original (instanced) object, which stays
// valid for deferred conversion after the enumeration moves on.
func (s *Syncer) syncGeometry(ob host.Object, objectUpdated, hair bool, disp *geometryDispatcher) (*render.Geometry, error) {
	key := NewGeometryKey(ob, hair)

	geom, created, err := s.geometryMap.AddOrUpdate(key, func() (*render.Geometry, error) {
		name := ob.Name()
		if data := ob.Data(); data != nil {
			name = data.Name()
		}
		return s.scene.CreateGeometry(name, geometryKind(ob, hair)), nil
	})
	if err != nil {
		return nil, err
	}

	if _, done := s.geometrySynced[key]; done {
		return geom, nil
	}
	if !created && !objectUpdated && !geom.Modified() {
		return geom, nil
	}
	s.geometrySynced[key] = struct{}{}

	// Shaders and the needed-attribute set bind synchronously so the
	// attribute reconciler, which runs before the pool drains, reads the
	// set this conversion produces rather than last pass's.
	if err := s.converter.BindShaders(ob, geom, hair); err != nil {
		return nil, err
	}

	// The modified flag and the scene tag are raised here on the driving
	// thread; the task itself only writes buffers it exclusively owns.
	geom.MarkModified()
	geom.TagUpdate(s.scene)
	s.stats.GeometryConversions++

	task := func() {
		if err := s.converter.ConvertGeometry(ob, geom, hair); err != nil {
			s.convErrors.Add(1)
			log.Printf("[sync] geometry conversion failed for %q: %v", ob.Name(), err)
		}
	}
	if disp != nil {
		disp.submit(task)
	} else {
		task()
	}

	return geom, nil
}

// syncGeometryMotion dispatches deform-motion conversion for one motion step
// during a motion sub-pass. Geometry without deform motion blur, and
// geometry already handled this sub-pass, is left untouched.
func (s *Syncer) syncGeometryMotion(ob host.Object, object *render.Object, motionTime float32, hair bool, disp *geometryDispatcher) {
	geom := object.Geometry()
	if geom == nil || !geom.UseMotionBlur() {
		return
	}

	key := NewGeometryKey(ob, hair)
	if _, done := s.geometryMotionSynced[key]; done {
		return
	}
	s.geometryMotionSynced[key] = struct{}{}

	step := object.MotionStep(motionTime)
	if step < 0 {
		return
	}

	task := func() {
		if err := s.converter.ConvertGeometryMotion(ob, geom, step); err != nil {
			s.convErrors.Add(1)
			log.Printf("[sync] motion geometry conversion failed for %q: %v", ob.Name(), err)
		}
	}
	if disp != nil {
		disp.submit(task)
	} else {
		task()
	}
}
