package sync

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

// Well-known light properties on the host light datablock.
const (
	propLightType = "light_type"
	propStrength  = "strength"
	propSize      = "size"
	propIsPortal  = "is_portal"
)

func lightTypeFromProperty(data host.DataBlock) render.LightType {
	if v, ok := lookupProperty(data, propLightType); ok {
		switch int(v[0]) {
		case 1:
			return render.LightSun
		case 2:
			return render.LightSpot
		case 3:
			return render.LightArea
		}
	}
	return render.LightPoint
}

// syncLight maps one source light occurrence onto a persistent render light.
// Lights are terminal: no geometry-bearing entity is produced. Portal lights
// raise usePortal for the background sync that follows the instance loop.
func (s *Syncer) syncLight(inst host.Instance, tfm mgl32.Mat4, usePortal *bool) error {
	ob := inst.Object()
	key := NewObjectKey(inst.Parent(), inst.InstanceObject(), inst.PersistentID(), false)

	light, created, err := s.lightMap.AddOrUpdate(key, func() (*render.Light, error) {
		return s.scene.CreateLight(ob.Name()), nil
	})
	if err != nil {
		return err
	}

	data := ob.Data()
	light.SetTransform(tfm)
	light.SetType(lightTypeFromProperty(data))

	strength := mgl32.Vec3{1, 1, 1}
	if v, ok := lookupProperty(data, propStrength); ok {
		strength = mgl32.Vec3{v[0], v[1], v[2]}
	}
	light.SetStrength(strength)

	if v, ok := lookupProperty(data, propSize); ok {
		light.SetSize(v[0])
	}

	portal := false
	if v, ok := lookupProperty(data, propIsPortal); ok {
		portal = v[0] != 0
	}
	light.SetIsPortal(portal)
	if portal {
		*usePortal = true
	}

	if inst.IsInstance() {
		light.SetRandomID(inst.RandomID())
	} else {
		light.SetRandomID(common.HashUint2(common.HashString(ob.Name()), 0))
	}

	if created || light.Modified() {
		light.TagUpdate(s.scene)
		s.stats.Updated++
	}
	s.stats.Lights++

	return nil
}

// syncBackgroundLight keeps the implicit background light in step with
// portal usage. It lives outside the identity maps and is never swept.
func (s *Syncer) syncBackgroundLight(usePortal bool) {
	if s.backgroundLight == nil {
		if !usePortal {
			return
		}
		s.backgroundLight = s.scene.CreateLight("background")
		s.backgroundLight.SetType(render.LightBackground)
	}
	s.backgroundLight.SetIsPortal(usePortal)
	if s.backgroundLight.Modified() {
		s.backgroundLight.TagUpdate(s.scene)
	}
}
