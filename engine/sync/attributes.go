package sync

import (
	"fmt"

	"github.com/lumen-render/lumen/common"
	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/render"
)

// indexedPropertyName wraps a name in the host's custom-property path form,
// so `color` is probed as `["color"]` before the literal spelling.
func indexedPropertyName(name string) string {
	return fmt.Sprintf("[%q]", name)
}

func lookupProperty(holder host.PropertyHolder, name string) (common.Float4, bool) {
	if holder == nil {
		return common.Zero4, false
	}
	return holder.LookupProperty(name)
}

// lookupInstanceProperty resolves an attribute value through the ordered
// fallback chain. Instancer-scoped requests on generated instances probe the
// particle system settings, then the instancing parent; everything falls
// through to the object and finally its datablock. Each link is probed in
// the indexed form before the literal form. The first hit wins.
func lookupInstanceProperty(inst host.Instance, name string, useInstancer bool) (common.Float4, bool) {
	idprop := indexedPropertyName(name)

	if useInstancer && inst.IsInstance() {
		if psys := inst.ParticleSystem(); psys != nil {
			if v, ok := lookupProperty(psys.Settings(), idprop); ok {
				return v, true
			}
			if v, ok := lookupProperty(psys.Settings(), name); ok {
				return v, true
			}
		}
		if v, ok := lookupProperty(inst.Parent(), idprop); ok {
			return v, true
		}
		if v, ok := lookupProperty(inst.Parent(), name); ok {
			return v, true
		}
	}

	ob := inst.Object()
	if v, ok := lookupProperty(ob, idprop); ok {
		return v, true
	}
	if v, ok := lookupProperty(ob, name); ok {
		return v, true
	}
	if data := ob.Data(); data != nil {
		if v, ok := lookupProperty(data, idprop); ok {
			return v, true
		}
		if v, ok := lookupProperty(data, name); ok {
			return v, true
		}
	}

	return common.Zero4, false
}

// syncObjectAttributes reconciles an object's stored attribute values with
// its geometry's needed-attribute set: stale names are dropped, and a stored
// value is only rewritten when the freshly resolved value differs. The
// returned flag feeds the object's re-tag decision, so unchanged values cost
// no downstream invalidation. An unresolved lookup stores the zero vector by
// policy and is counted in the pass stats.
func (s *Syncer) syncObjectAttributes(inst host.Instance, ob *render.Object) bool {
	geom := ob.Geometry()
	if geom == nil {
		return false
	}
	requests := geom.NeededAttributes()

	needed := make(map[string]bool, len(requests))
	for _, req := range requests {
		needed[req.Name] = true
	}

	changed := false
	for i := len(ob.Attributes()) - 1; i >= 0; i-- {
		if !needed[ob.Attributes()[i].Name] {
			ob.RemoveAttributeAt(i)
			changed = true
		}
	}

	for _, req := range requests {
		if req.Kind == render.AttributeGeometry {
			continue
		}
		useInstancer := req.Kind == render.AttributeInstancer
		value, ok := lookupInstanceProperty(inst, req.Name, useInstancer)
		if !ok {
			value = common.Zero4
			s.stats.UnresolvedAttributes++
		}

		param := ob.FindAttribute(req.Name)
		switch {
		case param == nil:
			ob.AppendAttribute(render.Attribute{Name: req.Name, Value: value})
			changed = true
		case param.Value != value:
			param.Value = value
			changed = true
		}
	}

	return changed
}
