package sync

import "github.com/lumen-render/lumen/engine/host"

// ObjectKey is the stable value identity of one render object: the instancing
// parent, the persistent instance id, the instanced (original) object, and
// the hair variant flag. Two source instances map to the same render entity
// iff every field matches.
type ObjectKey struct {
	Parent host.Handle
	ID     host.PersistentID
	Object host.Handle
	Hair   bool
}

// NewObjectKey derives the object key for an instance occurrence.
func NewObjectKey(parent, object host.Object, id host.PersistentID, hair bool) ObjectKey {
	return ObjectKey{
		Parent: parent.Handle(),
		ID:     id,
		Object: object.Handle(),
		Hair:   hair,
	}
}

// GeometryKey identifies shared converted geometry: the source data handle
// and the hair variant flag. Objects whose source is modified (metaballs,
// modifiers, object-linked materials) key by their object handle instead so
// they never share a conversion with true instances.
type GeometryKey struct {
	Data host.Handle
	Hair bool
}

// NewGeometryKey derives the geometry key for an object, choosing the object
// handle over the data handle when the object's data is object-modified.
func NewGeometryKey(ob host.Object, hair bool) GeometryKey {
	if objectIsModified(ob) {
		return GeometryKey{Data: ob.Handle(), Hair: hair}
	}
	data := ob.Data()
	if data == nil {
		return GeometryKey{Data: ob.Handle(), Hair: hair}
	}
	return GeometryKey{Data: data.Handle(), Hair: hair}
}

// ParticleSystemKey identifies a synced particle system by its host handle.
type ParticleSystemKey struct {
	System host.Handle
}

// objectIsModified reports whether the object's geometry depends on
// object-level state and therefore cannot share a conversion with other
// users of the same data. Metaballs always qualify: multi-user and dupli
// metaballs are fused by the host.
func objectIsModified(ob host.Object) bool {
	if ob.Kind() == host.KindMetaball {
		return true
	}
	if ob.ModifierCount() > 0 {
		return true
	}
	return ob.HasObjectLinkedMaterial()
}
