// Package sync implements the incremental scene synchronization core: it
// maps host-scene instances onto persistent render entities, re-converts only
// what changed, parallelizes geometry conversion, and collects the motion
// times that drive the motion-blur sub-passes.
package sync

// IDMap is a generational cache from value-identity keys to persistent
// render entities. A pass brackets its use between PreSync and PostSync:
// PreSync marks every entry unseen, lookups during the pass mark entries
// seen, and PostSync releases everything that was never seen again.
//
// Keys compare by value; host handle reuse across frames is therefore a new
// logical identity only if the rest of the key changed too. Only the sync
// driving thread mutates the map.
type IDMap[K comparable, V any] struct {
	entries map[K]*idEntry[V]
}

type idEntry[V any] struct {
	value V
	seen  bool
}

// NewIDMap creates an empty identity map.
func NewIDMap[K comparable, V any]() *IDMap[K, V] {
	return &IDMap[K, V]{entries: make(map[K]*idEntry[V])}
}

// PreSync marks every entry as not yet seen this pass.
func (m *IDMap[K, V]) PreSync() {
	for _, e := range m.entries {
		e.seen = false
	}
}

// AddOrUpdate looks up the entity for key, allocating through create when
// absent. The returned bool is true when the entity was freshly created;
// callers layer their own change detection on top of it. A create failure
// (render factory allocation) propagates and aborts the pass.
func (m *IDMap[K, V]) AddOrUpdate(key K, create func() (V, error)) (V, bool, error) {
	if e, ok := m.entries[key]; ok {
		e.seen = true
		return e.value, false, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, false, err
	}
	m.entries[key] = &idEntry[V]{value: v, seen: true}
	return v, true, nil
}

// Find is a non-mutating lookup, used by motion-only passes which may never
// create entities. A miss is a policy no-op for callers, not an error.
func (m *IDMap[K, V]) Find(key K) (V, bool) {
	if e, ok := m.entries[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// PostSync removes every entry that was not seen since PreSync, handing each
// removed entity to release so the caller can detach it from the render
// scene. Returns the number of released entities.
func (m *IDMap[K, V]) PostSync(release func(V)) int {
	removed := 0
	for key, e := range m.entries {
		if !e.seen {
			if release != nil {
				release(e.value)
			}
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (m *IDMap[K, V]) Len() int { return len(m.entries) }
