package ecs

// Query returns every live entity currently holding all the given types,
// whichever layout each type lives in. The result is a snapshot taken at
// call time: mutations made afterwards do not change it, so it may still
// name entities that have since despawned or lost one of the types.
// Results are ordered by entity index, making iteration deterministic for
// a given world state. An empty type list matches every live entity.
func (w *World) Query(types ...TypeHash) []EntityID {
	out := make([]EntityID, 0, 16)
	for idx := range w.meta {
		m := &w.meta[idx]
		if !m.live || !w.holdsAll(m, types) {
			continue
		}
		out = append(out, m.table.entities[m.row])
	}
	return out
}

// Count reports how many live entities hold all the given types, without
// building the snapshot slice.
func (w *World) Count(types ...TypeHash) int {
	n := 0
	for idx := range w.meta {
		m := &w.meta[idx]
		if m.live && w.holdsAll(m, types) {
			n++
		}
	}
	return n
}

func (w *World) holdsAll(m *entityMeta, types []TypeHash) bool {
	for _, h := range types {
		if !w.hasType(m, h) {
			return false
		}
	}
	return true
}

// Each1 calls fn for every entity holding component A. The entity set is
// snapshotted before the first call and each entity's pointer is resolved
// just before its callback, so fn may spawn, despawn, add, and remove
// freely; entities that lose A mid-iteration are skipped.
func Each1[A Component](w *World, fn func(EntityID, *A)) {
	for _, id := range w.Query(TypeHashFor[A]()) {
		a, err := GetComponent[A](w, id)
		if err != nil {
			continue
		}
		fn(id, a)
	}
}

// Each2 calls fn for every entity holding both A and B, under the same
// snapshot rules as Each1.
func Each2[A, B Component](w *World, fn func(EntityID, *A, *B)) {
	for _, id := range w.Query(TypeHashFor[A](), TypeHashFor[B]()) {
		a, err := GetComponent[A](w, id)
		if err != nil {
			continue
		}
		b, err := GetComponent[B](w, id)
		if err != nil {
			continue
		}
		fn(id, a, b)
	}
}

// Each3 calls fn for every entity holding A, B, and C, under the same
// snapshot rules as Each1.
func Each3[A, B, C Component](w *World, fn func(EntityID, *A, *B, *C)) {
	for _, id := range w.Query(TypeHashFor[A](), TypeHashFor[B](), TypeHashFor[C]()) {
		a, err := GetComponent[A](w, id)
		if err != nil {
			continue
		}
		b, err := GetComponent[B](w, id)
		if err != nil {
			continue
		}
		c, err := GetComponent[C](w, id)
		if err != nil {
			continue
		}
		fn(id, a, b, c)
	}
}
