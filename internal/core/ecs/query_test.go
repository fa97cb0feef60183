package ecs

import "testing"

func idSet(ids []EntityID) map[EntityID]bool {
	m := make(map[EntityID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestQueryMixedLayouts(t *testing.T) {
	w := NewWorld()
	e0 := w.Spawn()
	e1 := w.Spawn()
	e2 := w.Spawn()

	AddComponent(w, e0, health{HP: 10}) // sparse
	AddComponent(w, e1, health{HP: 10})
	AddComponent(w, e0, label{S: "A"}) // sparse
	AddComponent(w, e2, position{})    // dense

	got := idSet(w.Query(TypeHashFor[health](), TypeHashFor[label]()))
	if len(got) != 1 || !got[e0] {
		t.Fatalf("expected exactly {e0}, got %v", got)
	}

	got = idSet(w.Query(TypeHashFor[health]()))
	if len(got) != 2 || !got[e0] || !got[e1] {
		t.Fatalf("expected {e0, e1}, got %v", got)
	}

	got = idSet(w.Query(TypeHashFor[position]()))
	if len(got) != 1 || !got[e2] {
		t.Fatalf("expected {e2}, got %v", got)
	}

	// Dense and sparse requirements compose.
	AddComponent(w, e2, health{HP: 1})
	got = idSet(w.Query(TypeHashFor[position](), TypeHashFor[health]()))
	if len(got) != 1 || !got[e2] {
		t.Fatalf("expected {e2} for mixed-layout query, got %v", got)
	}
}

func TestQueryEmptyTypeListMatchesAllLive(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	b := w.Spawn()
	w.Despawn(a)

	got := w.Query()
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected only live entity %v, got %v", b, got)
	}
}

func TestQueryReflectsRemovals(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	AddComponent(w, e, position{})
	if n := w.Count(TypeHashFor[position]()); n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}

	RemoveComponent[position](w, e)
	if n := w.Count(TypeHashFor[position]()); n != 0 {
		t.Fatalf("expected count 0 after removal, got %d", n)
	}
	if ids := w.Query(TypeHashFor[position]()); len(ids) != 0 {
		t.Fatalf("expected no matches after removal, got %v", ids)
	}
}

func TestQueryOrderedByIndex(t *testing.T) {
	w := NewWorld()
	var spawned []EntityID
	for i := 0; i < 6; i++ {
		id := w.Spawn()
		AddComponent(w, id, health{HP: i})
		spawned = append(spawned, id)
	}
	w.Despawn(spawned[2])

	ids := w.Query(TypeHashFor[health]())
	for i := 1; i < len(ids); i++ {
		if ids[i-1].Index() >= ids[i].Index() {
			t.Fatalf("results out of index order: %v", ids)
		}
	}
}

func TestQuerySnapshotSurvivesMutation(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	b := w.Spawn()
	AddComponent(w, a, position{X: 1})
	AddComponent(w, b, position{X: 2})

	snap := w.Query(TypeHashFor[position]())
	if len(snap) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(snap))
	}

	// Mutations after the query leave the snapshot untouched.
	w.Despawn(a)
	RemoveComponent[position](w, b)
	if len(snap) != 2 {
		t.Fatalf("snapshot changed under mutation: %v", snap)
	}

	// Resolving through the snapshot reports the current truth.
	if _, err := GetComponent[position](w, a); err == nil {
		t.Fatal("expected error resolving despawned snapshot entry")
	}
	if _, err := GetComponent[position](w, b); err == nil {
		t.Fatal("expected error resolving removed component")
	}
}

func TestEachSkipsEntitiesMutatedAway(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	b := w.Spawn()
	c := w.Spawn()
	for i, id := range []EntityID{a, b, c} {
		AddComponent(w, id, health{HP: i + 1})
	}

	// The first callback removes b's component; b must not be visited.
	visited := make(map[EntityID]bool)
	Each1(w, func(id EntityID, h *health) {
		if id == a {
			RemoveComponent[health](w, b)
		}
		visited[id] = true
	})
	if !visited[a] || visited[b] || !visited[c] {
		t.Fatalf("expected visits to a and c only, got %v", visited)
	}
}

func TestEachAllowsTransitionsMidIteration(t *testing.T) {
	w := NewWorld()
	var ids []EntityID
	for i := 0; i < 4; i++ {
		id := w.Spawn()
		AddComponent(w, id, position{X: float64(i)})
		ids = append(ids, id)
	}

	// Adding a dense type mid-iteration moves rows between tables; every
	// entity must still be visited exactly once with its own value. The
	// value is read before the add, which relocates the entity's row and
	// leaves p pointing at the vacated slot.
	seen := make(map[EntityID]float64)
	Each1(w, func(id EntityID, p *position) {
		x := p.X
		AddComponent(w, id, velocity{VX: x})
		seen[id] = x
	})
	if len(seen) != 4 {
		t.Fatalf("expected 4 visits, got %d", len(seen))
	}
	for i, id := range ids {
		if seen[id] != float64(i) {
			t.Fatalf("entity %v visited with wrong value %v", id, seen[id])
		}
		v, err := GetComponent[velocity](w, id)
		if err != nil || v.VX != float64(i) {
			t.Fatalf("entity %v missing velocity added mid-iteration", id)
		}
	}
}

func TestEach2And3ResolvePointers(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	AddComponent(w, e, position{X: 1})
	AddComponent(w, e, velocity{VX: 2})
	AddComponent(w, e, health{HP: 3})

	// Writes through callback pointers land in storage.
	Each2(w, func(_ EntityID, p *position, v *velocity) {
		p.X += v.VX
	})
	p, _ := GetComponent[position](w, e)
	if p.X != 3 {
		t.Fatalf("expected X=3 after Each2 write, got %v", p.X)
	}

	count := 0
	Each3(w, func(_ EntityID, p *position, v *velocity, h *health) {
		if p.X != 3 || v.VX != 2 || h.HP != 3 {
			t.Fatalf("Each3 resolved wrong values: %+v %+v %+v", *p, *v, *h)
		}
		count++
	})
	if count != 1 {
		t.Fatalf("expected 1 Each3 visit, got %d", count)
	}
}
