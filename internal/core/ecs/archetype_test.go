package ecs

import "testing"

func TestArchetypeHashAlgebra(t *testing.T) {
	a := TypeHashFor[position]()
	b := TypeHashFor[velocity]()

	h1 := hashWith(EmptyArchetype, 0, a)
	if h1 != ArchetypeHash(a) {
		t.Fatalf("first member must define the hash, got %v", h1)
	}

	h2 := hashWith(h1, 1, b)
	if h2 != ArchetypeHash(a)^ArchetypeHash(b) {
		t.Fatalf("expected XOR of members, got %v", h2)
	}
	if hashWith(ArchetypeHash(b), 1, a) != h2 {
		t.Fatal("membership hash must not depend on insertion order")
	}

	if hashWithout(h2, 2, b) != h1 {
		t.Fatal("removing a member must undo adding it")
	}
	if hashWithout(h1, 1, a) != EmptyArchetype {
		t.Fatal("removing the last member must yield the empty sentinel")
	}
}

// The sentinel boundary is keyed on set size: a single-member set always
// collapses to EmptyArchetype on removal no matter what its hash was, and
// the empty sentinel value itself never leaks into XOR arithmetic.
func TestArchetypeHashSentinelBoundary(t *testing.T) {
	weird := TypeHash(^uint64(0)) // member hash equal to the sentinel bits
	h := hashWith(EmptyArchetype, 0, weird)
	if h != ArchetypeHash(weird) {
		t.Fatalf("expected member hash verbatim, got %v", h)
	}
	if hashWithout(h, 1, weird) != EmptyArchetype {
		t.Fatal("single-member removal must reach the sentinel by size, not value")
	}
}

func newTestTable(hashes ...TypeHash) *Table {
	var h ArchetypeHash = EmptyArchetype
	for i, th := range hashes {
		h = hashWith(h, i, th)
	}
	return newTable(h)
}

func TestMoveRowCopiesSharedColumns(t *testing.T) {
	ph := TypeHashFor[position]()
	vh := TypeHashFor[velocity]()

	src := newTestTable(ph)
	src.addColumn(newDenseColumn[position](ph))
	dst := newTestTable(ph, vh)
	dst.addColumn(newDenseColumn[position](ph))
	dst.addColumn(newDenseColumn[velocity](vh))
	if got := dst.Types(); len(got) != 2 || got[0] != ph || got[1] != vh {
		t.Fatalf("expected dense set [position velocity], got %v", got)
	}

	e := NewEntityID(0, 0)
	src.columns[ph].(*denseColumn[position]).append(position{X: 42})
	src.appendEntity(e)

	newRow, _, had := src.moveRow(dst, 0)
	if had {
		t.Fatal("sole row cannot displace anyone")
	}
	if newRow != 0 {
		t.Fatalf("expected row 0 in destination, got %d", newRow)
	}
	if src.Rows() != 0 {
		t.Fatalf("expected empty source, got %d rows", src.Rows())
	}
	if got := dst.columns[ph].(*denseColumn[position]).at(0); got.X != 42 {
		t.Fatalf("expected copied value X=42, got %v", got.X)
	}
	if dst.EntityAt(0) != e {
		t.Fatalf("expected entity %v at destination row, got %v", e, dst.EntityAt(0))
	}

	// The velocity column is the destination's own extra; once the caller
	// fills it, the table is back in lock-step.
	dst.columns[vh].(*denseColumn[velocity]).append(velocity{VX: 1})
	dst.assertLockstep()
}

func TestMoveRowDropsRemovedColumn(t *testing.T) {
	ph := TypeHashFor[position]()
	vh := TypeHashFor[velocity]()

	src := newTestTable(ph, vh)
	src.addColumn(newDenseColumn[position](ph))
	src.addColumn(newDenseColumn[velocity](vh))
	dst := newTestTable(ph)
	dst.addColumn(newDenseColumn[position](ph))

	src.columns[ph].(*denseColumn[position]).append(position{X: 5})
	src.columns[vh].(*denseColumn[velocity]).append(velocity{VX: 9})
	src.appendEntity(NewEntityID(3, 0))

	src.moveRow(dst, 0)
	dst.assertLockstep()
	if got := dst.columns[ph].(*denseColumn[position]).at(0); got.X != 5 {
		t.Fatalf("surviving column lost its value, got X=%v", got.X)
	}
	if _, ok := dst.columns[vh]; ok {
		t.Fatal("destination must not grow a column for the dropped type")
	}
}

func TestSwapRemoveRowReportsDisplacement(t *testing.T) {
	ph := TypeHashFor[position]()
	tbl := newTestTable(ph)
	tbl.addColumn(newDenseColumn[position](ph))

	ids := []EntityID{NewEntityID(0, 0), NewEntityID(1, 0), NewEntityID(2, 0)}
	for i, id := range ids {
		tbl.columns[ph].(*denseColumn[position]).append(position{X: float64(i)})
		tbl.appendEntity(id)
	}

	displaced, had := tbl.swapRemoveRow(1)
	if !had || displaced != ids[2] {
		t.Fatalf("expected entity %v displaced, got %v had=%v", ids[2], displaced, had)
	}
	if tbl.EntityAt(1) != ids[2] {
		t.Fatalf("expected displaced entity at row 1, got %v", tbl.EntityAt(1))
	}
	if got := tbl.columns[ph].(*denseColumn[position]).at(1); got.X != 2 {
		t.Fatalf("expected displaced value X=2, got %v", got.X)
	}
	tbl.assertLockstep()

	// Removing the last row displaces nothing.
	if _, had := tbl.swapRemoveRow(tbl.Rows() - 1); had {
		t.Fatal("removing the final row must not report displacement")
	}
	tbl.assertLockstep()
}

func TestLockstepViolationPanics(t *testing.T) {
	ph := TypeHashFor[position]()
	tbl := newTestTable(ph)
	tbl.addColumn(newDenseColumn[position](ph))
	tbl.columns[ph].(*denseColumn[position]).append(position{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on column/entity count mismatch")
		}
	}()
	tbl.assertLockstep() // column has 1 row, entity list none
}
