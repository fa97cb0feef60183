package ecs

import "fmt"

// ArchetypeHash identifies a set of dense component types: the XOR of the
// member TypeHashes. The empty set uses the reserved all-bits-set sentinel
// rather than the XOR identity, so a real combination that happens to XOR
// to zero never collides with "no components".
type ArchetypeHash uint64

const EmptyArchetype ArchetypeHash = ^ArchetypeHash(0)

func (h ArchetypeHash) String() string {
	if h == EmptyArchetype {
		return "archetype(empty)"
	}
	return fmt.Sprintf("archetype(%#x)", uint64(h))
}

// hashWith computes the hash after adding type t to a dense set of size n
// currently hashed h. The sentinel boundary is decided by n, not by h,
// because a legitimate XOR result can equal any value.
func hashWith(h ArchetypeHash, n int, t TypeHash) ArchetypeHash {
	if n == 0 {
		return ArchetypeHash(t)
	}
	return h ^ ArchetypeHash(t)
}

// hashWithout computes the hash after removing type t from a dense set of
// size n currently hashed h.
func hashWithout(h ArchetypeHash, n int, t TypeHash) ArchetypeHash {
	if n == 1 {
		return EmptyArchetype
	}
	return h ^ ArchetypeHash(t)
}

// Table groups every entity sharing one exact dense component set. It owns
// one packed column per dense type, all kept in lock-step: equal row
// counts, identical row ordering, with entities[row] naming the owner of
// each row. Sparse component data never lives here; sparse holds only
// references into the World-owned stores for sparse types seen on this
// table's entities, so the data stays indexed by raw entity id and is
// never duplicated per archetype.
type Table struct {
	hash     ArchetypeHash
	types    []TypeHash
	columns  map[TypeHash]DenseStore
	sparse   map[TypeHash]SparseStore
	entities []EntityID
}

func newTable(hash ArchetypeHash) *Table {
	return &Table{
		hash:    hash,
		columns: make(map[TypeHash]DenseStore, 4),
		sparse:  make(map[TypeHash]SparseStore, 4),
	}
}

func (t *Table) Hash() ArchetypeHash { return t.hash }
func (t *Table) Rows() int           { return len(t.entities) }
func (t *Table) Types() []TypeHash   { return t.types }

// EntityAt returns the owner of the given row.
func (t *Table) EntityAt(row int) EntityID { return t.entities[row] }

func (t *Table) addColumn(col DenseStore) {
	t.types = append(t.types, col.TypeHash())
	t.columns[col.TypeHash()] = col
}

// noteSparse records a reference to a World-owned sparse store whose type
// co-occurs with this archetype. Idempotent; references accumulate for
// the table's lifetime.
func (t *Table) noteSparse(h TypeHash, st SparseStore) {
	t.sparse[h] = st
}

// SparseRef returns the recorded sparse store for a co-occurring type.
func (t *Table) SparseRef(h TypeHash) (SparseStore, bool) {
	st, ok := t.sparse[h]
	return st, ok
}

// appendEntity adds an entity that carries no column data yet (empty
// archetype membership) and returns its row.
func (t *Table) appendEntity(id EntityID) int {
	t.entities = append(t.entities, id)
	return len(t.entities) - 1
}

// moveRow transfers one entity's row into dst: every column present in
// both tables is copied, columns absent from dst are dropped, and the
// source row is swap-removed. Columns dst has beyond the shared set are
// the caller's to fill before the table is considered settled. Returns the
// row the entity now occupies in dst plus the entity displaced into the
// vacated source row, if any, so the caller can fix its metadata in the
// same operation.
func (t *Table) moveRow(dst *Table, row int) (newRow int, displaced EntityID, hadDisplaced bool) {
	for _, th := range t.types {
		if dstCol, ok := dst.columns[th]; ok {
			dstCol.AppendFrom(t.columns[th], row)
		}
	}
	dst.entities = append(dst.entities, t.entities[row])
	newRow = len(dst.entities) - 1
	displaced, hadDisplaced = t.swapRemoveRow(row)
	return newRow, displaced, hadDisplaced
}

// swapRemoveRow removes one row from every column, moving the last row
// into the hole. Returns the entity that changed rows, if any.
func (t *Table) swapRemoveRow(row int) (EntityID, bool) {
	last := len(t.entities) - 1
	var displaced EntityID
	had := false
	if row < last {
		displaced = t.entities[last]
		t.entities[row] = displaced
		had = true
	}
	for _, th := range t.types {
		t.columns[th].SwapRemove(row)
	}
	t.entities = t.entities[:last]
	return displaced, had
}

// assertLockstep panics when any column's row count disagrees with the
// entity list. The documented operations can never produce this state; a
// trip here is a bug in the table code itself, not a caller error.
func (t *Table) assertLockstep() {
	for _, th := range t.types {
		if n := t.columns[th].Len(); n != len(t.entities) {
			panic(fmt.Sprintf("ecs: %v column %#x holds %d rows for %d entities",
				t.hash, uint64(th), n, len(t.entities)))
		}
	}
}
