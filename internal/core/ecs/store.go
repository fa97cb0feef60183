package ecs

import "fmt"

// Store is the capability surface shared by both storage layouts. The
// World and its tables hold stores behind this interface so one mapping of
// TypeHash → store works without knowing concrete component types; typed
// reads and writes happen only in the generic call sites that statically
// know T and downcast behind the hash key they inserted under.
type Store interface {
	TypeHash() TypeHash
	Kind() StorageKind
	// Len reports slot count for sparse stores and row count for dense
	// columns.
	Len() int
	// Release drops all owned memory.
	Release()
}

// SparseStore is the id-indexed layout: one slot per entity index ever
// allocated, empty slots included. Slot count tracks total allocated ids,
// never shrinks, and is independent of how many entities hold the type.
type SparseStore interface {
	Store
	// Grow ensures at least n slots exist, appending empty ones.
	Grow(n int)
	// ClearSlot resets the slot to empty without shrinking the store.
	ClearSlot(index uint32)
	HasSlot(index uint32) bool
}

// DenseStore is the packed column layout. Row positions are only
// meaningful inside an archetype table's coordinated column set and change
// when entities move between archetypes.
type DenseStore interface {
	Store
	// SwapRemove moves the last row into position row and truncates.
	// The caller owns fixing the displaced entity's metadata.
	SwapRemove(row int)
	// AppendFrom appends a copy of src's given row. src must be the
	// column of the same component type in another table; the shared
	// TypeHash guarantees the concrete types match.
	AppendFrom(src DenseStore, row int)
	// cloneEmpty builds a fresh zero-row column of the same component
	// type, used when a new table clones an existing column layout.
	// Unexported so every DenseStore is one of this package's columns,
	// which is what makes AppendFrom's downcast sound.
	cloneEmpty() DenseStore
}

// --- sparse variant ---

type sparseStore[T any] struct {
	hash    TypeHash
	data    []T
	present []bool
}

func newSparseStore[T any](hash TypeHash, slots int) *sparseStore[T] {
	s := &sparseStore[T]{hash: hash}
	s.Grow(slots)
	return s
}

func (s *sparseStore[T]) TypeHash() TypeHash { return s.hash }
func (s *sparseStore[T]) Kind() StorageKind  { return Sparse }
func (s *sparseStore[T]) Len() int           { return len(s.data) }

func (s *sparseStore[T]) Grow(n int) {
	for len(s.data) < n {
		var zero T
		s.data = append(s.data, zero)
		s.present = append(s.present, false)
	}
}

func (s *sparseStore[T]) ClearSlot(index uint32) {
	if int(index) >= len(s.data) {
		return
	}
	var zero T
	s.data[index] = zero
	s.present[index] = false
}

func (s *sparseStore[T]) HasSlot(index uint32) bool {
	return int(index) < len(s.present) && s.present[index]
}

func (s *sparseStore[T]) Release() {
	s.data = nil
	s.present = nil
}

func (s *sparseStore[T]) set(index uint32, v T) {
	s.data[index] = v
	s.present[index] = true
}

func (s *sparseStore[T]) get(index uint32) (T, bool) {
	if !s.HasSlot(index) {
		var zero T
		return zero, false
	}
	return s.data[index], true
}

func (s *sparseStore[T]) at(index uint32) *T { return &s.data[index] }

// --- dense variant ---

type denseColumn[T any] struct {
	hash TypeHash
	rows []T
}

func newDenseColumn[T any](hash TypeHash) *denseColumn[T] {
	return &denseColumn[T]{hash: hash}
}

func (c *denseColumn[T]) TypeHash() TypeHash { return c.hash }
func (c *denseColumn[T]) Kind() StorageKind  { return Dense }
func (c *denseColumn[T]) Len() int           { return len(c.rows) }

func (c *denseColumn[T]) SwapRemove(row int) {
	last := len(c.rows) - 1
	c.rows[row] = c.rows[last]
	var zero T
	c.rows[last] = zero
	c.rows = c.rows[:last]
}

func (c *denseColumn[T]) AppendFrom(src DenseStore, row int) {
	from, ok := src.(*denseColumn[T])
	if !ok || from.hash != c.hash {
		panic(fmt.Sprintf("ecs: column type mismatch moving row for hash %#x", uint64(c.hash)))
	}
	c.rows = append(c.rows, from.rows[row])
}

func (c *denseColumn[T]) Release() { c.rows = nil }

func (c *denseColumn[T]) append(v T) { c.rows = append(c.rows, v) }

func (c *denseColumn[T]) at(row int) *T { return &c.rows[row] }

func (c *denseColumn[T]) cloneEmpty() DenseStore { return newDenseColumn[T](c.hash) }
