package ecs

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// entityMeta tracks where one allocated entity index currently lives: its
// archetype table, its row there, and which sparse types it holds. The
// live flag distinguishes an occupied index from one sitting on the free
// list, since both keep a meta record.
type entityMeta struct {
	live   bool
	table  *Table
	row    int
	sparse []TypeHash
}

func (m *entityMeta) dropSparse(h TypeHash) {
	for i, th := range m.sparse {
		if th == h {
			m.sparse = append(m.sparse[:i], m.sparse[i+1:]...)
			return
		}
	}
}

// WorldOption configures a World at construction.
type WorldOption func(*World)

// WithLogger attaches a logger for lifecycle diagnostics. The default is
// a no-op logger.
func WithLogger(log *zap.Logger) WorldOption {
	return func(w *World) { w.log = log }
}

// WithCapacity pre-sizes the per-entity bookkeeping for roughly n live
// entities, avoiding early growth churn in scenarios that spawn in bulk.
func WithCapacity(n int) WorldOption {
	return func(w *World) { w.capHint = n }
}

// World is the top-level container. It owns the entity pool, the
// per-world type registry, every sparse store, every archetype table, and
// the per-entity location records that tie them together. A World is not
// safe for concurrent use; callers serialize access, normally by driving
// everything from a single tick loop.
type World struct {
	id       string
	log      *zap.Logger
	capHint  int
	pool     *EntityPool
	registry *typeRegistry
	meta     []entityMeta
	tables   map[ArchetypeHash]*Table
	sparse   map[TypeHash]SparseStore

	destroyQueue []EntityID
}

func NewWorld(opts ...WorldOption) *World {
	w := &World{
		id:           uuid.NewString(),
		log:          zap.NewNop(),
		pool:         NewEntityPool(),
		registry:     newTypeRegistry(),
		tables:       make(map[ArchetypeHash]*Table, 16),
		sparse:       make(map[TypeHash]SparseStore, 16),
		destroyQueue: make([]EntityID, 0, 64),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.capHint > 0 {
		w.meta = make([]entityMeta, 0, w.capHint)
	}
	// The componentless archetype exists from the start; every entity
	// begins and may end its life there.
	w.tables[EmptyArchetype] = newTable(EmptyArchetype)
	w.log.Debug("world created", zap.String("world", w.id))
	return w
}

// ID returns the world's unique identifier, for log correlation.
func (w *World) ID() string { return w.id }

// Pool exposes the entity pool, mainly for diagnostics.
func (w *World) Pool() *EntityPool { return w.pool }

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int { return w.pool.Live() }

// Allocated returns the number of entity indices ever handed out, which
// is also the slot count sparse stores are sized to.
func (w *World) Allocated() int { return w.pool.Allocated() }

// ArchetypeCount returns the number of tables, the empty one included.
func (w *World) ArchetypeCount() int { return len(w.tables) }

func (w *World) Alive(id EntityID) bool { return w.pool.Alive(id) }

// Spawn creates a live entity with no components, placed in the empty
// archetype. Indices from despawned entities are reused with a bumped
// generation, so handles to the previous occupant stay dead.
func (w *World) Spawn() EntityID {
	id := w.pool.Create()
	idx := id.Index()
	for int(idx) >= len(w.meta) {
		w.meta = append(w.meta, entityMeta{})
	}
	for _, st := range w.sparse {
		st.Grow(w.pool.Allocated())
	}
	empty := w.tables[EmptyArchetype]
	w.meta[idx] = entityMeta{live: true, table: empty, row: empty.appendEntity(id)}
	return id
}

// Despawn removes a live entity immediately: its table row is
// swap-removed, every sparse slot it held is cleared, and its index goes
// back to the pool. Returns ErrEntityNotFound for dead or stale ids.
func (w *World) Despawn(id EntityID) error {
	if !w.pool.Alive(id) {
		return ErrEntityNotFound
	}
	idx := id.Index()
	m := &w.meta[idx]
	if displaced, ok := m.table.swapRemoveRow(m.row); ok {
		w.meta[displaced.Index()].row = m.row
	}
	for _, th := range m.sparse {
		w.sparse[th].ClearSlot(idx)
	}
	w.meta[idx] = entityMeta{}
	w.pool.Destroy(id)
	return nil
}

// MarkForDestruction queues an entity for a later FlushDestroyQueue,
// letting systems schedule removal without mutating archetypes mid-pass.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue despawns all queued entities. Ids queued twice, or
// despawned directly before the flush, are skipped.
func (w *World) FlushDestroyQueue() {
	n := 0
	for _, id := range w.destroyQueue {
		if w.Despawn(id) == nil {
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	if n > 0 {
		w.log.Debug("destroy queue flushed", zap.Int("despawned", n))
	}
}

// Archetype returns the hash of the dense component set the entity
// currently belongs to.
func (w *World) Archetype(id EntityID) (ArchetypeHash, error) {
	if !w.pool.Alive(id) {
		return 0, ErrEntityNotFound
	}
	return w.meta[id.Index()].table.hash, nil
}

// Release frees all component storage. The World is unusable afterwards.
func (w *World) Release() {
	for _, t := range w.tables {
		for _, th := range t.types {
			t.columns[th].Release()
		}
	}
	for _, st := range w.sparse {
		st.Release()
	}
	w.tables = nil
	w.sparse = nil
	w.meta = nil
}

// hasType reports whether the entity behind m currently holds the type,
// checking the dense set through its table and the sparse set through the
// per-entity list.
func (w *World) hasType(m *entityMeta, h TypeHash) bool {
	if _, ok := m.table.columns[h]; ok {
		return true
	}
	for _, th := range m.sparse {
		if th == h {
			return true
		}
	}
	return false
}

// grownTarget returns the table for the archetype reached by adding one
// dense type to src's set, creating it on first use by cloning src's
// column layout plus a fresh column from create.
func (w *World) grownTarget(src *Table, hash ArchetypeHash, create func() DenseStore) *Table {
	if t, ok := w.tables[hash]; ok {
		return t
	}
	t := newTable(hash)
	for _, th := range src.types {
		t.addColumn(src.columns[th].cloneEmpty())
	}
	t.addColumn(create())
	w.tables[hash] = t
	w.log.Debug("archetype created", zap.Stringer("archetype", hash), zap.Int("types", len(t.types)))
	return t
}

// shrunkTarget returns the table for the archetype reached by removing
// one dense type from src's set, creating it on first use.
func (w *World) shrunkTarget(src *Table, hash ArchetypeHash, without TypeHash) *Table {
	if t, ok := w.tables[hash]; ok {
		return t
	}
	t := newTable(hash)
	for _, th := range src.types {
		if th != without {
			t.addColumn(src.columns[th].cloneEmpty())
		}
	}
	w.tables[hash] = t
	w.log.Debug("archetype created", zap.Stringer("archetype", hash), zap.Int("types", len(t.types)))
	return t
}

// AddComponent attaches v to the entity, registering T's type on first
// use. Adding a type the entity already holds overwrites the stored value
// in place and is not an error. For dense types a first-time add moves
// the entity's whole row to the table of its new, larger archetype.
func AddComponent[T Component](w *World, id EntityID, v T) error {
	if !w.pool.Alive(id) {
		return ErrEntityNotFound
	}
	ti := registerFor[T](w.registry)
	idx := id.Index()
	m := &w.meta[idx]

	if ti.kind == Sparse {
		st := sparseFor[T](w, ti.hash)
		st.Grow(w.pool.Allocated())
		if !st.HasSlot(idx) {
			m.sparse = append(m.sparse, ti.hash)
		}
		st.set(idx, v)
		m.table.noteSparse(ti.hash, st)
		return nil
	}

	old := m.table
	if col, ok := old.columns[ti.hash]; ok {
		*col.(*denseColumn[T]).at(m.row) = v
		return nil
	}
	dst := w.grownTarget(old, hashWith(old.hash, len(old.types), ti.hash), func() DenseStore {
		return newDenseColumn[T](ti.hash)
	})
	oldRow := m.row
	newRow, displaced, had := old.moveRow(dst, oldRow)
	dst.columns[ti.hash].(*denseColumn[T]).append(v)
	m.table = dst
	m.row = newRow
	w.noteSparseRefs(dst, m)
	if had {
		w.meta[displaced.Index()].row = oldRow
	}
	dst.assertLockstep()
	return nil
}

// RemoveComponent detaches type T from the entity and returns the value
// that was stored at removal time. For dense types the entity's row moves
// to the table of its smaller archetype. Returns ErrComponentAbsent when
// the entity does not hold T.
func RemoveComponent[T Component](w *World, id EntityID) (T, error) {
	var removed T
	if !w.pool.Alive(id) {
		return removed, ErrEntityNotFound
	}
	h := TypeHashFor[T]()
	idx := id.Index()
	m := &w.meta[idx]

	if removed.StorageKind() == Sparse {
		st, ok := w.sparse[h]
		if !ok || !st.HasSlot(idx) {
			return removed, ErrComponentAbsent
		}
		typed := st.(*sparseStore[T])
		removed, _ = typed.get(idx)
		typed.ClearSlot(idx)
		m.dropSparse(h)
		return removed, nil
	}

	old := m.table
	col, ok := old.columns[h]
	if !ok {
		return removed, ErrComponentAbsent
	}
	removed = *col.(*denseColumn[T]).at(m.row)
	dst := w.shrunkTarget(old, hashWithout(old.hash, len(old.types), h), h)
	oldRow := m.row
	newRow, displaced, had := old.moveRow(dst, oldRow)
	m.table = dst
	m.row = newRow
	w.noteSparseRefs(dst, m)
	if had {
		w.meta[displaced.Index()].row = oldRow
	}
	dst.assertLockstep()
	return removed, nil
}

// GetComponent returns a pointer to the entity's stored T for in-place
// reads and writes. The pointer is valid until the entity's storage moves:
// any archetype transition of this entity, or a swap-removal filling its
// row, may invalidate it, so holding pointers across mutations is a bug.
func GetComponent[T Component](w *World, id EntityID) (*T, error) {
	if !w.pool.Alive(id) {
		return nil, ErrEntityNotFound
	}
	var tag T
	h := TypeHashFor[T]()
	idx := id.Index()

	if tag.StorageKind() == Sparse {
		st, ok := w.sparse[h]
		if !ok || !st.HasSlot(idx) {
			return nil, ErrComponentAbsent
		}
		return st.(*sparseStore[T]).at(idx), nil
	}

	m := &w.meta[idx]
	col, ok := m.table.columns[h]
	if !ok {
		return nil, ErrComponentAbsent
	}
	return col.(*denseColumn[T]).at(m.row), nil
}

// HasComponent reports whether a live entity currently holds type T.
func HasComponent[T Component](w *World, id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	return w.hasType(&w.meta[id.Index()], TypeHashFor[T]())
}

// noteSparseRefs records references to the entity's sparse stores on the
// table it just moved into, keeping each table's co-occurrence side-table
// current across archetype transitions.
func (w *World) noteSparseRefs(dst *Table, m *entityMeta) {
	for _, th := range m.sparse {
		dst.noteSparse(th, w.sparse[th])
	}
}

// sparseFor returns the typed sparse store for T, creating it sized to
// the current allocation on first use.
func sparseFor[T Component](w *World, h TypeHash) *sparseStore[T] {
	if st, ok := w.sparse[h]; ok {
		return st.(*sparseStore[T])
	}
	st := newSparseStore[T](h, w.pool.Allocated())
	w.sparse[h] = st
	return st
}
