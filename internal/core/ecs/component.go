package ecs

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"golang.org/x/crypto/blake2b"
)

// StorageKind selects the backing layout for a component type.
type StorageKind uint8

const (
	// Sparse stores keep one slot per allocated entity index. Direct
	// O(1) access, pays memory for rarely-held components.
	Sparse StorageKind = iota
	// Dense components live in packed archetype columns grouped by the
	// exact component set an entity holds. Optimized for iteration.
	Dense
)

func (k StorageKind) String() string {
	switch k {
	case Sparse:
		return "sparse"
	case Dense:
		return "dense"
	}
	return fmt.Sprintf("StorageKind(%d)", uint8(k))
}

// Component is the tag interface every stored record implements. The
// storage kind is the only metadata the core requires from a component
// definition.
type Component interface {
	StorageKind() StorageKind
}

// TypeHash is a stable 64-bit value identifying a component type. It is
// derived from the type's import path and name, so it does not change
// between processes or builds. Used as the map key everywhere a component
// type must be referenced without static type information.
type TypeHash uint64

// hashOfType derives the TypeHash for a reflect.Type.
func hashOfType(t reflect.Type) TypeHash {
	sum := blake2b.Sum256([]byte(t.PkgPath() + "/" + t.String()))
	return TypeHash(binary.BigEndian.Uint64(sum[:8]))
}

// TypeHashFor returns the stable hash of component type T.
func TypeHashFor[T Component]() TypeHash {
	return hashOfType(reflect.TypeOf((*T)(nil)).Elem())
}

// typeInfo is the registry's per-type record.
type typeInfo struct {
	hash TypeHash
	kind StorageKind
	typ  reflect.Type
}

func (ti *typeInfo) name() string { return ti.typ.String() }

// typeRegistry interns component types on first use. Owned by one World;
// no process-wide state.
type typeRegistry struct {
	byType map[reflect.Type]*typeInfo
	byHash map[TypeHash]*typeInfo
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		byType: make(map[reflect.Type]*typeInfo, 16),
		byHash: make(map[TypeHash]*typeInfo, 16),
	}
}

// register interns t, returning the existing record when already known.
// A 64-bit hash collision between two distinct component types is a
// programmer error, not a runtime condition.
func (r *typeRegistry) register(t reflect.Type, kind StorageKind) *typeInfo {
	if ti, ok := r.byType[t]; ok {
		return ti
	}
	h := hashOfType(t)
	if prev, ok := r.byHash[h]; ok {
		panic(fmt.Sprintf("ecs: type hash collision between %s and %s", prev.typ, t))
	}
	ti := &typeInfo{hash: h, kind: kind, typ: t}
	r.byType[t] = ti
	r.byHash[h] = ti
	return ti
}

func (r *typeRegistry) lookup(h TypeHash) (*typeInfo, bool) {
	ti, ok := r.byHash[h]
	return ti, ok
}

// registerFor interns the concrete type of T using its own kind tag.
func registerFor[T Component](r *typeRegistry) *typeInfo {
	var tag T
	return r.register(reflect.TypeOf((*T)(nil)).Elem(), tag.StorageKind())
}
