package sim

import "github.com/aryan-regmi/magics/internal/core/ecs"

// Dense components. Every actor carries the motion trio, so these live
// in packed archetype columns where the movement pass iterates them.

// Position is an actor's location in arena space.
type Position struct{ X, Y float64 }

func (Position) StorageKind() ecs.StorageKind { return ecs.Dense }

// Velocity is the per-second displacement.
type Velocity struct{ DX, DY float64 }

func (Velocity) StorageKind() ecs.StorageKind { return ecs.Dense }

// Spin drifts the velocity heading, in radians per second.
type Spin struct{ Rate float64 }

func (Spin) StorageKind() ecs.StorageKind { return ecs.Dense }

// Sparse components. Identity and status data held by a subset of
// actors and read by direct lookup rather than iteration.

// Name tags an actor with the template it was spawned from.
type Name struct{ Value string }

func (Name) StorageKind() ecs.StorageKind { return ecs.Sparse }

// Glyph is the rune the arena view draws for an actor.
type Glyph struct{ Rune rune }

func (Glyph) StorageKind() ecs.StorageKind { return ecs.Sparse }

// Health is current and max hit points for destructible actors.
type Health struct{ Current, Max int }

func (Health) StorageKind() ecs.StorageKind { return ecs.Sparse }

// Decay drains health over time until the actor dies.
type Decay struct{ PerSecond int }

func (Decay) StorageKind() ecs.StorageKind { return ecs.Sparse }

// Scripted names the Lua steering function driving an actor.
type Scripted struct{ Fn string }

func (Scripted) StorageKind() ecs.StorageKind { return ecs.Sparse }
