package event

import "github.com/aryan-regmi/magics/internal/core/ecs"

// ActorSpawned is emitted after a scenario actor enters the world.
type ActorSpawned struct {
	ID       ecs.EntityID
	Template string
}

// ActorDied is emitted when an actor's health reaches zero. The entity is
// queued for destruction in the same tick; by the time the event is
// delivered the id is already dead.
type ActorDied struct {
	ID    ecs.EntityID
	Cause string
}
