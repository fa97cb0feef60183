package ecs

import "errors"

// Sentinel errors for the two routine failure modes. Both are expected
// outcomes of normal simulation logic and are always returned, never
// panicked. Callers test with errors.Is.
//
// Heap exhaustion has no sentinel: the Go runtime terminates the process
// on allocation failure, so it propagates as the fatal condition it is
// without any handling here.
var (
	// ErrEntityNotFound reports an id that was never spawned or has
	// already been despawned (stale generation).
	ErrEntityNotFound = errors.New("ecs: entity not found")

	// ErrComponentAbsent reports a component type the entity does not
	// currently hold.
	ErrComponentAbsent = errors.New("ecs: component absent")
)
