package sim

import (
	"time"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
	coresys "github.com/aryan-regmi/magics/internal/core/system"
)

// NewDecaySystem drains health once per simulated second. Actors that
// reach zero are queued for destruction and announced on the bus; the
// cleanup system despawns them at tick end.
func NewDecaySystem() coresys.System {
	var acc time.Duration
	return func(h *coresys.Handle) error {
		acc += h.Dt()
		if acc < time.Second {
			return nil
		}
		acc -= time.Second

		w := h.World()
		ecs.Each2(w, func(id ecs.EntityID, hc *Health, dc *Decay) {
			hc.Current -= dc.PerSecond
			if hc.Current > 0 {
				return
			}
			hc.Current = 0
			event.Emit(h.Bus(), event.ActorDied{ID: id, Cause: "decay"})
			w.MarkForDestruction(id)
		})
		return nil
	}
}

// NewCleanupSystem flushes the deferred destruction queue. Registered
// last so every system in the tick saw a consistent entity set.
func NewCleanupSystem() coresys.System {
	return func(h *coresys.Handle) error {
		h.World().FlushDestroyQueue()
		return nil
	}
}
