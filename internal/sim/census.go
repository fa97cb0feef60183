package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
	coresys "github.com/aryan-regmi/magics/internal/core/system"
)

// NewCensusSystem tallies deaths from the bus and periodically logs the
// population: live actors, archetype count, and deaths since the last
// report.
func NewCensusSystem(every time.Duration) coresys.System {
	var acc time.Duration
	deaths := 0
	return func(h *coresys.Handle) error {
		deaths += len(event.Drain[event.ActorDied](h.Bus()))

		acc += h.Dt()
		if acc < every {
			return nil
		}
		acc = 0

		w := h.World()
		h.Log().Info("census",
			zap.Uint64("tick", h.Tick()),
			zap.Int("live", w.EntityCount()),
			zap.Int("scripted", w.Count(ecs.TypeHashFor[Scripted]())),
			zap.Int("archetypes", w.ArchetypeCount()),
			zap.Int("deaths", deaths))
		deaths = 0
		return nil
	}
}
