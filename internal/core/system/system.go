package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
)

// Handle is the surface a system works through during one tick. It wraps
// exactly one World together with the event bus, the tick's timing, and a
// logger. Typed component access goes through the generic ecs functions
// with World(); the non-generic world operations are forwarded here.
type Handle struct {
	world *ecs.World
	bus   *event.Bus
	log   *zap.Logger
	dt    time.Duration
	tick  uint64
}

func (h *Handle) World() *ecs.World { return h.world }
func (h *Handle) Bus() *event.Bus   { return h.bus }
func (h *Handle) Log() *zap.Logger  { return h.log }

// Dt returns the simulated duration of the current tick.
func (h *Handle) Dt() time.Duration { return h.dt }

// Tick returns the current tick number, starting at 1.
func (h *Handle) Tick() uint64 { return h.tick }

func (h *Handle) Spawn() ecs.EntityID           { return h.world.Spawn() }
func (h *Handle) Despawn(id ecs.EntityID) error { return h.world.Despawn(id) }
func (h *Handle) EntityCount() int              { return h.world.EntityCount() }

func (h *Handle) Query(types ...ecs.TypeHash) []ecs.EntityID {
	return h.world.Query(types...)
}

// System is one unit of per-tick logic. A returned error aborts the rest
// of the tick and propagates out of the runner.
type System func(*Handle) error
