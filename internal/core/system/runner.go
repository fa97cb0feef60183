package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
)

// Runner steps registered systems once per tick, strictly in registration
// order. There is no ordering by name, priority, or rate; callers encode
// the order they want by registering in it. The runner owns the tick
// counter and the event bus rotation, and serializes all world access by
// construction: one system runs at a time, on the caller's goroutine.
type Runner struct {
	world   *ecs.World
	bus     *event.Bus
	log     *zap.Logger
	entries []entry
	tick    uint64
}

type entry struct {
	name string
	fn   System
}

func NewRunner(world *ecs.World, bus *event.Bus, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		world:   world,
		bus:     bus,
		log:     log,
		entries: make([]entry, 0, 16),
	}
}

// Register appends a named system to the tick order.
func (r *Runner) Register(name string, fn System) {
	r.entries = append(r.entries, entry{name: name, fn: fn})
	r.log.Debug("system registered",
		zap.String("system", name),
		zap.Int("order", len(r.entries)))
}

// Tick publishes last tick's events, delivers them to subscribers, then
// runs every system in registration order. The first error aborts the
// remainder of the tick and is returned tagged with the system's name.
func (r *Runner) Tick(dt time.Duration) error {
	start := time.Now()
	r.tick++
	r.bus.Rotate()
	delivered := r.bus.Dispatch()

	h := &Handle{world: r.world, bus: r.bus, log: r.log, dt: dt, tick: r.tick}
	for _, e := range r.entries {
		if err := e.fn(h); err != nil {
			return fmt.Errorf("system %s (tick %d): %w", e.name, r.tick, err)
		}
	}
	r.log.Debug("tick complete",
		zap.Uint64("tick", r.tick),
		zap.Int("events", delivered),
		zap.Duration("took", time.Since(start)))
	return nil
}

// TickCount returns how many ticks have started.
func (r *Runner) TickCount() uint64 { return r.tick }

// SystemNames returns the registered names in execution order.
func (r *Runner) SystemNames() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}
