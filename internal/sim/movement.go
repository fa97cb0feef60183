package sim

import (
	"math"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	coresys "github.com/aryan-regmi/magics/internal/core/system"
)

// NewMovementSystem integrates actor positions from their velocities,
// wrapping at the arena edges so the field is a torus. Actors with a
// Spin also have their velocity heading rotated each tick.
func NewMovementSystem(width, height float64) coresys.System {
	return func(h *coresys.Handle) error {
		dt := h.Dt().Seconds()
		w := h.World()

		ecs.Each2(w, func(_ ecs.EntityID, v *Velocity, s *Spin) {
			sin, cos := math.Sincos(s.Rate * dt)
			v.DX, v.DY = v.DX*cos-v.DY*sin, v.DX*sin+v.DY*cos
		})

		ecs.Each2(w, func(_ ecs.EntityID, p *Position, v *Velocity) {
			p.X = wrap(p.X+v.DX*dt, width)
			p.Y = wrap(p.Y+v.DY*dt, height)
		})
		return nil
	}
}

func wrap(v, max float64) float64 {
	if max <= 0 {
		return v
	}
	v = math.Mod(v, max)
	if v < 0 {
		v += max
	}
	return v
}
