package sim

import (
	"math"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	coresys "github.com/aryan-regmi/magics/internal/core/system"
	"github.com/aryan-regmi/magics/internal/scripting"
)

// NewSteeringSystem lets Lua drive scripted actors: each tick the actor's
// state is packed into a context, the template's steering function is
// called, and the returned heading and speed become its new velocity.
// Script faults leave the actor's motion unchanged.
func NewSteeringSystem(eng *scripting.Engine, width, height float64) coresys.System {
	return func(h *coresys.Handle) error {
		w := h.World()
		dt := h.Dt().Seconds()

		ecs.Each3(w, func(id ecs.EntityID, sc *Scripted, p *Position, v *Velocity) {
			ctx := scripting.SteerContext{
				X:       p.X,
				Y:       p.Y,
				Heading: math.Atan2(v.DY, v.DX),
				Speed:   math.Hypot(v.DX, v.DY),
				Width:   width,
				Height:  height,
				Tick:    h.Tick(),
				Dt:      dt,
			}
			if hc, err := ecs.GetComponent[Health](w, id); err == nil {
				ctx.HP, ctx.MaxHP = hc.Current, hc.Max
			}

			res, ok := eng.Steer(sc.Fn, ctx)
			if !ok {
				return
			}
			sin, cos := math.Sincos(res.Heading)
			v.DX = cos * res.Speed
			v.DY = sin * res.Speed
		})
		return nil
	}
}
