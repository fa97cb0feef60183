// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/aryan-regmi/magics/internal/core/ecs"
)

type translation struct {
	X, Y float64
}

func (translation) StorageKind() ecs.StorageKind { return ecs.Dense }

type motion struct {
	DX, DY float64
}

func (motion) StorageKind() ecs.StorageKind { return ecs.Dense }

func main() {
	rounds := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

// run churns full spawn/attach/despawn cycles so the allocation profile
// shows archetype transitions and pool recycling.
func run(rounds, iters, numEntities int) {
	for r := 0; r < rounds; r++ {
		w := ecs.NewWorld(ecs.WithCapacity(numEntities))
		ids := make([]ecs.EntityID, 0, numEntities)
		for it := 0; it < iters; it++ {
			ids = ids[:0]
			for i := 0; i < numEntities; i++ {
				id := w.Spawn()
				ecs.AddComponent(w, id, translation{X: float64(i)})
				ecs.AddComponent(w, id, motion{DX: 1})
				ids = append(ids, id)
			}
			for _, id := range ids {
				w.Despawn(id)
			}
		}
	}
}
