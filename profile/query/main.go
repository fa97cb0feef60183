// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

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

type tag struct {
	N int64
}

func (tag) StorageKind() ecs.StorageKind { return ecs.Sparse }

func main() {
	rounds := 50
	iters := 10000
	entities := 10000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

// run iterates a populated world so the CPU profile shows the matching
// scan and per-entity component resolution, dense and sparse mixed.
func run(rounds, iters, numEntities int) {
	for r := 0; r < rounds; r++ {
		w := ecs.NewWorld(ecs.WithCapacity(numEntities))
		for i := 0; i < numEntities; i++ {
			id := w.Spawn()
			ecs.AddComponent(w, id, translation{X: float64(i)})
			ecs.AddComponent(w, id, motion{DX: 1, DY: 1})
			if i%4 == 0 {
				ecs.AddComponent(w, id, tag{N: int64(i)})
			}
		}
		for it := 0; it < iters; it++ {
			ecs.Each2(w, func(_ ecs.EntityID, t *translation, m *motion) {
				t.X += m.DX
				t.Y += m.DY
			})
			ecs.Each1(w, func(_ ecs.EntityID, g *tag) {
				g.N++
			})
		}
	}
}
