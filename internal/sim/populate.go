package sim

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
	"github.com/aryan-regmi/magics/internal/data"
)

// Populate spawns every entry in the spawn list from the template table
// and returns how many actors entered the world. Entries naming an
// unknown template are skipped with a warning so a partial scenario file
// still runs.
func Populate(w *ecs.World, bus *event.Bus, table *data.ActorTable, spawns []data.SpawnEntry, rng *rand.Rand, log *zap.Logger) (int, error) {
	spawned := 0
	for _, entry := range spawns {
		tpl := table.Get(entry.Template)
		if tpl == nil {
			log.Warn("spawn entry names unknown template", zap.String("template", entry.Template))
			continue
		}
		for i := 0; i < entry.Count; i++ {
			if err := spawnActor(w, bus, tpl, entry, rng); err != nil {
				return spawned, fmt.Errorf("spawn %s: %w", tpl.Name, err)
			}
			spawned++
		}
	}
	return spawned, nil
}

func spawnActor(w *ecs.World, bus *event.Bus, tpl *data.ActorTemplate, entry data.SpawnEntry, rng *rand.Rand) error {
	id := w.Spawn()

	heading := rng.Float64() * 2 * math.Pi
	pos := Position{
		X: entry.X + (rng.Float64()*2-1)*entry.Scatter,
		Y: entry.Y + (rng.Float64()*2-1)*entry.Scatter,
	}
	vel := Velocity{
		DX: math.Cos(heading) * tpl.Speed,
		DY: math.Sin(heading) * tpl.Speed,
	}

	if err := ecs.AddComponent(w, id, pos); err != nil {
		return err
	}
	if err := ecs.AddComponent(w, id, vel); err != nil {
		return err
	}
	if tpl.Spin != 0 {
		if err := ecs.AddComponent(w, id, Spin{Rate: tpl.Spin}); err != nil {
			return err
		}
	}

	if err := ecs.AddComponent(w, id, Name{Value: tpl.Name}); err != nil {
		return err
	}
	if err := ecs.AddComponent(w, id, Glyph{Rune: tpl.GlyphRune()}); err != nil {
		return err
	}
	if tpl.HP > 0 {
		if err := ecs.AddComponent(w, id, Health{Current: tpl.HP, Max: tpl.HP}); err != nil {
			return err
		}
		if tpl.Decay > 0 {
			if err := ecs.AddComponent(w, id, Decay{PerSecond: tpl.Decay}); err != nil {
				return err
			}
		}
	}
	if tpl.Script != "" {
		if err := ecs.AddComponent(w, id, Scripted{Fn: tpl.Script}); err != nil {
			return err
		}
	}

	event.Emit(bus, event.ActorSpawned{ID: id, Template: tpl.Name})
	return nil
}
