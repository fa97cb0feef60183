package sim

import (
	"testing"
	"time"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
	coresys "github.com/aryan-regmi/magics/internal/core/system"
)

func spawnDecaying(t *testing.T, rg *rig, hp, perSecond int) ecs.EntityID {
	t.Helper()
	id := rg.w.Spawn()
	if err := ecs.AddComponent(rg.w, id, Health{Current: hp, Max: hp}); err != nil {
		t.Fatalf("add health: %v", err)
	}
	if err := ecs.AddComponent(rg.w, id, Decay{PerSecond: perSecond}); err != nil {
		t.Fatalf("add decay: %v", err)
	}
	return id
}

func TestDecayDrainsOncePerSimulatedSecond(t *testing.T) {
	rg := newRig()
	id := spawnDecaying(t, rg, 10, 3)
	rg.r.Register("decay", NewDecaySystem())

	dt := 250 * time.Millisecond
	rg.tick(t, dt, 3) // 750ms, below the threshold
	hc, err := ecs.GetComponent[Health](rg.w, id)
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	if hc.Current != 10 {
		t.Fatalf("expected no drain before one second, got hp %d", hc.Current)
	}

	rg.tick(t, dt, 1)
	if hc, _ = ecs.GetComponent[Health](rg.w, id); hc.Current != 7 {
		t.Fatalf("expected hp 7 after one second, got %d", hc.Current)
	}

	rg.tick(t, dt, 4)
	if hc, _ = ecs.GetComponent[Health](rg.w, id); hc.Current != 4 {
		t.Fatalf("expected hp 4 after two seconds, got %d", hc.Current)
	}
}

func TestDecayClampsAtZero(t *testing.T) {
	rg := newRig()
	id := spawnDecaying(t, rg, 2, 5)
	rg.r.Register("decay", NewDecaySystem())

	rg.tick(t, time.Second, 1)
	hc, err := ecs.GetComponent[Health](rg.w, id)
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	if hc.Current != 0 {
		t.Fatalf("expected hp clamped to 0, got %d", hc.Current)
	}
	// Destruction is deferred until a cleanup system flushes the queue.
	if !rg.w.Alive(id) {
		t.Fatal("actor despawned before the cleanup system ran")
	}
}

func TestDecayKillsAndAnnounces(t *testing.T) {
	rg := newRig()
	id := spawnDecaying(t, rg, 2, 5)
	var died []event.ActorDied
	rg.r.Register("decay", NewDecaySystem())
	rg.r.Register("obituary", func(h *coresys.Handle) error {
		died = append(died, event.Drain[event.ActorDied](h.Bus())...)
		return nil
	})
	rg.r.Register("cleanup", NewCleanupSystem())

	rg.tick(t, time.Second, 1)
	if rg.w.Alive(id) {
		t.Fatal("expected dead actor despawned at tick end")
	}
	if len(died) != 0 {
		t.Fatalf("death event visible in its own tick: %v", died)
	}

	rg.tick(t, time.Second, 1)
	if len(died) != 1 || died[0].ID != id || died[0].Cause != "decay" {
		t.Fatalf("expected one decay death for %v, got %v", id, died)
	}

	rg.tick(t, time.Second, 2)
	if len(died) != 1 {
		t.Fatalf("dead actor announced again: %v", died)
	}
}
