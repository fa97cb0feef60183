package system

import (
	"errors"
	"testing"
	"time"

	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
)

func newTestRunner() *Runner {
	return NewRunner(ecs.NewWorld(), event.NewBus(), nil)
}

func TestTickRunsSystemsInRegistrationOrder(t *testing.T) {
	r := newTestRunner()
	var order []string
	note := func(name string) System {
		return func(*Handle) error {
			order = append(order, name)
			return nil
		}
	}
	// Deliberately not alphabetical; only registration order counts.
	r.Register("steering", note("steering"))
	r.Register("movement", note("movement"))
	r.Register("census", note("census"))

	if err := r.Tick(time.Millisecond); err != nil {
		t.Fatalf("tick: %v", err)
	}
	want := []string{"steering", "movement", "census"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestSystemErrorAbortsTick(t *testing.T) {
	r := newTestRunner()
	boom := errors.New("script fault")
	ran := false
	r.Register("faulty", func(*Handle) error { return boom })
	r.Register("after", func(*Handle) error { ran = true; return nil })

	err := r.Tick(time.Millisecond)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped system error, got %v", err)
	}
	if ran {
		t.Fatal("systems after the failure must not run")
	}

	// The next tick starts fresh.
	if r.TickCount() != 1 {
		t.Fatalf("expected tick count 1, got %d", r.TickCount())
	}
	if err := r.Tick(time.Millisecond); !errors.Is(err, boom) {
		t.Fatalf("expected failure again, got %v", err)
	}
}

func TestEventsCrossTickBoundary(t *testing.T) {
	r := newTestRunner()

	type scored struct{ Points int }
	var seen []int
	r.Register("producer", func(h *Handle) error {
		if h.Tick() == 1 {
			event.Emit(h.Bus(), scored{Points: 11})
		}
		return nil
	})
	r.Register("consumer", func(h *Handle) error {
		for _, ev := range event.Drain[scored](h.Bus()) {
			seen = append(seen, ev.Points)
		}
		return nil
	})

	r.Tick(time.Millisecond)
	if len(seen) != 0 {
		t.Fatalf("event visible in its own tick: %v", seen)
	}
	r.Tick(time.Millisecond)
	if len(seen) != 1 || seen[0] != 11 {
		t.Fatalf("expected event delivered one tick later, got %v", seen)
	}
}

func TestHandleForwardsWorldOperations(t *testing.T) {
	r := newTestRunner()
	dt := 16 * time.Millisecond
	r.Register("probe", func(h *Handle) error {
		if h.Dt() != dt {
			t.Fatalf("expected dt %v, got %v", dt, h.Dt())
		}
		id := h.Spawn()
		if h.EntityCount() != 1 {
			t.Fatalf("expected 1 entity, got %d", h.EntityCount())
		}
		if got := h.Query(); len(got) != 1 || got[0] != id {
			t.Fatalf("expected query to see %v, got %v", id, got)
		}
		if err := h.Despawn(id); err != nil {
			t.Fatalf("despawn: %v", err)
		}
		if h.EntityCount() != 0 {
			t.Fatalf("expected empty world, got %d", h.EntityCount())
		}
		return nil
	})
	if err := r.Tick(dt); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if names := r.SystemNames(); len(names) != 1 || names[0] != "probe" {
		t.Fatalf("expected system names [probe], got %v", names)
	}
}
