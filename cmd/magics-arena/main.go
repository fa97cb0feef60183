// magics-arena runs the same simulation core as cmd/magics and draws it
// into the terminal, one glyph per actor. Quit with q, Esc, or Ctrl-C.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/aryan-regmi/magics/internal/config"
	"github.com/aryan-regmi/magics/internal/core/ecs"
	"github.com/aryan-regmi/magics/internal/core/event"
	coresys "github.com/aryan-regmi/magics/internal/core/system"
	"github.com/aryan-regmi/magics/internal/data"
	"github.com/aryan-regmi/magics/internal/scripting"
	"github.com/aryan-regmi/magics/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgFlag := flag.String("config", "", "config file (default magics.toml, env MAGICS_CONFIG)")
	flag.Parse()

	cfg, err := loadConfig(*cfgFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	actorTable, err := data.LoadActorTable(cfg.Data.ActorTable)
	if err != nil {
		return fmt.Errorf("load actor table: %w", err)
	}
	spawnList, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}

	// The screen is the output here; console logging would corrupt it.
	log := zap.NewNop()

	var engine *scripting.Engine
	if cfg.Scripts.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripts.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer engine.Close()
	}

	world := ecs.NewWorld(ecs.WithLogger(log), ecs.WithCapacity(cfg.World.Capacity))
	bus := event.NewBus()
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	if _, err := sim.Populate(world, bus, actorTable, spawnList, rng, log); err != nil {
		return fmt.Errorf("populate: %w", err)
	}

	runner := coresys.NewRunner(world, bus, log)
	if engine != nil {
		runner.Register("steering", sim.NewSteeringSystem(engine, cfg.World.Width, cfg.World.Height))
	}
	runner.Register("movement", sim.NewMovementSystem(cfg.World.Width, cfg.World.Height))
	runner.Register("decay", sim.NewDecaySystem())
	runner.Register("cleanup", sim.NewCleanupSystem())

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(cfg.Arena.RenderRate)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := runner.Tick(cfg.Arena.RenderRate); err != nil {
				return err
			}
			drawFrame(screen, world, cfg, runner.TickCount())
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return nil
				}
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// drawFrame paints every actor holding a Glyph, scaled from arena
// coordinates to the current screen size, then the HUD line.
func drawFrame(s tcell.Screen, w *ecs.World, cfg *config.Config, tick uint64) {
	s.Clear()
	sw, sh := s.Size()
	vh := sh
	if cfg.Arena.ShowHud {
		vh--
	}
	if sw < 1 || vh < 1 {
		s.Show()
		return
	}

	scaleX := float64(sw) / cfg.World.Width
	scaleY := float64(vh) / cfg.World.Height

	ecs.Each2(w, func(id ecs.EntityID, p *sim.Position, g *sim.Glyph) {
		x := int(p.X * scaleX)
		y := int(p.Y * scaleY)
		if x < 0 || x >= sw || y < 0 || y >= vh {
			return
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if hc, err := ecs.GetComponent[sim.Health](w, id); err == nil && hc.Max > 0 {
			switch ratio := float64(hc.Current) / float64(hc.Max); {
			case ratio < 0.25:
				style = style.Foreground(tcell.ColorRed)
			case ratio < 0.5:
				style = style.Foreground(tcell.ColorYellow)
			default:
				style = style.Foreground(tcell.ColorGreen)
			}
		}
		putGlyph(s, x, y, g.Rune, style)
	})

	if cfg.Arena.ShowHud {
		hud := fmt.Sprintf(" tick %d  actors %d  archetypes %d  [q] quit",
			tick, w.EntityCount(), w.ArchetypeCount())
		putText(s, 0, sh-1, hud, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	s.Show()
}

// putGlyph draws one rune. Wide glyphs (emoji) spill into the next cell,
// so that cell is blanked to avoid rendering artifacts.
func putGlyph(s tcell.Screen, x, y int, r rune, style tcell.Style) {
	s.SetContent(x, y, r, nil, style)
	if runewidth.RuneWidth(r) == 2 {
		s.SetContent(x+1, y, ' ', nil, style)
	}
}

func putText(s tcell.Screen, x, y int, msg string, style tcell.Style) {
	for _, r := range msg {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func loadConfig(flagPath string) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("MAGICS_CONFIG")
	}
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault("magics.toml")
}
