package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

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

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              magics  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       archetype actor simulation          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

const censusEvery = 5 * time.Second

func run() error {
	cfgFlag := flag.String("config", "", "config file (default magics.toml, env MAGICS_CONFIG)")
	ticksFlag := flag.Uint64("ticks", 0, "stop after this many ticks (overrides sim.max_ticks)")
	flag.Parse()

	// 1. Load config
	cfg, err := loadConfig(*cfgFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *ticksFlag > 0 {
		cfg.Sim.MaxTicks = *ticksFlag
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load scenario data
	printSection("scenario")

	actorTable, err := data.LoadActorTable(cfg.Data.ActorTable)
	if err != nil {
		return fmt.Errorf("load actor table: %w", err)
	}
	printStat("actor templates", actorTable.Count())

	spawnList, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	printStat("spawn entries", len(spawnList))

	// 4. Lua steering engine
	var engine *scripting.Engine
	if cfg.Scripts.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripts.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer engine.Close()
		printOK("lua steering scripts loaded")
	}

	// 5. Build world and populate it from the scenario
	world := ecs.NewWorld(ecs.WithLogger(log), ecs.WithCapacity(cfg.World.Capacity))
	bus := event.NewBus()
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))

	spawned, err := sim.Populate(world, bus, actorTable, spawnList, rng, log)
	if err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	printStat("actors spawned", spawned)
	printStat("archetypes", world.ArchetypeCount())
	fmt.Println()

	// 6. Register systems and start the tick loop
	runner := coresys.NewRunner(world, bus, log)
	if engine != nil {
		runner.Register("steering", sim.NewSteeringSystem(engine, cfg.World.Width, cfg.World.Height))
	}
	runner.Register("movement", sim.NewMovementSystem(cfg.World.Width, cfg.World.Height))
	runner.Register("decay", sim.NewDecaySystem())
	runner.Register("census", sim.NewCensusSystem(censusEvery))
	runner.Register("cleanup", sim.NewCleanupSystem())

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("simulation ready")
	printReady(fmt.Sprintf("tick loop started (rate: %s)", cfg.Sim.TickRate))
	if cfg.Sim.MaxTicks > 0 {
		printReady(fmt.Sprintf("stopping after %d ticks", cfg.Sim.MaxTicks))
	}
	fmt.Println()

	log.Info("simulation starting",
		zap.String("run", uuid.NewString()),
		zap.String("world", world.ID()),
		zap.Int64("seed", cfg.Sim.Seed))

	for {
		select {
		case <-ticker.C:
			if err := runner.Tick(cfg.Sim.TickRate); err != nil {
				return err
			}
			if cfg.Sim.MaxTicks > 0 && runner.TickCount() >= cfg.Sim.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", runner.TickCount()))
				return nil
			}
			if world.EntityCount() == 0 {
				log.Info("all actors gone", zap.Uint64("ticks", runner.TickCount()))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// loadConfig resolves the config path from the flag, the MAGICS_CONFIG
// environment variable, or the default location. Only the default location
// may be absent; an explicitly named file must exist.
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

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
