package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/burrowstrike/core/internal/combat"
	"github.com/burrowstrike/core/internal/config"
	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/core/event"
	coresys "github.com/burrowstrike/core/internal/core/system"
	"github.com/burrowstrike/core/internal/data"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/phase"
	"github.com/burrowstrike/core/internal/present"
	"github.com/burrowstrike/core/internal/scripting"
	"github.com/burrowstrike/core/internal/system"
	"github.com/burrowstrike/core/internal/tunnel"
	"github.com/burrowstrike/core/internal/world"
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
	fmt.Println("\033[33;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[33;1m  │\033[0m            Burrowstrike  v0.1.0           \033[33;1m│\033[0m")
	fmt.Println("\033[33;1m  └───────────────────────────────────────────┘\033[0m")
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

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/burrowstrike.toml"
	if p := os.Getenv("BURROWSTRIKE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	initial, _ := phase.Parse(cfg.Game.InitialPhase)
	timeoutPhase, _ := phase.Parse(cfg.Game.TimeoutPhase)

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// 3. Load data and scripts
	printSection("Data")
	enemyTable, err := data.LoadEnemyTable(cfg.Data.EnemyList)
	if err != nil {
		return fmt.Errorf("load enemy table: %w", err)
	}
	printStat("Enemy templates", enemyTable.Count())

	spawns, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	printStat("Spawn entries", len(spawns))

	var gestures system.GestureSource
	if cfg.Data.Replay != "" {
		replay, err := data.LoadReplay(cfg.Data.Replay)
		if err != nil {
			return fmt.Errorf("load replay: %w", err)
		}
		gestures = replay
		printStat("Scripted gestures", replay.Len())
	}

	scripts, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("init scripting: %w", err)
	}
	defer scripts.Close()

	// 4. Build the world
	bus := event.NewBus()
	ecsWorld := ecs.NewWorld()
	worldState := world.NewState(cfg.World.CellSize, cfg.World.Ground)
	camera := world.Camera{
		Center:        geom.V(cfg.World.CameraX, cfg.World.CameraY),
		ScreenWidth:   cfg.World.ScreenWidth,
		ScreenHeight:  cfg.World.ScreenHeight,
		PixelsPerUnit: cfg.World.PixelsPerUnit,
	}
	animator := present.LogAnimator{Log: log}
	scoreBoard := &present.ScoreBoard{Log: log}
	player := world.NewPlayer(ecsWorld.CreateEntity(), geom.V(cfg.World.PlayerX, cfg.World.PlayerY), cfg.World.Ground, animator)

	ctrl := phase.NewController(initial, bus, log)

	projectiles := system.NewProjectileSystem(system.ProjectileConfig{
		Lifetime:  cfg.Projectile.Lifetime,
		HitRadius: cfg.Projectile.HitRadius,
		Bounds:    camera.View(),
	}, ecsWorld, player, bus, log)
	enemies := system.NewEnemySystem(ecsWorld, worldState, player, bus, system.EnemyDeps{
		Animator: animator,
		Feedback: scoreBoard,
		Behavior: enemy.BehaviorFactory{Spawner: projectiles, Scripts: scripts, Log: log},
		Rand:     rng,
	}, log)
	printStat("Enemies spawned", enemies.Spawn(enemyTable, spawns))

	// 5. Phase owners
	orch := combat.NewOrchestrator(combat.Config{
		Charges:      cfg.Combat.Charges,
		Duration:     cfg.Combat.Duration,
		Warning:      cfg.Combat.Warning,
		TimeoutPhase: timeoutPhase,
	}, ctrl, bus, log)
	dash := combat.NewHandler(combat.HandlerConfig{
		DashSpeed:   cfg.Combat.DashSpeed,
		DashDamage:  cfg.Combat.DashDamage,
		MinSwipe:    cfg.Combat.MinSwipe,
		SlashRadius: cfg.Combat.SlashRadius,
		HitRadius:   cfg.Combat.HitRadius,
		CurveJitter: cfg.Combat.CurveJitter,
		Resolution:  cfg.Combat.Resolution,
	}, orch, player, ctrl, rng, log)
	follower := tunnel.NewFollower(tunnel.FollowerConfig{
		MoveSpeed:        cfg.Navigation.MoveSpeed,
		ArrivalThreshold: cfg.Navigation.ArrivalThreshold,
		BurstDuration:    cfg.Navigation.BurstDuration,
		BurstMinHeight:   cfg.Navigation.BurstMinHeight,
		BurstMaxHeight:   cfg.Navigation.BurstMaxHeight,
		DepthMin:         cfg.Navigation.DepthMin,
		DepthMax:         cfg.Navigation.DepthMax,
		SliceRadius:      cfg.Navigation.SliceRadius,
		Charges:          cfg.Navigation.Charges,
	}, player, ctrl, worldState, orch, bus, log)
	drawer := tunnel.NewDrawer(tunnel.DrawerConfig{
		StartZone:     cfg.Drawing.StartZone,
		MaxCurveWidth: cfg.Drawing.MaxCurveWidth,
		MaxCurveDepth: cfg.Drawing.MaxCurveDepth,
		MinCurveDepth: cfg.Drawing.MinCurveDepth,
		EdgePadding:   cfg.Drawing.EdgePadding,
		Resolution:    cfg.Drawing.Resolution,
		View:          camera.View(),
	}, player, ctrl, follower, bus, log)

	ctrl.Register(phase.Idle, &phase.HoldMode{
		Director: ctrl, Name: "idle", Recover: cfg.Game.IdleRecoverAfter, Next: phase.Drawing, Log: log,
	})
	ctrl.Register(phase.Drawing, drawer)
	ctrl.Register(phase.Navigating, follower)
	ctrl.Register(phase.Combat, combat.NewMode(orch, dash, ctrl, log))
	ctrl.Register(phase.Win, &phase.HoldMode{
		Director: ctrl, Name: "win", Recover: cfg.Game.WinRestartAfter, Next: phase.Drawing, Log: log,
		OnExpire: func() { enemies.ReviveAll() },
	})

	won := false
	event.Subscribe(bus, func(e event.CombatEnded) {
		log.Info("session result",
			zap.String("session", e.SessionID),
			zap.String("outcome", e.Outcome),
			zap.String("next", e.Next),
			zap.Int("score", scoreBoard.Total()),
		)
		if e.Outcome == combat.OutcomeVictory.String() {
			won = true
		}
	})
	event.Subscribe(bus, func(e event.ProjectileHit) {
		log.Info("player hit", zap.Uint64("owner", uint64(e.OwnerID)))
	})
	event.Subscribe(bus, func(e event.TimerTicked) {
		if e.Warning {
			log.Info("combat timer", zap.Int("seconds", e.Seconds))
		}
	})

	// 6. Create systems and register with runner
	input := system.NewInputSystem(gestures, camera, ctrl, log)
	input.Route(phase.Drawing, drawer)
	input.Route(phase.Combat, dash)

	runner := coresys.NewRunner()
	runner.Register(input)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(enemies)
	runner.Register(system.NewPhaseSystem(ctrl))
	runner.Register(projectiles)
	runner.Register(system.NewCleanupSystem(ecsWorld, log))

	// 7. Optional hot reload
	var reloads <-chan string
	var watchErrs <-chan error
	if cfg.Data.Watch {
		watcher, err := data.NewWatcher(existingDirs(
			filepath.Dir(cfg.Data.EnemyList),
			filepath.Join(cfg.Scripting.Dir, "common"),
			filepath.Join(cfg.Scripting.Dir, "attack"),
		)...)
		if err != nil {
			return fmt.Errorf("watch data: %w", err)
		}
		defer watcher.Close()
		reloads, watchErrs = watcher.Events, watcher.Errors
	}

	// 8. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	ctrl.Start()

	printSection("Ready")
	printReady(fmt.Sprintf("Game loop started (tick: %s, phase: %s)", cfg.Game.TickRate, ctrl.Phase()))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Game.TickRate)
			if won && cfg.Game.ExitOnWin {
				log.Info("victory, stopping", zap.Uint64("ticks", runner.Ticks()), zap.Int("score", scoreBoard.Total()))
				return nil
			}
			if cfg.Game.MaxTicks > 0 && runner.Ticks() >= cfg.Game.MaxTicks {
				log.Info("tick limit reached",
					zap.Uint64("ticks", runner.Ticks()),
					zap.Stringer("phase", ctrl.Phase()),
					zap.Int("kills", scoreBoard.Kills()),
					zap.Int("score", scoreBoard.Total()),
				)
				return nil
			}
		case name, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			applyReload(name, cfg, enemies, scripts, log)
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			log.Warn("watch error", zap.Error(err))
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// applyReload runs on the game loop goroutine.
func applyReload(name string, cfg *config.Config, enemies *system.EnemySystem, scripts *scripting.Engine, log *zap.Logger) {
	switch {
	case data.IsScriptFile(name):
		if err := scripts.Reload(); err != nil {
			log.Warn("script reload failed", zap.String("file", name), zap.Error(err))
		}
	case data.IsDataFile(name) && sameFile(name, cfg.Data.EnemyList):
		table, err := data.LoadEnemyTable(cfg.Data.EnemyList)
		if err != nil {
			log.Warn("enemy table reload failed", zap.Error(err))
			return
		}
		enemies.Retune(table)
	case data.IsDataFile(name) && sameFile(name, cfg.Data.SpawnList):
		spawns, err := data.LoadSpawnList(cfg.Data.SpawnList)
		if err != nil {
			log.Warn("spawn list reload failed", zap.Error(err))
			return
		}
		enemies.Respawn(spawns)
	}
}

func sameFile(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}

func existingDirs(dirs ...string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			out = append(out, d)
		}
	}
	return out
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
