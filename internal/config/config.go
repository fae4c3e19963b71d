package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/burrowstrike/core/internal/phase"
)

type Config struct {
	Game       GameConfig       `toml:"game"`
	Combat     CombatConfig     `toml:"combat"`
	Navigation NavigationConfig `toml:"navigation"`
	Drawing    DrawingConfig    `toml:"drawing"`
	World      WorldConfig      `toml:"world"`
	Projectile ProjectileConfig `toml:"projectile"`
	Data       DataConfig       `toml:"data"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Logging    LoggingConfig    `toml:"logging"`
}

type GameConfig struct {
	TickRate         time.Duration `toml:"tick_rate"`
	InitialPhase     string        `toml:"initial_phase"`
	TimeoutPhase     string        `toml:"timeout_phase"`      // where a combat timeout leads: "drawing" or "idle"
	IdleRecoverAfter time.Duration `toml:"idle_recover_after"` // 0 = stay idle
	WinRestartAfter  time.Duration `toml:"win_restart_after"`  // 0 = stay on the win screen
	Seed             int64         `toml:"seed"`               // 0 = time based
	MaxTicks         uint64        `toml:"max_ticks"`          // 0 = run until signalled
	ExitOnWin        bool          `toml:"exit_on_win"`
}

type CombatConfig struct {
	Charges     int           `toml:"charges"`
	Duration    time.Duration `toml:"duration"`
	Warning     time.Duration `toml:"warning"`
	DashSpeed   float64       `toml:"dash_speed"` // world units per second
	DashDamage  int           `toml:"dash_damage"`
	MinSwipe    float64       `toml:"min_swipe"`
	SlashRadius float64       `toml:"slash_radius"`
	HitRadius   float64       `toml:"hit_radius"`
	CurveJitter float64       `toml:"curve_jitter"`
	Resolution  int           `toml:"resolution"`
}

type NavigationConfig struct {
	MoveSpeed        float64       `toml:"move_speed"`
	ArrivalThreshold float64       `toml:"arrival_threshold"`
	BurstDuration    time.Duration `toml:"burst_duration"`
	BurstMinHeight   float64       `toml:"burst_min_height"`
	BurstMaxHeight   float64       `toml:"burst_max_height"`
	DepthMin         float64       `toml:"depth_min"`
	DepthMax         float64       `toml:"depth_max"`
	SliceRadius      float64       `toml:"slice_radius"`
	Charges          int           `toml:"charges"` // handed to combat when the burst finds enemies
}

type DrawingConfig struct {
	StartZone     float64 `toml:"start_zone"`
	MaxCurveWidth float64 `toml:"max_curve_width"`
	MaxCurveDepth float64 `toml:"max_curve_depth"`
	MinCurveDepth float64 `toml:"min_curve_depth"`
	EdgePadding   float64 `toml:"edge_padding"`
	Resolution    int     `toml:"resolution"`
}

type WorldConfig struct {
	Ground        float64 `toml:"ground"`
	CellSize      float64 `toml:"cell_size"`
	PlayerX       float64 `toml:"player_x"`
	PlayerY       float64 `toml:"player_y"`
	ScreenWidth   float64 `toml:"screen_width"`
	ScreenHeight  float64 `toml:"screen_height"`
	PixelsPerUnit float64 `toml:"pixels_per_unit"`
	CameraX       float64 `toml:"camera_x"`
	CameraY       float64 `toml:"camera_y"`
}

type ProjectileConfig struct {
	Lifetime  time.Duration `toml:"lifetime"`
	HitRadius float64       `toml:"hit_radius"`
}

type DataConfig struct {
	EnemyList string `toml:"enemy_list"`
	SpawnList string `toml:"spawn_list"`
	Replay    string `toml:"replay"` // empty = no scripted input
	Watch     bool   `toml:"watch"`  // hot reload enemy data and scripts
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the game loop cannot run with.
func (c *Config) Validate() error {
	if c.Game.TickRate <= 0 {
		return fmt.Errorf("game.tick_rate must be positive")
	}
	if _, err := phase.Parse(c.Game.InitialPhase); err != nil {
		return fmt.Errorf("game.initial_phase: %w", err)
	}
	timeout, err := phase.Parse(c.Game.TimeoutPhase)
	if err != nil {
		return fmt.Errorf("game.timeout_phase: %w", err)
	}
	if timeout != phase.Drawing && timeout != phase.Idle {
		return fmt.Errorf("game.timeout_phase must be drawing or idle, got %q", c.Game.TimeoutPhase)
	}
	if c.Game.IdleRecoverAfter < 0 || c.Game.WinRestartAfter < 0 {
		return fmt.Errorf("game recovery durations must not be negative")
	}
	if c.Combat.Charges <= 0 {
		return fmt.Errorf("combat.charges must be positive")
	}
	if c.Combat.Duration <= 0 {
		return fmt.Errorf("combat.duration must be positive")
	}
	if c.Combat.DashSpeed <= 0 {
		return fmt.Errorf("combat.dash_speed must be positive")
	}
	if c.Combat.SlashRadius <= 0 || c.Combat.HitRadius <= 0 {
		return fmt.Errorf("combat.slash_radius and combat.hit_radius must be positive")
	}
	if c.Combat.Resolution <= 0 || c.Drawing.Resolution <= 0 {
		return fmt.Errorf("path resolution must be positive")
	}
	if c.Navigation.MoveSpeed <= 0 {
		return fmt.Errorf("navigation.move_speed must be positive")
	}
	if c.Navigation.SliceRadius <= 0 {
		return fmt.Errorf("navigation.slice_radius must be positive")
	}
	if c.Navigation.DepthMin > c.Navigation.DepthMax {
		return fmt.Errorf("navigation.depth_min %.2f exceeds depth_max %.2f", c.Navigation.DepthMin, c.Navigation.DepthMax)
	}
	if c.Navigation.BurstMinHeight > c.Navigation.BurstMaxHeight {
		return fmt.Errorf("navigation.burst_min_height exceeds burst_max_height")
	}
	if c.World.CellSize <= 0 {
		return fmt.Errorf("world.cell_size must be positive")
	}
	if c.World.PixelsPerUnit <= 0 {
		return fmt.Errorf("world.pixels_per_unit must be positive")
	}
	if c.Data.EnemyList == "" || c.Data.SpawnList == "" {
		return fmt.Errorf("data.enemy_list and data.spawn_list are required")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			TickRate:         50 * time.Millisecond,
			InitialPhase:     "drawing",
			TimeoutPhase:     "drawing",
			IdleRecoverAfter: 2 * time.Second,
			WinRestartAfter:  3 * time.Second,
		},
		Combat: CombatConfig{
			Charges:     3,
			Duration:    10 * time.Second,
			Warning:     3 * time.Second,
			DashSpeed:   4,
			DashDamage:  1,
			MinSwipe:    0.5,
			SlashRadius: 5,
			HitRadius:   0.75,
			CurveJitter: 0.6,
			Resolution:  16,
		},
		Navigation: NavigationConfig{
			MoveSpeed:        8,
			ArrivalThreshold: 0.05,
			BurstDuration:    400 * time.Millisecond,
			BurstMinHeight:   0.6,
			BurstMaxHeight:   3.6,
			DepthMin:         1,
			DepthMax:         5,
			SliceRadius:      5,
			Charges:          3,
		},
		Drawing: DrawingConfig{
			StartZone:     2,
			MaxCurveWidth: 6,
			MaxCurveDepth: 5,
			MinCurveDepth: 0.5,
			EdgePadding:   0.5,
			Resolution:    24,
		},
		World: WorldConfig{
			CellSize:      4,
			ScreenWidth:   1280,
			ScreenHeight:  720,
			PixelsPerUnit: 64,
			CameraY:       -1,
		},
		Projectile: ProjectileConfig{
			Lifetime:  4 * time.Second,
			HitRadius: 0.5,
		},
		Data: DataConfig{
			EnemyList: "data/yaml/enemy_list.yaml",
			SpawnList: "data/yaml/spawn_list.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
