package tunnel

import (
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/event"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/phase"
	"github.com/burrowstrike/core/internal/world"
)

// EnemyFinder answers the post-burst proximity query.
type EnemyFinder interface {
	FindLiveEnemiesNear(p geom.Vec, radius float64) []*enemy.Agent
}

// CombatStarter opens a combat session. It returns false when no session
// could be started.
type CombatStarter interface {
	StartCombat(enemies []*enemy.Agent, charges int) bool
}

// FollowerConfig tunes travel and burst.
type FollowerConfig struct {
	MoveSpeed        float64
	ArrivalThreshold float64
	BurstDuration    time.Duration
	BurstMinHeight   float64
	BurstMaxHeight   float64
	DepthMin         float64 // dive depth mapped to BurstMinHeight
	DepthMax         float64 // dive depth mapped to BurstMaxHeight
	SliceRadius      float64
	Charges          int
}

// Follower owns the Navigating phase: it walks the player along a path,
// measures the dive, bursts out of the ground and decides what comes next.
type Follower struct {
	cfg      FollowerConfig
	player   *world.Player
	director phase.Director
	finder   EnemyFinder
	combat   CombatStarter
	bus      *event.Bus
	log      *zap.Logger

	path       Path
	cursor     int
	navigating bool

	deepestY float64

	bursting     bool
	burstFrom    geom.Vec
	burstTo      geom.Vec
	burstElapsed time.Duration
	lastDepth    float64
	lastHeight   float64
}

func NewFollower(cfg FollowerConfig, player *world.Player, director phase.Director,
	finder EnemyFinder, combat CombatStarter, bus *event.Bus, log *zap.Logger) *Follower {
	if log == nil {
		log = zap.NewNop()
	}
	return &Follower{
		cfg:      cfg,
		player:   player,
		director: director,
		finder:   finder,
		combat:   combat,
		bus:      bus,
		log:      log,
	}
}

// SetCombat wires the combat starter after construction.
func (f *Follower) SetCombat(c CombatStarter) { f.combat = c }

func (f *Follower) Navigating() bool { return f.navigating }
func (f *Follower) Bursting() bool   { return f.bursting }
func (f *Follower) Cursor() int      { return f.cursor }

// LastBurst returns the dive depth and burst height of the most recent burst.
func (f *Follower) LastBurst() (depth, height float64) { return f.lastDepth, f.lastHeight }

// StartNavigation begins travel along path, prefixed by an approach leg from
// the player's current position. Paths shorter than two points are rejected
// without touching any state.
func (f *Follower) StartNavigation(path Path) error {
	if len(path) < 2 {
		f.log.Warn("navigation rejected", zap.Int("points", len(path)), zap.Error(ErrPathTooShort))
		return ErrPathTooShort
	}
	pos := f.player.Position()
	f.path = make(Path, 0, len(path)+1)
	f.path = append(f.path, pos)
	f.path = append(f.path, path...)
	f.cursor = 0
	f.navigating = true
	f.bursting = false

	f.deepestY = pos.Y

	f.player.SetAnimation(world.AnimTraveling)
	f.director.SetInputLock(true)
	f.log.Debug("navigation started", zap.Int("points", len(f.path)))
	return nil
}

func (f *Follower) OnEnter() {}

func (f *Follower) OnUpdate(dt time.Duration) {
	switch {
	case f.navigating:
		f.travel(dt)
	case f.bursting:
		f.burst(dt)
	}
}

// OnExit abandons any unfinished travel and clears the travel animations.
func (f *Follower) OnExit() {
	interrupted := f.navigating || f.bursting
	f.navigating = false
	f.bursting = false
	switch f.player.Animation() {
	case world.AnimTraveling, world.AnimBursting, world.AnimHovering:
		f.player.SetAnimation(world.AnimNone)
	}
	if interrupted {
		f.director.SetInputLock(false)
	}
}

func (f *Follower) travel(dt time.Duration) {
	pos := f.player.Position()
	f.trackDive(pos.Y)

	target := f.path[f.cursor]
	f.player.Face(target.Sub(pos))
	pos = geom.MoveTowards(pos, target, f.cfg.MoveSpeed*dt.Seconds())
	f.player.SetPosition(pos)

	if pos.Distance(target) > f.cfg.ArrivalThreshold {
		return
	}
	f.cursor++
	if f.cursor < len(f.path) {
		return
	}
	f.navigating = false
	f.startBurst()
}

// trackDive keeps the deepest point below ground reached since navigation
// started.
func (f *Follower) trackDive(y float64) {
	if y < f.player.Ground() && y < f.deepestY {
		f.deepestY = y
	}
}

// DiveDepth is how far below ground the deepest point of the dive reached.
func (f *Follower) DiveDepth() float64 {
	return max(f.player.Ground()-f.deepestY, 0)
}

// BurstHeight maps a dive depth onto the configured burst height range.
func BurstHeight(cfg FollowerConfig, depth float64) float64 {
	n := geom.InverseLerp(cfg.DepthMin, cfg.DepthMax, depth)
	return geom.Lerp(cfg.BurstMinHeight, cfg.BurstMaxHeight, n)
}

func (f *Follower) startBurst() {
	depth := f.DiveDepth()
	height := BurstHeight(f.cfg, depth)
	f.lastDepth, f.lastHeight = depth, height

	f.bursting = true
	f.burstElapsed = 0
	f.burstFrom = f.player.Position()
	f.burstTo = f.burstFrom.Add(geom.Up.Mult(height))
	f.player.SetAnimation(world.AnimBursting)

	f.log.Debug("burst", zap.Float64("depth", depth), zap.Float64("height", height))
	event.Emit(f.bus, event.BurstStarted{Depth: depth, Height: height})
	if f.cfg.BurstDuration <= 0 {
		f.burst(0)
	}
}

func (f *Follower) burst(dt time.Duration) {
	f.burstElapsed += dt
	t := 1.0
	if f.cfg.BurstDuration > 0 {
		t = geom.Clamp01(float64(f.burstElapsed) / float64(f.cfg.BurstDuration))
	}
	f.player.SetPosition(f.burstFrom.Lerp(f.burstTo, t))
	if t < 1 {
		return
	}
	f.bursting = false
	f.player.SetAnimation(world.AnimHovering)
	f.decide()
}

// decide runs the single post-burst proximity query.
func (f *Follower) decide() {
	pos := f.player.Position()
	var nearby []*enemy.Agent
	if f.finder != nil {
		nearby = f.finder.FindLiveEnemiesNear(pos, f.cfg.SliceRadius)
	}
	started := false
	if len(nearby) > 0 && f.combat != nil {
		started = f.combat.StartCombat(nearby, f.cfg.Charges)
	}
	if !started {
		f.director.SetPhase(phase.Drawing)
	}
	f.log.Info("navigation complete",
		zap.Int("nearby", len(nearby)),
		zap.Bool("combat", started),
	)
	f.director.SetInputLock(false)
}
