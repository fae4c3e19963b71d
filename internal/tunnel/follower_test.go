package tunnel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/core/event"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/phase"
	"github.com/burrowstrike/core/internal/world"
)

type fakeDirector struct {
	current  phase.Phase
	locked   bool
	requests []phase.Phase
}

func (d *fakeDirector) SetPhase(p phase.Phase) {
	d.requests = append(d.requests, p)
	d.current = p
}
func (d *fakeDirector) Phase() phase.Phase  { return d.current }
func (d *fakeDirector) SetInputLock(l bool) { d.locked = l }
func (d *fakeDirector) InputLocked() bool   { return d.locked }

type fakeFinder struct {
	agents  []*enemy.Agent
	queries int
	radius  float64
}

func (f *fakeFinder) FindLiveEnemiesNear(_ geom.Vec, r float64) []*enemy.Agent {
	f.queries++
	f.radius = r
	return f.agents
}

type fakeCombat struct {
	accept  bool
	calls   int
	charges int
	enemies []*enemy.Agent
}

func (c *fakeCombat) StartCombat(enemies []*enemy.Agent, charges int) bool {
	c.calls++
	c.enemies = enemies
	c.charges = charges
	return c.accept
}

func testFollowerConfig() FollowerConfig {
	return FollowerConfig{
		MoveSpeed:        10,
		ArrivalThreshold: 0.05,
		BurstDuration:    100 * time.Millisecond,
		BurstMinHeight:   0.6,
		BurstMaxHeight:   3.6,
		DepthMin:         1,
		DepthMax:         4,
		SliceRadius:      4,
		Charges:          3,
	}
}

type followerRig struct {
	f      *Follower
	player *world.Player
	dir    *fakeDirector
	finder *fakeFinder
	combat *fakeCombat
	bus    *event.Bus
}

func newFollowerRig() *followerRig {
	r := &followerRig{
		player: world.NewPlayer(1, geom.V(0, 0.5), 0, nil),
		dir:    &fakeDirector{current: phase.Navigating},
		finder: &fakeFinder{},
		combat: &fakeCombat{accept: true},
		bus:    event.NewBus(),
	}
	r.f = NewFollower(testFollowerConfig(), r.player, r.dir, r.finder, r.combat, r.bus, nil)
	return r
}

func (r *followerRig) runToEnd(t *testing.T) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if !r.f.Navigating() && !r.f.Bursting() {
			return
		}
		r.f.OnUpdate(10 * time.Millisecond)
	}
	t.Fatal("navigation never finished")
}

func TestStartNavigationRejectsShortPaths(t *testing.T) {
	for _, p := range []Path{nil, {}, {geom.V(1, 1)}} {
		r := newFollowerRig()
		err := r.f.StartNavigation(p)
		assert.ErrorIs(t, err, ErrPathTooShort)
		assert.False(t, r.f.Navigating())
		assert.False(t, r.dir.locked)
		assert.Equal(t, world.AnimNone, r.player.Animation())
	}
}

func TestStartNavigationPrependsApproachLeg(t *testing.T) {
	r := newFollowerRig()
	require.NoError(t, r.f.StartNavigation(Path{geom.V(1, 0), geom.V(2, 0)}))
	assert.True(t, r.f.Navigating())
	assert.True(t, r.dir.locked)
	assert.Equal(t, world.AnimTraveling, r.player.Animation())
	assert.Equal(t, Path{geom.V(0, 0.5), geom.V(1, 0), geom.V(2, 0)}, r.f.path)
	assert.Equal(t, 0, r.f.Cursor())
}

func TestNavigationWithoutEnemiesReturnsToDrawing(t *testing.T) {
	r := newFollowerRig()
	path, err := BuildPath(geom.V(0, 0), geom.V(1, -6), geom.V(2, 0), 20)
	require.NoError(t, err)
	require.NoError(t, r.f.StartNavigation(path))

	var bursts []event.BurstStarted
	event.Subscribe(r.bus, func(e event.BurstStarted) { bursts = append(bursts, e) })

	r.runToEnd(t)

	assert.Equal(t, 1, r.finder.queries, "exactly one proximity query")
	assert.Equal(t, 4.0, r.finder.radius)
	assert.Equal(t, 0, r.combat.calls)
	assert.Equal(t, []phase.Phase{phase.Drawing}, r.dir.requests)
	assert.False(t, r.dir.locked)
	assert.Equal(t, world.AnimHovering, r.player.Animation())

	depth, height := r.f.LastBurst()
	assert.InDelta(t, 3.0, depth, 0.1)
	assert.InDelta(t, 2.6, height, 0.1)
	assert.InDelta(t, height, r.player.Position().Y, 0.06, "burst rises from the path end")

	r.bus.SwapBuffers()
	r.bus.DispatchAll()
	require.Len(t, bursts, 1)
	assert.Equal(t, height, bursts[0].Height)
}

func TestNavigationWithEnemiesStartsCombat(t *testing.T) {
	r := newFollowerRig()
	a := enemy.NewAgent(ecs.NewEntityID(5, 1), &enemy.Template{MaxHealth: 1}, geom.V(2, 1), enemy.Deps{})
	r.finder.agents = []*enemy.Agent{a}
	require.NoError(t, r.f.StartNavigation(Path{geom.V(0, 0), geom.V(1, -1), geom.V(2, 0)}))

	r.runToEnd(t)

	assert.Equal(t, 1, r.combat.calls)
	assert.Equal(t, 3, r.combat.charges)
	assert.Equal(t, []*enemy.Agent{a}, r.combat.enemies)
	assert.Empty(t, r.dir.requests, "the combat starter requests Combat itself")
	assert.False(t, r.dir.locked)
}

func TestRefusedCombatFallsBackToDrawing(t *testing.T) {
	r := newFollowerRig()
	r.combat.accept = false
	r.finder.agents = []*enemy.Agent{
		enemy.NewAgent(ecs.NewEntityID(5, 1), &enemy.Template{MaxHealth: 1}, geom.V(2, 1), enemy.Deps{}),
	}
	require.NoError(t, r.f.StartNavigation(Path{geom.V(0, 0), geom.V(2, 0)}))
	r.runToEnd(t)
	assert.Equal(t, []phase.Phase{phase.Drawing}, r.dir.requests)
}

func TestBurstHeightBounds(t *testing.T) {
	cfg := testFollowerConfig()
	assert.InDelta(t, cfg.BurstMaxHeight, BurstHeight(cfg, cfg.DepthMax), 1e-9)
	assert.InDelta(t, cfg.BurstMinHeight, BurstHeight(cfg, 0), 1e-9)
	assert.InDelta(t, cfg.BurstMinHeight, BurstHeight(cfg, cfg.DepthMin), 1e-9)
	assert.InDelta(t, cfg.BurstMaxHeight, BurstHeight(cfg, 10), 1e-9)
	assert.InDelta(t, 2.1, BurstHeight(cfg, 2.5), 1e-9)
}

func TestDiveDepthIsDeepestPoint(t *testing.T) {
	r := newFollowerRig()
	require.NoError(t, r.f.StartNavigation(Path{geom.V(0, 0), geom.V(0, -1)}))

	for _, y := range []float64{-1, -2, -3, -2.5, -3.5, -3.2, -1} {
		r.f.trackDive(y)
	}
	assert.InDelta(t, 3.5, r.f.DiveDepth(), 1e-9)

	r2 := newFollowerRig()
	require.NoError(t, r2.f.StartNavigation(Path{geom.V(0, 0), geom.V(0, -1)}))
	for _, y := range []float64{-1, -2, -2.5} {
		r2.f.trackDive(y)
	}
	assert.InDelta(t, 2.5, r2.f.DiveDepth(), 1e-9, "no ascent needed")

	r3 := newFollowerRig()
	require.NoError(t, r3.f.StartNavigation(Path{geom.V(0, 0), geom.V(0, -1)}))
	for _, y := range []float64{1, 2} {
		r3.f.trackDive(y)
	}
	assert.Zero(t, r3.f.DiveDepth(), "points above ground are not a dive")
}

func TestOnExitClearsTravelState(t *testing.T) {
	r := newFollowerRig()
	require.NoError(t, r.f.StartNavigation(Path{geom.V(0, 0), geom.V(5, 0)}))
	r.f.OnUpdate(10 * time.Millisecond)
	r.f.OnExit()
	assert.False(t, r.f.Navigating())
	assert.False(t, r.dir.locked)
	assert.Equal(t, world.AnimNone, r.player.Animation())
}
