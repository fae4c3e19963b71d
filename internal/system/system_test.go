package system

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/core/event"
	coresys "github.com/burrowstrike/core/internal/core/system"
	"github.com/burrowstrike/core/internal/data"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/phase"
	"github.com/burrowstrike/core/internal/world"
)

type halfProjector struct{}

func (halfProjector) ScreenToWorld(s geom.Vec) geom.Vec { return s.Mult(0.5) }

type recorder struct {
	calls []string
	at    []geom.Vec
}

func (r *recorder) GesturePressStarted(p geom.Vec) { r.record("start", p) }
func (r *recorder) GesturePressEnded(p geom.Vec)   { r.record("end", p) }

func (r *recorder) record(kind string, p geom.Vec) {
	r.calls = append(r.calls, kind)
	r.at = append(r.at, p)
}

type dragRecorder struct{ recorder }

func (r *dragRecorder) GestureDragged(p geom.Vec) { r.record("drag", p) }

func TestInputRoutesByPhaseAndTick(t *testing.T) {
	ctrl := phase.NewController(phase.Drawing, event.NewBus(), nil)
	replay := data.NewReplay([]data.Gesture{
		{Tick: 0, Kind: data.GestureStart, X: 2, Y: 4},
		{Tick: 1, Kind: data.GestureDrag, X: 4, Y: 4},
		{Tick: 2, Kind: data.GestureEnd, X: 6, Y: 8},
		{Tick: 3, Kind: data.GestureStart, X: 0, Y: 0},
		{Tick: 3, Kind: data.GestureEnd, X: 2, Y: 0},
	})
	in := NewInputSystem(replay, halfProjector{}, ctrl, nil)
	drawing := &dragRecorder{}
	combat := &recorder{}
	in.Route(phase.Drawing, drawing)
	in.Route(phase.Combat, combat)

	in.Update(0)
	assert.Equal(t, []string{"start"}, drawing.calls)
	assert.Equal(t, geom.V(1, 2), drawing.at[0])
	in.Update(0)
	in.Update(0)
	assert.Equal(t, []string{"start", "drag", "end"}, drawing.calls)

	ctrl.SetPhase(phase.Combat)
	in.Update(0)
	assert.Equal(t, []string{"start", "end"}, combat.calls, "drag skipped for handlers without drag support")
	assert.True(t, replay.Done())
}

func TestInputDroppedWhileLocked(t *testing.T) {
	ctrl := phase.NewController(phase.Combat, event.NewBus(), nil)
	replay := data.NewReplay([]data.Gesture{
		{Tick: 0, Kind: data.GestureStart},
		{Tick: 0, Kind: data.GestureEnd, X: 3},
		{Tick: 1, Kind: data.GestureStart},
	})
	in := NewInputSystem(replay, nil, ctrl, nil)
	h := &recorder{}
	in.Route(phase.Combat, h)

	ctrl.SetInputLock(true)
	in.Update(0)
	assert.Empty(t, h.calls)
	assert.Equal(t, 2, in.Dropped())

	ctrl.SetInputLock(false)
	in.Update(0)
	assert.Equal(t, []string{"start"}, h.calls)
}

func TestInputIgnoresPhasesWithoutHandler(t *testing.T) {
	ctrl := phase.NewController(phase.Idle, event.NewBus(), nil)
	in := NewInputSystem(data.NewReplay([]data.Gesture{{Kind: data.GestureStart}}), nil, ctrl, nil)
	assert.NotPanics(t, func() { in.Update(0) })
}

func TestDispatchDeliversPreviousTick(t *testing.T) {
	bus := event.NewBus()
	var got []int
	event.Subscribe(bus, func(e event.ChargesChanged) { got = append(got, e.Remaining) })
	d := NewEventDispatchSystem(bus)
	assert.Equal(t, coresys.StagePreUpdate, d.Stage())

	event.Emit(bus, event.ChargesChanged{Remaining: 2})
	assert.Empty(t, got)
	d.Update(0)
	assert.Equal(t, []int{2}, got)
	d.Update(0)
	assert.Equal(t, []int{2}, got)
}

func TestPhaseSystemTicksController(t *testing.T) {
	ctrl := phase.NewController(phase.Win, event.NewBus(), nil)
	h := &phase.HoldMode{Director: ctrl, Name: "win", Recover: time.Second, Next: phase.Drawing}
	ctrl.Register(phase.Win, h)
	s := NewPhaseSystem(ctrl)
	s.Update(600 * time.Millisecond)
	assert.Equal(t, phase.Win, ctrl.Phase())
	s.Update(600 * time.Millisecond)
	assert.Equal(t, phase.Drawing, ctrl.Phase())
}

const enemyYAML = `
enemies:
  - enemy_id: 1
    name: grunt
    attack_type: melee
    max_health: 2
    countdown: 3
    score: 50
  - enemy_id: 2
    name: spitter
    attack_type: ranged
    max_health: 1
    countdown: 1
    projectile_speed: 5
`

func loadTable(t *testing.T, body string) *data.EnemyTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enemy_list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	tbl, err := data.LoadEnemyTable(path)
	require.NoError(t, err)
	return tbl
}

type enemyRig struct {
	w       *ecs.World
	state   *world.State
	player  *world.Player
	bus     *event.Bus
	enemies *EnemySystem
	shots   *ProjectileSystem
	cleanup *CleanupSystem
}

func newEnemyRig() *enemyRig {
	r := &enemyRig{
		w:      ecs.NewWorld(),
		state:  world.NewState(4, 0),
		player: world.NewPlayer(ecs.NewEntityID(999, 1), geom.V(0, -2), 0, nil),
		bus:    event.NewBus(),
	}
	r.shots = NewProjectileSystem(ProjectileConfig{
		Lifetime:  5 * time.Second,
		HitRadius: 0.5,
		Bounds:    geom.Bounds{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50},
	}, r.w, r.player, r.bus, nil)
	r.enemies = NewEnemySystem(r.w, r.state, r.player, r.bus, EnemyDeps{
		Behavior: enemy.BehaviorFactory{Spawner: r.shots},
		Rand:     rand.New(rand.NewSource(7)),
	}, nil)
	r.cleanup = NewCleanupSystem(r.w, nil)
	return r
}

func TestEnemySpawnKillAndRevive(t *testing.T) {
	r := newEnemyRig()
	tbl := loadTable(t, enemyYAML)
	n := r.enemies.Spawn(tbl, []data.SpawnEntry{
		{EnemyID: 1, X: 2, Count: 3, Spacing: 1.5},
		{EnemyID: 42, X: 0, Count: 1},
	})
	assert.Equal(t, 3, n)
	require.Equal(t, 3, r.state.EnemyCount())
	assert.Equal(t, geom.V(5, 0), r.state.EnemyList()[2].Position())

	var killed []event.EnemyKilled
	event.Subscribe(r.bus, func(e event.EnemyKilled) { killed = append(killed, e) })

	victim := r.state.EnemyList()[0]
	victim.TakeDamage(2)
	assert.Len(t, r.state.LiveEnemies(), 2)
	assert.Empty(t, r.state.FindLiveEnemiesNear(victim.Position(), 0.1))

	r.bus.SwapBuffers()
	r.bus.DispatchAll()
	require.Len(t, killed, 1)
	assert.Equal(t, 50, killed[0].Score)

	assert.Equal(t, 1, r.enemies.ReviveAll())
	assert.True(t, victim.Alive())
	assert.Equal(t, 2, victim.Health())
	assert.Len(t, r.state.FindLiveEnemiesNear(geom.V(2, 0), 0.1), 1)
	assert.Zero(t, r.enemies.ReviveAll())
}

func TestEnemyAttackForwardedAndProjectileHits(t *testing.T) {
	r := newEnemyRig()
	tbl := loadTable(t, enemyYAML)
	r.enemies.Spawn(tbl, []data.SpawnEntry{{EnemyID: 2, X: 3, Y: 0, Count: 1}})
	a := r.state.EnemyList()[0]

	var fired []event.EnemyAttackFired
	var hits []event.ProjectileHit
	event.Subscribe(r.bus, func(e event.EnemyAttackFired) { fired = append(fired, e) })
	event.Subscribe(r.bus, func(e event.ProjectileHit) { hits = append(hits, e) })

	r.player.SetPosition(geom.V(0, 0))
	a.StartCountdown()
	r.enemies.Update(time.Second)
	require.Equal(t, 1, r.shots.Count())

	for i := 0; i < 20 && r.shots.Count() > 0; i++ {
		r.shots.Update(100 * time.Millisecond)
		r.cleanup.Update(0)
	}
	assert.Equal(t, 0, r.shots.Count())

	r.bus.SwapBuffers()
	r.bus.DispatchAll()
	require.Len(t, fired, 1)
	assert.Equal(t, a.ID(), fired[0].EnemyID)
	require.Len(t, hits, 1)
	assert.Equal(t, a.ID(), hits[0].OwnerID)
}

func TestProjectileExpiresAndLeavesBounds(t *testing.T) {
	r := newEnemyRig()
	owner := ecs.NewEntityID(1, 1)
	r.shots.SpawnProjectile(owner, geom.V(0, 10), geom.V(0, 0))
	r.shots.SpawnProjectile(owner, geom.V(49, 10), geom.V(10, 0))
	require.Equal(t, 2, r.shots.Count())

	r.shots.Update(200 * time.Millisecond)
	r.cleanup.Update(0)
	assert.Equal(t, 1, r.shots.Count(), "out of bounds")

	r.shots.Update(5 * time.Second)
	r.cleanup.Update(0)
	assert.Equal(t, 0, r.shots.Count(), "lifetime over")
}

func TestProjectileMissesBuriedPlayer(t *testing.T) {
	r := newEnemyRig()
	var hits int
	event.Subscribe(r.bus, func(event.ProjectileHit) { hits++ })
	r.shots.SpawnProjectile(ecs.NewEntityID(1, 1), r.player.Position(), geom.V(0, 0))
	r.shots.Update(10 * time.Millisecond)
	r.bus.SwapBuffers()
	r.bus.DispatchAll()
	assert.Zero(t, hits)
	assert.Equal(t, 1, r.shots.Count())
}

func TestRetuneAndRespawn(t *testing.T) {
	r := newEnemyRig()
	r.enemies.Spawn(loadTable(t, enemyYAML), []data.SpawnEntry{{EnemyID: 1, Count: 2, Spacing: 1}})
	first := r.state.EnemyList()[0]

	tuned := loadTable(t, `
enemies:
  - enemy_id: 1
    name: grunt
    attack_type: melee
    max_health: 1
    countdown: 9
    score: 80
`)
	r.enemies.Retune(tuned)
	assert.Equal(t, 1, first.Health())
	assert.Equal(t, 80, first.Template().Score)

	assert.Equal(t, 3, r.enemies.Respawn([]data.SpawnEntry{{EnemyID: 1, X: 4, Count: 3, Spacing: 1}}))
	assert.Nil(t, r.state.GetEnemy(first.ID()))
	assert.Equal(t, 2, r.w.Pending())
	r.cleanup.Update(0)
	assert.False(t, r.w.Alive(first.ID()))
	assert.Equal(t, 2, r.cleanup.Destroyed())
	require.Equal(t, 3, r.state.EnemyCount())
	for _, a := range r.state.EnemyList() {
		assert.True(t, a.Alive())
		assert.Equal(t, 1, a.MaxHealth())
	}
}

func TestCleanupLogsDestroyedEntities(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ecs.NewWorld()
	hp := ecs.NewStore[int]()
	w.Registry().Register(hp)
	cleanup := NewCleanupSystem(w, zap.New(core))

	cleanup.Update(0)
	assert.Zero(t, logs.Len(), "quiet when nothing is queued")

	v := 3
	for i := 0; i < 2; i++ {
		id := w.CreateEntity()
		hp.Set(id, &v)
		w.MarkForDestruction(id)
	}
	w.MarkForDestruction(w.CreateEntity())
	cleanup.Update(0)

	assert.Equal(t, 3, cleanup.Destroyed())
	assert.Zero(t, hp.Len())
	entries := logs.FilterMessage("entities destroyed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 3, fields["count"])
	assert.EqualValues(t, 2, fields["components"])
}

func TestRunnerStageOrder(t *testing.T) {
	r := newEnemyRig()
	ctrl := phase.NewController(phase.Idle, r.bus, nil)
	runner := coresys.NewRunner()
	runner.Register(NewCleanupSystem(r.w, nil))
	runner.Register(r.shots)
	runner.Register(NewPhaseSystem(ctrl))
	runner.Register(r.enemies)
	runner.Register(NewEventDispatchSystem(r.bus))
	runner.Register(NewInputSystem(nil, nil, ctrl, nil))

	assert.NotPanics(t, func() { runner.Tick(16 * time.Millisecond) })
	assert.Equal(t, uint64(1), runner.Ticks())
}
