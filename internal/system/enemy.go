package system

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/core/event"
	coresys "github.com/burrowstrike/core/internal/core/system"
	"github.com/burrowstrike/core/internal/data"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/present"
	"github.com/burrowstrike/core/internal/world"
)

// EnemyDeps are the collaborators every spawned agent shares.
type EnemyDeps struct {
	Animator present.Animator
	Feedback present.Feedback
	Behavior enemy.BehaviorFactory
	Rand     *rand.Rand
}

// EnemySystem spawns enemies from data, ticks them against the player and
// forwards their signals to the bus. Dead enemies stay in the world state
// until revived or replaced by a respawn. Stage 2 (Update).
type EnemySystem struct {
	world  *ecs.World
	state  *world.State
	player *world.Player
	bus    *event.Bus
	deps   EnemyDeps
	log    *zap.Logger

	table  *data.EnemyTable
	spawns []data.SpawnEntry
	ticked []*enemy.Agent
}

// stateRemover drops destroyed entities from the world state.
type stateRemover struct{ state *world.State }

func (r stateRemover) Remove(id ecs.EntityID) bool { return r.state.RemoveEnemy(id) != nil }

func NewEnemySystem(w *ecs.World, state *world.State, player *world.Player, bus *event.Bus, deps EnemyDeps, log *zap.Logger) *EnemySystem {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(1))
	}
	w.Registry().Register(stateRemover{state: state})
	return &EnemySystem{world: w, state: state, player: player, bus: bus, deps: deps, log: log}
}

func (s *EnemySystem) Stage() coresys.Stage { return coresys.StageUpdate }

func (s *EnemySystem) Update(dt time.Duration) {
	var target *enemy.Target
	if s.player != nil {
		target = s.player.Target()
	}
	// Agents may die and leave the list mid-iteration.
	s.ticked = append(s.ticked[:0], s.state.EnemyList()...)
	for _, a := range s.ticked {
		a.Update(dt, target)
		if a.Alive() {
			s.state.SyncEnemy(a)
		}
	}
}

// Spawn places enemies for every entry and returns how many were created.
// Entries naming an unknown template are skipped.
func (s *EnemySystem) Spawn(table *data.EnemyTable, entries []data.SpawnEntry) int {
	s.table = table
	s.spawns = entries
	n := 0
	for _, e := range entries {
		tmpl := table.Get(e.EnemyID)
		if tmpl == nil {
			s.log.Warn("spawn references unknown enemy", zap.Int32("enemy_id", e.EnemyID))
			continue
		}
		for i := 0; i < e.Count; i++ {
			pos := geom.V(e.X+float64(i)*e.Spacing, e.Y)
			s.spawn(tmpl, pos)
			n++
		}
	}
	s.log.Info("enemies spawned", zap.Int("count", n))
	return n
}

func (s *EnemySystem) spawn(tmpl *enemy.Template, pos geom.Vec) *enemy.Agent {
	id := s.world.CreateEntity()
	a := enemy.NewAgent(id, tmpl, pos, enemy.Deps{
		Animator: s.deps.Animator,
		Feedback: s.deps.Feedback,
		Behavior: s.deps.Behavior.For(tmpl),
		Rand:     rand.New(rand.NewSource(s.deps.Rand.Int63())),
		Log:      s.log,
	})
	a.Killed().Subscribe(s.onKilled)
	a.AttackFired().Subscribe(s.onAttackFired)
	s.state.AddEnemy(a)
	return a
}

// ReviveAll brings every dead enemy back at its spawn point and returns how
// many were revived.
func (s *EnemySystem) ReviveAll() int {
	n := 0
	for _, a := range s.state.EnemyList() {
		if a.Alive() {
			continue
		}
		a.Revive()
		s.state.SyncEnemy(a)
		n++
	}
	s.log.Info("enemies revived", zap.Int("count", n))
	return n
}

// Respawn replaces every enemy with a fresh spawn of entries. The old
// entities are destroyed at the end of the tick.
func (s *EnemySystem) Respawn(entries []data.SpawnEntry) int {
	for _, a := range append([]*enemy.Agent(nil), s.state.EnemyList()...) {
		s.state.RemoveEnemy(a.ID())
		s.world.MarkForDestruction(a.ID())
	}
	if s.table == nil {
		s.spawns = entries
		return 0
	}
	return s.Spawn(s.table, entries)
}

// Retune applies a reloaded template table to the living enemies. Enemies
// whose template disappeared keep the old one.
func (s *EnemySystem) Retune(table *data.EnemyTable) {
	s.table = table
	n := 0
	for _, a := range s.state.EnemyList() {
		t := table.Get(a.Template().ID)
		if t == nil {
			continue
		}
		a.Retune(t, s.deps.Behavior.For(t))
		n++
	}
	s.log.Info("enemy templates retuned", zap.Int("enemies", n), zap.Int("templates", table.Count()))
}

func (s *EnemySystem) onKilled(a *enemy.Agent) {
	event.Emit(s.bus, event.EnemyKilled{EnemyID: a.ID(), Position: a.Position(), Score: a.Template().Score})
}

func (s *EnemySystem) onAttackFired(a *enemy.Agent) {
	event.Emit(s.bus, event.EnemyAttackFired{EnemyID: a.ID(), Position: a.Position()})
}
