package world

import (
	"sort"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
)

// State holds the runtime enemy registry and its spatial index.
// Accessed only from the game loop goroutine. No locks.
type State struct {
	ground  float64
	enemies map[ecs.EntityID]*enemy.Agent
	list    []*enemy.Agent // spawn order
	placed  map[ecs.EntityID]geom.Vec
	grid    *Grid
	buf     []ecs.EntityID
}

func NewState(cellSize, ground float64) *State {
	return &State{
		ground:  ground,
		enemies: make(map[ecs.EntityID]*enemy.Agent),
		placed:  make(map[ecs.EntityID]geom.Vec),
		grid:    NewGrid(cellSize),
	}
}

// Ground returns the y level separating above ground from underground.
func (s *State) Ground() float64 { return s.ground }

func (s *State) AddEnemy(a *enemy.Agent) {
	if _, dup := s.enemies[a.ID()]; dup {
		return
	}
	s.enemies[a.ID()] = a
	s.list = append(s.list, a)
	s.placed[a.ID()] = a.Position()
	s.grid.Add(a.ID(), a.Position())
}

func (s *State) GetEnemy(id ecs.EntityID) *enemy.Agent {
	return s.enemies[id]
}

// RemoveEnemy deletes an enemy from the registry and the grid.
func (s *State) RemoveEnemy(id ecs.EntityID) *enemy.Agent {
	a, ok := s.enemies[id]
	if !ok {
		return nil
	}
	s.grid.Remove(id, s.placed[id])
	delete(s.placed, id)
	delete(s.enemies, id)
	for i, e := range s.list {
		if e.ID() == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			break
		}
	}
	return a
}

// SyncEnemy moves the enemy's grid entry to its current position.
func (s *State) SyncEnemy(a *enemy.Agent) {
	old, ok := s.placed[a.ID()]
	if !ok {
		return
	}
	s.grid.Move(a.ID(), old, a.Position())
	s.placed[a.ID()] = a.Position()
}

// EnemyList returns all enemies in spawn order for tick iteration.
func (s *State) EnemyList() []*enemy.Agent { return s.list }

func (s *State) EnemyCount() int { return len(s.list) }

// LiveEnemies returns every living enemy in spawn order.
func (s *State) LiveEnemies() []*enemy.Agent {
	out := make([]*enemy.Agent, 0, len(s.list))
	for _, a := range s.list {
		if a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// FindLiveEnemiesNear returns the living enemies within radius of p, nearest
// first.
func (s *State) FindLiveEnemiesNear(p geom.Vec, radius float64) []*enemy.Agent {
	if radius < 0 {
		return nil
	}
	s.buf = s.grid.Candidates(p, radius, s.buf)
	var out []*enemy.Agent
	r2 := radius * radius
	for _, id := range s.buf {
		a := s.enemies[id]
		if a == nil || !a.Alive() {
			continue
		}
		if a.Position().DistanceSq(p) <= r2 {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Position().DistanceSq(p), out[j].Position().DistanceSq(p)
		if di != dj {
			return di < dj
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}
