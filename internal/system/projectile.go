package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/component"
	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/core/event"
	coresys "github.com/burrowstrike/core/internal/core/system"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/world"
)

// ProjectileConfig tunes enemy projectiles.
type ProjectileConfig struct {
	Lifetime  time.Duration
	HitRadius float64
	Bounds    geom.Bounds // projectiles leaving it are destroyed
}

// ProjectileSystem moves enemy projectiles and reports hits on the exposed
// player. Stage 3 (PostUpdate).
type ProjectileSystem struct {
	cfg         ProjectileConfig
	world       *ecs.World
	bodies      *ecs.Store[component.Body]
	projectiles *ecs.Store[component.Projectile]
	player      *world.Player
	bus         *event.Bus
	log         *zap.Logger
}

func NewProjectileSystem(cfg ProjectileConfig, w *ecs.World, player *world.Player, bus *event.Bus, log *zap.Logger) *ProjectileSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ProjectileSystem{
		cfg:         cfg,
		world:       w,
		bodies:      ecs.NewStore[component.Body](),
		projectiles: ecs.NewStore[component.Projectile](),
		player:      player,
		bus:         bus,
		log:         log,
	}
	w.Registry().Register(s.bodies)
	w.Registry().Register(s.projectiles)
	return s
}

func (s *ProjectileSystem) Stage() coresys.Stage { return coresys.StagePostUpdate }

// Count returns the number of projectiles in flight, including ones queued
// for destruction this tick.
func (s *ProjectileSystem) Count() int { return s.projectiles.Len() }

// SpawnProjectile creates a projectile owned by an enemy.
func (s *ProjectileSystem) SpawnProjectile(owner ecs.EntityID, from, velocity geom.Vec) {
	id := s.world.CreateEntity()
	s.bodies.Set(id, &component.Body{Pos: from, Vel: velocity})
	s.projectiles.Set(id, &component.Projectile{Owner: owner, Life: s.cfg.Lifetime})
	s.log.Debug("projectile spawned",
		zap.Uint64("id", uint64(id)),
		zap.Uint64("owner", uint64(owner)),
	)
}

func (s *ProjectileSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	ecs.Each2(s.bodies, s.projectiles, func(id ecs.EntityID, b *component.Body, p *component.Projectile) {
		b.Pos = b.Pos.Add(b.Vel.Mult(secs))
		p.Life -= dt
		if p.Life <= 0 || !s.cfg.Bounds.Contains(b.Pos) {
			s.world.MarkForDestruction(id)
			return
		}
		if s.player == nil || s.player.Underground() {
			return
		}
		if b.Pos.Distance(s.player.Position()) <= s.cfg.HitRadius {
			s.log.Info("projectile hit player",
				zap.Uint64("id", uint64(id)),
				zap.Uint64("owner", uint64(p.Owner)),
			)
			event.Emit(s.bus, event.ProjectileHit{ProjectileID: id, OwnerID: p.Owner, Position: b.Pos})
			s.world.MarkForDestruction(id)
		}
	})
}
