package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/ecs"
	coresys "github.com/burrowstrike/core/internal/core/system"
)

// CleanupSystem flushes the deferred destruction queue at tick end, removing
// expired projectiles and despawned enemies from every registered store.
// Stage 4 (Cleanup).
type CleanupSystem struct {
	world     *ecs.World
	destroyed int
	log       *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Stage() coresys.Stage { return coresys.StageCleanup }

// Destroyed returns the total number of entities destroyed so far.
func (s *CleanupSystem) Destroyed() int { return s.destroyed }

func (s *CleanupSystem) Update(_ time.Duration) {
	n, cleared := s.world.FlushDestroyQueue()
	if n == 0 {
		return
	}
	s.destroyed += n
	s.log.Debug("entities destroyed",
		zap.Int("count", n),
		zap.Int("components", cleared),
		zap.Int("total", s.destroyed),
	)
}
