// Package present holds the presentation collaborators the core drives but
// never reads back from: animation playback, kill feedback and screen→world
// projection.
package present

import (
	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/geom"
)

// Animator plays a named animation on an entity. Fire-and-forget.
type Animator interface {
	PlayAnimation(entity ecs.EntityID, name string)
}

// Feedback receives score notifications when an enemy dies.
type Feedback interface {
	OnEnemyKilled(pos geom.Vec, score int)
}

// Projector converts screen-space positions into world space.
type Projector interface {
	ScreenToWorld(screen geom.Vec) geom.Vec
}

// LogAnimator writes animation triggers to the debug log.
type LogAnimator struct {
	Log *zap.Logger
}

func (a LogAnimator) PlayAnimation(entity ecs.EntityID, name string) {
	if a.Log == nil {
		return
	}
	a.Log.Debug("play animation",
		zap.Uint64("entity", uint64(entity)),
		zap.String("anim", name),
	)
}

// ScoreBoard accumulates kill scores and logs each kill.
type ScoreBoard struct {
	Log   *zap.Logger
	total int
	kills int
}

func (s *ScoreBoard) OnEnemyKilled(pos geom.Vec, score int) {
	s.total += score
	s.kills++
	if s.Log != nil {
		s.Log.Info("enemy killed",
			zap.Float64("x", pos.X),
			zap.Float64("y", pos.Y),
			zap.Int("score", score),
			zap.Int("total", s.total),
		)
	}
}

// Total returns the accumulated score.
func (s *ScoreBoard) Total() int { return s.total }

// Kills returns how many kills were reported.
func (s *ScoreBoard) Kills() int { return s.kills }

// NopAnimator discards animation triggers.
type NopAnimator struct{}

func (NopAnimator) PlayAnimation(ecs.EntityID, string) {}
