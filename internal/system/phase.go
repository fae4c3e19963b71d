package system

import (
	"time"

	coresys "github.com/burrowstrike/core/internal/core/system"
	"github.com/burrowstrike/core/internal/phase"
)

// PhaseSystem ticks the phase controller, which forwards to the active mode.
// Stage 2 (Update), registered after EnemySystem.
type PhaseSystem struct {
	ctrl *phase.Controller
}

func NewPhaseSystem(ctrl *phase.Controller) *PhaseSystem {
	return &PhaseSystem{ctrl: ctrl}
}

func (s *PhaseSystem) Stage() coresys.Stage { return coresys.StageUpdate }

func (s *PhaseSystem) Update(dt time.Duration) {
	s.ctrl.Tick(dt)
}
