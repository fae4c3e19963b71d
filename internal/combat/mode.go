package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/phase"
)

// Mode owns the Combat phase.
type Mode struct {
	orch     *Orchestrator
	handler  *Handler
	director phase.Director
	log      *zap.Logger
}

func NewMode(orch *Orchestrator, handler *Handler, director phase.Director, log *zap.Logger) *Mode {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mode{orch: orch, handler: handler, director: director, log: log}
}

func (m *Mode) OnEnter() {
	if !m.orch.Active() {
		m.log.Warn("combat entered without a session")
		m.director.SetPhase(phase.Drawing)
	}
}

// OnUpdate lands the dash before the timer runs so a killing blow in the
// same tick as expiry counts as victory.
func (m *Mode) OnUpdate(dt time.Duration) {
	m.handler.Update(dt)
	m.orch.Tick(dt)
}

func (m *Mode) OnExit() {
	m.handler.Cancel()
	m.orch.Abandon()
}
