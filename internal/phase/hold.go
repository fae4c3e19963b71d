package phase

import (
	"time"

	"go.uber.org/zap"
)

// HoldMode owns a resting phase (Idle, Win). Input is locked while it is
// active. After Recover elapses it requests Next; a zero Recover holds forever.
type HoldMode struct {
	Director Director
	Name     string
	Recover  time.Duration
	Next     Phase
	// OnExpire runs right before the recovery request, e.g. to revive enemies.
	OnExpire func()
	Log      *zap.Logger

	elapsed time.Duration
	fired   bool
}

func (h *HoldMode) OnEnter() {
	h.elapsed = 0
	h.fired = false
	h.Director.SetInputLock(true)
	if h.Log != nil {
		h.Log.Info("holding", zap.String("mode", h.Name), zap.Duration("recover", h.Recover))
	}
}

func (h *HoldMode) OnUpdate(dt time.Duration) {
	if h.Recover <= 0 || h.fired {
		return
	}
	h.elapsed += dt
	if h.elapsed < h.Recover {
		return
	}
	h.fired = true
	if h.OnExpire != nil {
		h.OnExpire()
	}
	h.Director.SetPhase(h.Next)
}

func (h *HoldMode) OnExit() {
	h.Director.SetInputLock(false)
}

// Elapsed returns how long the mode has been held.
func (h *HoldMode) Elapsed() time.Duration { return h.elapsed }
