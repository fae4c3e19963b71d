package phase

import (
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/event"
)

// Controller is the phase state machine. It also owns the input lock.
// Accessed only from the game loop goroutine. No locks.
type Controller struct {
	current Phase
	modes   [numPhases]Mode
	locked  bool
	started bool

	busy    bool    // inside a tick or a transition
	pending []Phase // requests made while busy, applied in order

	bus *event.Bus
	log *zap.Logger
}

func NewController(initial Phase, bus *event.Bus, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{current: initial, bus: bus, log: log}
}

// Register installs the owner of p. Phases without an owner are inert.
func (c *Controller) Register(p Phase, m Mode) {
	if p < 0 || p >= numPhases {
		return
	}
	c.modes[p] = m
}

// Start enters the initial phase. Subsequent calls are no-ops.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true
	c.busy = true
	if m := c.modes[c.current]; m != nil {
		m.OnEnter()
	}
	c.busy = false
	c.log.Info("phase started", zap.Stringer("phase", c.current))
	c.drain()
}

func (c *Controller) Phase() Phase { return c.current }

// SetPhase requests a transition. Requesting the current phase does nothing.
// Requests made from inside a tick or another transition are queued and
// applied once it returns.
func (c *Controller) SetPhase(next Phase) {
	if next < 0 || next >= numPhases {
		c.log.Warn("invalid phase requested", zap.Int("phase", int(next)))
		return
	}
	if c.busy {
		c.pending = append(c.pending, next)
		return
	}
	c.transition(next)
	c.drain()
}

// Tick forwards to the active owner.
func (c *Controller) Tick(dt time.Duration) {
	if !c.started {
		c.Start()
	}
	c.busy = true
	if m := c.modes[c.current]; m != nil {
		m.OnUpdate(dt)
	}
	c.busy = false
	c.drain()
}

func (c *Controller) transition(next Phase) {
	if next == c.current {
		return
	}
	prev := c.current
	c.busy = true
	if m := c.modes[prev]; m != nil {
		m.OnExit()
	}
	c.current = next
	if m := c.modes[next]; m != nil {
		m.OnEnter()
	}
	c.busy = false

	c.log.Info("phase changed", zap.Stringer("from", prev), zap.Stringer("to", next))
	event.Emit(c.bus, event.PhaseChanged{From: prev.String(), To: next.String()})
}

func (c *Controller) drain() {
	for len(c.pending) > 0 && !c.busy {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.transition(next)
	}
}

func (c *Controller) InputLocked() bool { return c.locked }

// SetInputLock sets the gesture gate and reports real changes.
func (c *Controller) SetInputLock(locked bool) {
	if c.locked == locked {
		return
	}
	c.locked = locked
	c.log.Debug("input lock", zap.Bool("locked", locked))
	event.Emit(c.bus, event.InputLockChanged{Locked: locked})
}
