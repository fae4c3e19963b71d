// Package combat runs combat sessions: the charge pool, the session timer and
// the enemy countdowns that race against the player's dashes.
package combat

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/event"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/phase"
)

// Outcome is how a session ended.
type Outcome int

const (
	OutcomeVictory Outcome = iota
	OutcomeChargesDepleted
	OutcomeTimeout
	OutcomeDefeat    // an enemy countdown fired
	OutcomeAbandoned // the phase left Combat first
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeChargesDepleted:
		return "charges_depleted"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Config tunes sessions.
type Config struct {
	Charges      int           // used when StartCombat gets no positive count
	Duration     time.Duration // session timer
	Warning      time.Duration // TimerTicked.Warning below this
	TimeoutPhase phase.Phase   // where a timeout sends the game
}

type registration struct {
	agent  *enemy.Agent
	killed event.Subscription
	fired  event.Subscription
}

// Orchestrator owns the combat session. Accessed only from the game loop
// goroutine. No locks.
type Orchestrator struct {
	cfg      Config
	director phase.Director
	bus      *event.Bus
	log      *zap.Logger

	active      bool
	sessionID   string
	charges     int
	remaining   time.Duration
	lastSeconds int
	lastWarning bool
	regs        []registration
	live        []*enemy.Agent
}

func NewOrchestrator(cfg Config, director phase.Director, bus *event.Bus, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{cfg: cfg, director: director, bus: bus, log: log}
}

func (o *Orchestrator) Active() bool                 { return o.active }
func (o *Orchestrator) SessionID() string            { return o.sessionID }
func (o *Orchestrator) ChargesRemaining() int        { return o.charges }
func (o *Orchestrator) TimeRemaining() time.Duration { return o.remaining }

// LiveEnemies returns a copy of the session's live set.
func (o *Orchestrator) LiveEnemies() []*enemy.Agent {
	out := make([]*enemy.Agent, len(o.live))
	copy(out, o.live)
	return out
}

// StartCombat opens a session against the live members of enemies and
// requests the Combat phase. It refuses while a session is active or when no
// enemy is alive.
func (o *Orchestrator) StartCombat(enemies []*enemy.Agent, charges int) bool {
	if o.active {
		o.log.Warn("combat already active", zap.String("session", o.sessionID))
		return false
	}
	live := make([]*enemy.Agent, 0, len(enemies))
	seen := make(map[*enemy.Agent]struct{}, len(enemies))
	for _, a := range enemies {
		if a == nil || !a.Alive() {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		live = append(live, a)
	}
	if len(live) == 0 {
		o.log.Warn("no live enemies, combat not started")
		return false
	}
	if charges <= 0 {
		charges = o.cfg.Charges
	}

	o.active = true
	o.sessionID = uuid.NewString()
	o.charges = charges
	o.remaining = o.cfg.Duration
	o.live = live
	o.regs = o.regs[:0]
	for _, a := range live {
		o.regs = append(o.regs, registration{
			agent:  a,
			killed: a.Killed().Subscribe(o.onKilled),
			fired:  a.AttackFired().Subscribe(o.onAttackFired),
		})
	}
	for _, a := range live {
		a.StartCountdown()
	}

	o.log.Info("combat started",
		zap.String("session", o.sessionID),
		zap.Int("enemies", len(live)),
		zap.Int("charges", charges),
		zap.Duration("duration", o.remaining),
	)
	event.Emit(o.bus, event.CombatStarted{
		SessionID: o.sessionID,
		Enemies:   len(live),
		Charges:   charges,
		Duration:  o.remaining,
	})
	event.Emit(o.bus, event.ChargesChanged{Remaining: charges})
	o.emitTimer(true)
	o.director.SetPhase(phase.Combat)
	return true
}

// UseCharge spends one charge. Running out ends the session without victory.
func (o *Orchestrator) UseCharge() {
	if !o.active {
		return
	}
	if o.charges > 0 {
		o.charges--
	}
	event.Emit(o.bus, event.ChargesChanged{Remaining: o.charges})
	if o.charges <= 0 {
		o.EndCombat(OutcomeChargesDepleted)
	}
}

// Tick runs the session timer.
func (o *Orchestrator) Tick(dt time.Duration) {
	if !o.active {
		return
	}
	o.remaining -= dt
	if o.remaining < 0 {
		o.remaining = 0
	}
	o.emitTimer(false)
	if o.remaining == 0 {
		o.EndCombat(OutcomeTimeout)
	}
}

// emitTimer reports the timer when the displayed second or the warning flag
// changes.
func (o *Orchestrator) emitTimer(force bool) {
	secs := int(math.Ceil(o.remaining.Seconds()))
	warn := o.remaining > 0 && o.remaining <= o.cfg.Warning
	if !force && secs == o.lastSeconds && warn == o.lastWarning {
		return
	}
	o.lastSeconds, o.lastWarning = secs, warn
	event.Emit(o.bus, event.TimerTicked{Remaining: o.remaining, Seconds: secs, Warning: warn})
}

func (o *Orchestrator) PauseAllCountdowns() {
	for _, a := range o.live {
		a.PauseCountdown()
	}
}

func (o *Orchestrator) ResumeAllCountdowns() {
	for _, a := range o.live {
		a.ResumeCountdown()
	}
}

func (o *Orchestrator) onKilled(a *enemy.Agent) {
	if !o.active {
		return
	}
	for i, e := range o.live {
		if e == a {
			o.live = append(o.live[:i], o.live[i+1:]...)
			break
		}
	}
	o.log.Debug("session enemy killed", zap.Uint64("id", uint64(a.ID())), zap.Int("left", len(o.live)))
	if len(o.live) == 0 {
		o.EndCombat(OutcomeVictory)
	}
}

func (o *Orchestrator) onAttackFired(a *enemy.Agent) {
	if !o.active {
		return
	}
	o.log.Info("enemy attack landed", zap.Uint64("id", uint64(a.ID())))
	o.EndCombat(OutcomeDefeat)
}

// Destination returns the phase an outcome leads to. Abandoned sessions
// request nothing.
func (o *Orchestrator) Destination(out Outcome) (phase.Phase, bool) {
	switch out {
	case OutcomeVictory:
		return phase.Win, true
	case OutcomeChargesDepleted:
		return phase.Drawing, true
	case OutcomeTimeout:
		return o.cfg.TimeoutPhase, true
	case OutcomeDefeat:
		return phase.Idle, true
	}
	return phase.Idle, false
}

// EndCombat closes the active session and requests exactly one phase. Calling
// it without an active session does nothing.
func (o *Orchestrator) EndCombat(out Outcome) {
	if !o.active {
		return
	}
	o.active = false

	for _, r := range o.regs {
		r.agent.Killed().Unsubscribe(r.killed)
		r.agent.AttackFired().Unsubscribe(r.fired)
	}
	o.regs = o.regs[:0]
	for _, a := range o.live {
		a.PauseCountdown()
	}
	o.live = nil

	next, request := o.Destination(out)
	ended := event.CombatEnded{SessionID: o.sessionID, Outcome: out.String()}
	if request {
		ended.Next = next.String()
	}
	o.log.Info("combat ended",
		zap.String("session", o.sessionID),
		zap.Stringer("outcome", out),
		zap.Int("charges", o.charges),
		zap.Duration("remaining", o.remaining),
	)
	event.Emit(o.bus, ended)
	if request {
		o.director.SetPhase(next)
	}
}

// Abandon ends the session without a phase request, for when the phase is
// already leaving Combat.
func (o *Orchestrator) Abandon() {
	o.EndCombat(OutcomeAbandoned)
}
