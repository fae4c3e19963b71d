// Package enemy implements the per-enemy agent: health, attack countdown and
// the idle/patrol/attack/dead behavior state machine.
package enemy

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/core/event"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/present"
)

// State is the behavior state of an agent.
type State int

const (
	StateIdle State = iota
	StatePatrolling
	StateAttacking
	StateDead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePatrolling:
		return "patrolling"
	case StateAttacking:
		return "attacking"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

const defaultHitFlash = 100 * time.Millisecond

// Target is the tracked external actor. Exposed is true while it is above
// ground and fair game; agents aim at an exposed target instead of patrolling.
type Target struct {
	Position geom.Vec
	Exposed  bool
}

// Deps are the collaborators handed to NewAgent.
type Deps struct {
	Animator present.Animator
	Feedback present.Feedback
	Behavior Behavior
	Rand     *rand.Rand
	Log      *zap.Logger
}

// Agent is a single enemy. Accessed only from the game loop goroutine.
type Agent struct {
	id   ecs.EntityID
	tmpl *Template

	health int
	state  State

	pos    geom.Vec
	spawn  geom.Vec
	facing float64 // +1 right, -1 left

	countdown       time.Duration
	countdownActive bool

	stateTimer time.Duration
	flashLeft  time.Duration

	behavior Behavior
	anim     present.Animator
	feedback present.Feedback
	rng      *rand.Rand
	log      *zap.Logger

	killed      event.Signal[*Agent]
	attackFired event.Signal[*Agent]
}

func NewAgent(id ecs.EntityID, tmpl *Template, pos geom.Vec, deps Deps) *Agent {
	a := &Agent{
		id:        id,
		tmpl:      tmpl,
		health:    tmpl.MaxHealth,
		pos:       pos,
		spawn:     pos,
		facing:    1,
		countdown: tmpl.Countdown,
		behavior:  deps.Behavior,
		anim:      deps.Animator,
		feedback:  deps.Feedback,
		rng:       deps.Rand,
		log:       deps.Log,
	}
	if a.behavior == nil {
		a.behavior = MeleeAttack{}
	}
	if a.anim == nil {
		a.anim = present.NopAnimator{}
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(int64(id)))
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	a.stateTimer = a.randBetween(tmpl.Patrol.IdleMin, tmpl.Patrol.IdleMax)
	return a
}

func (a *Agent) ID() ecs.EntityID         { return a.id }
func (a *Agent) Template() *Template      { return a.tmpl }
func (a *Agent) Health() int              { return max(a.health, 0) }
func (a *Agent) MaxHealth() int           { return a.tmpl.MaxHealth }
func (a *Agent) State() State             { return a.state }
func (a *Agent) Alive() bool              { return a.state != StateDead }
func (a *Agent) Position() geom.Vec       { return a.pos }
func (a *Agent) Facing() float64          { return a.facing }
func (a *Agent) Flashing() bool           { return a.flashLeft > 0 }
func (a *Agent) CountdownActive() bool    { return a.countdownActive }
func (a *Agent) Remaining() time.Duration { return a.countdown }

// Killed fires exactly once per life, after the agent enters Dead.
func (a *Agent) Killed() *event.Signal[*Agent] { return &a.killed }

// AttackFired fires when the countdown runs out. It is the only attack signal.
func (a *Agent) AttackFired() *event.Signal[*Agent] { return &a.attackFired }

// SetPosition teleports the agent; spawn-relative patrol bounds are unchanged.
func (a *Agent) SetPosition(p geom.Vec) { a.pos = p }

// TakeDamage applies a hit. Non-positive amounts and hits on a dead agent are
// ignored. Returns whether the hit landed.
func (a *Agent) TakeDamage(amount int) bool {
	if amount <= 0 || a.state == StateDead {
		return false
	}
	a.health -= amount
	a.flashLeft = a.tmpl.HitFlash
	if a.flashLeft <= 0 {
		a.flashLeft = defaultHitFlash
	}
	a.play("hit")
	if a.health <= 0 {
		a.die()
	}
	return true
}

func (a *Agent) die() {
	a.health = 0
	a.state = StateDead
	a.countdownActive = false
	a.flashLeft = 0
	a.play("die")
	if a.feedback != nil {
		a.feedback.OnEnemyKilled(a.pos, a.tmpl.Score)
	}
	a.log.Debug("enemy died", zap.Uint64("id", uint64(a.id)), zap.String("name", a.tmpl.Name))
	a.killed.Emit(a)
}

// StartCountdown arms a full countdown and starts it.
func (a *Agent) StartCountdown() {
	if a.state == StateDead {
		return
	}
	a.countdown = a.tmpl.Countdown
	a.countdownActive = a.countdown > 0
}

func (a *Agent) PauseCountdown() {
	a.countdownActive = false
}

// ResumeCountdown restarts a paused countdown that still has time left.
func (a *Agent) ResumeCountdown() {
	if a.state == StateDead || a.countdown <= 0 {
		return
	}
	a.countdownActive = true
}

// Revive brings a dead agent back at its spawn point with full health and an
// armed but inactive countdown.
func (a *Agent) Revive() {
	if a.state != StateDead {
		return
	}
	a.health = a.tmpl.MaxHealth
	a.state = StateIdle
	a.pos = a.spawn
	a.countdown = a.tmpl.Countdown
	a.countdownActive = false
	a.stateTimer = a.randBetween(a.tmpl.Patrol.IdleMin, a.tmpl.Patrol.IdleMax)
	a.play("idle")
}

// Retune swaps the template after a data reload. Health and countdown pick up
// the new values on the next Revive or StartCountdown. A nil behavior keeps
// the current one.
func (a *Agent) Retune(t *Template, b Behavior) {
	a.tmpl = t
	if b != nil {
		a.behavior = b
	}
	if a.health > t.MaxHealth {
		a.health = t.MaxHealth
	}
}

// Update advances the countdown, the hit flash and the behavior state machine.
// target may be nil when nothing is tracked.
func (a *Agent) Update(dt time.Duration, target *Target) {
	if a.state == StateDead {
		return
	}
	if a.flashLeft > 0 {
		a.flashLeft -= dt
		if a.flashLeft < 0 {
			a.flashLeft = 0
		}
	}

	if a.countdownActive {
		a.countdown -= dt
		if a.countdown <= 0 {
			a.countdown = 0
			a.countdownActive = false
			a.state = StateAttacking
			a.attackFired.Emit(a)
			if a.state == StateDead {
				return
			}
		}
	}

	switch {
	case a.state == StateAttacking:
		a.behavior.Attack(a, target)
		if a.state == StateDead {
			return
		}
		a.enterIdle()
	case target != nil && target.Exposed:
		a.aim(target.Position)
	default:
		a.wander(dt)
	}
}

func (a *Agent) aim(p geom.Vec) {
	if p.X > a.pos.X {
		a.facing = 1
	} else if p.X < a.pos.X {
		a.facing = -1
	}
	if a.state == StatePatrolling {
		a.enterIdle()
	}
}

func (a *Agent) wander(dt time.Duration) {
	pt := a.tmpl.Patrol
	if !pt.Enabled {
		a.state = StateIdle
		return
	}
	a.stateTimer -= dt
	if a.state == StatePatrolling {
		a.patrolStep(dt)
	}
	if a.stateTimer > 0 {
		return
	}
	if a.state == StatePatrolling {
		a.enterIdle()
		return
	}
	a.state = StatePatrolling
	a.stateTimer = a.randBetween(pt.PatrolMin, pt.PatrolMax)
	a.play("walk")
}

func (a *Agent) patrolStep(dt time.Duration) {
	pt := a.tmpl.Patrol
	left, right := a.spawn.X+pt.Left, a.spawn.X+pt.Right
	a.pos.X += a.facing * pt.Speed * dt.Seconds()
	if a.pos.X >= right {
		a.pos.X = right
		a.facing = -1
	} else if a.pos.X <= left {
		a.pos.X = left
		a.facing = 1
	}
}

func (a *Agent) enterIdle() {
	a.state = StateIdle
	a.stateTimer = a.randBetween(a.tmpl.Patrol.IdleMin, a.tmpl.Patrol.IdleMax)
	a.play("idle")
}

func (a *Agent) randBetween(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(a.rng.Int63n(int64(hi-lo)))
}

func (a *Agent) play(name string) {
	if name == "" {
		return
	}
	a.anim.PlayAnimation(a.id, name)
}
