package enemy

import (
	"go.uber.org/zap"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/geom"
)

// Behavior performs an agent's attack effect once its countdown fires.
type Behavior interface {
	Attack(a *Agent, target *Target)
}

// ProjectileSpawner creates a projectile owned by an enemy.
type ProjectileSpawner interface {
	SpawnProjectile(owner ecs.EntityID, from, velocity geom.Vec)
}

// ScriptRunner runs a named attack script and returns the commands it issued.
type ScriptRunner interface {
	RunAttack(fn string, ctx AttackContext) ([]Command, error)
}

// AttackContext is the read-only view handed to attack scripts.
type AttackContext struct {
	EnemyID   ecs.EntityID
	Position  geom.Vec
	Health    int
	MaxHealth int
	HasTarget bool
	Target    geom.Vec
}

// CommandKind identifies what a scripted attack asked for.
type CommandKind string

const (
	CmdAnimation    CommandKind = "animation"
	CmdProjectile   CommandKind = "projectile"
	CmdSelfDestruct CommandKind = "self_destruct"
	CmdIdle         CommandKind = "idle"
)

// Command is one effect requested by an attack script.
type Command struct {
	Kind     CommandKind
	Anim     string
	Velocity geom.Vec
}

// MeleeAttack plays the attack animation and nothing else.
type MeleeAttack struct{}

func (MeleeAttack) Attack(a *Agent, _ *Target) {
	a.play("attack")
}

// RangedAttack fires a projectile toward the target, or along the facing
// direction when there is none.
type RangedAttack struct {
	Spawner ProjectileSpawner
	Speed   float64
}

func (r RangedAttack) Attack(a *Agent, target *Target) {
	a.play("attack")
	if r.Spawner == nil {
		return
	}
	dir := geom.V(a.facing, 0)
	if target != nil {
		if d := target.Position.Sub(a.pos); d.LengthSq() > 0 {
			dir = d.Normalize()
		}
	}
	speed := r.Speed
	if speed <= 0 {
		speed = a.tmpl.ProjectileSpeed
	}
	r.Spawner.SpawnProjectile(a.id, a.pos, dir.Mult(speed))
}

// ScriptedAttack delegates the effect to a Lua function.
type ScriptedAttack struct {
	Runner  ScriptRunner
	Fn      string
	Spawner ProjectileSpawner
	Log     *zap.Logger
}

func (s ScriptedAttack) Attack(a *Agent, target *Target) {
	if s.Runner == nil {
		a.play("attack")
		return
	}
	ctx := AttackContext{
		EnemyID:   a.id,
		Position:  a.pos,
		Health:    a.health,
		MaxHealth: a.tmpl.MaxHealth,
	}
	if target != nil {
		ctx.HasTarget = true
		ctx.Target = target.Position
	}
	cmds, err := s.Runner.RunAttack(s.Fn, ctx)
	if err != nil {
		if s.Log != nil {
			s.Log.Warn("attack script failed", zap.String("fn", s.Fn), zap.Error(err))
		}
		a.play("attack")
		return
	}
	for _, c := range cmds {
		switch c.Kind {
		case CmdAnimation:
			a.play(c.Anim)
		case CmdProjectile:
			if s.Spawner != nil {
				s.Spawner.SpawnProjectile(a.id, a.pos, c.Velocity)
			}
		case CmdSelfDestruct:
			a.TakeDamage(a.health)
		case CmdIdle:
			a.play("idle")
		}
	}
}

// BehaviorFactory builds the attack behavior for a template.
type BehaviorFactory struct {
	Spawner ProjectileSpawner
	Scripts ScriptRunner
	Log     *zap.Logger
}

func (f BehaviorFactory) For(t *Template) Behavior {
	switch t.AttackType {
	case AttackRanged:
		return RangedAttack{Spawner: f.Spawner, Speed: t.ProjectileSpeed}
	case AttackAoE, AttackSuicide:
		return ScriptedAttack{Runner: f.Scripts, Fn: t.ScriptFunc(), Spawner: f.Spawner, Log: f.Log}
	default:
		return MeleeAttack{}
	}
}
