package enemy

import "time"

// AttackType selects the attack behavior built for a template.
type AttackType string

const (
	AttackMelee   AttackType = "melee"
	AttackRanged  AttackType = "ranged"
	AttackAoE     AttackType = "aoe"
	AttackSuicide AttackType = "suicide_bomber"
)

// Template is the immutable tuning shared by every agent of one kind.
type Template struct {
	ID              int32
	Name            string
	AttackType      AttackType
	MaxHealth       int
	Countdown       time.Duration
	Score           int
	ProjectileSpeed float64
	Script          string // Lua function for scripted attacks
	HitFlash        time.Duration
	Patrol          PatrolTemplate
}

// PatrolTemplate configures the idle/patrol wander. Left and Right are offsets
// from the spawn x.
type PatrolTemplate struct {
	Enabled   bool
	Speed     float64
	Left      float64
	Right     float64
	IdleMin   time.Duration
	IdleMax   time.Duration
	PatrolMin time.Duration
	PatrolMax time.Duration
}

// ScriptFunc returns the Lua entry point for scripted attack types.
func (t *Template) ScriptFunc() string {
	if t.Script != "" {
		return t.Script
	}
	switch t.AttackType {
	case AttackAoE:
		return "aoe_attack"
	case AttackSuicide:
		return "suicide_attack"
	}
	return ""
}
