package event

import (
	"time"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/geom"
)

// Outbound notifications. Phase and outcome values are carried as strings so
// observers need not import the packages that own them.

type PhaseChanged struct {
	From string
	To   string
}

type InputLockChanged struct {
	Locked bool
}

type ChargesChanged struct {
	Remaining int
}

type TimerTicked struct {
	Remaining time.Duration
	Seconds   int  // whole seconds shown on the HUD (rounded up)
	Warning   bool // remaining below the configured warning threshold
}

type CombatStarted struct {
	SessionID string
	Enemies   int
	Charges   int
	Duration  time.Duration
}

type CombatEnded struct {
	SessionID string
	Outcome   string
	Next      string // requested phase; empty when the phase was already leaving Combat
}

type EnemyKilled struct {
	EnemyID  ecs.EntityID
	Position geom.Vec
	Score    int
}

type EnemyAttackFired struct {
	EnemyID  ecs.EntityID
	Position geom.Vec
}

type BurstStarted struct {
	Depth  float64
	Height float64
}

type TunnelPreview struct {
	Depth    float64
	Distance float64
}

type ProjectileHit struct {
	ProjectileID ecs.EntityID
	OwnerID      ecs.EntityID
	Position     geom.Vec
}
