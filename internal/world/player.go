package world

import (
	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/enemy"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/present"
)

// Animation is the player's coarse animation state. Anything other than
// AnimNone means the player is mid-action.
type Animation int

const (
	AnimNone Animation = iota
	AnimTraveling
	AnimBursting
	AnimHovering
	AnimAttacking
)

func (a Animation) String() string {
	switch a {
	case AnimNone:
		return "none"
	case AnimTraveling:
		return "traveling"
	case AnimBursting:
		return "bursting"
	case AnimHovering:
		return "hovering"
	case AnimAttacking:
		return "attacking"
	}
	return "unknown"
}

// Player is the burrowing mover shared by the drawing, navigation and combat
// modes.
type Player struct {
	id       ecs.EntityID
	pos      geom.Vec
	heading  float64
	anim     Animation
	ground   float64
	animator present.Animator
}

func NewPlayer(id ecs.EntityID, pos geom.Vec, ground float64, animator present.Animator) *Player {
	if animator == nil {
		animator = present.NopAnimator{}
	}
	return &Player{id: id, pos: pos, ground: ground, animator: animator}
}

func (p *Player) ID() ecs.EntityID       { return p.id }
func (p *Player) Position() geom.Vec     { return p.pos }
func (p *Player) SetPosition(v geom.Vec) { p.pos = v }
func (p *Player) Heading() float64       { return p.heading }
func (p *Player) Ground() float64        { return p.ground }
func (p *Player) Animation() Animation   { return p.anim }

// Underground reports whether the player is below the ground level.
func (p *Player) Underground() bool { return p.pos.Y < p.ground }

// Animating reports whether any player animation is in progress.
func (p *Player) Animating() bool { return p.anim != AnimNone }

// Face turns the player toward dir. A zero vector keeps the heading.
func (p *Player) Face(dir geom.Vec) {
	if dir.LengthSq() == 0 {
		return
	}
	p.heading = geom.HeadingDeg(dir)
}

// SetAnimation switches the animation state and triggers playback on change.
func (p *Player) SetAnimation(a Animation) {
	if p.anim == a {
		return
	}
	p.anim = a
	p.animator.PlayAnimation(p.id, a.String())
}

// Target exposes the player to enemy aiming while above ground.
func (p *Player) Target() *enemy.Target {
	return &enemy.Target{Position: p.pos, Exposed: !p.Underground()}
}
