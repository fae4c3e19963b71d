// Package phase sequences the top-level gameplay modes. Exactly one phase is
// active; its Mode receives enter/update/exit calls from the Controller.
package phase

import (
	"fmt"
	"strings"
	"time"
)

// Phase is a top-level gameplay mode.
type Phase int

const (
	Idle Phase = iota
	Drawing
	Navigating
	Combat
	Win

	numPhases
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Navigating:
		return "navigating"
	case Combat:
		return "combat"
	case Win:
		return "win"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Parse converts a configured phase name.
func Parse(s string) (Phase, error) {
	for p := Idle; p < numPhases; p++ {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return Idle, fmt.Errorf("unknown phase %q", s)
}

// Mode is the owner of one phase.
type Mode interface {
	OnEnter()
	OnUpdate(dt time.Duration)
	OnExit()
}

// Director is the narrow view of the Controller handed to mode owners.
type Director interface {
	SetPhase(next Phase)
	Phase() Phase
	SetInputLock(locked bool)
	InputLocked() bool
}
