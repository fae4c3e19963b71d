package system

import "time"

// Stage defines execution ordering within a single tick.
type Stage int

const (
	StageInput      Stage = iota // 0: drain gesture queue, apply input lock
	StagePreUpdate               // 1: deliver last tick's notifications
	StageUpdate                  // 2: enemies, then the active phase mode
	StagePostUpdate              // 3: projectiles
	StageCleanup                 // 4: destroy queued entities
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StagePreUpdate:
		return "pre-update"
	case StageUpdate:
		return "update"
	case StagePostUpdate:
		return "post-update"
	case StageCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Stage() Stage
	Update(dt time.Duration)
}
