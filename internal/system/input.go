package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/burrowstrike/core/internal/core/system"
	"github.com/burrowstrike/core/internal/data"
	"github.com/burrowstrike/core/internal/geom"
	"github.com/burrowstrike/core/internal/phase"
	"github.com/burrowstrike/core/internal/present"
)

// GestureSource yields the gestures scheduled up to a tick.
type GestureSource interface {
	Drain(tick uint64) []data.Gesture
}

// PressHandler receives press gestures in world space.
type PressHandler interface {
	GesturePressStarted(pos geom.Vec)
	GesturePressEnded(pos geom.Vec)
}

// DragHandler receives drag gestures. Optional.
type DragHandler interface {
	GestureDragged(pos geom.Vec)
}

// InputSystem drains the gesture source, projects each gesture into world
// space and routes it to the handler of the active phase. Gestures arriving
// while the input lock is held are dropped. Stage 0 (Input).
type InputSystem struct {
	source    GestureSource
	projector present.Projector
	director  phase.Director
	handlers  map[phase.Phase]PressHandler
	tick      uint64
	dropped   int
	log       *zap.Logger
}

func NewInputSystem(source GestureSource, projector present.Projector, director phase.Director, log *zap.Logger) *InputSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &InputSystem{
		source:    source,
		projector: projector,
		director:  director,
		handlers:  make(map[phase.Phase]PressHandler),
		log:       log,
	}
}

// Route installs the gesture handler for a phase.
func (s *InputSystem) Route(p phase.Phase, h PressHandler) {
	s.handlers[p] = h
}

// Dropped returns how many gestures were discarded under the input lock.
func (s *InputSystem) Dropped() int { return s.dropped }

func (s *InputSystem) Stage() coresys.Stage { return coresys.StageInput }

func (s *InputSystem) Update(_ time.Duration) {
	tick := s.tick
	s.tick++
	if s.source == nil {
		return
	}
	for _, g := range s.source.Drain(tick) {
		if s.director.InputLocked() {
			s.dropped++
			s.log.Debug("gesture dropped, input locked",
				zap.Uint64("tick", tick),
				zap.String("kind", string(g.Kind)),
			)
			continue
		}
		h := s.handlers[s.director.Phase()]
		if h == nil {
			continue
		}
		pos := g.Screen()
		if s.projector != nil {
			pos = s.projector.ScreenToWorld(pos)
		}
		switch g.Kind {
		case data.GestureStart:
			h.GesturePressStarted(pos)
		case data.GestureDrag:
			if d, ok := h.(DragHandler); ok {
				d.GestureDragged(pos)
			}
		case data.GestureEnd:
			h.GesturePressEnded(pos)
		}
	}
}
