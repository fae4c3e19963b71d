package system

import (
	"time"

	"github.com/burrowstrike/core/internal/core/event"
	coresys "github.com/burrowstrike/core/internal/core/system"
)

// EventDispatchSystem delivers the notifications emitted during the previous
// tick. Stage 1 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Stage() coresys.Stage { return coresys.StagePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
