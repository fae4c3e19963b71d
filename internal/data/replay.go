package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/burrowstrike/core/internal/geom"
)

// GestureKind is the kind of a recorded pointer event.
type GestureKind string

const (
	GestureStart GestureKind = "start"
	GestureDrag  GestureKind = "drag"
	GestureEnd   GestureKind = "end"
)

// Gesture is one recorded pointer event in screen space.
type Gesture struct {
	Tick uint64      `yaml:"tick"`
	Kind GestureKind `yaml:"kind"`
	X    float64     `yaml:"x"`
	Y    float64     `yaml:"y"`
}

// Screen returns the gesture position in screen pixels.
func (g Gesture) Screen() geom.Vec { return geom.V(g.X, g.Y) }

type replayFile struct {
	Gestures []Gesture `yaml:"gestures"`
}

// Replay feeds recorded gestures to the input system tick by tick.
type Replay struct {
	gestures []Gesture
	next     int
}

// LoadReplay loads a gesture script from a YAML file. Gestures are ordered by
// tick, keeping file order within a tick.
func LoadReplay(path string) (*Replay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	var f replayFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	for i, g := range f.Gestures {
		switch g.Kind {
		case GestureStart, GestureDrag, GestureEnd:
		default:
			return nil, fmt.Errorf("replay gesture %d: unknown kind %q", i, g.Kind)
		}
	}
	return NewReplay(f.Gestures), nil
}

func NewReplay(gestures []Gesture) *Replay {
	gs := make([]Gesture, len(gestures))
	copy(gs, gestures)
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Tick < gs[j].Tick })
	return &Replay{gestures: gs}
}

// Drain returns every gesture scheduled at or before tick that has not been
// returned yet.
func (r *Replay) Drain(tick uint64) []Gesture {
	start := r.next
	for r.next < len(r.gestures) && r.gestures[r.next].Tick <= tick {
		r.next++
	}
	return r.gestures[start:r.next]
}

// Done reports whether every gesture has been drained.
func (r *Replay) Done() bool { return r.next >= len(r.gestures) }

// Len returns the total number of gestures.
func (r *Replay) Len() int { return len(r.gestures) }
