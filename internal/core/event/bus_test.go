package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversNextTickInEmissionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e PhaseChanged) { got = append(got, "phase:"+e.To) })
	Subscribe(b, func(e ChargesChanged) { got = append(got, "charges") })

	Emit(b, PhaseChanged{From: "drawing", To: "combat"})
	Emit(b, ChargesChanged{Remaining: 2})
	Emit(b, PhaseChanged{From: "combat", To: "win"})

	b.DispatchAll()
	assert.Empty(t, got, "events must wait for the buffer swap")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"phase:combat", "charges", "phase:win"}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Len(t, got, 3, "each event is delivered exactly once")
}

func TestBusMultipleSubscribers(t *testing.T) {
	b := NewBus()
	a, c := 0, 0
	Subscribe(b, func(ChargesChanged) { a++ })
	Subscribe(b, func(ChargesChanged) { c++ })

	Emit(b, ChargesChanged{Remaining: 1})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, c)
}

func TestBusUnsubscribeInsideHandler(t *testing.T) {
	b := NewBus()
	calls := 0
	var h Subscription
	h = Subscribe(b, func(ChargesChanged) {
		calls++
		b.Unsubscribe(h)
	})

	Emit(b, ChargesChanged{Remaining: 2})
	Emit(b, ChargesChanged{Remaining: 1})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 1, calls)
}

func TestBusEmitDuringDispatchLandsNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(e ChargesChanged) {
		got = append(got, e.Remaining)
		if e.Remaining > 0 {
			Emit(b, ChargesChanged{Remaining: e.Remaining - 1})
		}
	})

	Emit(b, ChargesChanged{Remaining: 1})
	b.SwapBuffers()
	b.DispatchAll()
	require.Equal(t, []int{1}, got)
	assert.Equal(t, 1, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{1, 0}, got)
}

func TestEmitOnNilBusIsDropped(t *testing.T) {
	assert.NotPanics(t, func() { Emit[ChargesChanged](nil, ChargesChanged{}) })
}
