package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalDeliversInSubscriptionOrder(t *testing.T) {
	var s Signal[int]
	var got []string
	s.Subscribe(func(v int) { got = append(got, "a") })
	s.Subscribe(func(v int) { got = append(got, "b") })
	s.Subscribe(func(v int) { got = append(got, "c") })

	s.Emit(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSignalUnsubscribeDuringEmit(t *testing.T) {
	var s Signal[int]
	var calls []string
	var hb Subscription
	var ha Subscription
	ha = s.Subscribe(func(int) {
		calls = append(calls, "a")
		s.Unsubscribe(ha)
		s.Unsubscribe(hb)
	})
	hb = s.Subscribe(func(int) { calls = append(calls, "b") })

	s.Emit(1)
	s.Emit(2)
	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, 0, s.Len())
}

func TestSignalSubscribeDuringEmitWaitsForNextEmit(t *testing.T) {
	var s Signal[int]
	late := 0
	s.Subscribe(func(int) {
		if s.Len() == 1 {
			s.Subscribe(func(int) { late++ })
		}
	})

	s.Emit(1)
	assert.Equal(t, 0, late)
	s.Emit(2)
	assert.Equal(t, 1, late)
}

func TestSignalUnsubscribeUnknownHandle(t *testing.T) {
	var s Signal[string]
	h := s.Subscribe(func(string) {})
	assert.True(t, s.Unsubscribe(h))
	assert.False(t, s.Unsubscribe(h))
	assert.False(t, s.Unsubscribe(Subscription(99)))
}
