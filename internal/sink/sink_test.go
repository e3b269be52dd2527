package sink

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanout_DeliversToAllSubscribers(t *testing.T) {
	f := NewFanout()

	var mu sync.Mutex
	var gotA, gotB []string
	f.Subscribe(func(event string, payload any) {
		mu.Lock()
		defer mu.Unlock()
		gotA = append(gotA, event)
	})
	f.Subscribe(func(event string, payload any) {
		mu.Lock()
		defer mu.Unlock()
		gotB = append(gotB, event)
	})

	f.Emit(EventMessage, "payload-1")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{EventMessage}, gotA)
	assert.Equal(t, []string{EventMessage}, gotB)
}

func TestFanout_CancelUnsubscribes(t *testing.T) {
	f := NewFanout()
	var count int
	cancel := f.Subscribe(func(event string, payload any) { count++ })

	f.Emit(EventMessage, nil)
	cancel()
	f.Emit(EventMessage, nil)

	assert.Equal(t, 1, count)
	assert.NotPanics(t, cancel)
}

func TestFanout_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	f := NewFanout()
	var delivered bool
	f.Subscribe(func(event string, payload any) { panic("boom") })
	f.Subscribe(func(event string, payload any) { delivered = true })

	assert.NotPanics(t, func() { f.Emit(EventMessage, nil) })
	assert.True(t, delivered)
}
