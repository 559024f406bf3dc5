package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := &session{hub: hub, out: make(chan []byte, 1)}
	second := &session{hub: hub, out: make(chan []byte, 1)}
	hub.join <- first
	hub.join <- second

	hub.Publish(Event{Name: EventDocumentCreated, ID: "7b1c", Label: "FAC-2026-0001"})

	for _, s := range []*session{first, second} {
		select {
		case payload := <-s.out:
			var ev Event
			require.NoError(t, json.Unmarshal(payload, &ev))
			assert.Equal(t, EventDocumentCreated, ev.Name)
			assert.Equal(t, "7b1c", ev.ID)
			assert.Equal(t, "FAC-2026-0001", ev.Label)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered")
		}
	}
}

func TestSlowSessionIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Unbuffered and never read: the hub must cut this session loose
	// instead of stalling every other consumer.
	slow := &session{hub: hub, out: make(chan []byte)}
	hub.join <- slow

	hub.Publish(Event{Name: EventTransactionCreated, ID: "9af0"})

	assert.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.sessions) == 0
	}, time.Second, 10*time.Millisecond, "slow session was not dropped")
}
