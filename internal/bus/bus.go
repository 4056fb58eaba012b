// Package bus carries fire-and-forget device events to whoever listens:
// the WebSocket hub, the structured log, and any in-process subscriber.
package bus

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/internal/websocket"
)

// Subscriber receives every fired event.
type Subscriber func(event string, payload map[string]interface{})

// EventBus fans device events out to the WebSocket hub and registered
// in-process subscribers. Fire never blocks on a slow consumer.
type EventBus struct {
	hub *websocket.Hub
	log *logrus.Logger

	mu          sync.RWMutex
	subscribers []Subscriber
}

// New creates an EventBus broadcasting through hub. hub may be nil in
// tests.
func New(hub *websocket.Hub, log *logrus.Logger) *EventBus {
	return &EventBus{hub: hub, log: log}
}

// Subscribe registers an in-process listener for all events.
func (b *EventBus) Subscribe(s Subscriber) {
	b.mu.Lock()
	b.subscribers = append(b.subscribers, s)
	b.mu.Unlock()
}

// Fire emits an event. Delivery is best-effort: the hub drops messages to
// saturated clients and subscribers run synchronously.
func (b *EventBus) Fire(event string, payload map[string]interface{}) {
	b.log.WithFields(logrus.Fields{
		"event":   event,
		"payload": payload,
	}).Debug("Event fired")

	if b.hub != nil {
		b.hub.Broadcast(websocket.Message{
			Type: event,
			Data: payload,
		})
	}

	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()
	for _, s := range subs {
		s(event, payload)
	}
}
