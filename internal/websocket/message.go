package websocket

import (
	"encoding/json"
	"time"
)

// Message types pushed by the server outside of per-entity
// virtual_<domain>_update events.
const (
	MessageTypeConnection   = "connection"
	MessageTypeHeartbeat    = "heartbeat"
	MessageTypeDeviceSetup  = "device_setup"
	MessageTypeDeviceRemove = "device_removed"
)

// Message represents a WebSocket message
type Message struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m Message) ToJSON() []byte {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	data, _ := json.Marshal(m)
	return data
}
