package websocket

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/internal/config"
)

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound broadcast queue
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	logger *logrus.Logger

	mu sync.RWMutex

	stats *HubStats

	// Pump timing, from the websocket config section
	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

// HubStats contains hub statistics
type HubStats struct {
	ConnectedClients int       `json:"connected_clients"`
	TotalConnections int64     `json:"total_connections"`
	MessagesSent     int64     `json:"messages_sent"`
	LastActivity     time.Time `json:"last_activity"`
}

// NewHub creates a new WebSocket hub. Zero config values fall back to
// the defaults, so tests can pass an empty config.
func NewHub(cfg config.WebSocketConfig, logger *logrus.Logger) *Hub {
	pingPeriod := time.Duration(cfg.PingInterval) * time.Second
	if pingPeriod <= 0 {
		pingPeriod = 30 * time.Second
	}
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	if pongWait <= pingPeriod {
		pongWait = 2 * pingPeriod
	}
	writeWait := time.Duration(cfg.WriteTimeout) * time.Second
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		stats: &HubStats{
			LastActivity: time.Now(),
		},
		writeWait:  writeWait,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

// Run starts the hub and handles client registration/unregistration and broadcasting
func (h *Hub) Run() {
	h.logger.Info("WebSocket hub started")

	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ticker.C:
			h.sendHeartbeat()
		}
	}
}

// Broadcast queues a message for delivery to every connected client.
// Drops the message when the queue is full rather than blocking a device
// tick on a slow network.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg.ToJSON():
	default:
		h.logger.Warn("WebSocket broadcast queue full, dropping message")
	}
}

// Stats returns a snapshot of hub statistics.
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return *h.stats
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.stats.TotalConnections++
	h.stats.ConnectedClients = len(h.clients)
	h.stats.LastActivity = time.Now()

	h.logger.WithFields(logrus.Fields{
		"client_id":         client.ID,
		"remote_addr":       client.conn.RemoteAddr().String(),
		"connected_clients": len(h.clients),
	}).Info("WebSocket client connected")

	welcome := Message{
		Type: MessageTypeConnection,
		Data: map[string]interface{}{
			"status":    "connected",
			"client_id": client.ID,
		},
	}
	client.send <- welcome.ToJSON()
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.stats.ConnectedClients = len(h.clients)
		h.stats.LastActivity = time.Now()

		h.logger.WithFields(logrus.Fields{
			"client_id":         client.ID,
			"connected_clients": len(h.clients),
		}).Info("WebSocket client disconnected")
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.stats.MessagesSent++
	h.stats.LastActivity = time.Now()

	// Saturated clients are dropped inline. This runs on the Run
	// goroutine, which is the only reader of h.unregister, so pushing
	// them through that channel would wedge the hub.
	var dropped []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		h.logger.WithField("client_id", client.ID).Warn("WebSocket client cannot keep up, dropping")
		h.unregisterClient(client)
	}
}

func (h *Hub) sendHeartbeat() {
	h.broadcastMessage(Message{
		Type: MessageTypeHeartbeat,
		Data: map[string]interface{}{},
	}.ToJSON())
}
