package websocket

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/models"
)

// Hub maintains active WebSocket connections and broadcasts bin updates to
// every subscriber.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *logrus.Entry
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Infof("✅ websocket client connected (%d total)", h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.log.Infof("🔴 websocket client disconnected (%d remaining)", h.clientCount())

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastBins pushes the merged bin set to all connected clients.
func (h *Hub) BroadcastBins(bins map[string]models.BinView) {
	frame := map[string]interface{}{
		"type": "bins_update",
		"bins": bins,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.Errorf("failed to marshal bins broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("websocket broadcast buffer full, dropping update")
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
