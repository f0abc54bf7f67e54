package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/cuetable/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is checked by middleware.WebSocketCORSCheck
	},
}

// Client represents a connected WebSocket client
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	matchID string
	send    chan []byte
}

// Hub maintains the set of active clients, grouped by match.
type Hub struct {
	manager    *game.Manager
	rooms      map[string]map[*Client]struct{} // matchID -> clients
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(manager *game.Manager) *Hub {
	return &Hub{
		manager:    manager,
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// BroadcastToMatch sends a message to every client watching a match.
func (h *Hub) BroadcastToMatch(matchID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[matchID] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] Send buffer full for a client of match %s, dropping message", matchID)
		}
	}
}

// RoomSize returns the number of clients watching a match.
func (h *Hub) RoomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// PublishUpdate streams a driver update to the match room.
func (h *Hub) PublishUpdate(up game.Update) {
	if len(up.Events) > 0 {
		h.BroadcastToMatch(up.MatchID, outMessage{Type: "events", Data: up.Events})
	}
	h.BroadcastToMatch(up.MatchID, outMessage{Type: "snapshot", Data: up.Snapshot})
}

// CloseMatch tells the room a match is gone and drops its clients.
func (h *Hub) CloseMatch(notice game.ClosedNotice) {
	h.BroadcastToMatch(notice.MatchID, notice)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[notice.MatchID] {
		close(client.send)
	}
	delete(h.rooms, notice.MatchID)
}

// Run registers and unregisters clients until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.matchID]; !exists {
				h.rooms[client.matchID] = make(map[*Client]struct{})
			}
			h.rooms[client.matchID][client] = struct{}{}
			size := len(h.rooms[client.matchID])
			h.mu.Unlock()

			log.Printf("[WS] Client joined match %s (room_size=%d)", client.matchID, size)
			client.sendSnapshot()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.matchID]; exists {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.matchID)
					}
					log.Printf("[WS] Client left match %s", client.matchID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for match %s: %v", c.matchID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for match %s: %v", c.matchID, err)
				return
			}
		}
	}
}

// trySend queues data without blocking; the hub may already have closed send.
func (c *Client) trySend(data []byte) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.rooms[c.matchID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Dropped direct message for match %s (buffer full)", c.matchID)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	c.trySend(data)
}

func (c *Client) sendSnapshot() {
	snap, err := c.hub.manager.Snapshot(context.Background(), c.matchID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	data, _ := json.Marshal(outMessage{Type: "snapshot", Data: snap})
	c.trySend(data)
}
