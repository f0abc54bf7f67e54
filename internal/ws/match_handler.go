package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/cuetable/internal/game"
)

// PointerData is the payload of a "pointer" message.
type PointerData struct {
	Action string  `json:"action"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// HandleWebSocket upgrades an authorised request on /matches/:id/ws and joins
// the match room.
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID := c.Param("id")
		if _, err := hub.manager.Get(matchID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:     hub,
			conn:    conn,
			matchID: matchID,
			send:    make(chan []byte, 256),
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump reads pointer input for a match.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for match %s: %v", c.matchID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming match messages.
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "pointer":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		c.handlePointer(data)

	case "get_state":
		c.sendSnapshot()

	default:
		c.sendError("Unknown message type")
	}
}

// handlePointer applies pointer input and shares the new cue overlay with
// the room. Ball motion after a shot is streamed by the driver.
func (c *Client) handlePointer(data PointerData) {
	var snap game.Snapshot
	err := c.hub.manager.WithSession(c.matchID, func(m *game.Match) error {
		if m.GameOver() {
			return game.ErrMatchOver
		}
		if _, err := m.ApplyPointer(data.Action, game.NewVec2(data.X, data.Y)); err != nil {
			return err
		}
		snap = m.Snapshot()
		return nil
	})
	switch {
	case errors.Is(err, game.ErrUnknownPointerAction):
		c.sendError("Unknown pointer action")
		return
	case err != nil:
		c.sendError(err.Error())
		return
	}

	c.hub.BroadcastToMatch(c.matchID, outMessage{Type: "snapshot", Data: snap})
}
