package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuetable/internal/ws"
)

// HandleMatchWebSocket streams snapshots and events for a match and accepts
// pointer input over the same connection.
func HandleMatchWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return ws.HandleWebSocket(hub)
}
