package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/wendydelivery/wendy-courier/internal/services"
)

// WebSocketHandler handles WebSocket observer connections
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		observerID := senderID(c)

		// Convert Gin's ResponseWriter to http.ResponseWriter
		services.HandleWebSocket(hub, c.Writer, c.Request, observerID)
	}
}
