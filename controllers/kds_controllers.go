package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-floor/kds"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FloorEventsHandler -> endpoint WebSocket untuk terminal floor/chef/manager
func FloorEventsHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != "chef" && role != "staff" && role != "manager" && role != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kds.RegisterClient(ws, role)

	// Komunikasi satu arah; baca hanya untuk mendeteksi disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kds.UnregisterClient(ws)
}
