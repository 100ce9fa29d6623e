package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-orders/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	Hub *realtime.Hub
}

func NewWSController(hub *realtime.Hub) *WSController {
	return &WSController{Hub: hub}
}

// Subscribe -> GET /ws, upgrades and streams order and stock events until
// the client hangs up.
func (wc *WSController) Subscribe(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wc.Hub.Register(ws, role)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	wc.Hub.Unregister(ws)
}
