package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"pos-service/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboards are served from a separate origin; the JWT on the
		// query string is the actual gate.
		return true
	},
}

type WSHandler struct {
	registry *realtime.Registry
	logger   *slog.Logger
}

func NewWSHandler(registry *realtime.Registry, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		logger:   logger,
	}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Establish a WebSocket connection for real-time order and catalog events
// @Tags websocket
// @Param role query string false "Declared staff role (counter, kitchen, delivery, admin)"
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	// The connection starts with whatever the client declares on the query
	// string; an authenticate message can refine it later without touching
	// room membership.
	identity := realtime.Identity{Role: realtime.RoleUnknown}
	if role := c.Query("role"); role != "" {
		identity.Role = role
	}
	if userID, exists := c.Get("user_id"); exists {
		identity.UserID = fmt.Sprint(userID)
	}

	realtime.ServeWS(h.registry, &upgrader, c.Writer, c.Request, identity, h.logger)
}
