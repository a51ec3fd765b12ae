package handlers

import (
	"net/http"
	"time"

	"pos-service/internal/realtime"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	registry *realtime.Registry
}

func NewStatsHandler(registry *realtime.Registry) *StatsHandler {
	return &StatsHandler{registry: registry}
}

// GetStats godoc
// @Summary Connection and room counts for operational visibility
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats := h.registry.Stats()
	c.JSON(http.StatusOK, gin.H{
		"totalClients": stats.TotalClients,
		"totalRooms":   stats.TotalRooms,
		"roomStats":    stats.RoomStats,
		"timestamp":    time.Now().Unix(),
	})
}
