package handlers

import (
	"net/http"

	"pos-service/internal/realtime"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	notifier *realtime.Notifier
}

func NewSystemHandler(notifier *realtime.Notifier) *SystemHandler {
	return &SystemHandler{notifier: notifier}
}

type systemMessageRequest struct {
	Message string `json:"message" binding:"required"`
	Level   string `json:"level"`
}

// BroadcastSystemMessage godoc
// @Summary Broadcast a free-form notice to every connected client
// @Tags ops
// @Accept json
// @Produce json
// @Param message body systemMessageRequest true "Notice to broadcast"
// @Success 202 {object} map[string]interface{}
// @Security BearerAuth
// @Router /system/message [post]
func (h *SystemHandler) BroadcastSystemMessage(c *gin.Context) {
	var req systemMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.notifier.NotifySystemMessage(req.Message, req.Level)
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}
