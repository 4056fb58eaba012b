package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebSocketStats reports hub connection counters
func (h *Handlers) WebSocketStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.wsHub.Stats())
}
