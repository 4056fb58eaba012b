package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/frostdev-ops/virtual-device-sim/pkg/errors"
)

// GetEntities lists every live entity with its current state
func (h *Handlers) GetEntities(c *gin.Context) {
	entities := h.manager.Entities()
	out := make([]gin.H, 0, len(entities))
	for _, e := range entities {
		out = append(out, gin.H{
			"entity_id": e.ID(),
			"name":      e.Name(),
			"domain":    e.Domain(),
			"icon":      e.Icon(),
			"device_id": e.EntryID(),
			"state":     e.CurrentState(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"entities": out})
}

// GetEntity returns one entity's state
func (h *Handlers) GetEntity(c *gin.Context) {
	e, ok := h.manager.Entity(c.Param("id"))
	if !ok {
		c.JSON(apperrors.ErrNotFound.Code, gin.H{"error": "entity not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entity_id": e.ID(),
		"name":      e.Name(),
		"domain":    e.Domain(),
		"icon":      e.Icon(),
		"device_id": e.EntryID(),
		"state":     e.CurrentState(),
	})
}

// HandleCommand routes a command to an entity. Invalid arguments are
// clamped or ignored by the entity; only an unknown entity id is an
// HTTP-level error.
func (h *Handlers) HandleCommand(c *gin.Context) {
	var args map[string]interface{}
	// A body is optional; many commands carry no arguments
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&args); err != nil {
			c.JSON(apperrors.ErrBadRequest.Code, gin.H{"error": err.Error()})
			return
		}
	}

	id := c.Param("id")
	command := c.Param("command")
	if err := h.manager.HandleCommand(c.Request.Context(), id, command, args); err != nil {
		c.JSON(apperrors.ErrNotFound.Code, gin.H{"error": err.Error()})
		return
	}

	e, _ := h.manager.Entity(id)
	c.JSON(http.StatusOK, gin.H{
		"entity_id": id,
		"command":   command,
		"state":     e.CurrentState(),
	})
}
