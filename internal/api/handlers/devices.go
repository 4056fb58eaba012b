package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
	apperrors "github.com/frostdev-ops/virtual-device-sim/pkg/errors"
)

// createDeviceRequest is the POST /devices body.
type createDeviceRequest struct {
	Name     string                   `json:"name" binding:"required"`
	Type     string                   `json:"device_type" binding:"required"`
	Entities []map[string]interface{} `json:"entities" binding:"required"`
}

// GetDevices lists all device entries
func (h *Handlers) GetDevices(c *gin.Context) {
	entries, err := h.repos.Device.GetAll(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list devices")
		c.JSON(apperrors.ErrInternalServer.Code, gin.H{"error": apperrors.ErrInternalServer.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": entries})
}

// GetDevice returns one device entry with its live entities
func (h *Handlers) GetDevice(c *gin.Context) {
	entry, err := h.repos.Device.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperrors.ErrNotFound.Code, gin.H{"error": err.Error()})
		return
	}

	entities := h.manager.EntriesFor(entry.ID)
	live := make([]gin.H, 0, len(entities))
	for _, e := range entities {
		live = append(live, gin.H{
			"entity_id": e.ID(),
			"name":      e.Name(),
			"domain":    e.Domain(),
			"state":     e.CurrentState(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"device": entry, "entities": live})
}

// CreateDevice stores a new device entry and sets up its entities
func (h *Handlers) CreateDevice(c *gin.Context) {
	var req createDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(apperrors.ErrBadRequest.Code, gin.H{"error": err.Error()})
		return
	}

	entities := make([]devices.EntityConfig, 0, len(req.Entities))
	for _, cfg := range req.Entities {
		entities = append(entities, devices.EntityConfig(cfg))
	}
	entry := &devices.DeviceEntry{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Type:     devices.Tag(req.Type),
		Entities: entities,
	}

	if err := h.repos.Device.Create(c.Request.Context(), entry); err != nil {
		h.log.WithError(err).Error("Failed to create device")
		c.JSON(apperrors.ErrInternalServer.Code, gin.H{"error": apperrors.ErrInternalServer.Message})
		return
	}

	built := h.manager.SetupEntry(c.Request.Context(), entry)
	c.JSON(http.StatusCreated, gin.H{
		"device":   entry,
		"entities": len(built),
	})
}

// DeleteDevice tears down and removes a device entry and its state slots
func (h *Handlers) DeleteDevice(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if err := h.repos.Device.Delete(ctx, id); err != nil {
		c.JSON(apperrors.ErrNotFound.Code, gin.H{"error": err.Error()})
		return
	}

	h.manager.TeardownEntry(ctx, id)
	if err := h.repos.State.DeleteByPrefix(ctx, id); err != nil {
		// The entry is gone; orphaned state rows are harmless
		h.log.WithError(err).Warn("Failed to delete persisted state for removed device")
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetDeviceTypes lists the registered device-type tags
func (h *Handlers) GetDeviceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"device_types": h.registry.Tags()})
}
