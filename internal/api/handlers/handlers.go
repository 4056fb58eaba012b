package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/internal/config"
	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
	"github.com/frostdev-ops/virtual-device-sim/internal/database"
	"github.com/frostdev-ops/virtual-device-sim/internal/websocket"
)

// Handlers bundles the dependencies of all HTTP handlers
type Handlers struct {
	cfg      *config.Config
	repos    *database.Repositories
	manager  *devices.Manager
	registry *devices.Registry
	wsHub    *websocket.Hub
	log      *logrus.Logger
}

// NewHandlers creates the handler set
func NewHandlers(cfg *config.Config, repos *database.Repositories, manager *devices.Manager, registry *devices.Registry, wsHub *websocket.Hub, log *logrus.Logger) *Handlers {
	return &Handlers{
		cfg:      cfg,
		repos:    repos,
		manager:  manager,
		registry: registry,
		wsHub:    wsHub,
		log:      log,
	}
}
