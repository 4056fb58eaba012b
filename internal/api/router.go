// Package api wires the HTTP surface: REST endpoints for device entries
// and entities, the WebSocket event stream, health and metrics.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/internal/api/handlers"
	"github.com/frostdev-ops/virtual-device-sim/internal/api/middleware"
	"github.com/frostdev-ops/virtual-device-sim/internal/config"
	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
	"github.com/frostdev-ops/virtual-device-sim/internal/database"
	"github.com/frostdev-ops/virtual-device-sim/internal/websocket"
)

// NewRouter builds the Gin engine with all routes and middleware attached.
func NewRouter(cfg *config.Config, repos *database.Repositories, manager *devices.Manager, registry *devices.Registry, wsHub *websocket.Hub, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware())

	h := handlers.NewHandlers(cfg, repos, manager, registry, wsHub, log)

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", websocket.HandleWebSocketGin(wsHub))
	router.GET("/ws/stats", h.WebSocketStats)

	v1 := router.Group("/api/v1")
	{
		deviceRoutes := v1.Group("/devices")
		{
			deviceRoutes.GET("", h.GetDevices)
			deviceRoutes.POST("", h.CreateDevice)
			deviceRoutes.GET("/:id", h.GetDevice)
			deviceRoutes.DELETE("/:id", h.DeleteDevice)
		}

		v1.GET("/device-types", h.GetDeviceTypes)

		entityRoutes := v1.Group("/entities")
		{
			entityRoutes.GET("", h.GetEntities)
			entityRoutes.GET("/:id", h.GetEntity)
			entityRoutes.POST("/:id/commands/:command", h.HandleCommand)
		}
	}

	return router
}
