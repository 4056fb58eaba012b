package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frostdev-ops/virtual-device-sim/internal/api"
	"github.com/frostdev-ops/virtual-device-sim/internal/bus"
	"github.com/frostdev-ops/virtual-device-sim/internal/config"
	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
	"github.com/frostdev-ops/virtual-device-sim/internal/database"
	"github.com/frostdev-ops/virtual-device-sim/internal/scheduler"
	"github.com/frostdev-ops/virtual-device-sim/internal/seed"
	"github.com/frostdev-ops/virtual-device-sim/internal/websocket"
	"github.com/frostdev-ops/virtual-device-sim/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("Starting virtual device simulator")

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
		log.WithError(err).Fatal("Failed to run database migrations")
	}
	repos := database.NewRepositories(db)

	wsHub := websocket.NewHub(cfg.WebSocket, log)
	go wsHub.Run()

	registry := devices.NewRegistry(log)
	for _, svc := range devices.DefaultServices() {
		if err := registry.Register(svc); err != nil {
			log.WithError(err).Fatal("Domain service registration conflict")
		}
	}

	eventBus := bus.New(wsHub, log)
	manager := devices.NewManager(registry, repos.State, eventBus, log)

	ctx := context.Background()
	entries, err := repos.Device.GetAll(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to load device entries")
	}

	if cfg.Devices.SeedFile != "" {
		seedFile, err := seed.Load(cfg.Devices.SeedFile)
		if err != nil {
			log.WithError(err).Warn("Seed file unusable, continuing without it")
		} else {
			created, err := seed.Apply(ctx, seedFile, repos.Device, log)
			if err != nil {
				log.WithError(err).Warn("Seed apply failed, continuing")
			}
			entries = append(entries, created...)
		}
	}

	for _, entry := range entries {
		manager.SetupEntry(ctx, entry)
	}

	tickInterval, err := time.ParseDuration(cfg.Simulation.TickInterval)
	if err != nil {
		log.WithError(err).Fatal("Invalid simulation tick interval")
	}
	sched := scheduler.New(manager, log)
	if err := sched.Start(tickInterval); err != nil {
		log.WithError(err).Fatal("Failed to start simulation scheduler")
	}

	router := api.NewRouter(cfg, repos, manager, registry, wsHub, log)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	// Persist every entity before exit, including entries created over
	// the API after startup
	live := make(map[string]bool)
	for _, e := range manager.Entities() {
		live[e.EntryID()] = true
	}
	for id := range live {
		manager.TeardownEntry(shutdownCtx, id)
	}

	log.Info("Shutdown complete")
}
