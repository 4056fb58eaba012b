// Package scheduler drives the periodic simulation tick across all live
// entities.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
)

// Scheduler ticks the entity manager on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	manager *devices.Manager
	log     *logrus.Logger
}

// New creates a scheduler over the manager.
func New(manager *devices.Manager, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		manager: manager,
		log:     log,
	}
}

// Start begins ticking every interval. Interval resolution is one second.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval < time.Second {
		return fmt.Errorf("tick interval %s below 1s resolution", interval)
	}

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		s.manager.TickAll(context.Background())
		s.log.WithField("duration", time.Since(start)).Debug("Simulation tick complete")
	}); err != nil {
		return fmt.Errorf("failed to schedule simulation tick: %w", err)
	}

	s.cron.Start()
	s.log.WithField("interval", interval).Info("Simulation scheduler started")
	return nil
}

// Stop halts ticking and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Simulation scheduler stopped")
}
