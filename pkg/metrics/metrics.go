package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Simulation metrics exposed on /metrics.
var (
	SimulationTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vds_simulation_ticks_total",
		Help: "Number of simulation ticks processed, by entity domain",
	}, []string{"domain"})

	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vds_commands_total",
		Help: "Number of commands handled, by domain and command name",
	}, []string{"domain", "command"})

	EventsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vds_events_fired_total",
		Help: "Number of events fired on the bus, by event type",
	}, []string{"event"})

	PersistenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vds_persistence_errors_total",
		Help: "Number of state store load/save failures, by operation",
	}, []string{"op"})

	EntitiesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vds_entities_active",
		Help: "Number of simulated entities currently attached",
	})
)
