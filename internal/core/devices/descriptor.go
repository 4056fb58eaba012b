package devices

import (
	"time"
)

// CommandFunc mutates entity state in response to a host command and
// returns the events to emit. Handlers clamp or ignore bad arguments with
// a warning; they never return an error to the command surface.
type CommandFunc func(e *Entity, args map[string]interface{}) []Event

// SimulateFunc advances an entity's telemetry by elapsed wall-clock time.
// It runs under the entity lock and may return events to emit.
type SimulateFunc func(e *Entity, elapsed time.Duration) []Event

// Descriptor is the declarative record describing one device type: its
// entity domain, icon, default state, simulation step and command table.
// One generic Entity parameterized by a Descriptor replaces a bespoke
// type per device.
type Descriptor struct {
	Domain string
	Icon   string

	// DefaultState builds the initial state from static config. Pure.
	DefaultState func(cfg EntityConfig) EntityState

	// Simulate advances telemetry on each periodic tick. Nil for device
	// types with no time-varying behavior (button, scene).
	Simulate SimulateFunc

	// Commands maps host verb names to handlers.
	Commands map[string]CommandFunc

	// Validate rejects malformed per-entity config at construction time.
	// A validation failure skips that one entity, never the whole batch.
	Validate func(cfg EntityConfig) error
}
