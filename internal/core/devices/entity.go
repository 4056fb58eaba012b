package devices

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/pkg/metrics"
)

// Entity is one simulated device instance: an EntityConfig bound to a
// mutable EntityState and a Descriptor that defines its behavior.
//
// State handling follows a uniform contract across all device types:
//
//   - DefaultState: pure function of static config, used whenever no
//     persisted state exists or loading fails.
//   - ApplyState: copies a state mapping into the live state, filling any
//     missing key from the same defaults.
//   - CurrentState: snapshot of the live state, the exact inverse of
//     ApplyState.
//
// Load and Save never propagate storage errors; they log and recover.
type Entity struct {
	ctx   *EntryContext
	desc  *Descriptor
	cfg   EntityConfig
	index int

	name     string
	uniqueID string
	log      *logrus.Entry

	mu         sync.Mutex
	state      EntityState
	lastUpdate time.Time
}

// NewEntity constructs an entity for one per-entity config slot. The index
// is part of the entity's stable identity: it feeds the unique id and the
// storage key.
func NewEntity(ec *EntryContext, desc *Descriptor, cfg EntityConfig, index int) (*Entity, error) {
	if desc.Validate != nil {
		if err := desc.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid %s config at index %d: %w", desc.Domain, index, err)
		}
	}

	name := cfg.GetString("entity_name", fmt.Sprintf("%s_%d", desc.Domain, index+1))
	e := &Entity{
		ctx:      ec,
		desc:     desc,
		cfg:      cfg,
		index:    index,
		name:     name,
		uniqueID: fmt.Sprintf("%s_%s_%d", ec.Entry.ID, desc.Domain, index),
	}
	e.log = ec.Log.WithFields(logrus.Fields{"entity_id": e.uniqueID, "domain": desc.Domain})
	e.state = e.DefaultState()
	e.lastUpdate = ec.Clock.Now()
	return e, nil
}

// ID returns the entity's stable unique identifier.
func (e *Entity) ID() string { return e.uniqueID }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Domain returns the entity domain (light, lock, ...).
func (e *Entity) Domain() string { return e.desc.Domain }

// Icon returns the display icon for the device type.
func (e *Entity) Icon() string { return e.desc.Icon }

// Index returns the entity's position within its device entry.
func (e *Entity) Index() int { return e.index }

// EntryID returns the owning device entry id.
func (e *Entity) EntryID() string { return e.ctx.Entry.ID }

// Config returns the static per-entity configuration.
func (e *Entity) Config() EntityConfig { return e.cfg }

// storageKey derives the per-entity storage slot.
func (e *Entity) storageKey() string {
	return StorageKey(e.ctx.Entry.ID, e.desc.Domain, e.index)
}

// DefaultState returns the descriptor's default state for this entity's
// static config.
func (e *Entity) DefaultState() EntityState {
	return e.desc.DefaultState(e.cfg)
}

// ApplyState copies values from a state mapping into the live state. Keys
// missing from the mapping keep their default value; keys outside the
// default schema are dropped, so a round trip through CurrentState is
// exact.
func (e *Entity) ApplyState(st EntityState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyLocked(st)
}

func (e *Entity) applyLocked(st EntityState) {
	next := e.desc.DefaultState(e.cfg)
	for k := range next {
		if v, ok := st[k]; ok {
			next[k] = v
		}
	}
	e.state = next
}

// CurrentState returns a snapshot of the live state.
func (e *Entity) CurrentState() EntityState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Load reads persisted state through the storage collaborator. On a miss,
// a read failure or a malformed payload it falls back to defaults. Never
// returns an error to the caller.
func (e *Entity) Load(ctx context.Context) {
	st, err := e.ctx.Store.Load(ctx, e.storageKey())
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("load").Inc()
		e.log.WithError(err).Error("Failed to load persisted state, using defaults")
		e.ApplyState(e.DefaultState())
		return
	}
	if st == nil {
		e.log.Debug("No persisted state, initialized defaults")
		e.ApplyState(e.DefaultState())
		return
	}
	e.ApplyState(st)
	e.log.Debug("Loaded persisted state")
}

// Save writes the current state through the storage collaborator. Write
// failures are logged and swallowed; losing one snapshot must not crash
// the owning process.
func (e *Entity) Save(ctx context.Context) {
	if err := e.ctx.Store.Save(ctx, e.storageKey(), e.CurrentState()); err != nil {
		metrics.PersistenceErrors.WithLabelValues("save").Inc()
		e.log.WithError(err).Error("Failed to save state")
		return
	}
	e.log.Debug("Saved state")
}

// HandleCommand runs the named command handler, persists the mutated state
// and fires the handler's events. Unknown commands warn and no-op; the
// command surface never sees an error for bad input.
func (e *Entity) HandleCommand(ctx context.Context, command string, args map[string]interface{}) {
	handler, ok := e.desc.Commands[command]
	if !ok {
		e.log.WithField("command", command).Warn("Unsupported command ignored")
		return
	}

	e.mu.Lock()
	events := handler(e, args)
	e.mu.Unlock()

	metrics.CommandsHandled.WithLabelValues(e.desc.Domain, command).Inc()
	e.Save(ctx)
	e.fire(events)
}

// Tick advances the simulation by the wall-clock time elapsed since the
// previous tick and persists the result.
func (e *Entity) Tick(ctx context.Context) {
	if e.desc.Simulate == nil {
		return
	}

	now := e.ctx.Clock.Now()
	e.mu.Lock()
	elapsed := now.Sub(e.lastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}
	e.lastUpdate = now
	events := e.desc.Simulate(e, elapsed)
	e.mu.Unlock()

	metrics.SimulationTicks.WithLabelValues(e.desc.Domain).Inc()
	e.Save(ctx)
	e.fire(events)
}

func (e *Entity) fire(events []Event) {
	for _, ev := range events {
		if ev.Payload == nil {
			ev.Payload = map[string]interface{}{}
		}
		ev.Payload["entity_id"] = e.uniqueID
		ev.Payload["device_id"] = e.ctx.Entry.ID
		metrics.EventsFired.WithLabelValues(ev.Name).Inc()
		e.ctx.Bus.Fire(ev.Name, ev.Payload)
	}
}

// The helpers below run inside command and simulate handlers, which
// already hold the entity lock.

func (e *Entity) Float(key string, def float64) float64 { return e.state.Float(key, def) }
func (e *Entity) String(key, def string) string         { return e.state.String(key, def) }
func (e *Entity) Bool(key string, def bool) bool        { return e.state.Bool(key, def) }

// Set writes a state value from inside a handler.
func (e *Entity) Set(key string, v interface{}) { e.state[key] = v }

// Log returns the entity-scoped logger.
func (e *Entity) Log() *logrus.Entry { return e.log }

// Ctx returns the owning entry context.
func (e *Entity) Ctx() *EntryContext { return e.ctx }

// ScheduleOnce schedules a delayed callback that re-acquires the entity
// lock, runs guard, and when guard mutates state, saves and fires its
// events. Callbacks observe current state at fire time, so a transition
// that already happened by hand is not applied twice.
func (e *Entity) ScheduleOnce(d time.Duration, guard func(e *Entity) []Event) {
	e.ctx.Timers.AfterFunc(d, func() {
		e.mu.Lock()
		events := guard(e)
		e.mu.Unlock()
		if events == nil {
			return
		}
		e.Save(context.Background())
		e.fire(events)
	})
}
