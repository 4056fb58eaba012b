package devices

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/internal/websocket"
	"github.com/frostdev-ops/virtual-device-sim/pkg/metrics"
)

// Manager owns the live entity set. It sets up and tears down device
// entries through the registry and routes commands and simulation ticks
// to the right entity.
type Manager struct {
	registry *Registry
	store    StateStore
	bus      Bus
	log      *logrus.Logger

	mu       sync.RWMutex
	entries  map[string]*EntryContext
	entities map[string]*Entity // by unique id
	byEntry  map[string][]*Entity
}

// NewManager creates a manager over a registry and the shared
// collaborators.
func NewManager(registry *Registry, store StateStore, bus Bus, log *logrus.Logger) *Manager {
	return &Manager{
		registry: registry,
		store:    store,
		bus:      bus,
		log:      log,
		entries:  make(map[string]*EntryContext),
		entities: make(map[string]*Entity),
		byEntry:  make(map[string][]*Entity),
	}
}

// SetupEntry constructs and attaches the entities for a device entry.
// Each entity loads its persisted state on attach.
func (m *Manager) SetupEntry(ctx context.Context, entry *DeviceEntry) []*Entity {
	ec := NewEntryContext(entry, m.store, m.bus, m.log)
	entities := m.registry.Dispatch(ec)
	for _, e := range entities {
		e.Load(ctx)
	}

	m.mu.Lock()
	m.entries[entry.ID] = ec
	m.byEntry[entry.ID] = entities
	for _, e := range entities {
		m.entities[e.ID()] = e
	}
	total := len(m.entities)
	m.mu.Unlock()

	metrics.EntitiesActive.Set(float64(total))
	m.bus.Fire(websocket.MessageTypeDeviceSetup, map[string]interface{}{
		"device_id":   entry.ID,
		"device_type": string(entry.Type),
		"entities":    len(entities),
	})
	m.log.WithFields(logrus.Fields{
		"entry_id":    entry.ID,
		"device_type": entry.Type,
		"entities":    len(entities),
	}).Info("Device entry set up")
	return entities
}

// TeardownEntry saves and detaches all entities of an entry and discards
// the entry context.
func (m *Manager) TeardownEntry(ctx context.Context, entryID string) {
	m.mu.Lock()
	entities := m.byEntry[entryID]
	delete(m.byEntry, entryID)
	delete(m.entries, entryID)
	for _, e := range entities {
		delete(m.entities, e.ID())
	}
	total := len(m.entities)
	m.mu.Unlock()

	for _, e := range entities {
		e.Save(ctx)
	}
	metrics.EntitiesActive.Set(float64(total))
	m.bus.Fire(websocket.MessageTypeDeviceRemove, map[string]interface{}{
		"device_id": entryID,
	})
	m.log.WithField("entry_id", entryID).Info("Device entry torn down")
}

// Entity returns the live entity with the given unique id.
func (m *Manager) Entity(id string) (*Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[id]
	return e, ok
}

// Entities returns all live entities sorted by unique id.
func (m *Manager) Entities() []*Entity {
	m.mu.RLock()
	out := make([]*Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// EntriesFor returns the live entities of one entry in index order.
func (m *Manager) EntriesFor(entryID string) []*Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byEntry[entryID]
}

// HandleCommand routes a command to an entity.
func (m *Manager) HandleCommand(ctx context.Context, entityID, command string, args map[string]interface{}) error {
	e, ok := m.Entity(entityID)
	if !ok {
		return fmt.Errorf("unknown entity %q", entityID)
	}
	e.HandleCommand(ctx, command, args)
	return nil
}

// TickAll runs one simulation step on every live entity.
func (m *Manager) TickAll(ctx context.Context) {
	for _, e := range m.Entities() {
		e.Tick(ctx)
	}
}
