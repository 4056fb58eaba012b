package devices

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

// StateStore is the durable key-value collaborator entities persist
// through. Load returns (nil, nil) when no state exists for the key.
type StateStore interface {
	Load(ctx context.Context, key string) (EntityState, error)
	Save(ctx context.Context, key string, state EntityState) error
}

// Bus is the fire-and-forget event collaborator.
type Bus interface {
	Fire(event string, payload map[string]interface{})
}

// Timers schedules one-shot delayed callbacks (auto-lock, valve travel).
// Implementations must tolerate the callback firing after the owning
// entity detached; callbacks re-check state before acting.
type Timers interface {
	AfterFunc(d time.Duration, f func())
}

type realTimers struct{}

func (realTimers) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// RealTimers returns a Timers backed by time.AfterFunc.
func RealTimers() Timers { return realTimers{} }

// EntryContext carries everything entities of one device entry need:
// the entry itself, the storage and event collaborators, logging, clock,
// randomness and timer scheduling. The entry owns its context; it is
// discarded when the entry is torn down.
type EntryContext struct {
	Entry  *DeviceEntry
	Store  StateStore
	Bus    Bus
	Log    *logrus.Entry
	Clock  sim.Clock
	Rand   *rand.Rand
	Timers Timers
}

// NewEntryContext builds a context with real clock, timers and a
// time-seeded RNG. Tests swap the seams individually.
func NewEntryContext(entry *DeviceEntry, store StateStore, bus Bus, log *logrus.Logger) *EntryContext {
	return &EntryContext{
		Entry:  entry,
		Store:  store,
		Bus:    bus,
		Log:    log.WithFields(logrus.Fields{"entry_id": entry.ID, "device_type": entry.Type}),
		Clock:  sim.RealClock(),
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Timers: RealTimers(),
	}
}
