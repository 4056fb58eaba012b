package devices

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

// Shared test doubles for the storage, bus and timer seams.

type fakeStore struct {
	mu       sync.Mutex
	data     map[string]EntityState
	failLoad bool
	failSave bool
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]EntityState)}
}

func (s *fakeStore) Load(ctx context.Context, key string) (EntityState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoad {
		return nil, errors.New("storage unavailable")
	}
	st, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return st.Clone(), nil
}

func (s *fakeStore) Save(ctx context.Context, key string, state EntityState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("storage unavailable")
	}
	s.data[key] = state.Clone()
	s.saves++
	return nil
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type fakeBus struct {
	mu     sync.Mutex
	events []Event
}

func (b *fakeBus) Fire(event string, payload map[string]interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, Event{Name: event, Payload: payload})
}

func (b *fakeBus) all() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

func (b *fakeBus) actions() []string {
	var out []string
	for _, ev := range b.all() {
		if a, ok := ev.Payload["action"].(string); ok {
			out = append(out, a)
		}
	}
	return out
}

// fakeTimers captures scheduled callbacks for manual firing.
type fakeTimers struct {
	mu        sync.Mutex
	scheduled []scheduledCall
}

type scheduledCall struct {
	delay time.Duration
	fn    func()
}

func (t *fakeTimers) AfterFunc(d time.Duration, f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scheduled = append(t.scheduled, scheduledCall{delay: d, fn: f})
}

func (t *fakeTimers) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.scheduled)
}

func (t *fakeTimers) fire(i int) {
	t.mu.Lock()
	call := t.scheduled[i]
	t.mu.Unlock()
	call.fn()
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testEnv bundles an entry context built on test doubles.
type testEnv struct {
	store  *fakeStore
	bus    *fakeBus
	timers *fakeTimers
	clock  *sim.FakeClock
	ctx    *EntryContext
}

func newTestEnv(entry *DeviceEntry) *testEnv {
	env := &testEnv{
		store:  newFakeStore(),
		bus:    &fakeBus{},
		timers: &fakeTimers{},
		clock:  sim.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	env.ctx = &EntryContext{
		Entry:  entry,
		Store:  env.store,
		Bus:    env.bus,
		Log:    testLogger().WithField("entry_id", entry.ID),
		Clock:  env.clock,
		Rand:   rand.New(rand.NewSource(42)),
		Timers: env.timers,
	}
	return env
}

// newTestEntity builds one entity of the given descriptor with its own
// fake collaborators.
func newTestEntity(t *testing.T, desc *Descriptor, cfg EntityConfig) (*Entity, *testEnv) {
	t.Helper()
	env := newTestEnv(&DeviceEntry{
		ID:       "entry1",
		Name:     "Test Device",
		Type:     Tag(desc.Domain),
		Entities: []EntityConfig{cfg},
	})
	e, err := NewEntity(env.ctx, desc, cfg, 0)
	require.NoError(t, err)
	return e, env
}
