package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testManager(t *testing.T) *devices.Manager {
	t.Helper()
	registry := devices.NewRegistry(testLogger())
	for _, svc := range devices.DefaultServices() {
		require.NoError(t, registry.Register(svc))
	}
	return devices.NewManager(registry, nopStore{}, nopBus{}, testLogger())
}

type nopStore struct{}

func (nopStore) Load(ctx context.Context, key string) (devices.EntityState, error) { return nil, nil }
func (nopStore) Save(ctx context.Context, key string, state devices.EntityState) error {
	return nil
}

type nopBus struct{}

func (nopBus) Fire(event string, payload map[string]interface{}) {}

func TestStartRejectsSubSecondInterval(t *testing.T) {
	s := New(testManager(t), testLogger())
	assert.Error(t, s.Start(500*time.Millisecond))
}

func TestStartAndStop(t *testing.T) {
	s := New(testManager(t), testLogger())
	require.NoError(t, s.Start(time.Second))
	s.Stop()
}
