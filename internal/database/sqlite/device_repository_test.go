package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
)

func TestDeviceRepositoryCreateAndGet(t *testing.T) {
	repo := NewDeviceRepository(testDB(t))
	ctx := context.Background()

	entry := &devices.DeviceEntry{
		ID:   "dev1",
		Name: "Hall Lights",
		Type: devices.TagLight,
		Entities: []devices.EntityConfig{
			{"entity_name": "hall_front", "brightness": 200.0},
			{"entity_name": "hall_back"},
		},
	}
	require.NoError(t, repo.Create(ctx, entry))

	got, err := repo.Get(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "Hall Lights", got.Name)
	assert.Equal(t, devices.TagLight, got.Type)
	require.Len(t, got.Entities, 2)
	assert.Equal(t, "hall_front", got.Entities[0].GetString("entity_name", ""))
	assert.Equal(t, 200.0, got.Entities[0].GetFloat("brightness", -1))
}

func TestDeviceRepositoryGetMissing(t *testing.T) {
	repo := NewDeviceRepository(testDB(t))

	_, err := repo.Get(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestDeviceRepositoryGetAll(t *testing.T) {
	repo := NewDeviceRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &devices.DeviceEntry{ID: "a", Name: "A", Type: devices.TagLock, Entities: []devices.EntityConfig{{}}}))
	require.NoError(t, repo.Create(ctx, &devices.DeviceEntry{ID: "b", Name: "B", Type: devices.TagFan, Entities: []devices.EntityConfig{{}}}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeviceRepositoryDelete(t *testing.T) {
	repo := NewDeviceRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &devices.DeviceEntry{ID: "dev1", Name: "X", Type: devices.TagLight, Entities: []devices.EntityConfig{{}}}))
	require.NoError(t, repo.Delete(ctx, "dev1"))

	_, err := repo.Get(ctx, "dev1")
	assert.Error(t, err)

	assert.Error(t, repo.Delete(ctx, "dev1"), "double delete reports not found")
}
