package repositories

import (
	"context"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
)

// DeviceRepository manages device config entries.
type DeviceRepository interface {
	Create(ctx context.Context, entry *devices.DeviceEntry) error
	Get(ctx context.Context, id string) (*devices.DeviceEntry, error)
	GetAll(ctx context.Context) ([]*devices.DeviceEntry, error)
	Delete(ctx context.Context, id string) error
}

// StateRepository is the durable key-value store behind entity state
// persistence. Load returns (nil, nil) when no state exists for key.
type StateRepository interface {
	devices.StateStore
	DeleteByPrefix(ctx context.Context, prefix string) error
}
