package database

import (
	"github.com/jmoiron/sqlx"

	"github.com/frostdev-ops/virtual-device-sim/internal/database/repositories"
	"github.com/frostdev-ops/virtual-device-sim/internal/database/sqlite"
)

// Repositories holds all repository instances
type Repositories struct {
	Device repositories.DeviceRepository
	State  repositories.StateRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Device: sqlite.NewDeviceRepository(db),
		State:  sqlite.NewStateRepository(db),
	}
}
