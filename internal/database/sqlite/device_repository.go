package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
	"github.com/frostdev-ops/virtual-device-sim/internal/database/models"
	"github.com/frostdev-ops/virtual-device-sim/internal/database/repositories"
)

// DeviceRepository implements repositories.DeviceRepository
type DeviceRepository struct {
	db *sqlx.DB
}

// NewDeviceRepository creates a new DeviceRepository
func NewDeviceRepository(db *sqlx.DB) repositories.DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create stores a new device entry
func (r *DeviceRepository) Create(ctx context.Context, entry *devices.DeviceEntry) error {
	entities, err := json.Marshal(entry.Entities)
	if err != nil {
		return fmt.Errorf("failed to encode entity configs: %w", err)
	}

	query := `
		INSERT INTO devices (id, name, device_type, entities_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query, entry.ID, entry.Name, string(entry.Type), string(entities), time.Now())
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

// Get retrieves a device entry by id
func (r *DeviceRepository) Get(ctx context.Context, id string) (*devices.DeviceEntry, error) {
	var row models.Device
	err := r.db.GetContext(ctx, &row, `SELECT * FROM devices WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("device not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return rowToEntry(&row)
}

// GetAll retrieves every device entry
func (r *DeviceRepository) GetAll(ctx context.Context) ([]*devices.DeviceEntry, error) {
	var rows []models.Device
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM devices ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}

	entries := make([]*devices.DeviceEntry, 0, len(rows))
	for i := range rows {
		entry, err := rowToEntry(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Delete removes a device entry
func (r *DeviceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("device not found: %s", id)
	}
	return nil
}

func rowToEntry(row *models.Device) (*devices.DeviceEntry, error) {
	var entities []devices.EntityConfig
	if err := json.Unmarshal([]byte(row.EntitiesJSON), &entities); err != nil {
		return nil, fmt.Errorf("failed to decode entity configs for %s: %w", row.ID, err)
	}
	return &devices.DeviceEntry{
		ID:       row.ID,
		Name:     row.Name,
		Type:     devices.Tag(row.DeviceType),
		Entities: entities,
	}, nil
}
