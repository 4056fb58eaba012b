package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/devices"
	"github.com/frostdev-ops/virtual-device-sim/internal/database/repositories"
)

// StateRepository implements repositories.StateRepository on SQLite. Each
// entity owns one row keyed by its composite storage key, so concurrent
// saves for different entities never contend on the same row.
type StateRepository struct {
	db *sqlx.DB
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *sqlx.DB) repositories.StateRepository {
	return &StateRepository{db: db}
}

// Load reads the persisted state for key. A missing row yields (nil, nil);
// a malformed payload yields an error the entity recovers from with
// defaults.
func (r *StateRepository) Load(ctx context.Context, key string) (devices.EntityState, error) {
	var raw string
	err := r.db.GetContext(ctx, &raw, `SELECT state_json FROM entity_states WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state %s: %w", key, err)
	}

	var state devices.EntityState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("corrupt state payload for %s: %w", key, err)
	}
	return state, nil
}

// Save upserts the state blob for key.
func (r *StateRepository) Save(ctx context.Context, key string, state devices.EntityState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state %s: %w", key, err)
	}

	query := `
		INSERT INTO entity_states (key, state_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			state_json = excluded.state_json,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, string(raw), time.Now()); err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every state row whose key starts with prefix.
// Used when a device entry is deleted to drop its entities' slots.
func (r *StateRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entity_states WHERE key LIKE ? || '%'`, prefix); err != nil {
		return fmt.Errorf("failed to delete states for %s: %w", prefix, err)
	}
	return nil
}
