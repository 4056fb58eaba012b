package models

import "time"

// Device is one configured virtual device entry row. The per-entity
// configs are stored as a JSON array in entities_json, preserving order.
type Device struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DeviceType   string    `db:"device_type" json:"device_type"`
	EntitiesJSON string    `db:"entities_json" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EntityStateRecord is one persisted entity state blob, keyed by the
// composite of entry id, entity domain and index.
type EntityStateRecord struct {
	Key       string    `db:"key" json:"key"`
	StateJSON string    `db:"state_json" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
