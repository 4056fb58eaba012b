// Package devices implements the simulated device core: the state
// persistence contract every entity shares, the domain-service registry
// that maps device-type tags to entity constructors, and the descriptor
// table driving per-type behavior.
package devices

import (
	"errors"
	"fmt"
)

// Tag identifies what kind of virtual device a config entry represents.
type Tag string

// Supported device-type tags.
const (
	TagLight        Tag = "light"
	TagSwitch       Tag = "switch"
	TagClimate      Tag = "climate"
	TagCover        Tag = "cover"
	TagFan          Tag = "fan"
	TagSensor       Tag = "sensor"
	TagBinarySensor Tag = "binary_sensor"
	TagButton       Tag = "button"
	TagScene        Tag = "scene"
	TagMediaPlayer  Tag = "media_player"
	TagVacuum       Tag = "vacuum"
	TagWeather      Tag = "weather"
	TagCamera       Tag = "camera"
	TagLock         Tag = "lock"
	TagValve        Tag = "valve"
	TagWaterHeater  Tag = "water_heater"
	TagHumidifier   Tag = "humidifier"
	TagAirPurifier  Tag = "air_purifier"
)

// ErrTagClaimed is returned by Registry.Register when two services claim
// the same device-type tag. Ambiguous ownership is a startup error, never
// resolved silently at dispatch time.
var ErrTagClaimed = errors.New("device type tag already claimed")

// DeviceEntry is one configured virtual device: a device-type tag, a
// display name and an ordered list of per-entity configs. Immutable once
// stored.
type DeviceEntry struct {
	ID       string         `json:"id" db:"id"`
	Name     string         `json:"name" db:"name"`
	Type     Tag            `json:"device_type" db:"device_type"`
	Entities []EntityConfig `json:"entities"`
}

// EntityConfig holds the static, user-supplied parameters for one entity.
// Read-only at construction time.
type EntityConfig map[string]interface{}

// GetString returns the string value for key, or def when absent or of the
// wrong type.
func (c EntityConfig) GetString(key, def string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return def
}

// GetFloat returns the numeric value for key, or def. JSON and YAML
// decoding produce a mix of float64 and int, so both are accepted.
func (c EntityConfig) GetFloat(key string, def float64) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// GetInt returns the integer value for key, or def.
func (c EntityConfig) GetInt(key string, def int) int {
	switch v := c[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// GetBool returns the boolean value for key, or def.
func (c EntityConfig) GetBool(key string, def bool) bool {
	if v, ok := c[key].(bool); ok {
		return v
	}
	return def
}

// EntityState holds the dynamic, persisted runtime values for one entity.
type EntityState map[string]interface{}

// Float reads a numeric state value, tolerating the int/float64 mix that
// comes back from JSON decoding of persisted state.
func (s EntityState) Float(key string, def float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// String reads a string state value.
func (s EntityState) String(key, def string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return def
}

// Bool reads a boolean state value.
func (s EntityState) Bool(key string, def bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return def
}

// Clone returns a shallow copy of the state map.
func (s EntityState) Clone() EntityState {
	out := make(EntityState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Event is a state-transition notification produced by a command handler or
// simulation tick, decoupled from the bus that eventually carries it.
type Event struct {
	Name    string                 `json:"name"`
	Payload map[string]interface{} `json:"payload"`
}

// StorageKey derives the stable per-entity storage slot from the owning
// entry, the entity domain and the entity's index within the entry.
func StorageKey(entryID string, domain string, index int) string {
	return fmt.Sprintf("%s_%s_%d", entryID, domain, index)
}
