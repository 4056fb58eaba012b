package devices

// Shared helpers for the descriptor tables.

// update builds the conventional state-transition event for a domain:
// the event name follows virtual_<domain>_update and the payload carries
// the triggering action plus action-specific fields. Entity identifiers
// are stamped on by the firing entity.
func update(domain, action string, fields map[string]interface{}) Event {
	payload := map[string]interface{}{"action": action}
	for k, v := range fields {
		payload[k] = v
	}
	return Event{Name: "virtual_" + domain + "_update", Payload: payload}
}

// one wraps a single event into the slice handlers return.
func one(ev Event) []Event { return []Event{ev} }

// clampFloat bounds a command argument instead of rejecting it.
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// argFloat extracts a numeric command argument.
func argFloat(args map[string]interface{}, key string, def float64) float64 {
	return EntityConfig(args).GetFloat(key, def)
}

// argString extracts a string command argument.
func argString(args map[string]interface{}, key, def string) string {
	return EntityConfig(args).GetString(key, def)
}

// errInvalidOption is the uniform construction error for an enumerated
// config field outside its option set.
func errInvalidOption(key, value string) error {
	return &invalidOptionError{key: key, value: value}
}

type invalidOptionError struct {
	key   string
	value string
}

func (e *invalidOptionError) Error() string {
	return "unsupported value " + e.value + " for " + e.key
}

// oneOf reports whether s is a member of valid.
func oneOf(s string, valid []string) bool {
	for _, v := range valid {
		if v == s {
			return true
		}
	}
	return false
}
