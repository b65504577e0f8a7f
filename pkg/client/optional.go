package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Optional holds a value the API may leave absent. Besides null, the API
// marks absent values with an empty string, a blank string, or a literal
// pair of quotes; all of these decode to an invalid Optional. Other strings
// are parsed into T, so numeric fields sent as strings ("8") decode into
// Optional[int].
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a valid Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// OrElse returns the value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.Valid {
		return o.Value
	}
	return fallback
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	*o = Optional[T]{}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not a string: decode the JSON value as-is.
		if err := json.Unmarshal(data, &o.Value); err != nil {
			return err
		}
		o.Valid = true
		return nil
	}

	if isAbsent(raw) {
		return nil
	}

	if s, ok := any(&o.Value).(*string); ok {
		*s = raw
		o.Valid = true
		return nil
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &o.Value); err != nil {
		return fmt.Errorf("unable to parse value %q: %w", raw, err)
	}
	o.Valid = true
	return nil
}

// MarshalJSON renders the value, or null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func isAbsent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == `""`
}
