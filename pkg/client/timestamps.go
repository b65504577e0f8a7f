package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// APITimestampLayout is the format the API uses for dates in response
// bodies, e.g. "1/2/2024 3:04:05 PM". Values carry no zone and are UTC.
const APITimestampLayout = "1/2/2006 3:04:05 PM"

// Timestamp is an API date decoded from its "M/D/YYYY h:mm:ss AM" form.
// null and empty strings decode to the zero time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := parseAPITimestamp(*raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON renders the timestamp as RFC 3339, or null when zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// parseAPITimestamp converts an API date string to a UTC time.Time.
func parseAPITimestamp(ts string) (time.Time, error) {
	t, err := time.ParseInLocation(APITimestampLayout, strings.TrimSpace(ts), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp: unable to parse %q: %w", ts, err)
	}
	return t, nil
}
