package api

import (
	"crypto/md5" //nolint:gosec // the upstream API mandates MD5 signatures
	"encoding/hex"
	"time"
)

// TimestampLayout is the UTC, second resolution format the API expects in
// both the signature input and the timestamp path segment.
const TimestampLayout = "20060102150405"

// Signer produces per-call signatures from developer credentials.
type Signer struct {
	DeveloperID string
	AuthKey     string
	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Sign returns the signature for method together with the timestamp it was
// computed from. The timestamp must be sent verbatim in the request path.
func (s *Signer) Sign(method string) (signature, timestamp string) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	timestamp = FormatTimestamp(now())
	return ComputeSignature(s.DeveloperID, method, s.AuthKey, timestamp), timestamp
}

// FormatTimestamp renders t in the API's timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ComputeSignature returns lowercase hex(md5(developerID + method + authKey + timestamp)).
func ComputeSignature(developerID, method, authKey, timestamp string) string {
	sum := md5.Sum([]byte(developerID + method + authKey + timestamp)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
