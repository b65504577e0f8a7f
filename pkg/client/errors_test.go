package client

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

// TestErrorMessages tests the Error strings of the typed errors
func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "transport",
			err:  &TransportError{Err: io.ErrUnexpectedEOF},
			want: "request failed: unexpected EOF",
		},
		{
			name: "parse",
			err:  &ParseError{Err: errors.New("unexpected end of JSON input")},
			want: "parse response: unexpected end of JSON input",
		},
		{
			name: "html with message",
			err:  &HTMLError{Message: "Endpoint not found.", StatusCode: 404},
			want: "smite api error: Endpoint not found. (status 404)",
		},
		{
			name: "html without message",
			err:  &HTMLError{StatusCode: 500},
			want: "smite api error (status 500)",
		},
		{
			name: "rejection",
			err:  &RejectionError{Method: "createsession", Status: "Invalid Developer Id"},
			want: "createsession rejected: Invalid Developer Id",
		},
		{
			name: "validation",
			err:  &ValidationError{Argument: "hour", Given: "24", Expected: "hour between -1 and 23"},
			want: `validation error: invalid hour "24", expected hour between -1 and 23`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestErrorUnwrap tests that wrapped causes stay reachable
func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")

	if !errors.Is(&TransportError{Err: cause}, cause) {
		t.Error("TransportError should unwrap to its cause")
	}
	if !errors.Is(&ParseError{Err: cause}, cause) {
		t.Error("ParseError should unwrap to its cause")
	}
}

// TestErrorHelpers tests the Is* helpers, including through wrapping
func TestErrorHelpers(t *testing.T) {
	errs := map[string]error{
		"transport":   &TransportError{Err: io.EOF},
		"parse":       &ParseError{Err: io.EOF},
		"html":        &HTMLError{StatusCode: 404},
		"rejection":   &RejectionError{Method: "createsession", Status: "Invalid Signature"},
		"validation":  &ValidationError{Argument: "date"},
		"unavailable": ErrSessionUnavailable,
	}
	helpers := map[string]func(error) bool{
		"transport":   IsTransportError,
		"parse":       IsParseError,
		"html":        IsHTMLError,
		"rejection":   IsRejection,
		"validation":  IsValidationError,
		"unavailable": IsSessionUnavailable,
	}

	for errName, err := range errs {
		wrapped := fmt.Errorf("get motd: %w", err)
		for helperName, is := range helpers {
			want := errName == helperName
			if got := is(err); got != want {
				t.Errorf("%s(%s) = %v, want %v", helperName, errName, got, want)
			}
			if got := is(wrapped); got != want {
				t.Errorf("%s(wrapped %s) = %v, want %v", helperName, errName, got, want)
			}
		}
	}

	for helperName, is := range helpers {
		if is(nil) {
			t.Errorf("%s(nil) should be false", helperName)
		}
	}
}
