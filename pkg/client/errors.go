package client

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrSessionUnavailable means a session was accepted by the API but no
	// session id could be read from it. It indicates a library defect rather
	// than a caller error and is not recoverable for the failed call.
	ErrSessionUnavailable = errors.New("session unavailable")
)

// TransportError wraps a network or connection failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError means the response body was not valid JSON or did not match
// the requested shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HTMLError means the API answered with an HTML error page instead of JSON.
// Message is the first paragraph of the page and may be empty.
type HTMLError struct {
	Message    string
	StatusCode int
}

func (e *HTMLError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("smite api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("smite api error: %s (status %d)", e.Message, e.StatusCode)
}

// RejectionError means a structured response reported a non-success status,
// such as createsession answering something other than "Approved".
type RejectionError struct {
	Method string
	Status string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Method, e.Status)
}

// ValidationError represents an invalid argument, detected before any
// request is sent.
type ValidationError struct {
	Argument string
	Given    string
	Expected string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: invalid %s %q, expected %s", e.Argument, e.Given, e.Expected)
}

// IsTransportError returns true if the request never produced a response.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsParseError returns true if the response could not be decoded.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsHTMLError returns true if the API returned an HTML error page.
func IsHTMLError(err error) bool {
	var he *HTMLError
	return errors.As(err, &he)
}

// IsRejection returns true if the API explicitly rejected the call.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}

// IsValidationError returns true if the error indicates an invalid argument.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSessionUnavailable returns true if no session id could be obtained.
func IsSessionUnavailable(err error) bool {
	return errors.Is(err, ErrSessionUnavailable)
}
