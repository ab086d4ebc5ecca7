package core

import "fmt"

// UpstreamError reports a failed call to an external collaborator (the
// model service or the media search API). It terminates the session that
// encountered it; callers must not retry automatically.
type UpstreamError struct {
	Service string // "gemini", "wikipedia", ...
	Status  int    // HTTP status when applicable, 0 otherwise
	Err     error  // underlying cause
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s failed with status %d: %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Service, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err as a failure of the named external service.
func NewUpstreamError(service string, status int, err error) *UpstreamError {
	return &UpstreamError{Service: service, Status: status, Err: err}
}

// ConfigError reports a missing or invalid configuration value. Sessions
// cannot start while one is outstanding; it is surfaced immediately with
// no partial attempt.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s is required", e.Field)
}
