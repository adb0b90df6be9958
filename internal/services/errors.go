package services

import "encoding/json"

type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// ConfigurationError means the server is missing something it needs,
// such as the inference credential. It is never the caller's fault.
type ConfigurationError struct{ Message string }

func (e *ConfigurationError) Error() string { return e.Message }

type UpstreamError struct {
	Message string
	Details json.RawMessage
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }
