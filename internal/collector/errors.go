package collector

import "fmt"

// HTTPError is returned when the upstream API answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Message    string // upstream "message" field, if any
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// SchemaError is returned when the response body lacks the expected time-series fields.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response schema at %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("unexpected response schema: missing %q", e.Field)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// EmptyResultError is returned when a fetch succeeds but yields no rows.
type EmptyResultError struct {
	Country string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no records for %q", e.Country)
}
