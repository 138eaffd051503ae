package llm

import "fmt"

// TransportError indicates a backend call failed at the HTTP/connection
// level. Status is zero for connection-level errors.
type TransportError struct {
	Backend string
	Status  int
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Backend, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: connection error: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure is eligible for the single built-in
// retry: 429, 5xx gateway/server conditions, or a connection-level error.
func (e *TransportError) Transient() bool {
	switch e.Status {
	case 0, 429, 500, 502, 503, 504:
		return true
	}
	return false
}
