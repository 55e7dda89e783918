package loader

import "fmt"

// HTTPStatusError is returned when a resource was fetched but the server
// answered with a non-success status.
type HTTPStatusError struct {
	Resource   string
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("failed to load %s: unexpected status %d (%s)", e.Resource, e.StatusCode, e.Status)
}

// TransportError is returned when the request could not be sent or its body
// could not be read.
type TransportError struct {
	Resource string
	URL      string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedDataError is returned when a response body does not have the
// expected shape.
type MalformedDataError struct {
	Resource string
	Reason   string
	Err      error
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %s: %v", e.Resource, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s: %s", e.Resource, e.Reason)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}
