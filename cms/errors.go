package cms

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that the requested document was not found.
var ErrNotFound = errors.New("document not found")

// RequestError reports a non-2xx response from the content store API.
type RequestError struct {
	Operation string
	Status    int
	Body      string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("content store %s failed: status %d: %s", e.Operation, e.Status, e.Body)
}
