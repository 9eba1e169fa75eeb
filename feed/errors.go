package feed

import "fmt"

// StatusError reports a non-200 response from the upstream feed. The
// whole invocation aborts on it; callers map it to a 502 at the edge.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch events from %s: %d", e.URL, e.Code)
}
