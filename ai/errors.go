package ai

import "errors"

// ErrNoSummaries is returned when ExtractEvents is called with an empty batch.
var ErrNoSummaries = errors.New("no event summaries to extract")

// ParseError reports that no JSON array could be recovered from the
// model's raw output. Raw carries the full response text for diagnosis;
// the pipeline aborts rather than fabricate event data.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "failed to parse extraction model response"
}
