package ai

import "context"

// EventExtractor converts sanitized event summaries into normalized
// event records using a language model.
// Implementations must be thread-safe for concurrent use.
type EventExtractor interface {
	// ExtractEvents sends one batch of summaries to the extraction model
	// and returns the normalized records it produced. Each returned record
	// echoes the Index of the summary it was derived from; callers must
	// pair by that echo, not by position. The result may be shorter than
	// the input if the model dropped records, and individual records may
	// fail later schema validation; neither is an error here.
	// Returns *ParseError when no JSON array can be recovered from the
	// model output.
	ExtractEvents(ctx context.Context, summaries []EventSummary) ([]ExtractedEvent, error)
}
