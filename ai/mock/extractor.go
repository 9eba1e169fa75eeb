package mock

import (
	"context"
	"sync"

	"github.com/poiesic/eventscribe/ai"
)

// EventExtractor is a test double for ai.EventExtractor.
// It allows custom behavior injection via function fields.
type EventExtractor struct {
	// ExtractEventsFunc is called by ExtractEvents if set.
	// If nil, a default one-output-per-input mapping is used.
	ExtractEventsFunc func(ctx context.Context, summaries []ai.EventSummary) ([]ai.ExtractedEvent, error)

	mu        sync.Mutex
	callCount int
}

// NewEventExtractor creates a mock extractor with default behavior.
// Note: returns the concrete type to allow test assertions.
func NewEventExtractor() *EventExtractor {
	return &EventExtractor{}
}

// ExtractEvents returns one plausible normalized event per summary,
// echoing each summary's index, unless ExtractEventsFunc overrides it.
func (m *EventExtractor) ExtractEvents(ctx context.Context, summaries []ai.EventSummary) ([]ai.ExtractedEvent, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractEventsFunc != nil {
		return m.ExtractEventsFunc(ctx, summaries)
	}

	events := make([]ai.ExtractedEvent, 0, len(summaries))
	for _, s := range summaries {
		events = append(events, ai.ExtractedEvent{
			Index:       s.Index,
			Title:       s.Title,
			Description: s.Content,
			Date:        "2026-01-01",
			Time:        "19:30",
			Category:    "community",
			TicketURL:   s.Link,
			Organizer:   "Shaftesbury Arts Centre",
		})
	}
	return events, nil
}

// CallCount returns how many times ExtractEvents has been called.
func (m *EventExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count.
func (m *EventExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
}
