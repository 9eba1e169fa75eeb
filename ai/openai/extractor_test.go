package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/eventscribe/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model with a canned response.
type fakeModel struct {
	response string
	err      error
	prompt   string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			f.prompt = text.Text
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.response, f.err
}

func newTestExtractor(model llms.Model) *EventExtractor {
	return &EventExtractor{
		client:            model,
		maxTokens:         4096,
		organizerFallback: "Shaftesbury Arts Centre",
		logger:            slog.Default(),
	}
}

func summaries() []ai.EventSummary {
	return []ai.EventSummary{
		{Index: 0, Title: "Film Night", Content: "A classic screening.", Link: "https://example.org/e/0"},
		{Index: 1, Title: "Open Mic", Content: "Bring an instrument.", Link: "https://example.org/e/1"},
	}
}

func TestExtractEvents(t *testing.T) {
	model := &fakeModel{response: `[
		{"index":1,"title":"Open Mic","description":"An open mic night.","date":"2026-04-02","time":"19:30","category":"music","organizer":"Shaftesbury Arts Centre"},
		{"index":0,"title":"Film Night","description":"A classic screening.","date":"2026-04-01","time":"19:30","category":"arts","organizer":"Shaftesbury Arts Centre"}
	]`}

	events, err := newTestExtractor(model).ExtractEvents(context.Background(), summaries())
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Output order is the model's choice; the echoed index is the contract.
	assert.Equal(t, 1, events[0].Index)
	assert.Equal(t, 0, events[1].Index)
	assert.Equal(t, "Film Night", events[1].Title)
}

func TestExtractEventsPromptContents(t *testing.T) {
	model := &fakeModel{response: "[]"}
	_, err := newTestExtractor(model).ExtractEvents(context.Background(), summaries())
	require.NoError(t, err)

	assert.Contains(t, model.prompt, `"Film Night"`)
	assert.Contains(t, model.prompt, `"https://example.org/e/1"`)
	assert.Contains(t, model.prompt, "echoed back exactly as given")
	assert.Contains(t, model.prompt, `"Shaftesbury Arts Centre"`)
}

func TestExtractEventsFencedResponse(t *testing.T) {
	model := &fakeModel{response: "```json\n[{\"index\":0,\"title\":\"Film Night\"}]\n```"}
	events, err := newTestExtractor(model).ExtractEvents(context.Background(), summaries())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Film Night", events[0].Title)
}

func TestExtractEventsTrailingComma(t *testing.T) {
	model := &fakeModel{response: `[{"index":0,"title":"Film Night",}]`}
	events, err := newTestExtractor(model).ExtractEvents(context.Background(), summaries())
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestExtractEventsNoArray(t *testing.T) {
	model := &fakeModel{response: "I cannot process this request."}
	_, err := newTestExtractor(model).ExtractEvents(context.Background(), summaries())
	require.Error(t, err)

	var parseErr *ai.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "I cannot process this request.", parseErr.Raw)
}

func TestExtractEventsModelFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	_, err := newTestExtractor(model).ExtractEvents(context.Background(), summaries())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestExtractEventsEmptyBatch(t *testing.T) {
	model := &fakeModel{response: "[]"}
	_, err := newTestExtractor(model).ExtractEvents(context.Background(), nil)
	assert.ErrorIs(t, err, ai.ErrNoSummaries)
}
