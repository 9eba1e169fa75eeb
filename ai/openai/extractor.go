// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/eventscribe/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// EventExtractor implements ai.EventExtractor using OpenAI-compatible chat APIs.
type EventExtractor struct {
	client            llms.Model
	maxTokens         int
	organizerFallback string
	logger            *slog.Logger
}

// newEventExtractor is an internal constructor that returns the concrete type.
func newEventExtractor(config *ai.Config) (*EventExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &EventExtractor{
		client:            client,
		maxTokens:         config.MaxTokens,
		organizerFallback: config.OrganizerFallback,
		logger:            slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewEventExtractor creates a new event extractor using the provided configuration.
//
// Returns ai.EventExtractor interface to enforce abstraction.
func NewEventExtractor(config *ai.Config) (ai.EventExtractor, error) {
	return newEventExtractor(config)
}

// ExtractEvents sends one batch of summaries to the model as a single
// user-role prompt and parses the JSON array it returns. The model may
// wrap the array in commentary or code fences despite instructions; the
// first well-formed array substring wins. When no array can be
// recovered, the raw response is surfaced in *ai.ParseError so the
// pipeline can abort instead of fabricating event data.
func (e *EventExtractor) ExtractEvents(ctx context.Context, summaries []ai.EventSummary) ([]ai.ExtractedEvent, error) {
	if len(summaries) == 0 {
		return nil, ai.ErrNoSummaries
	}

	encoded, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode event summaries: %w", err)
	}

	prompt := buildExtractionPrompt(e.organizerFallback, string(encoded))
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(e.maxTokens))
	if err != nil {
		e.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		e.logger.Warn("no choices returned from model")
		return nil, &ai.ParseError{Raw: ""}
	}

	raw := response.Choices[0].Content

	arrayText, ok := extractJSONArray(raw)
	if !ok {
		e.logger.Error("no JSON array in model response", "response", raw)
		return nil, &ai.ParseError{Raw: raw}
	}

	var events []ai.ExtractedEvent
	if err := json.Unmarshal([]byte(arrayText), &events); err != nil {
		// Common model slip-ups (trailing commas) are repairable; anything
		// beyond that is surfaced rather than guessed at.
		repaired := repairJSON(arrayText)
		if err := json.Unmarshal([]byte(repaired), &events); err != nil {
			e.logger.Error("error parsing extraction response", "response", raw, "err", err)
			return nil, &ai.ParseError{Raw: raw}
		}
	}

	e.logger.Debug("extracted events", "in", len(summaries), "out", len(events))
	return events, nil
}
