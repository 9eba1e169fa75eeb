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


// Package feed fetches raw event records from an external WordPress
// JSON feed. Records live only for the duration of one fetch; nothing
// here is persisted.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	// defaultUserAgent identifies the scraper to the upstream site.
	defaultUserAgent = "VisitShaftesbury/1.0"

	defaultTimeout = 30 * time.Second
)

// Client fetches event records from a feed URL.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Used by tests and by
// callers that need custom transport settings.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent overrides the identifying User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout bounds a single fetch. The default is 30s; the upstream
// WordPress install is slow on cold cache.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a feed client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		logger:     slog.Default().With("component", "feed-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves one page of event records from sourceURL.
// A non-200 response returns *StatusError. An empty array is not an
// error; the caller simply has nothing to import.
func (c *Client) Fetch(ctx context.Context, sourceURL string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("upstream feed returned non-200", "url", sourceURL, "status", resp.StatusCode)
		return nil, &StatusError{URL: sourceURL, Code: resp.StatusCode}
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	c.logger.Debug("fetched feed records", "url", sourceURL, "count", len(records))
	return records, nil
}
