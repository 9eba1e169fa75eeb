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


// Package sanity implements cms.Store against the Sanity HTTP API:
// GROQ queries for reads, the mutate endpoint for document creation,
// and the binary asset endpoint for image uploads.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/eventscribe/cms"
)

// Config holds connection settings for a Sanity project.
type Config struct {
	// ProjectID is the Sanity project identifier.
	ProjectID string

	// Dataset is the dataset name. Default: "production"
	Dataset string

	// Token is the write token. Required for mutations and asset
	// uploads; queries on public datasets work without it.
	Token string

	// APIVersion is the date-pinned API version. Default: "v2024-02-01"
	APIVersion string

	// BaseURL overrides the API origin. Tests point this at a local
	// server; when empty it is derived from ProjectID.
	BaseURL string

	// Timeout bounds a single API call. Default: 30s
	Timeout time.Duration
}

// Normalize fills defaults and canonicalizes the version string.
func (c *Config) Normalize() {
	if c.Dataset == "" {
		c.Dataset = "production"
	}
	if c.APIVersion == "" {
		c.APIVersion = "v2024-02-01"
	}
	if !strings.HasPrefix(c.APIVersion, "v") {
		c.APIVersion = "v" + c.APIVersion
	}
	if c.BaseURL == "" && c.ProjectID != "" {
		c.BaseURL = fmt.Sprintf("https://%s.api.sanity.io", c.ProjectID)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	c.Normalize()
	if c.BaseURL == "" {
		return errors.New("sanity config: ProjectID or BaseURL is required")
	}
	return nil
}

// Client talks to one Sanity project/dataset. It implements cms.Store.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Sanity client from config.
//
// Returns the cms.Store interface to enforce abstraction.
func NewClient(cfg Config) (cms.Store, error) {
	return newClient(cfg)
}

func newClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default().With("component", "sanity-client"),
	}, nil
}

// EventTitles returns the title of every event document.
func (c *Client) EventTitles(ctx context.Context) ([]string, error) {
	// Titles can be null on half-migrated documents; decode through
	// pointers and drop the nulls.
	var raw []*string
	if err := c.query(ctx, `*[_type == "event"].title`, nil, &raw); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(raw))
	for _, t := range raw {
		if t != nil {
			titles = append(titles, *t)
		}
	}
	return titles, nil
}

// FindVenueID looks up a venue document ID by exact name.
func (c *Client) FindVenueID(ctx context.Context, name string) (string, error) {
	var id *string
	params := map[string]string{"name": name}
	if err := c.query(ctx, `*[_type == "venue" && name == $name][0]._id`, params, &id); err != nil {
		return "", err
	}
	if id == nil || *id == "" {
		return "", cms.ErrNotFound
	}
	return *id, nil
}

// CreateVenue creates a venue document.
func (c *Client) CreateVenue(ctx context.Context, doc cms.VenueDocument) (string, error) {
	return c.create(ctx, doc)
}

// CreateEvent creates an event document.
func (c *Client) CreateEvent(ctx context.Context, doc cms.EventDocument) (string, error) {
	return c.create(ctx, doc)
}

// CreateBusiness creates a business document.
func (c *Client) CreateBusiness(ctx context.Context, doc cms.BusinessDocument) (string, error) {
	return c.create(ctx, doc)
}

// UploadImage uploads image bytes as an asset and returns the asset ID.
func (c *Client) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/assets/images/%s?filename=%s",
		c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.Dataset, url.QueryEscape(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build asset request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(data))
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.requestError("asset upload", resp)
	}

	var result struct {
		Document struct {
			ID string `json:"_id"`
		} `json:"document"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode asset response: %w", err)
	}
	if result.Document.ID == "" {
		return "", errors.New("asset response missing document id")
	}

	c.logger.Debug("uploaded image asset", "filename", filename, "asset", result.Document.ID)
	return result.Document.ID, nil
}

// query runs a GROQ query and decodes the "result" field into out.
// Params are passed as $-prefixed JSON-encoded query parameters.
func (c *Client) query(ctx context.Context, groq string, params map[string]string, out any) error {
	values := url.Values{}
	values.Set("query", groq)
	for k, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode query param %s: %w", k, err)
		}
		values.Set("$"+k, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/%s/data/query/%s?%s",
		c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.Dataset, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build query request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("query content store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.requestError("query", resp)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode query response: %w", err)
	}
	if envelope.Result == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

// create posts a single create mutation and returns the new document ID.
func (c *Client) create(ctx context.Context, doc any) (string, error) {
	body, err := json.Marshal(map[string]any{
		"mutations": []map[string]any{{"create": doc}},
	})
	if err != nil {
		return "", fmt.Errorf("encode mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/data/mutate/%s?returnIds=true",
		c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.Dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.requestError("create", resp)
	}

	var result struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode mutate response: %w", err)
	}
	if len(result.Results) == 0 || result.Results[0].ID == "" {
		return "", errors.New("mutate response missing document id")
	}
	return result.Results[0].ID, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}

func (c *Client) requestError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &cms.RequestError{
		Operation: operation,
		Status:    resp.StatusCode,
		Body:      strings.TrimSpace(string(body)),
	}
}
