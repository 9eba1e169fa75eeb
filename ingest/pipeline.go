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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/eventscribe/ai"
	"github.com/poiesic/eventscribe/cms"
	"github.com/poiesic/eventscribe/core"
	"github.com/poiesic/eventscribe/feed"
	"github.com/poiesic/eventscribe/sanitize"
)

const (
	// summaryLimit caps the plain-text body sent to the extraction model
	// per event.
	summaryLimit = 1500

	// maxImageBytes bounds a single downloaded image.
	maxImageBytes = 10 << 20
)

// FeedFetcher retrieves one page of raw records from a feed URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, sourceURL string) ([]feed.Record, error)
}

// ItemResult is the per-record outcome of the write loop.
type ItemResult struct {
	Title  string `json:"title"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Message  string       `json:"message"`
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
	Results  []ItemResult `json:"results,omitempty"`
}

// Pipeline imports events from an external feed into the content store.
// A Pipeline is safe for concurrent use, but concurrent Runs race on the
// venue and dedup lookups; serialize invocations externally.
type Pipeline struct {
	fetcher     FeedFetcher
	store       cms.Store
	extractor   ai.EventExtractor
	sanitizer   *sanitize.Sanitizer
	imageClient *http.Client
	venue       core.Venue
	assetPrefix string
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithVenue sets the default venue every imported event is attached to.
func WithVenue(venue core.Venue) Option {
	return func(p *Pipeline) {
		p.venue = venue
	}
}

// WithAssetPrefix sets the filename prefix for uploaded image assets.
func WithAssetPrefix(prefix string) Option {
	return func(p *Pipeline) {
		if prefix != "" {
			p.assetPrefix = prefix
		}
	}
}

// WithImageHTTPClient sets the HTTP client used to download featured
// images. Used by tests and by callers needing transport settings.
func WithImageHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.imageClient = client
		}
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(fetcher FeedFetcher, store cms.Store, extractor ai.EventExtractor, opts ...Option) (*Pipeline, error) {
	if fetcher == nil {
		return nil, ErrFeedFetcherRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	p := &Pipeline{
		fetcher:     fetcher,
		store:       store,
		extractor:   extractor,
		sanitizer:   sanitize.New(),
		imageClient: &http.Client{Timeout: 30 * time.Second},
		venue: core.Venue{
			Name:        "Shaftesbury Arts Centre",
			Address:     "Bell Street, Shaftesbury, Dorset SP7 8AR",
			Description: "A vibrant community arts centre in the heart of Shaftesbury, hosting cinema, theatre, music, workshops and events.",
		},
		assetPrefix: "arts-centre",
		logger:      slog.Default().With("component", "ingest-pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// pendingRecord pairs a fresh feed record with its sanitized title.
type pendingRecord struct {
	record feed.Record
	title  string
}

// Run executes one full import against sourceURL.
//
// Feed, index, venue and extraction failures abort the run with no event
// documents written (an idempotent venue creation may already have
// happened). Once the write loop starts, failures are per item: each is
// recorded in Result.Results and the loop continues.
func (p *Pipeline) Run(ctx context.Context, sourceURL string) (*Result, error) {
	result, err := p.run(ctx, sourceURL)
	runsTotal.Inc()
	if err != nil {
		runFailures.Inc()
		return nil, err
	}
	eventsImported.Add(float64(result.Imported))
	eventsSkipped.Add(float64(result.Skipped))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, sourceURL string) (*Result, error) {
	started := time.Now()

	records, err := p.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		p.logger.Info("feed empty, nothing to import", "url", sourceURL)
		return &Result{Message: "No events found", Imported: 0}, nil
	}

	existing, err := p.existingTitleIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("build dedup index: %w", err)
	}

	venueID, err := p.resolveVenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve venue: %w", err)
	}

	fresh := make([]pendingRecord, 0, len(records))
	for _, record := range records {
		title := p.sanitizer.Clean(record.Title.Rendered)
		if _, ok := existing[core.DedupKey(title)]; ok {
			p.logger.Debug("skipping already-imported event", "title", title)
			continue
		}
		fresh = append(fresh, pendingRecord{record: record, title: title})
	}
	skipped := len(records) - len(fresh)

	if len(fresh) == 0 {
		p.logger.Info("all feed records already imported", "skipped", skipped)
		return &Result{Message: "All events already exist", Imported: 0, Skipped: skipped}, nil
	}

	summaries := make([]ai.EventSummary, len(fresh))
	for i, pending := range fresh {
		summaries[i] = ai.EventSummary{
			Index:   i,
			Title:   pending.title,
			Content: sanitize.Truncate(p.sanitizer.Clean(pending.record.Content.Rendered), summaryLimit),
			Link:    pending.record.Link,
		}
	}

	extracted, err := p.extractor.ExtractEvents(ctx, summaries)
	if err != nil {
		return nil, err
	}

	results, imported := p.writeEvents(ctx, fresh, extracted, venueID)

	p.logger.Info("import finished",
		"imported", imported,
		"skipped", skipped,
		"failed", len(results)-imported,
		"duration", time.Since(started))

	return &Result{
		Message:  fmt.Sprintf("Imported %d events", imported),
		Imported: imported,
		Skipped:  skipped,
		Results:  results,
	}, nil
}

// existingTitleIndex builds the dedup lookup from stored event titles.
func (p *Pipeline) existingTitleIndex(ctx context.Context) (map[core.ID]struct{}, error) {
	titles, err := p.store.EventTitles(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[core.ID]struct{}, len(titles))
	for _, title := range titles {
		index[core.DedupKey(title)] = struct{}{}
	}
	return index, nil
}

// resolveVenue finds the default venue document, creating it on first
// use. Lookup-then-create is not atomic; see the package comment.
func (p *Pipeline) resolveVenue(ctx context.Context) (string, error) {
	id, err := p.store.FindVenueID(ctx, p.venue.Name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, cms.ErrNotFound) {
		return "", err
	}

	id, err = p.store.CreateVenue(ctx, cms.NewVenueDocument(p.venue))
	if err != nil {
		return "", err
	}
	p.logger.Info("created default venue", "name", p.venue.Name, "id", id)
	return id, nil
}

// writeEvents pairs extracted records with their sources via the echoed
// index and creates one document per valid record. Every failure is
// captured per item; the loop never aborts.
func (p *Pipeline) writeEvents(ctx context.Context, fresh []pendingRecord, extracted []ai.ExtractedEvent, venueID string) ([]ItemResult, int) {
	results := make([]ItemResult, 0, len(fresh))
	covered := make(map[int]bool, len(extracted))
	imported := 0

	for _, ev := range extracted {
		if ev.Index < 0 || ev.Index >= len(fresh) {
			p.logger.Warn("extraction returned unknown index", "index", ev.Index, "title", ev.Title)
			results = append(results, ItemResult{Title: ev.Title, Status: fmt.Sprintf("error: extraction index %d out of range", ev.Index)})
			itemErrors.Inc()
			continue
		}
		if covered[ev.Index] {
			results = append(results, ItemResult{Title: ev.Title, Status: fmt.Sprintf("error: duplicate extraction index %d", ev.Index)})
			itemErrors.Inc()
			continue
		}
		covered[ev.Index] = true
		source := fresh[ev.Index]

		event := core.Event{
			Title:       ev.Title,
			Description: ev.Description,
			Date:        ev.Date,
			Time:        ev.Time,
			EndTime:     ev.EndTime,
			Category:    ev.Category,
			Price:       ev.Price,
			TicketURL:   ev.TicketURL,
			Organizer:   ev.Organizer,
		}
		if err := core.ValidateEvent(&event); err != nil {
			p.logger.Warn("extracted event failed validation", "title", ev.Title, "err", err)
			results = append(results, ItemResult{Title: ev.Title, Status: "error: " + err.Error()})
			itemErrors.Inc()
			continue
		}

		doc := cms.NewEventDocument(event, venueID)
		doc.Image = p.uploadImage(ctx, source)

		id, err := p.store.CreateEvent(ctx, doc)
		if err != nil {
			p.logger.Warn("failed to create event document", "title", ev.Title, "err", err)
			results = append(results, ItemResult{Title: ev.Title, Status: "error: " + err.Error()})
			itemErrors.Inc()
			continue
		}

		results = append(results, ItemResult{Title: ev.Title, ID: id, Status: "created"})
		imported++
	}

	// Records the model dropped get an explicit outcome instead of
	// vanishing from the report.
	for i, pending := range fresh {
		if !covered[i] {
			results = append(results, ItemResult{Title: pending.title, Status: "error: no extraction output"})
			itemErrors.Inc()
		}
	}

	return results, imported
}

// uploadImage fetches and uploads the record's featured image, returning
// the image field value or nil. Image trouble is never fatal to the
// event itself: every failure path logs and returns nil.
func (p *Pipeline) uploadImage(ctx context.Context, source pendingRecord) *cms.Image {
	imageURL := source.record.ImageURL()
	if imageURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		p.logger.Warn("bad image URL, importing event without image", "url", imageURL, "err", err)
		return nil
	}

	resp, err := p.imageClient.Do(req)
	if err != nil {
		p.logger.Warn("image fetch failed, importing event without image", "url", imageURL, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("image fetch returned non-200, importing event without image", "url", imageURL, "status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		p.logger.Warn("image read failed, importing event without image", "url", imageURL, "err", err)
		return nil
	}

	filename := fmt.Sprintf("%s-%d.jpg", p.assetPrefix, source.record.ID)
	assetID, err := p.store.UploadImage(ctx, data, filename)
	if err != nil {
		p.logger.Warn("image upload failed, importing event without image", "filename", filename, "err", err)
		return nil
	}

	return cms.NewImage(assetID, source.title)
}
