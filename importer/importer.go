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


package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/eventscribe/cms"
	"github.com/poiesic/eventscribe/core"
)

const (
	// minImageBytes filters out tracking pixels and error stubs served
	// with a 200.
	minImageBytes = 100

	maxImageBytes = 10 << 20

	imageUserAgent = "Mozilla/5.0"
)

// ErrStoreRequired is returned when a content store is not provided.
var ErrStoreRequired = errors.New("content store required")

// SourceBusiness is one entry of the JSON seed file.
type SourceBusiness struct {
	Title         string `json:"business_title"`
	Description   string `json:"description"`
	WebsiteURL    string `json:"website_url"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
	OpeningHours  string `json:"opening_hours"`
	ImageURL      string `json:"image_url"`
	Category      string `json:"category"`
}

// Result is the per-business outcome of an import.
type Result struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Importer loads seed businesses into the content store.
type Importer struct {
	store       cms.Store
	imageClient *http.Client
	pool        *ants.Pool
	logger      *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(imp *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		imp.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent image work.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(imp *Importer) error {
		if size < 1 {
			size = 1
		}
		if imp.pool != nil {
			imp.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		imp.pool = pool
		return nil
	}
}

// WithImageHTTPClient sets the HTTP client used to download images.
func WithImageHTTPClient(client *http.Client) Option {
	return func(imp *Importer) error {
		if client != nil {
			imp.imageClient = client
		}
		return nil
	}
}

// New creates a business importer.
func New(store cms.Store, opts ...Option) (*Importer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	imp := &Importer{
		store:       store,
		imageClient: &http.Client{Timeout: 10 * time.Second},
		pool:        pool,
		logger:      slog.Default().With("component", "business-importer"),
	}
	for _, opt := range opts {
		if err := opt(imp); err != nil {
			imp.pool.Release()
			return nil, err
		}
	}
	return imp, nil
}

// Release releases the worker pool. The importer should not be used
// after calling Release.
func (imp *Importer) Release() {
	if imp.pool != nil {
		imp.pool.Release()
	}
}

// LoadFile reads the JSON seed file.
func LoadFile(path string) ([]SourceBusiness, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var businesses []SourceBusiness
	if err := json.Unmarshal(data, &businesses); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return businesses, nil
}

// MapCategory maps a seed-file category onto a directory category. The
// food-and-drink split leans on the description because the seed data
// lumps pubs and restaurants together.
func MapCategory(sourceCategory, description string) string {
	switch sourceCategory {
	case "shops":
		return "shop"
	case "food and drink":
		if strings.Contains(strings.ToLower(description), "pub") {
			return "pub"
		}
		return "restaurant"
	case "service":
		return "professional"
	case "accommodation":
		// The directory has no accommodation category.
		return "other"
	default:
		return "other"
	}
}

// Import writes every seed business as an approved directory document.
// Images are fetched and uploaded concurrently first, then documents
// are created in seed-file order. Per-business failures are reported in
// the results and never abort the import.
func (imp *Importer) Import(ctx context.Context, businesses []SourceBusiness) ([]Result, error) {
	images := make([]*cms.Image, len(businesses))
	var wg sync.WaitGroup
	for i := range businesses {
		i := i
		wg.Add(1)
		err := imp.pool.Submit(func() {
			defer wg.Done()
			images[i] = imp.fetchImage(ctx, businesses[i])
		})
		if err != nil {
			wg.Done()
			imp.logger.Warn("failed to schedule image fetch", "name", businesses[i].Title, "err", err)
		}
	}
	wg.Wait()

	results := make([]Result, 0, len(businesses))
	for i, source := range businesses {
		business := core.Business{
			Name:         source.Title,
			Description:  source.Description,
			Category:     MapCategory(source.Category, source.Description),
			Address:      source.Address,
			Phone:        source.ContactNumber,
			Website:      source.WebsiteURL,
			OpeningHours: source.OpeningHours,
		}
		if err := core.ValidateBusiness(&business); err != nil {
			imp.logger.Warn("invalid seed business", "name", source.Title, "err", err)
			results = append(results, Result{Name: source.Title, Status: "error: " + err.Error()})
			continue
		}

		doc := cms.NewBusinessDocument(business, core.StatusApproved)
		doc.Image = images[i]

		id, err := imp.store.CreateBusiness(ctx, doc)
		if err != nil {
			imp.logger.Warn("failed to create business document", "name", source.Title, "err", err)
			results = append(results, Result{Name: source.Title, Status: "error: " + err.Error()})
			continue
		}

		imp.logger.Info("business imported", "name", source.Title, "id", id)
		results = append(results, Result{Name: source.Title, ID: id, Status: "created"})
	}
	return results, nil
}

// fetchImage downloads and uploads one business image. Every failure
// path returns nil; a business without an image is still imported.
func (imp *Importer) fetchImage(ctx context.Context, source SourceBusiness) *cms.Image {
	imageURL := source.ImageURL
	if imageURL == "" || strings.Contains(imageURL, "tripadvisor.com/Restaurant_Review") {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		imp.logger.Warn("bad image URL", "name", source.Title, "url", imageURL, "err", err)
		return nil
	}
	req.Header.Set("User-Agent", imageUserAgent)

	resp, err := imp.imageClient.Do(req)
	if err != nil {
		imp.logger.Warn("image download failed", "name", source.Title, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		imp.logger.Warn("image download returned non-200", "name", source.Title, "status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		imp.logger.Warn("image read failed", "name", source.Title, "err", err)
		return nil
	}
	if len(data) < minImageBytes {
		imp.logger.Warn("image too small, skipping", "name", source.Title, "bytes", len(data))
		return nil
	}

	assetID, err := imp.store.UploadImage(ctx, data, imageFilename(source.Title))
	if err != nil {
		imp.logger.Warn("image upload failed", "name", source.Title, "err", err)
		return nil
	}
	return cms.NewImage(assetID, source.Title)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

func imageFilename(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-") + ".jpg"
}
