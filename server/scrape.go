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


package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poiesic/eventscribe/ai"
	"github.com/poiesic/eventscribe/feed"
	"github.com/poiesic/eventscribe/history"
	"github.com/poiesic/eventscribe/ingest"
)

// handleScrapeCron is the GET trigger used by scheduled jobs. It
// authorizes via the Authorization header and always scrapes the
// configured source URL.
func (s *Server) handleScrapeCron(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	expected := "Bearer " + s.cfg.CronToken
	if subtle.ConstantTimeCompare([]byte(header), []byte(expected)) != 1 {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	}
	return s.runScrape(c, s.cfg.SourceURL)
}

// scrapeRequest is the manual-trigger body. Both fields are optional;
// the secret may arrive via the X-Scrape-Secret header instead.
type scrapeRequest struct {
	Secret    string `json:"secret"`
	SourceURL string `json:"sourceUrl"`
}

// handleScrapeManual is the POST trigger for operators. A malformed or
// absent body is treated as empty, so a bare header-authorized POST
// works.
func (s *Server) handleScrapeManual(c echo.Context) error {
	var req scrapeRequest
	if err := c.Bind(&req); err != nil {
		req = scrapeRequest{}
	}

	secret := req.Secret
	if secret == "" {
		secret = c.Request().Header.Get("X-Scrape-Secret")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.ScrapeSecret)) != 1 {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	}

	sourceURL := req.SourceURL
	if sourceURL == "" {
		sourceURL = s.cfg.SourceURL
	}
	return s.runScrape(c, sourceURL)
}

func (s *Server) runScrape(c echo.Context, sourceURL string) error {
	value, err, shared := s.scrapes.Do(sourceURL, func() (any, error) {
		started := time.Now()
		result, err := s.runner.Run(c.Request().Context(), sourceURL)
		if err != nil {
			return nil, err
		}
		s.recordRun(sourceURL, started, result)
		return result, nil
	})
	if shared {
		s.logger.Info("scrape trigger coalesced into in-flight run", "url", sourceURL)
	}
	if err != nil {
		return s.scrapeError(c, err)
	}
	return c.JSON(http.StatusOK, value.(*ingest.Result))
}

// scrapeError maps pipeline failures onto the HTTP error contract:
// upstream feed trouble is a bad gateway, everything else is internal.
// Extraction parse failures carry the raw model output for debugging.
func (s *Server) scrapeError(c echo.Context, err error) error {
	var statusErr *feed.StatusError
	if errors.As(err, &statusErr) {
		return c.JSON(http.StatusBadGateway, errorResponse{Error: statusErr.Error()})
	}

	var parseErr *ai.ParseError
	if errors.As(err, &parseErr) {
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error: "Failed to parse AI response",
			Raw:   parseErr.Raw,
		})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{
		Error: "Scrape failed: " + err.Error(),
	})
}

// recordRun appends the run to the history log, if one is attached.
// The scrape response never waits on or fails with the log.
func (s *Server) recordRun(sourceURL string, started time.Time, result *ingest.Result) {
	if s.history == nil {
		return
	}
	record := history.NewRunRecord(sourceURL, started, time.Now(), result)
	if _, err := s.history.Append(context.Background(), record); err != nil {
		s.logger.Warn("failed to record run", "err", err)
	}
}

// runSummary is one run in the history listing. Item outcomes stay out
// of the listing; they are bulky and already returned by the trigger.
type runSummary struct {
	ID         uint64    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	SourceURL  string    `json:"sourceUrl"`
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

const defaultRunsLimit = 20

// handleRuns lists recent ingestion runs, newest first.
func (s *Server) handleRuns(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "run history disabled"})
	}

	limit := defaultRunsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
		}
		limit = parsed
	}

	records, err := s.history.Recent(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list runs"})
	}

	summaries := make([]runSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, runSummary{
			ID:         uint64(record.ID),
			StartedAt:  record.StartedAt,
			FinishedAt: record.FinishedAt,
			SourceURL:  record.SourceURL,
			Imported:   record.Imported,
			Skipped:    record.Skipped,
			Failed:     record.Failed,
		})
	}
	return c.JSON(http.StatusOK, summaries)
}
