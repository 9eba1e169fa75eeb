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
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/poiesic/eventscribe/cms"
	"github.com/poiesic/eventscribe/history"
	"github.com/poiesic/eventscribe/ingest"
)

// Runner triggers one ingestion run. *ingest.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, sourceURL string) (*ingest.Result, error)
}

// Server is the HTTP front of the service.
type Server struct {
	echo    *echo.Echo
	cfg     Config
	runner  Runner
	store   cms.Store
	history *history.Store
	logger  *slog.Logger
	scrapes singleflight.Group
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistory attaches a run-history store. Without one, runs are not
// recorded and the runs endpoint answers 404.
func WithHistory(store *history.Store) Option {
	return func(s *Server) {
		s.history = store
	}
}

// New creates the HTTP server.
func New(cfg Config, runner Runner, store cms.Store, opts ...Option) (*Server, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		return nil, errors.New("runner required")
	}
	if store == nil {
		return nil, errors.New("content store required")
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  store,
		logger: slog.Default().With("component", "http-server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				s.logger.Info("request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				s.logger.Error("request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/api/scrape-events", s.handleScrapeCron)
	e.POST("/api/scrape-events", s.handleScrapeManual)
	e.GET("/api/runs", s.handleRuns)
	e.POST("/api/submit-event", s.handleSubmitEvent)
	e.POST("/api/submit-business", s.handleSubmitBusiness)

	s.echo = e
	return s, nil
}

// Start runs the server until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.cfg.Addr)
	if err := s.echo.Start(s.cfg.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}
