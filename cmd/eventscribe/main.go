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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/eventscribe/ai"
	"github.com/poiesic/eventscribe/ai/openai"
	"github.com/poiesic/eventscribe/cms"
	"github.com/poiesic/eventscribe/cms/sanity"
	"github.com/poiesic/eventscribe/feed"
	"github.com/poiesic/eventscribe/history"
	"github.com/poiesic/eventscribe/importer"
	"github.com/poiesic/eventscribe/ingest"
	"github.com/poiesic/eventscribe/server"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "eventscribe",
		Usage: "Event and directory ingestion service for the Visit Shaftesbury site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serveCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:    "cron-token",
						Usage:   "Bearer token for scheduled GET scrape triggers",
						EnvVars: []string{"CRON_SECRET"},
					},
					&cli.StringFlag{
						Name:    "scrape-secret",
						Usage:   "Secret for manual POST scrape triggers",
						EnvVars: []string{"REVALIDATION_SECRET"},
					},
					&cli.StringFlag{
						Name:  "source-url",
						Usage: "Default feed URL to scrape",
						Value: server.DefaultSourceURL,
					},
					&cli.StringFlag{
						Name:  "history-db",
						Usage: "Path to the run-history database directory (disabled if empty)",
					},
				)...),
			},
			{
				Name:   "scrape",
				Usage:  "Run one ingestion pass and print the result",
				Action: scrapeCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.StringFlag{
						Name:  "source-url",
						Usage: "Feed URL to scrape",
						Value: server.DefaultSourceURL,
					},
				)...),
			},
			{
				Name:   "import-businesses",
				Usage:  "Bulk-import directory businesses from a JSON seed file",
				Action: importBusinessesCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the businesses JSON file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for image downloads",
						Value: 4,
					},
				),
			},
			{
				Name:   "runs",
				Usage:  "List recent ingestion runs from the history database",
				Action: runsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "history-db",
						Usage:    "Path to the run-history database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "sanity-project",
			Usage:   "Sanity project ID",
			EnvVars: []string{"SANITY_PROJECT_ID"},
		},
		&cli.StringFlag{
			Name:    "sanity-dataset",
			Usage:   "Sanity dataset",
			Value:   "production",
			EnvVars: []string{"SANITY_DATASET"},
		},
		&cli.StringFlag{
			Name:    "sanity-token",
			Usage:   "Sanity write token",
			EnvVars: []string{"SANITY_WRITE_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "sanity-api-version",
			Usage:   "Sanity API version",
			EnvVars: []string{"SANITY_API_VERSION"},
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "Extraction service host URL (OpenAI-compatible)",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "ai-model",
			Usage:   "Extraction model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"AI_MODEL"},
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "Extraction service API token",
			Value:   "none",
			EnvVars: []string{"AI_TOKEN"},
		},
		&cli.IntFlag{
			Name:  "ai-max-tokens",
			Usage: "Response token budget per extraction batch",
			Value: 4096,
		},
	}
}

func buildStore(c *cli.Context) (cms.Store, error) {
	store, err := sanity.NewClient(sanity.Config{
		ProjectID:  c.String("sanity-project"),
		Dataset:    c.String("sanity-dataset"),
		Token:      c.String("sanity-token"),
		APIVersion: c.String("sanity-api-version"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create content store client: %w", err)
	}
	return store, nil
}

func buildPipeline(c *cli.Context, store cms.Store) (*ingest.Pipeline, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithModel(c.String("ai-model")),
		ai.WithToken(c.String("ai-token")),
		ai.WithMaxTokens(c.Int("ai-max-tokens")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	extractor, err := openai.NewEventExtractor(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event extractor: %w", err)
	}

	pipeline, err := ingest.NewPipeline(feed.NewClient(), store, extractor)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return pipeline, nil
}

func serveCommand(c *cli.Context) error {
	store, err := buildStore(c)
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(c, store)
	if err != nil {
		return err
	}

	opts := []server.Option{}
	if dbPath := c.String("history-db"); dbPath != "" {
		runLog, err := history.Open(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer runLog.Close()
		opts = append(opts, server.WithHistory(runLog))
	}

	srv, err := server.New(server.Config{
		Addr:         c.String("addr"),
		CronToken:    c.String("cron-token"),
		ScrapeSecret: c.String("scrape-secret"),
		SourceURL:    c.String("source-url"),
	}, pipeline, store, opts...)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func scrapeCommand(c *cli.Context) error {
	store, err := buildStore(c)
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(c, store)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(context.Background(), c.String("source-url"))
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func importBusinessesCommand(c *cli.Context) error {
	store, err := buildStore(c)
	if err != nil {
		return err
	}

	businesses, err := importer.LoadFile(c.String("file"))
	if err != nil {
		return err
	}

	imp, err := importer.New(store, importer.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return err
	}
	defer imp.Release()

	fmt.Fprintf(os.Stderr, "Importing %d businesses...\n", len(businesses))
	results, err := imp.Import(context.Background(), businesses)
	if err != nil {
		return err
	}

	created := 0
	for _, result := range results {
		if result.Status == "created" {
			created++
			fmt.Fprintf(os.Stderr, "  %s: %s\n", result.Name, result.ID)
		} else {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", result.Name, result.Status)
		}
	}
	fmt.Fprintf(os.Stderr, "Import complete: %d of %d created\n", created, len(results))
	return nil
}

func runsCommand(c *cli.Context) error {
	runLog, err := history.Open(c.String("history-db"), false)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer runLog.Close()

	records, err := runLog.Recent(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No runs recorded")
		return nil
	}

	for _, record := range records {
		fmt.Fprintf(os.Stdout, "#%d  %s  imported=%d skipped=%d failed=%d  %s\n",
			record.ID,
			record.StartedAt.Format(time.RFC3339),
			record.Imported,
			record.Skipped,
			record.Failed,
			record.SourceURL)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
