package server

import "errors"

// DefaultSourceURL is the feed scraped when a trigger does not name one.
const DefaultSourceURL = "https://shaftesburyartscentre.org.uk/wp-json/wp/v2/ajde_events?per_page=20&_embed"

// Config holds the HTTP server settings. Both secrets are mandatory: an
// empty secret would make its endpoint either open or dead, and neither
// is a state worth supporting.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// CronToken authorizes GET scrape triggers via a bearer token.
	CronToken string

	// ScrapeSecret authorizes POST scrape triggers via the request body
	// or the X-Scrape-Secret header.
	ScrapeSecret string

	// SourceURL overrides DefaultSourceURL for triggers that do not
	// carry their own.
	SourceURL string
}

// Normalize fills in defaults.
func (c *Config) Normalize() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.SourceURL == "" {
		c.SourceURL = DefaultSourceURL
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.CronToken == "" {
		return errors.New("cron token required")
	}
	if c.ScrapeSecret == "" {
		return errors.New("scrape secret required")
	}
	return nil
}
