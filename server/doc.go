// Package server exposes the HTTP surface: the scrape trigger endpoints
// used by cron and by operators, the public submission endpoints for
// events and businesses, the run-history listing, and health and
// metrics endpoints.
//
// Both scrape triggers funnel into a single-flight group, so concurrent
// triggers for the same source URL share one pipeline run.
package server
