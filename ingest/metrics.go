package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eventscribe",
		Subsystem: "ingest",
		Name:      "runs_total",
		Help:      "Completed ingestion runs, successful or not.",
	})

	runFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eventscribe",
		Subsystem: "ingest",
		Name:      "run_failures_total",
		Help:      "Ingestion runs aborted before the write loop finished.",
	})

	eventsImported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eventscribe",
		Subsystem: "ingest",
		Name:      "events_imported_total",
		Help:      "Event documents created in the content store.",
	})

	eventsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eventscribe",
		Subsystem: "ingest",
		Name:      "events_skipped_total",
		Help:      "Feed records skipped as already imported.",
	})

	itemErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eventscribe",
		Subsystem: "ingest",
		Name:      "item_errors_total",
		Help:      "Per-record failures that did not abort the run.",
	})
)
