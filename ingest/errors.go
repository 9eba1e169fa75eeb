package ingest

import "errors"

var (
	// ErrFeedFetcherRequired is returned when a feed fetcher is not provided.
	ErrFeedFetcherRequired = errors.New("feed fetcher required")

	// ErrStoreRequired is returned when a content store is not provided.
	ErrStoreRequired = errors.New("content store required")

	// ErrExtractorRequired is returned when an event extractor is not provided.
	ErrExtractorRequired = errors.New("event extractor required")
)
