// Package ingest orchestrates the event import pipeline: fetch the
// external feed, drop already-imported records, resolve the default
// venue, sanitize and summarize the rest, hand them to the extraction
// model, then write one pending event document per normalized record
// (uploading its image asset first when the source has one).
//
// One Run is strictly sequential; record-level failures (a missing
// image, one rejected document) degrade locally, while feed, index and
// extraction failures abort the run before any event is written.
// Concurrent Runs are not coordinated here: the venue lookup-then-create
// and the dedup index are read-then-write sequences, so the caller must
// guarantee single-flight invocation.
package ingest
