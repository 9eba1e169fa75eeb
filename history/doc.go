// Package history keeps a local append-only audit log of ingestion runs.
// Each run is stored as one compact binary record in an embedded
// BadgerDB, keyed so that reverse iteration yields newest-first. The log
// is operator tooling: the import pipeline itself never reads it, so a
// lost or wiped log never affects what gets imported.
package history
