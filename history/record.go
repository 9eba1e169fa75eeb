package history

import (
	"time"

	"github.com/poiesic/eventscribe/core"
	"github.com/poiesic/eventscribe/ingest"
)

// ItemOutcome is the per-record outcome kept for one run.
type ItemOutcome struct {
	Title  string
	DocID  string
	Status string
}

// RunRecord is one completed ingestion run.
type RunRecord struct {
	ID         core.ID
	StartedAt  time.Time
	FinishedAt time.Time
	SourceURL  string
	Imported   int
	Skipped    int
	Failed     int
	Items      []ItemOutcome
}

// NewRunRecord builds a run record from a pipeline result. The ID is
// assigned by the store on append.
func NewRunRecord(sourceURL string, started, finished time.Time, result *ingest.Result) RunRecord {
	record := RunRecord{
		StartedAt:  started,
		FinishedAt: finished,
		SourceURL:  sourceURL,
		Imported:   result.Imported,
		Skipped:    result.Skipped,
		Items:      make([]ItemOutcome, 0, len(result.Results)),
	}
	for _, item := range result.Results {
		if item.Status != "created" {
			record.Failed++
		}
		record.Items = append(record.Items, ItemOutcome{
			Title:  item.Title,
			DocID:  item.ID,
			Status: item.Status,
		})
	}
	return record
}
