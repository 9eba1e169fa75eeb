package history

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/eventscribe/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(sourceURL string) RunRecord {
	started := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	return NewRunRecord(sourceURL, started, started.Add(42*time.Second), &ingest.Result{
		Message:  "Imported 2 events",
		Imported: 2,
		Skipped:  1,
		Results: []ingest.ItemResult{
			{Title: "Film Night", ID: "event-1", Status: "created"},
			{Title: "Open Mic", ID: "event-2", Status: "created"},
			{Title: "Broken One", Status: "error: invalid event"},
		},
	})
}

func TestRunRecordRoundTrip(t *testing.T) {
	record := sampleRecord("https://example.org/feed")
	record.ID = 7

	decoded, err := UnmarshalRunRecord(MarshalRunRecord(&record))
	require.NoError(t, err)

	assert.Equal(t, record.ID, decoded.ID)
	assert.True(t, record.StartedAt.Equal(decoded.StartedAt))
	assert.True(t, record.FinishedAt.Equal(decoded.FinishedAt))
	assert.Equal(t, record.SourceURL, decoded.SourceURL)
	assert.Equal(t, record.Imported, decoded.Imported)
	assert.Equal(t, record.Skipped, decoded.Skipped)
	assert.Equal(t, record.Failed, decoded.Failed)
	assert.Equal(t, record.Items, decoded.Items)
}

func TestUnmarshalCorruptRecord(t *testing.T) {
	_, err := UnmarshalRunRecord([]byte{0x07, 0x01})
	assert.Error(t, err)
}

func TestNewRunRecordCountsFailures(t *testing.T) {
	record := sampleRecord("https://example.org/feed")
	assert.Equal(t, 2, record.Imported)
	assert.Equal(t, 1, record.Skipped)
	assert.Equal(t, 1, record.Failed)
	require.Len(t, record.Items, 3)
	assert.Equal(t, "event-1", record.Items[0].DocID)
}

func TestAppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var lastID uint64
	for i := 0; i < 3; i++ {
		record := sampleRecord("https://example.org/feed")
		record.StartedAt = record.StartedAt.Add(time.Duration(i) * time.Hour)
		id, err := store.Append(ctx, record)
		require.NoError(t, err)
		lastID = uint64(id)
	}

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, lastID, uint64(records[0].ID))
	assert.True(t, records[0].StartedAt.After(records[2].StartedAt))
	assert.Equal(t, "https://example.org/feed", records[0].SourceURL)
	assert.Len(t, records[0].Items, 3)
}

func TestRecentHonorsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, sampleRecord("https://example.org/feed"))
		require.NoError(t, err)
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecentEmptyStore(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
