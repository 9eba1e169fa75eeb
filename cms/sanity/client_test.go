package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/eventscribe/cms"
	"github.com/poiesic/eventscribe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := newClient(Config{
		BaseURL: ts.URL,
		Dataset: "production",
		Token:   "test-token",
	})
	require.NoError(t, err)
	return client, ts
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{ProjectID: "abc123"}
	cfg.Normalize()
	assert.Equal(t, "https://abc123.api.sanity.io", cfg.BaseURL)
	assert.Equal(t, "production", cfg.Dataset)
	assert.Equal(t, "v2024-02-01", cfg.APIVersion)

	cfg = Config{ProjectID: "abc123", APIVersion: "2025-01-01"}
	cfg.Normalize()
	assert.Equal(t, "v2025-01-01", cfg.APIVersion)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.NoError(t, (&Config{ProjectID: "abc123"}).Validate())
	assert.NoError(t, (&Config{BaseURL: "http://localhost:3333"}).Validate())
}

func TestEventTitles(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-02-01/data/query/production", r.URL.Path)
		assert.Equal(t, `*[_type == "event"].title`, r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		io.WriteString(w, `{"result": ["Film Night", null, "Open Mic"]}`)
	}))

	titles, err := client.EventTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Film Night", "Open Mic"}, titles)
}

func TestFindVenueID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"Shaftesbury Arts Centre"`, r.URL.Query().Get("$name"))
		io.WriteString(w, `{"result": "venue-123"}`)
	}))

	id, err := client.FindVenueID(context.Background(), "Shaftesbury Arts Centre")
	require.NoError(t, err)
	assert.Equal(t, "venue-123", id)
}

func TestFindVenueIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result": null}`)
	}))

	_, err := client.FindVenueID(context.Background(), "Nowhere Hall")
	assert.ErrorIs(t, err, cms.ErrNotFound)
}

func TestCreateEvent(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-02-01/data/mutate/production", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("returnIds"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"transactionId":"t1","results":[{"id":"event-abc","operation":"create"}]}`)
	}))

	doc := cms.NewEventDocument(core.Event{
		Title:       "Film Night",
		Description: "A screening.",
		Date:        "2026-03-14",
		Time:        "19:30",
		Category:    "arts",
		Organizer:   "Shaftesbury Arts Centre",
	}, "venue-123")
	doc.Image = cms.NewImage("image-xyz", "Film Night")

	id, err := client.CreateEvent(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "event-abc", id)

	mutations := gotBody["mutations"].([]any)
	require.Len(t, mutations, 1)
	created := mutations[0].(map[string]any)["create"].(map[string]any)
	assert.Equal(t, "event", created["_type"])
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, false, created["isFeatured"])
	venue := created["venue"].(map[string]any)
	assert.Equal(t, "reference", venue["_type"])
	assert.Equal(t, "venue-123", venue["_ref"])
	image := created["image"].(map[string]any)
	assert.Equal(t, "image-xyz", image["asset"].(map[string]any)["_ref"])
	// Empty optional fields stay off the wire.
	_, hasEndTime := created["endTime"]
	assert.False(t, hasEndTime)
}

func TestCreateFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Insufficient permissions"}`, http.StatusForbidden)
	}))

	_, err := client.CreateVenue(context.Background(), cms.NewVenueDocument(core.Venue{Name: "X"}))
	require.Error(t, err)

	var reqErr *cms.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusForbidden, reqErr.Status)
}

func TestUploadImage(t *testing.T) {
	imageBytes := []byte("\xff\xd8\xff\xe0fakejpegdata")
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-02-01/assets/images/production", r.URL.Path)
		assert.Equal(t, "arts-centre-101.jpg", r.URL.Query().Get("filename"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, imageBytes, body)
		io.WriteString(w, `{"document":{"_id":"image-101"}}`)
	}))

	assetID, err := client.UploadImage(context.Background(), imageBytes, "arts-centre-101.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image-101", assetID)
}

func TestUploadImageFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	}))

	_, err := client.UploadImage(context.Background(), []byte("data"), "x.jpg")
	var reqErr *cms.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, reqErr.Status)
}
