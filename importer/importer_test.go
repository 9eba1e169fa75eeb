package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/eventscribe/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a thread-safe in-memory cms.Store; image uploads run
// concurrently.
type fakeStore struct {
	mu      sync.Mutex
	created []cms.BusinessDocument
	uploads []string
}

func (s *fakeStore) EventTitles(ctx context.Context) ([]string, error) { return nil, nil }

func (s *fakeStore) FindVenueID(ctx context.Context, name string) (string, error) {
	return "", cms.ErrNotFound
}

func (s *fakeStore) CreateVenue(ctx context.Context, doc cms.VenueDocument) (string, error) {
	return "venue-1", nil
}

func (s *fakeStore) CreateEvent(ctx context.Context, doc cms.EventDocument) (string, error) {
	return "event-1", nil
}

func (s *fakeStore) CreateBusiness(ctx context.Context, doc cms.BusinessDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, doc)
	return "business-" + doc.Name, nil
}

func (s *fakeStore) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, filename)
	return "image-" + filename, nil
}

func newTestImporter(t *testing.T, store cms.Store, opts ...Option) *Importer {
	t.Helper()
	imp, err := New(store, opts...)
	require.NoError(t, err)
	t.Cleanup(imp.Release)
	return imp
}

func TestMapCategory(t *testing.T) {
	tests := []struct {
		source      string
		description string
		want        string
	}{
		{"shops", "", "shop"},
		{"food and drink", "A traditional high-street pub.", "pub"},
		{"food and drink", "Fine dining restaurant.", "restaurant"},
		{"service", "", "professional"},
		{"accommodation", "", "other"},
		{"unknown", "", "other"},
		{"", "", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCategory(tt.source, tt.description), "category %q", tt.source)
	}
}

func TestImageFilename(t *testing.T) {
	assert.Equal(t, "the-grosvenor-arms.jpg", imageFilename("The Grosvenor Arms"))
	assert.Equal(t, "la-fleur-de-lys.jpg", imageFilename("La Fleur de Lys"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "businesses.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{
			"business_title": "The Mitre",
			"description": "A traditional high-street pub.",
			"website_url": "https://www.themitredorset.co.uk/",
			"contact_number": "01747 853002",
			"address": "23 High Street, Shaftesbury",
			"opening_hours": "10am - 11pm",
			"image_url": null,
			"category": "food and drink"
		}
	]`), 0644))

	businesses, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "The Mitre", businesses[0].Title)
	assert.Empty(t, businesses[0].ImageURL)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestImportCreatesApprovedBusinesses(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 256))
	}))
	defer imageServer.Close()

	store := &fakeStore{}
	imp := newTestImporter(t, store, WithPoolSize(2))

	businesses := []SourceBusiness{
		{
			Title:       "The Mitre",
			Description: "A traditional high-street pub.",
			WebsiteURL:  "https://www.themitredorset.co.uk/",
			Category:    "food and drink",
			ImageURL:    imageServer.URL + "/mitre.jpg",
		},
		{
			Title:       "Shirley Allum Boutique",
			Description: "Independent fashion boutique.",
			Category:    "shops",
		},
	}

	results, err := imp.Import(context.Background(), businesses)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "created", results[0].Status)
	assert.Equal(t, "business-The Mitre", results[0].ID)
	assert.Equal(t, "created", results[1].Status)

	require.Len(t, store.created, 2)
	byName := map[string]cms.BusinessDocument{}
	for _, doc := range store.created {
		byName[doc.Name] = doc
	}
	mitre := byName["The Mitre"]
	assert.Equal(t, "approved", string(mitre.Status))
	assert.Equal(t, "pub", mitre.Category)
	require.NotNil(t, mitre.Image)
	assert.Equal(t, "image-the-mitre.jpg", mitre.Image.Asset.Ref)
	assert.Equal(t, "The Mitre", mitre.Image.Alt)

	boutique := byName["Shirley Allum Boutique"]
	assert.Equal(t, "shop", boutique.Category)
	assert.Nil(t, boutique.Image)
}

func TestImportSkipsNonImageURLs(t *testing.T) {
	store := &fakeStore{}
	imp := newTestImporter(t, store)

	businesses := []SourceBusiness{{
		Title:       "The Mitre",
		Description: "A pub.",
		Category:    "food and drink",
		ImageURL:    "https://www.tripadvisor.com/Restaurant_Review-g551684-d3596164.html",
	}}

	results, err := imp.Import(context.Background(), businesses)
	require.NoError(t, err)
	assert.Equal(t, "created", results[0].Status)
	assert.Empty(t, store.uploads)
	assert.Nil(t, store.created[0].Image)
}

func TestImportSkipsTinyImages(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tiny"))
	}))
	defer imageServer.Close()

	store := &fakeStore{}
	imp := newTestImporter(t, store)

	businesses := []SourceBusiness{{
		Title:       "Willow",
		Description: "Independent shop.",
		Category:    "shops",
		ImageURL:    imageServer.URL + "/pixel.png",
	}}

	results, err := imp.Import(context.Background(), businesses)
	require.NoError(t, err)
	assert.Equal(t, "created", results[0].Status)
	assert.Empty(t, store.uploads)
	assert.Nil(t, store.created[0].Image)
}

func TestImportReportsInvalidEntries(t *testing.T) {
	store := &fakeStore{}
	imp := newTestImporter(t, store)

	businesses := []SourceBusiness{
		{Description: "Nameless.", Category: "shops"},
		{Title: "Willow", Description: "Independent shop.", Category: "shops"},
	}

	results, err := imp.Import(context.Background(), businesses)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Status, "error:")
	assert.Equal(t, "created", results[1].Status)
	assert.Len(t, store.created, 1)
}
