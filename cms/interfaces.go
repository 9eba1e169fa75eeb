package cms

import "context"

// Store is the content-store client.
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// EventTitles returns the titles of every event document in the
	// store, in one call. The dedup index is built from this; a partial
	// listing would cause re-imports, so failure here is fatal to an
	// ingestion run.
	EventTitles(ctx context.Context) ([]string, error)

	// FindVenueID looks a venue document up by exact name and returns
	// its document ID. Returns ErrNotFound when no venue has that name.
	FindVenueID(ctx context.Context, name string) (string, error)

	// CreateVenue creates a venue document and returns its ID.
	CreateVenue(ctx context.Context, doc VenueDocument) (string, error)

	// CreateEvent creates an event document and returns its ID.
	CreateEvent(ctx context.Context, doc EventDocument) (string, error)

	// CreateBusiness creates a business document and returns its ID.
	CreateBusiness(ctx context.Context, doc BusinessDocument) (string, error)

	// UploadImage uploads binary image data as an asset and returns the
	// asset document ID for use in image references.
	UploadImage(ctx context.Context, data []byte, filename string) (string, error)
}
