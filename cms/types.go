package cms

import "github.com/poiesic/eventscribe/core"

// Document _type tags.
const (
	TypeEvent    = "event"
	TypeVenue    = "venue"
	TypeBusiness = "business"
)

// Reference points at another document by ID.
type Reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

// NewReference creates a reference to the document with the given ID.
func NewReference(id string) Reference {
	return Reference{Type: "reference", Ref: id}
}

// Image is an image field value: a reference to an uploaded asset plus
// alt text.
type Image struct {
	Type  string    `json:"_type"`
	Asset Reference `json:"asset"`
	Alt   string    `json:"alt,omitempty"`
}

// NewImage creates an image field value for an uploaded asset.
func NewImage(assetID, alt string) *Image {
	return &Image{
		Type:  "image",
		Asset: NewReference(assetID),
		Alt:   alt,
	}
}

// EventDocument is the persisted form of an event.
type EventDocument struct {
	Type         string      `json:"_type"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Date         string      `json:"date"`
	Time         string      `json:"time"`
	EndTime      string      `json:"endTime,omitempty"`
	Category     string      `json:"category"`
	Venue        Reference   `json:"venue"`
	Organizer    string      `json:"organizer"`
	ContactEmail string      `json:"contactEmail,omitempty"`
	Price        string      `json:"price,omitempty"`
	TicketURL    string      `json:"ticketUrl,omitempty"`
	Status       core.Status `json:"status"`
	IsFeatured   bool        `json:"isFeatured"`
	Image        *Image      `json:"image,omitempty"`
}

// NewEventDocument assembles an event document from a normalized event
// and a resolved venue ID. New documents always enter the editorial
// queue: status pending, not featured.
func NewEventDocument(event core.Event, venueID string) EventDocument {
	return EventDocument{
		Type:         TypeEvent,
		Title:        event.Title,
		Description:  event.Description,
		Date:         event.Date,
		Time:         event.Time,
		EndTime:      event.EndTime,
		Category:     event.Category,
		Venue:        NewReference(venueID),
		Organizer:    event.Organizer,
		ContactEmail: event.ContactEmail,
		Price:        event.Price,
		TicketURL:    event.TicketURL,
		Status:       core.StatusPending,
		IsFeatured:   false,
	}
}

// VenueDocument is the persisted form of a venue.
type VenueDocument struct {
	Type        string `json:"_type"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewVenueDocument assembles a venue document.
func NewVenueDocument(venue core.Venue) VenueDocument {
	return VenueDocument{
		Type:        TypeVenue,
		Name:        venue.Name,
		Address:     venue.Address,
		Description: venue.Description,
	}
}

// BusinessDocument is the persisted form of a directory business.
type BusinessDocument struct {
	Type         string      `json:"_type"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Category     string      `json:"category,omitempty"`
	Address      string      `json:"address,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Email        string      `json:"email,omitempty"`
	Website      string      `json:"website,omitempty"`
	OpeningHours string      `json:"openingHours,omitempty"`
	Status       core.Status `json:"status"`
	IsFeatured   bool        `json:"isFeatured"`
	Image        *Image      `json:"image,omitempty"`
}

// NewBusinessDocument assembles a business document with the given
// workflow status. Bulk imports write approved documents; public
// submissions write pending ones.
func NewBusinessDocument(business core.Business, status core.Status) BusinessDocument {
	return BusinessDocument{
		Type:         TypeBusiness,
		Name:         business.Name,
		Description:  business.Description,
		Category:     business.Category,
		Address:      business.Address,
		Phone:        business.Phone,
		Email:        business.Email,
		Website:      business.Website,
		OpeningHours: business.OpeningHours,
		Status:       status,
		IsFeatured:   false,
	}
}
