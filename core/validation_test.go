package core

import (
	"errors"
	"strings"
	"testing"
)

func validEvent() *Event {
	return &Event{
		Title:       "Film Night",
		Description: "A screening of a classic film.",
		Date:        "2026-03-14",
		Time:        "19:30",
		Category:    "arts",
		Organizer:   "Shaftesbury Arts Centre",
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr bool
	}{
		{"valid minimal event", func(e *Event) {}, false},
		{"valid with optional fields", func(e *Event) {
			e.EndTime = "22:00"
			e.Price = "£7.50"
			e.TicketURL = "https://example.org/tickets/1"
			e.ContactEmail = "hello@example.org"
		}, false},
		{"missing title", func(e *Event) { e.Title = "" }, true},
		{"missing description", func(e *Event) { e.Description = "" }, true},
		{"bad date format", func(e *Event) { e.Date = "14/03/2026" }, true},
		{"bad time format", func(e *Event) { e.Time = "7.30pm" }, true},
		{"bad end time format", func(e *Event) { e.EndTime = "late" }, true},
		{"unknown category", func(e *Event) { e.Category = "cinema" }, true},
		{"missing organizer", func(e *Event) { e.Organizer = "" }, true},
		{"bad ticket url", func(e *Event) { e.TicketURL = "not a url" }, true},
		{"bad contact email", func(e *Event) { e.ContactEmail = "not-an-email" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)
			err := ValidateEvent(event)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("error should wrap ErrInvalidEvent, got %v", err)
			}
		})
	}

	t.Run("nil event", func(t *testing.T) {
		err := ValidateEvent(nil)
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("expected ErrInvalidEvent, got %v", err)
		}
	})
}

func TestValidateEventAllCategories(t *testing.T) {
	for _, category := range EventCategories {
		event := validEvent()
		event.Category = category
		if err := ValidateEvent(event); err != nil {
			t.Errorf("category %q should be valid: %v", category, err)
		}
	}
}

func TestValidateVenue(t *testing.T) {
	venue := &Venue{
		Name:        "Shaftesbury Arts Centre",
		Address:     "Bell Street, Shaftesbury, Dorset SP7 8AR",
		Description: "A community arts centre.",
	}
	if err := ValidateVenue(venue); err != nil {
		t.Errorf("valid venue rejected: %v", err)
	}

	if err := ValidateVenue(&Venue{}); !errors.Is(err, ErrInvalidVenue) {
		t.Errorf("expected ErrInvalidVenue for empty name, got %v", err)
	}

	if err := ValidateVenue(nil); !errors.Is(err, ErrInvalidVenue) {
		t.Errorf("expected ErrInvalidVenue for nil venue, got %v", err)
	}
}

func TestValidateBusiness(t *testing.T) {
	tests := []struct {
		name     string
		business *Business
		wantErr  bool
	}{
		{"name only", &Business{Name: "The Mitre"}, false},
		{
			"full record",
			&Business{
				Name:         "The Mitre",
				Description:  "A traditional high-street pub.",
				Category:     "pub",
				Address:      "23 High Street, Shaftesbury",
				Phone:        "01747 853002",
				Email:        "info@example.org",
				Website:      "https://www.themitredorset.co.uk/",
				OpeningHours: "10am - 11pm",
			},
			false,
		},
		{"missing name", &Business{Category: "shop"}, true},
		{"unknown category", &Business{Name: "X", Category: "accommodation"}, true},
		{"bad website", &Business{Name: "X", Website: strings.Repeat(" ", 3)}, true},
		{"bad email", &Business{Name: "X", Email: "nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBusiness(tt.business)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBusiness() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
