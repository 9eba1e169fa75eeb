package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or timestamps.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DedupKey generates the deduplication key for an event title.
// The key is the content hash of the lowercased, whitespace-trimmed title,
// so two titles differing only in case or surrounding whitespace collide.
func DedupKey(title string) ID {
	return IDFromContent(strings.ToLower(strings.TrimSpace(title)))
}

// Status is the editorial workflow state of a moderated document.
type Status string

const (
	// StatusPending marks a document awaiting editor review. All imports
	// and public submissions start here.
	StatusPending Status = "pending"
	// StatusApproved marks a document published by an editor.
	StatusApproved Status = "approved"
	// StatusRejected marks a document declined by an editor.
	StatusRejected Status = "rejected"
)

// EventCategories defines the valid categories for events.
var EventCategories = []string{
	"community",
	"music",
	"sports",
	"arts",
	"education",
	"markets",
	"charity",
	"council",
	"other",
}

// BusinessCategories defines the valid categories for directory businesses.
var BusinessCategories = []string{
	"shop",
	"restaurant",
	"cafe",
	"pub",
	"salon",
	"professional",
	"trades",
	"health",
	"other",
}

// Event is a normalized event record as produced by the extraction model
// or a submission form. Date and times are kept as strings in the wire
// format the content store expects (YYYY-MM-DD and HH:MM).
type Event struct {
	Title        string `validate:"required"`
	Description  string `validate:"required"`
	Date         string `validate:"required,datetime=2006-01-02"`
	Time         string `validate:"required,datetime=15:04"`
	EndTime      string `validate:"omitempty,datetime=15:04"`
	Category     string `validate:"required,oneof=community music sports arts education markets charity council other"`
	Price        string
	TicketURL    string `validate:"omitempty,url"`
	Organizer    string `validate:"required"`
	ContactEmail string `validate:"omitempty,email"` // submissions only, never set by imports
}

// Venue is a place events happen at. Venues are looked up by exact name;
// at most one venue per name is expected in the content store.
type Venue struct {
	Name        string `validate:"required"`
	Address     string
	Description string
}

// Business is a directory entry. Only the name is mandatory; everything
// else is filled in as far as the source data allows.
type Business struct {
	Name         string `validate:"required"`
	Description  string
	Category     string `validate:"omitempty,oneof=shop restaurant cafe pub salon professional trades health other"`
	Address      string
	Phone        string
	Email        string `validate:"omitempty,email"`
	Website      string `validate:"omitempty,url"`
	OpeningHours string
}
