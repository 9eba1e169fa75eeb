package ai

// EventSummary is one sanitized feed record prepared for the extraction
// model: plain-text title, truncated plain-text body, canonical URL, and
// a caller-assigned index the model must echo back.
type EventSummary struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
}

// ExtractedEvent is one normalized record returned by the extraction
// model. Index identifies the EventSummary it was derived from.
//
// Field values are trusted only after schema validation downstream;
// the model is instructed but not guaranteed to honor the formats.
type ExtractedEvent struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	EndTime     string `json:"endTime,omitempty"`
	Category    string `json:"category"`
	Price       string `json:"price,omitempty"`
	TicketURL   string `json:"ticketUrl,omitempty"`
	Organizer   string `json:"organizer"`
}
