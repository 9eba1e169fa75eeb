package feed

// Record is one raw item from the external event-listing API. The
// WordPress REST shape nests display text under "rendered" keys and the
// featured image under the _embedded envelope.
type Record struct {
	ID      int64         `json:"id"`
	Title   RenderedText  `json:"title"`
	Content RenderedText  `json:"content"`
	Link    string        `json:"link"`
	Embeds  *RecordEmbeds `json:"_embedded,omitempty"`
}

// RenderedText is a WordPress rendered-HTML field.
type RenderedText struct {
	Rendered string `json:"rendered"`
}

// RecordEmbeds carries the embedded featured-media objects.
type RecordEmbeds struct {
	FeaturedMedia []FeaturedMedia `json:"wp:featuredmedia,omitempty"`
}

// FeaturedMedia is one embedded media item.
type FeaturedMedia struct {
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

// ImageURL returns the source URL of the record's featured image, or ""
// when the record has none.
func (r *Record) ImageURL() string {
	if r.Embeds == nil || len(r.Embeds.FeaturedMedia) == 0 {
		return ""
	}
	return r.Embeds.FeaturedMedia[0].SourceURL
}
