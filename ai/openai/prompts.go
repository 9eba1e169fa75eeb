package openai

import "fmt"

const extractionPromptTemplate = `Parse these community events into structured JSON. For each event, extract:

- index: the "index" value of the source event, echoed back exactly as given
- title: clean event title (remove ratings like "(12)" "(15)" etc from the title but keep the info in the description)
- description: a concise 1-3 sentence description of the event
- date: in YYYY-MM-DD format (use the date found in the event data)
- time: start time in HH:MM 24hr format. If not specified, use "19:30" for evening events, "14:00" for matinees, "10:00" for morning events
- endTime: end time in HH:MM if determinable, otherwise omit
- category: one of: community, music, sports, arts, education, markets, charity, council, other. Use "arts" for films/cinema/theatre, "music" for music events, "education" for talks/workshops, "community" for general community events
- price: ticket price as string e.g. "£7.50", "Free", "£14-£16". If unknown omit
- ticketUrl: the event link URL
- organizer: the organizing group/person. Default to %q if not clear

Return a JSON array of objects, one object per input event, each carrying its echoed index. Only return the JSON array, no other text.

Events:
%s`

// buildExtractionPrompt renders the extraction prompt for one batch of
// JSON-encoded event summaries.
func buildExtractionPrompt(organizerFallback, summariesJSON string) string {
	return fmt.Sprintf(extractionPromptTemplate, organizerFallback, summariesJSON)
}
