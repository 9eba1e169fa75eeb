// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package sanitize converts feed markup into plain text.
//
// Feed records arrive as HTML-escaped fragments (WordPress "rendered"
// fields). Clean strips every tag, decodes the fixed entity set those
// fields use, and normalizes whitespace. It is a total function: malformed
// input degrades to best-effort stripping, never an error.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup and entities from feed text.
// It is safe for concurrent use.
type Sanitizer struct {
	policy   *bluemonday.Policy
	entities *strings.Replacer
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// New creates a Sanitizer with a strict strip-everything policy.
func New() *Sanitizer {
	// The policy re-escapes text nodes, so the entity pass below sees each
	// entity exactly once regardless of how the input was escaped. A single
	// Replacer pass never rescans its own output, so "&amp;amp;" correctly
	// decodes to "&amp;" and no further.
	entities := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#34;", `"`,
		"&#039;", "'",
		"&#39;", "'",
		"&nbsp;", " ",
		"\u00a0", " ",
	)

	return &Sanitizer{
		policy:   bluemonday.StrictPolicy(),
		entities: entities,
	}
}

// Clean returns the plain-text form of an HTML fragment: tags removed,
// the fixed entity set decoded once, whitespace runs collapsed to a
// single space, and the result trimmed.
func (s *Sanitizer) Clean(html string) string {
	text := s.policy.Sanitize(html)
	text = s.entities.Replace(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate caps text at limit runes. Used to bound the per-event body
// sent to the extraction model.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
