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


package openai

import (
	"encoding/json"
	"strings"
)

// extractJSONArray returns the first well-formed JSON array substring of
// s. Models routinely wrap their answer in prose or markdown fences, so
// the scan is bracket-depth based and string-aware rather than a
// whole-body parse.
func extractJSONArray(s string) (string, bool) {
	s = stripCodeFences(s)

	from := 0
	for {
		start := strings.IndexByte(s[from:], '[')
		if start == -1 {
			return "", false
		}
		start += from

		if end, ok := matchBracket(s, start); ok {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
			// A repairable candidate still counts as array-shaped.
			repaired := repairJSON(candidate)
			if json.Valid([]byte(repaired)) {
				return repaired, true
			}
		}
		from = start + 1
	}
}

// matchBracket finds the index of the ']' closing the '[' at start,
// skipping brackets inside JSON string literals.
func matchBracket(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairJSON fixes the one malformation local models produce often
// enough to matter: trailing commas before a closing bracket or brace.
// The pass is string-aware so commas inside values are left alone.
func repairJSON(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	inString := false
	escaped := false
	pendingComma := -1 // index in out of a comma that may turn out trailing

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			pendingComma = -1
			out.WriteByte(ch)
		case ch == ',':
			pendingComma = out.Len()
			out.WriteByte(ch)
		case ch == ']' || ch == '}':
			if pendingComma != -1 {
				trimmed := out.String()[:pendingComma] + out.String()[pendingComma+1:]
				out.Reset()
				out.WriteString(trimmed)
			}
			pendingComma = -1
			out.WriteByte(ch)
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			out.WriteByte(ch)
		default:
			pendingComma = -1
			out.WriteByte(ch)
		}
	}

	return out.String()
}
