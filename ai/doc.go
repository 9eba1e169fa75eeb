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


// Package ai provides the extraction-model abstraction for eventscribe.
//
// The ingestion pipeline hands the model a batch of sanitized event
// summaries and gets back normalized event records. The model is treated
// as an untrusted collaborator: its output is re-parsed, re-validated,
// and re-associated with the source records via an echoed index rather
// than array position.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible chat APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewEventExtractor) return the
// ai.EventExtractor interface to enforce abstraction. Test utility
// constructors (mock.NewEventExtractor) return concrete types so tests
// can inject behavior and make call-count assertions.
package ai
