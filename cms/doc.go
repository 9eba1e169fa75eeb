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


// Package cms provides the content-store abstraction for eventscribe.
//
// The content store is a headless CMS holding the site's events, venues
// and businesses as typed documents (a "_type" tag on each). This
// package defines the Store interface the pipeline and HTTP handlers
// depend on, plus the document shapes they write.
//
// The production implementation lives in cms/sanity and talks to a
// Sanity-compatible HTTP API. Tests substitute their own Store
// implementations; the interface is intentionally small.
package cms
