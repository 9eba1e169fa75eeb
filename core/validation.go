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


package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateEvent validates an Event according to domain rules.
//
// Validation rules:
//   - Title, Description, Organizer must not be empty
//   - Date must be YYYY-MM-DD, Time (and EndTime when set) must be HH:MM
//   - Category must be one of EventCategories
//   - TicketURL and ContactEmail are checked only when set
func ValidateEvent(event *Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}
	if err := validate.Struct(event); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return nil
}

// ValidateVenue validates a Venue according to domain rules.
func ValidateVenue(venue *Venue) error {
	if venue == nil {
		return fmt.Errorf("%w: venue is nil", ErrInvalidVenue)
	}
	if err := validate.Struct(venue); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVenue, err)
	}
	return nil
}

// ValidateBusiness validates a Business according to domain rules.
// Only the name is mandatory; optional fields are format-checked when set.
func ValidateBusiness(business *Business) error {
	if business == nil {
		return fmt.Errorf("%w: business is nil", ErrInvalidBusiness)
	}
	if err := validate.Struct(business); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBusiness, err)
	}
	return nil
}
