package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single announced event with an optional poster image.
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"event_date"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
}

// Validate checks the fields required before an event is persisted.
func (e *Event) Validate() error {
	var validationErrors []string

	if e.Title == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if e.Date.IsZero() {
		validationErrors = append(validationErrors, "date is required")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
