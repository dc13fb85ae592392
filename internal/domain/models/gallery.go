package models

import (
	"time"

	"github.com/google/uuid"
)

// Gallery is a titled collection of uploaded images.
// Images keeps upload order; it may be empty on read.
type Gallery struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"event_date"`
	Images      []string  `json:"images" db:"images"`
}

// Validate checks the fields required before a gallery is persisted.
// An empty image list is allowed; the admin UI enforces at least one
// image client-side only.
func (g *Gallery) Validate() error {
	var validationErrors []string

	if g.Title == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if g.Date.IsZero() {
		validationErrors = append(validationErrors, "date is required")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
