package dto

import (
	"errors"
	"time"
)

// ErrInvalidDate is returned when a submitted date field cannot be parsed.
var ErrInvalidDate = errors.New("invalid date format")

// dateLayouts are the accepted forms of the multipart "date" field. The
// admin UI submits plain calendar dates; RFC3339 is accepted for API
// clients that send full timestamps.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// EventInput carries the multipart form fields of an event create/update
// request. The image file part travels separately.
type EventInput struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	Date        string `form:"date" validate:"required"`
}

// EventDate parses the submitted date field.
func (in EventInput) EventDate() (time.Time, error) {
	return parseDate(in.Date)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidDate
}
