package dto

import "time"

// GalleryInput carries the multipart form fields of a gallery create/update
// request. The image file parts travel separately.
type GalleryInput struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	Date        string `form:"date" validate:"required"`
}

// EventDate parses the submitted date field.
func (in GalleryInput) EventDate() (time.Time, error) {
	return parseDate(in.Date)
}
