package storage

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrGalleryNotFound = errors.New("gallery not found")
)

var (
	ErrFileNotFound = errors.New("file not found")
)
