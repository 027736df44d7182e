package model

import "errors"

var (
	// ErrInvalidURL is returned when a bookmark URL is not an absolute URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrEmptyTitle is returned when a bookmark is stored under an empty title.
	ErrEmptyTitle = errors.New("title cannot be empty")
)
