package repository

import "errors"

var (
	// ErrInvalidContentURL indicates an empty or malformed content URL
	ErrInvalidContentURL = errors.New("invalid content URL")

	// ErrScreenNotFound indicates the screenshot or layout was not found
	ErrScreenNotFound = errors.New("screen content not found")
)
