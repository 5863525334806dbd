package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrEmptyDocument    = errors.New("document text is empty")
	ErrExtractionFailed = errors.New("extraction source failed")
	ErrInvalidRequest   = errors.New("invalid request payload")
)
