package repository

import "errors"

// Sentinel kinds for template store errors.
var (
	ErrDuplicateLabel = errors.New("duplicate template label")
	ErrEmptyLabel     = errors.New("empty template label")
)
