package service

import (
	"errors"

	"github.com/okian/sketchrec/internal/adapters/templatefile"
)

// Sentinel errors returned by Service.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrInvalidStroke    = errors.New("invalid stroke")
	ErrStrokeTooLarge   = errors.New("stroke too large")
	ErrInvalidThreshold = errors.New("threshold must be a positive number")
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidLabel is returned for labels that cannot be persisted.
	ErrInvalidLabel = templatefile.ErrInvalidLabel
)
