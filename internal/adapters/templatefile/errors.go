package templatefile

import "errors"

// Sentinel errors returned by Dir.
var (
	ErrInvalidLabel     = errors.New("invalid template label")
	ErrReadTemplate     = errors.New("read template")
	ErrWriteTemplate    = errors.New("write template")
	ErrTemplateNotFound = errors.New("template not found")
)
