package config

import "errors"

// Sentinel kinds for configuration failures; match them with errors.Is.
var (
	// ErrInvalidConfig reports a value outside its allowed range.
	ErrInvalidConfig = errors.New("invalid sketchrec config")
	// ErrLoadConfig reports a file, env or decoding failure while loading.
	ErrLoadConfig = errors.New("load sketchrec config failed")
)
