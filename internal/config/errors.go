package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a configuration value no component can use.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrExists indicates WriteDefault would overwrite an existing file.
	ErrExists = errors.New("config file already exists")
)
