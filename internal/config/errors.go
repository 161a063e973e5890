package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrInvalidTimeout  = errors.New("invalid timeout: must be positive")
	ErrInvalidCacheTTL = errors.New("invalid cache ttl: must be non-negative")
	ErrInvalidURL      = errors.New("invalid site url: must be absolute http(s)")
	ErrInvalidLogSize  = errors.New("invalid log rotation settings: size and backups must be non-negative")
	ErrInvalidFormat   = errors.New("invalid log format: must be 'text' or 'json'")
	ErrEmptyBaseDir    = errors.New("base directory must not be empty")
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
