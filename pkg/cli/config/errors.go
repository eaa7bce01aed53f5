package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound   = goerr.New("configuration file not found")
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrInvalidChannel   = goerr.New("invalid channel reference")
	ErrDuplicateChannel = goerr.New("duplicate channel reference")
)
