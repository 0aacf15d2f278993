package config

import "errors"

// Configuration errors. Validate joins every failure so callers can use
// errors.Is for each one.
var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrUnknownConfigField = errors.New("unknown config field")
	ErrInvalidEnv         = errors.New("invalid environment override")
	ErrInvalidAddr        = errors.New("invalid listen address")
	ErrInvalidBaseURL     = errors.New("invalid base URL")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidRate        = errors.New("rate and burst must be positive")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidExporter    = errors.New("invalid telemetry exporter")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrMissingEndpoint    = errors.New("telemetry endpoint required for exporter")
	ErrInvalidCache       = errors.New("cache max cost must be positive when enabled")
)
