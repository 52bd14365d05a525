package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoCurrentReport is returned when no current report file is given.
	ErrNoCurrentReport = errors.New("no current report specified: use --current")

	// ErrNoBaseline is returned when neither a baseline file nor a branch is set.
	ErrNoBaseline = errors.New("no baseline specified: use --baseline or --branch")

	// ErrInvalidDeltaFormat is returned for delta formats other than delta or percent.
	ErrInvalidDeltaFormat = errors.New("invalid delta format: must be \"delta\" or \"percent\"")

	// ErrInvalidOutputFormat is returned for unknown output formats.
	ErrInvalidOutputFormat = errors.New("invalid output format: must be markdown, text, json or html")

	// ErrNoManifests is returned when the root check is enabled without manifests.
	ErrNoManifests = errors.New("no project manifests configured")

	// ErrInvalidPattern is returned for malformed include or exclude globs.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)
