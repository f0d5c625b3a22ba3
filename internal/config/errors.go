package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and ParseTarget and can be
// checked with errors.Is().
var (
	// ErrNoTarget is returned when no target host is specified.
	ErrNoTarget = errors.New("no target specified: provide a host, host:port or onion address")

	// ErrNoProtocol is returned when no protocol is selected.
	ErrNoProtocol = errors.New("no protocol specified: use --protocol with a protocol name or \"all\"")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidPort is returned when a port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxy is returned when both --proxy and --tor are specified.
	ErrConflictingProxy = errors.New("conflicting proxy settings: --proxy and --tor cannot be used together")

	// ErrInvalidTorStartupTimeout is returned when the Tor startup timeout is
	// not positive while the embedded Tor daemon is enabled.
	ErrInvalidTorStartupTimeout = errors.New("invalid tor startup timeout: must be positive")
)
