package protocol

import "errors"

var (
	// ErrNilTester is returned when registering a nil tester.
	ErrNilTester = errors.New("tester must not be nil")

	// ErrTesterExists is returned when a tester with the same name is
	// already registered.
	ErrTesterExists = errors.New("tester already registered")

	// ErrUnknownProtocol is returned when no tester matches a protocol name.
	ErrUnknownProtocol = errors.New("unknown protocol")

	// ErrEmptyHost is returned when the target host is empty.
	ErrEmptyHost = errors.New("target host must not be empty")

	// ErrInvalidPort is returned when the target port is zero.
	ErrInvalidPort = errors.New("target port must be between 1 and 65535")

	// ErrInvalidTimeout is returned when the per-attempt timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrUnexpectedResponse is recorded when a response was decoded but the
	// success predicate did not hold.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrAdapterPanic is recorded when a collaborator panicked during an attempt.
	ErrAdapterPanic = errors.New("adapter panicked")
)

// ErrEmptyProtocolName is returned when registering a tester whose
// descriptor has no short name.
var ErrEmptyProtocolName = errors.New("protocol short name must not be empty")

// ErrUnknownCapability is returned by ParseCapability for names that are
// not a capability.
var ErrUnknownCapability = errors.New("unknown capability")
