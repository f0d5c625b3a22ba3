package model

import "github.com/nao1215/svcping/internal/protocol"

// Status categorizes a ping result for presentation.
type Status int

const (
	// StatusAlive means the success predicate held.
	StatusAlive Status = iota

	// StatusNoMatch means something answered, but not like the protocol:
	// the reply could not be decoded or failed the predicate.
	StatusNoMatch

	// StatusUnreachable means every attempt timed out or failed at the
	// socket level.
	StatusUnreachable

	// StatusNotProbed means no attempt was made: invalid parameters or a
	// cancelled run.
	StatusNotProbed
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "ALIVE"
	case StatusNoMatch:
		return "NO MATCH"
	case StatusUnreachable:
		return "UNREACHABLE"
	case StatusNotProbed:
		return "NOT PROBED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Hint explains the status to a human reader.
func (s Status) Hint() string {
	switch s {
	case StatusAlive:
		return "The service answered with a valid protocol response."
	case StatusNoMatch:
		return "A service answered on this port, but it does not speak the protocol. Check the port or the protocol selection."
	case StatusUnreachable:
		return "No response. The host may be down, filtered by a firewall, or slower than the timeout."
	case StatusNotProbed:
		return "The probe did not run. See the error for details."
	default:
		return ""
	}
}

// StatusOf derives the status of a ping result.
func StatusOf(r *protocol.PingResult) Status {
	switch {
	case r == nil || r.Attempts == 0:
		return StatusNotProbed
	case r.Alive:
		return StatusAlive
	case r.LastFailure == protocol.FailureDecode || r.LastFailure == protocol.FailurePredicate:
		return StatusNoMatch
	default:
		return StatusUnreachable
	}
}
