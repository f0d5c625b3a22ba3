package protocol

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/svcping/internal/transport"
)

// Tester is implemented by every protocol adapter.
type Tester interface {
	// Descriptor returns the constant metadata of the protocol.
	Descriptor() Descriptor

	// Templates returns copies of the request templates, in the order
	// they are tried.
	Templates() []Template

	// Evaluate decodes one response and applies the success predicate.
	// It never touches the network.
	Evaluate(raw []byte) Outcome

	// Ping reports whether the service at params is alive.
	Ping(ctx context.Context, params TestParameters) bool

	// Probe is Ping with the details of the call.
	// It never returns nil.
	Probe(ctx context.Context, params TestParameters) *PingResult
}

// Template is a named, fixed request payload. Each template is one dialect
// variant the tester is willing to try.
type Template struct {
	Name    string
	Payload []byte
}

func cloneTemplates(templates []Template) []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		out[i] = Template{Name: t.Name, Payload: bytes.Clone(t.Payload)}
	}
	return out
}

// FailureKind classifies why an attempt failed.
type FailureKind int

const (
	// FailureNone means the attempt succeeded or none was made.
	FailureNone FailureKind = iota
	// FailureTimeout means no response arrived in time.
	FailureTimeout
	// FailureTransport means a socket-level error: refused, reset, closed.
	FailureTransport
	// FailureDecode means the response could not be decoded.
	FailureDecode
	// FailurePredicate means the response decoded but did not prove liveness.
	FailurePredicate
)

// String returns the lower-case name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTimeout:
		return "timeout"
	case FailureTransport:
		return "transport"
	case FailureDecode:
		return "decode"
	case FailurePredicate:
		return "predicate"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its name.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the result of one attempt.
type Outcome struct {
	// Success is true when the success predicate held.
	Success bool
	// Raw is the response, if any was received.
	Raw []byte
	// Summary is a one-line description of the decoded response.
	Summary string
	// Failure classifies an unsuccessful attempt.
	Failure FailureKind
	// Err describes an unsuccessful attempt.
	Err error
}

// PingResult summarises a whole ping call.
type PingResult struct {
	// Protocol is the short name of the protocol.
	Protocol string `json:"protocol"`
	// Target is the probed "host:port".
	Target string `json:"target"`
	// Alive is the liveness verdict.
	Alive bool `json:"alive"`
	// Attempts is the number of exchanges performed across all templates.
	Attempts int `json:"attempts"`
	// Template is the name of the last template tried.
	Template string `json:"template,omitempty"`
	// Summary describes the last decoded response.
	Summary string `json:"summary,omitempty"`
	// LastFailure classifies the last failed attempt.
	LastFailure FailureKind `json:"last_failure"`
	// LastError describes the last failed attempt.
	LastError string `json:"last_error,omitempty"`
	// Elapsed is the wall time of the call.
	Elapsed time.Duration `json:"elapsed"`
}

// Option configures a tester.
type Option func(*base)

// WithExchanger replaces the socket transport, e.g. with one dialing through
// a SOCKS5 proxy.
func WithExchanger(ex transport.Exchanger) Option {
	return func(b *base) {
		if ex != nil {
			b.exchanger = ex
		}
	}
}

// WithLogger sets the logger receiving probe diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// base holds what every adapter shares: how to reach the network and where
// to report.
type base struct {
	exchanger transport.Exchanger
	logger    *slog.Logger
}

func newBase(opts []Option) base {
	b := base{
		exchanger: transport.New(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(&b)
	}

	return b
}
