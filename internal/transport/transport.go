package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultMaxResponseSize caps the number of bytes read per response.
const DefaultMaxResponseSize = 64 * 1024

// ErrNoResponse is returned when the peer closed the connection without
// sending anything.
var ErrNoResponse = errors.New("connection closed without response")

// Status tags the outcome of an Exchange.
type Status int

const (
	// StatusOK means at least one byte of response was received.
	StatusOK Status = iota
	// StatusTimeout means the deadline expired before a response arrived.
	StatusTimeout
	// StatusError means a socket-level failure (refused, reset, closed, ...).
	StatusError
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one round trip.
type Result struct {
	Status Status
	// Data holds the response bytes when Status is StatusOK.
	Data []byte
	// Err describes the failure when Status is not StatusOK.
	Err error
	// Elapsed is the wall time of the round trip, dial included.
	Elapsed time.Duration
}

// Exchanger sends a payload and waits for the reply.
type Exchanger interface {
	// Exchange connects to address over network ("tcp" or "udp"), sends
	// payload and waits at most timeout for a response.
	Exchange(ctx context.Context, network, address string, payload []byte, timeout time.Duration) Result
}

// Transport is the socket-backed Exchanger.
type Transport struct {
	// dialer creates connections, directly or through a proxy.
	dialer proxy.Dialer

	// maxResponseSize bounds the read buffer.
	maxResponseSize int
}

var _ Exchanger = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithDialer routes connections through the given dialer.
func WithDialer(d proxy.Dialer) Option {
	return func(t *Transport) {
		if d != nil {
			t.dialer = d
		}
	}
}

// WithMaxResponseSize sets the maximum number of response bytes read.
func WithMaxResponseSize(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.maxResponseSize = n
		}
	}
}

// New creates a Transport that dials directly unless WithDialer is given.
func New(opts ...Option) *Transport {
	t := &Transport{
		dialer:          proxy.Direct,
		maxResponseSize: DefaultMaxResponseSize,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// NewSOCKS5 creates a Transport that connects through a SOCKS5 proxy
// listening at proxyAddress ("host:port"). Only TCP is supported this way.
func NewSOCKS5(proxyAddress string, opts ...Option) (*Transport, error) {
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	return New(append([]Option{WithDialer(dialer)}, opts...)...), nil
}

// Exchange implements Exchanger.
func (t *Transport) Exchange(ctx context.Context, network, address string, payload []byte, timeout time.Duration) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := t.dialWithContext(ctx, network, address)
	if err != nil {
		return failure(err, start)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return failure(err, start)
		}
	}

	// Unblock the read if the parent context is cancelled early.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now()) //nolint:errcheck // best effort wake-up
	})
	defer stop()

	if _, err := conn.Write(payload); err != nil {
		return failure(withContext(ctx, err), start)
	}

	buf := make([]byte, t.maxResponseSize)
	n, err := conn.Read(buf)
	if n > 0 {
		return Result{Status: StatusOK, Data: buf[:n], Elapsed: time.Since(start)}
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = ErrNoResponse
	}
	return failure(withContext(ctx, err), start)
}

// dialWithContext dials a connection respecting context cancellation.
// proxy.Direct and the SOCKS5 dialer support contexts natively; other
// dialers are raced against the context.
func (t *Transport) dialWithContext(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := t.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}

	resultCh := make(chan dialResult, 1)

	go func() {
		conn, err := t.dialer.Dial(network, address)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-resultCh; r.conn != nil {
				_ = r.conn.Close() //nolint:errcheck // late connection is discarded
			}
		}()
		return nil, ctx.Err()
	case result := <-resultCh:
		return result.conn, result.err
	}
}

// withContext prefers the context error when the context ended the I/O.
func withContext(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && isTimeout(err) {
		return ctxErr
	}
	return err
}

// failure builds a non-OK Result from err.
func failure(err error, start time.Time) Result {
	status := StatusError
	if isTimeout(err) {
		status = StatusTimeout
	}
	return Result{Status: status, Err: err, Elapsed: time.Since(start)}
}

// isTimeout reports whether err is a deadline expiry.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
