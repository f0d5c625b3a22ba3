package protocol

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout bounds a single attempt when the caller sets no timeout.
const DefaultTimeout = 2 * time.Second

// TestParameters describes one ping call. It is passed by value and never
// modified by a tester.
type TestParameters struct {
	// Host is a hostname, IP address or .onion address.
	Host string
	// Port is the destination port.
	Port uint16
	// Retries is the number of extra attempts per template after the first.
	Retries uint
	// Timeout bounds each attempt's wait for a response.
	Timeout time.Duration
	// Verbose enables verbose-only diagnostics.
	Verbose bool
}

// NewTestParameters returns parameters for host using the protocol's
// default port and DefaultTimeout.
func NewTestParameters(host string, d Descriptor) TestParameters {
	return TestParameters{
		Host:    host,
		Port:    d.DefaultPort,
		Timeout: DefaultTimeout,
	}
}

// Address returns "host:port", bracketing IPv6 literals.
func (p TestParameters) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(int(p.Port)))
}

// Attempts returns the number of attempts made per template.
func (p TestParameters) Attempts() int {
	return 1 + int(p.Retries)
}

// Validate checks that the parameters describe a reachable target.
func (p TestParameters) Validate() error {
	if p.Host == "" {
		return ErrEmptyHost
	}
	if p.Port == 0 {
		return ErrInvalidPort
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, p.Timeout)
	}
	return nil
}
