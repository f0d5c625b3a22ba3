package protocol

import (
	"fmt"
	"strings"
)

// TransportKind is the socket type a protocol runs over.
type TransportKind int

const (
	// TransportTCP is a connection-oriented stream socket.
	TransportTCP TransportKind = iota
	// TransportUDP is a connectionless datagram socket.
	TransportUDP
)

// String returns "TCP" or "UDP".
func (k TransportKind) String() string {
	switch k {
	case TransportTCP:
		return "TCP"
	case TransportUDP:
		return "UDP"
	default:
		return "unknown"
	}
}

// Network returns the network name understood by net.Dial.
func (k TransportKind) Network() string {
	return strings.ToLower(k.String())
}

// MarshalText encodes the kind as its name.
func (k TransportKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Capability is one optional operation a tester may support.
type Capability int

const (
	CapabilityPing Capability = iota
	CapabilityFingerprint
	CapabilityResourceListing
	CapabilityServerFuzz
	CapabilityClientFuzz
	CapabilityVulnTest
)

var capabilityNames = [...]string{
	CapabilityPing:            "ping",
	CapabilityFingerprint:     "fingerprint",
	CapabilityResourceListing: "resource-listing",
	CapabilityServerFuzz:      "server-fuzz",
	CapabilityClientFuzz:      "client-fuzz",
	CapabilityVulnTest:        "vuln-test",
}

// AllCapabilities returns every capability in display order.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityPing,
		CapabilityFingerprint,
		CapabilityResourceListing,
		CapabilityServerFuzz,
		CapabilityClientFuzz,
		CapabilityVulnTest,
	}
}

// ParseCapability returns the capability with the given kebab-case name.
func ParseCapability(name string) (Capability, error) {
	key := foldName(name)
	for _, c := range AllCapabilities() {
		if c.String() == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
}

// String returns the kebab-case name of the capability.
func (c Capability) String() string {
	if c < 0 || int(c) >= len(capabilityNames) {
		return "unknown"
	}
	return capabilityNames[c]
}

// MarshalText encodes the capability as its name.
func (c Capability) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Capabilities is the capability matrix of a protocol.
type Capabilities struct {
	Ping            bool `json:"ping"`
	Fingerprint     bool `json:"fingerprint"`
	ResourceListing bool `json:"resource_listing"`
	ServerFuzz      bool `json:"server_fuzz"`
	ClientFuzz      bool `json:"client_fuzz"`
	VulnTest        bool `json:"vuln_test"`
}

// Supports reports whether capability is set.
func (c Capabilities) Supports(capability Capability) bool {
	switch capability {
	case CapabilityPing:
		return c.Ping
	case CapabilityFingerprint:
		return c.Fingerprint
	case CapabilityResourceListing:
		return c.ResourceListing
	case CapabilityServerFuzz:
		return c.ServerFuzz
	case CapabilityClientFuzz:
		return c.ClientFuzz
	case CapabilityVulnTest:
		return c.VulnTest
	default:
		return false
	}
}

// List returns the supported capabilities in display order.
func (c Capabilities) List() []Capability {
	list := make([]Capability, 0, len(capabilityNames))
	for _, capability := range AllCapabilities() {
		if c.Supports(capability) {
			list = append(list, capability)
		}
	}
	return list
}

// Descriptor is the static metadata of one protocol.
// Values are built once per adapter and returned by value.
type Descriptor struct {
	ShortName    string        `json:"short_name"`
	FullName     string        `json:"full_name"`
	DefaultPort  uint16        `json:"default_port"`
	Transport    TransportKind `json:"transport"`
	Capabilities Capabilities  `json:"capabilities"`
}
