package tor

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// validOnion returns a well-formed v3 address built from a fixed key.
func validOnion(t *testing.T) string {
	t.Helper()

	addr, err := ComputeV3AddressFromPublicKey(bytes.Repeat([]byte{0x42}, 32))
	if err != nil {
		t.Fatalf("failed to compute address: %v", err)
	}
	return addr
}

func TestComputeV3AddressFromPublicKey(t *testing.T) {
	t.Parallel()

	t.Run("computed address is valid", func(t *testing.T) {
		t.Parallel()

		addr := validOnion(t)
		if len(addr) != OnionV3Length+len(OnionSuffix) {
			t.Errorf("unexpected length %d", len(addr))
		}
		if !IsValidV3Address(addr) {
			t.Errorf("computed address %q is not valid", addr)
		}
	})

	t.Run("short key is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := ComputeV3AddressFromPublicKey(make([]byte, 31)); !errors.Is(err, ErrInvalidOnionAddress) {
			t.Errorf("expected ErrInvalidOnionAddress, got %v", err)
		}
	})
}

func TestIsValidV3Address(t *testing.T) {
	t.Parallel()

	addr := validOnion(t)

	// Flip one character of the key part to break the checksum
	broken := []byte(addr)
	if broken[0] == 'a' {
		broken[0] = 'b'
	} else {
		broken[0] = 'a'
	}

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{name: "valid address", address: addr, want: true},
		{name: "uppercase is accepted", address: strings.ToUpper(addr), want: true},
		{name: "bad checksum", address: string(broken), want: false},
		{name: "missing suffix", address: strings.TrimSuffix(addr, OnionSuffix), want: false},
		{name: "v2 address", address: "abcdefghijklmnop.onion", want: false},
		{name: "clearnet host", address: "broker.example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsValidV3Address(tt.address); got != tt.want {
				t.Errorf("IsValidV3Address(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestIsOnionHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want bool
	}{
		{"example.onion", true},
		{"EXAMPLE.ONION", true},
		{"example.onion.", true},
		{"onion.example.com", false},
		{"192.0.2.1", false},
	}

	for _, tt := range tests {
		if got := IsOnionHost(tt.host); got != tt.want {
			t.Errorf("IsOnionHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	addr := validOnion(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "valid address", input: addr, want: addr},
		{name: "uppercase and whitespace", input: "  " + strings.ToUpper(addr) + " ", want: addr},
		{name: "subdomain is kept", input: "mqtt." + addr, want: "mqtt." + addr},
		{name: "trailing dot is removed", input: addr + ".", want: addr},
		{name: "v2 address", input: "abcdefghijklmnop.onion", wantErr: ErrV2AddressDeprecated},
		{name: "garbage onion", input: "not-valid.onion", wantErr: ErrInvalidOnionAddress},
		{name: "clearnet host", input: "broker.local", wantErr: ErrInvalidOnionAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeAddress(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProxyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status     ProxyStatus
		wantString string
		wantErr    error
	}{
		{ProxyStatusOK, "OK", nil},
		{ProxyStatusWrongType, "wrong type (not SOCKS5)", ErrProxyNotSOCKS5},
		{ProxyStatusCannotConnect, "cannot connect", ErrProxyCannotConnect},
		{ProxyStatusTimeout, "timeout", ErrProxyTimeout},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.wantString {
			t.Errorf("String() = %q, want %q", got, tt.wantString)
		}
		if got := tt.status.Error(); !errors.Is(got, tt.wantErr) {
			t.Errorf("Error() = %v, want %v", got, tt.wantErr)
		}
	}

	if ProxyStatus(99).String() != "unknown" || ProxyStatus(99).Error() == nil {
		t.Error("unknown status should have a name and an error")
	}
}
