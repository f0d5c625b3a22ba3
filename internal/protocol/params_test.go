package protocol

import (
	"errors"
	"testing"
	"time"
)

func TestTestParameters_Validate(t *testing.T) {
	t.Parallel()

	valid := TestParameters{Host: "broker.local", Port: 1883, Timeout: time.Second}

	tests := []struct {
		name    string
		modify  func(p *TestParameters)
		wantErr error
	}{
		{name: "valid parameters", modify: func(*TestParameters) {}},
		{name: "empty host", modify: func(p *TestParameters) { p.Host = "" }, wantErr: ErrEmptyHost},
		{name: "zero port", modify: func(p *TestParameters) { p.Port = 0 }, wantErr: ErrInvalidPort},
		{name: "zero timeout", modify: func(p *TestParameters) { p.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(p *TestParameters) { p.Timeout = -time.Second }, wantErr: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tt.modify(&p)

			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTestParameters_Address(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		port uint16
		want string
	}{
		{"192.0.2.1", 80, "192.0.2.1:80"},
		{"::1", 1883, "[::1]:1883"},
		{"pot.example", 8080, "pot.example:8080"},
	}

	for _, tt := range tests {
		p := TestParameters{Host: tt.host, Port: tt.port}
		if got := p.Address(); got != tt.want {
			t.Errorf("Address() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewTestParameters(t *testing.T) {
	t.Parallel()

	p := NewTestParameters("broker.local", NewMQTTTester().Descriptor())
	if p.Port != 1883 || p.Timeout != DefaultTimeout || p.Retries != 0 {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if p.Attempts() != 1 {
		t.Errorf("Attempts() = %d, want 1", p.Attempts())
	}

	p.Retries = 2
	if p.Attempts() != 3 {
		t.Errorf("Attempts() = %d, want 3", p.Attempts())
	}
}
