package config

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
)

// ProtocolConfig holds per-protocol probe settings.
// Zero values mean "not set".
type ProtocolConfig struct {
	// Port overrides the protocol's default port.
	Port int `yaml:"port,omitempty"`

	// Retries overrides the number of extra attempts. A pointer so that an
	// explicit zero can be told apart from an absent value.
	Retries *uint `yaml:"retries,omitempty"`

	// Timeout overrides the per-attempt timeout, e.g. "5s".
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// File represents the structure of the svcping configuration file.
type File struct {
	// Defaults apply to every protocol unless overridden in Protocols.
	Defaults ProtocolConfig `yaml:"defaults,omitempty"`

	// Protocols maps protocol names (case-insensitive) to their settings.
	Protocols map[string]ProtocolConfig `yaml:"protocols,omitempty"`

	// Proxy is a SOCKS5 proxy address used when none is given on the command line.
	Proxy string `yaml:"proxy,omitempty"`
}

// ProtocolSettings returns the settings for the named protocol,
// merging the protocol's section over the defaults.
func (f *File) ProtocolSettings(name string) ProtocolConfig {
	result := f.Defaults

	key := cases.Fold().String(name)
	for k, settings := range f.Protocols {
		if cases.Fold().String(k) != key {
			continue
		}
		if settings.Port != 0 {
			result.Port = settings.Port
		}
		if settings.Retries != nil {
			result.Retries = settings.Retries
		}
		if settings.Timeout != 0 {
			result.Timeout = settings.Timeout
		}
	}

	return result
}

// Validate checks the ports and timeouts of every section.
// A zero port or timeout means "not set" and is accepted.
func (f *File) Validate() error {
	if err := f.Defaults.validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for name, settings := range f.Protocols {
		if err := settings.validate(); err != nil {
			return fmt.Errorf("protocols.%s: %w", name, err)
		}
	}
	return nil
}

func (p ProtocolConfig) validate() error {
	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, p.Port)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, p.Timeout)
	}
	return nil
}
