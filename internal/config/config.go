package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/svcping/internal/pipeline"
	"github.com/nao1215/svcping/internal/protocol"
)

// Default configuration values.
const (
	// DefaultTimeout bounds each attempt's wait for a response.
	// Clearnet services answer well within it; raise it for Tor targets.
	DefaultTimeout = protocol.DefaultTimeout

	// DefaultRetries is the number of extra attempts per template.
	DefaultRetries uint = 0

	// DefaultConcurrency is the number of protocols probed at once.
	DefaultConcurrency = pipeline.DefaultConcurrency

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap. 3 minutes is typically sufficient for most
	// network conditions, but may need to be increased for slow connections.
	DefaultTorStartupTimeout = 3 * time.Minute

	// AppName is the application name used for XDG directory paths.
	AppName = "svcping"
)

// Config holds all options of a ping run.
// It is populated from CLI flags and the configuration file and passed
// through the application rather than kept in global state.
type Config struct {
	// Target is the host to probe: a hostname, IP address or onion address.
	Target string

	// Protocols are the protocol names to probe, or "all".
	Protocols []string

	// Port overrides the protocols' default ports. Zero keeps the defaults.
	Port int

	// Retries is the number of extra attempts per request template.
	Retries uint

	// Timeout bounds each attempt's wait for a response.
	Timeout time.Duration

	// Concurrency is the number of protocols probed at the same time.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug and the
	// verbose-only probe diagnostics.
	Verbose bool

	// ExplicitPort, ExplicitRetries and ExplicitTimeout record settings given
	// on the command line. Those win over the configuration file.
	ExplicitPort    bool
	ExplicitRetries bool
	ExplicitTimeout bool

	// ProxyAddress is a SOCKS5 proxy in "host:port" format. Empty means
	// direct connections.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and probes through it.
	// Mutually exclusive with ProxyAddress.
	UseTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon to bootstrap. Only used when UseTor is true.
	TorStartupTimeout time.Duration

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// File holds the loaded configuration file, if any.
	File *File

	// JSONReport enables JSON report output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Retries:           DefaultRetries,
		Timeout:           DefaultTimeout,
		Concurrency:       DefaultConcurrency,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// XDGConfigDir returns the XDG config directory for svcping.
// On Linux: ~/.config/svcping
// On macOS: ~/Library/Application Support/svcping
// On Windows: %APPDATA%\svcping
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target) == "" {
		return ErrNoTarget
	}

	if len(c.Protocols) == 0 {
		return ErrNoProtocol
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// Zero means "use the protocol's default port"
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxy
	}

	if c.UseTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorStartupTimeout
	}

	if c.File != nil {
		if err := c.File.Validate(); err != nil {
			return fmt.Errorf("configuration file: %w", err)
		}
	}

	return nil
}

// ApplyFile merges the loaded configuration file into c.
// The file's proxy is used only when no proxy or Tor was requested.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.File = f

	if c.ProxyAddress == "" && !c.UseTor {
		c.ProxyAddress = f.Proxy
	}
}

// TestParameters returns the probe parameters for the protocol described
// by d. Precedence, highest first: command line, the file's per-protocol
// section, the file's defaults, built-in defaults.
func (c *Config) TestParameters(d protocol.Descriptor) protocol.TestParameters {
	params := protocol.TestParameters{
		Host:    c.Target,
		Port:    d.DefaultPort,
		Retries: c.Retries,
		Timeout: c.Timeout,
		Verbose: c.Verbose,
	}

	if c.File != nil {
		settings := c.File.ProtocolSettings(d.ShortName)
		if settings.Port > 0 && !c.ExplicitPort {
			params.Port = uint16(settings.Port)
		}
		if settings.Retries != nil && !c.ExplicitRetries {
			params.Retries = *settings.Retries
		}
		if settings.Timeout > 0 && !c.ExplicitTimeout {
			params.Timeout = settings.Timeout
		}
	}

	if c.ExplicitPort && c.Port > 0 {
		params.Port = uint16(c.Port)
	}

	return params
}

// ParseTarget splits a target given as "host", "host:port", "[ipv6]:port",
// a bare IPv6 address or a URL such as "mqtt://host:port/" into host and port.
// A port of zero means none was given.
func ParseTarget(target string) (string, int, error) {
	target = strings.TrimSpace(target)
	if _, rest, ok := strings.Cut(target, "://"); ok {
		target = rest
	}
	if idx := strings.Index(target, "/"); idx != -1 {
		target = target[:idx]
	}
	if target == "" {
		return "", 0, ErrNoTarget
	}

	host, portText, err := net.SplitHostPort(target)
	if err != nil {
		// No port: plain host or bare IPv6 literal
		return strings.Trim(target, "[]"), 0, nil
	}
	if host == "" {
		return "", 0, ErrNoTarget
	}

	port, err := strconv.Atoi(portText)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidPort, portText)
	}

	return host, port, nil
}
