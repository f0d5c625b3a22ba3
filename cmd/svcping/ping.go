package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nao1215/svcping/internal/config"
	"github.com/nao1215/svcping/internal/model"
	"github.com/nao1215/svcping/internal/pipeline"
	"github.com/nao1215/svcping/internal/protocol"
	"github.com/nao1215/svcping/internal/report"
	"github.com/nao1215/svcping/internal/tor"
	"github.com/nao1215/svcping/internal/transport"
	"github.com/spf13/cobra"
)

// ErrServiceDown is returned when no probed protocol answered correctly.
// It makes the process exit non-zero so that scripts can branch on it.
var ErrServiceDown = errors.New("no probed service is alive")

// NewPingCmd creates the ping command.
func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping <host[:port]>",
		Short: "Check whether a service is alive",
		Long: `Ping sends protocol requests to a host and reports which services answer
with a valid response.

Each protocol tries its request variants in order. Every variant is sent up
to 1+retries times; the first valid response ends the probe. A port that
accepts connections but answers with something else is not alive.

The exit status is 0 when at least one protocol is alive and 1 otherwise.

Examples:
  # Check an MQTT broker on its default port
  svcping ping broker.local -P mqtt

  # Check a coffee pot on port 8080, retrying twice
  svcping ping pot.local:8080 -P htcpcp -r 2

  # Try every protocol and write a JSON report
  svcping ping 192.0.2.10 -P all --json -o report.json

  # Reach an onion service through an embedded Tor daemon
  svcping ping exampleonionaddress.onion -P mqtt --tor -t 30s

  # Use an existing SOCKS5 proxy
  svcping ping broker.internal -P mqtt --proxy 127.0.0.1:1080`,
		Args: cobra.ExactArgs(1),
		RunE: runPingCmd,
	}

	cmd.Flags().StringSliceP("protocol", "P", []string{protocol.AllProtocols},
		`Protocols to probe, comma separated, or "all"`)
	cmd.Flags().IntP("port", "p", 0,
		"Port to probe (default: each protocol's default port)")
	cmd.Flags().UintP("retries", "r", config.DefaultRetries,
		"Extra attempts per request variant")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Time to wait for each response")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of protocols probed at once")

	// Proxy flags
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and probe through it")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .svcping in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

func runPingCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := loggerFor(cmd)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPing(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if len(args) > 0 {
		host, port, err := config.ParseTarget(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", args[0], err)
		}
		cfg.Target = host
		if port > 0 {
			cfg.Port = port
			cfg.ExplicitPort = true
		}
	}

	if cfg.Protocols, err = flags.GetStringSlice("protocol"); err != nil {
		return nil, err
	}

	// An explicit -p wins over a port embedded in the target
	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return nil, err
		}
		cfg.ExplicitPort = true
	}

	if cfg.Retries, err = flags.GetUint("retries"); err != nil {
		return nil, err
	}
	cfg.ExplicitRetries = flags.Changed("retries")

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	cfg.ExplicitTimeout = flags.Changed("timeout")

	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}

	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// If the user named a config file, it must exist. Otherwise a missing
	// file just means built-in defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	// Onion services are only reachable through Tor. Start one unless the
	// user pointed at a proxy.
	if tor.IsOnionHost(cfg.Target) && cfg.ProxyAddress == "" {
		cfg.UseTor = true
	}

	return cfg, nil
}

// runPing probes the target and writes the report.
func runPing(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	if tor.IsOnionHost(cfg.Target) {
		normalized, err := tor.NormalizeAddress(cfg.Target)
		if err != nil {
			return fmt.Errorf("invalid onion address %q: %w", cfg.Target, err)
		}
		cfg.Target = normalized
	}

	exchanger, cleanup, err := setupTransport(ctx, cfg, stdout, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	registry := protocol.DefaultRegistry(
		protocol.WithExchanger(exchanger),
		protocol.WithLogger(logger),
	)

	testers, err := registry.Resolve(cfg.Protocols)
	if err != nil {
		return err
	}

	logger.Info("starting ping",
		"target", cfg.Target,
		"protocols", len(testers),
		"proxy", cfg.ProxyAddress,
		"tor", cfg.UseTor,
	)

	result := model.NewReport(cfg.Target)
	result.Proxy = cfg.ProxyAddress

	runner := pipeline.NewRunner(cfg.TestParameters,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithLogger(logger),
	)
	runErr := runner.Run(ctx, result, testers)
	result.Finish()

	if err := outputReport(cfg, result, stdout); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("ping cancelled: %w", runErr)
	}
	if !result.AnyAlive() {
		return ErrServiceDown
	}
	return nil
}

// setupTransport returns the exchanger to probe with and a cleanup
// function that must be called when probing is done.
func setupTransport(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) (transport.Exchanger, func(), error) {
	noop := func() {}

	switch {
	case cfg.UseTor:
		client, embeddedTor, err := startEmbeddedTor(ctx, cfg, stdout, logger)
		if err != nil {
			return nil, noop, err
		}
		cfg.ProxyAddress = client.ProxyAddress()
		cleanup := func() {
			logger.Info("stopping embedded Tor daemon")
			if err := embeddedTor.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}
		return transport.New(transport.WithDialer(client.Dialer())), cleanup, nil

	case cfg.ProxyAddress != "":
		client, err := tor.NewClient(cfg.ProxyAddress)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create proxy client: %w", err)
		}

		if status := client.CheckConnection(ctx); status != tor.ProxyStatusOK {
			return nil, noop, fmt.Errorf("proxy check failed: %w (make sure a SOCKS5 proxy is running at %s)",
				status.Error(), cfg.ProxyAddress)
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)

		return transport.New(transport.WithDialer(client.Dialer())), noop, nil

	default:
		return transport.New(), noop, nil
	}
}

// startEmbeddedTor starts an embedded Tor daemon and returns a client
// dialing through it.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) (*tor.Client, *tor.EmbeddedTor, error) {
	fmt.Fprintln(stdout, "Starting embedded Tor daemon...")
	fmt.Fprintf(stdout, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embeddedTor := tor.NewEmbeddedTor(
		tor.WithStartupTimeout(cfg.TorStartupTimeout),
	)

	if err := embeddedTor.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	logger.Info("embedded Tor daemon started",
		"socksAddr", embeddedTor.SocksAddr(),
		"controlAddr", embeddedTor.ControlAddr(),
	)

	client, err := embeddedTor.NewClient()
	if err != nil {
		_ = embeddedTor.Stop() //nolint:errcheck // Best effort cleanup
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}

	return client, embeddedTor, nil
}

// outputReport writes the report in the requested format. With -o the
// chosen format goes to the file and a text summary to stdout.
func outputReport(cfg *config.Config, result *model.Report, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		_, err := newReportWriter(cfg, stdout).Write(result)
		return err
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer := report.NewMultiWriter(
		report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose)),
		newReportWriter(cfg, f),
	)
	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(stdout, "\nReport written to %s\n", cfg.ReportFile)
	return nil
}

func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	case cfg.ReportFile != "" && strings.EqualFold(filepath.Ext(cfg.ReportFile), ".json"):
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
