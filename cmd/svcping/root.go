package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	svclog "github.com/nao1215/svcping/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for svcping.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svcping",
		Short: "Protocol-level liveness checks for network services",
		Long: `svcping checks whether a network service is alive by speaking its protocol.

A TCP connect only proves that something listens on a port. svcping sends
a real protocol request (an MQTT CONNECT, an HTCPCP BREW) and only reports
the service alive when the answer is a valid response of that protocol.

Targets can be reached directly, through a SOCKS5 proxy, or through an
embedded Tor daemon for .onion services.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging and protocol dumps")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewPingCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewDecodeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a boolean flag from the command or its parents.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// setupLogger creates the structured logger. Sensitive values such as
// MQTT passwords and proxy credentials are masked before they are written.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return svclog.NewSecureJSONLogger(w, verbose)
	}
	return svclog.NewSecureLogger(w, verbose)
}

// loggerFor builds the logger for cmd from the global flags.
func loggerFor(cmd *cobra.Command) *slog.Logger {
	return setupLogger(cmd.ErrOrStderr(), getBoolFlag(cmd, "verbose"), getBoolFlag(cmd, "log-json"))
}
