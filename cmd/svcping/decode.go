package main

import (
	"fmt"
	"strings"

	"github.com/nao1215/svcping/internal/codec"
	"github.com/nao1215/svcping/internal/protocol"
	"github.com/spf13/cobra"
)

// NewDecodeCmd creates the decode command.
func NewDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <protocol> <hex>...",
		Short: "Check a captured response offline",
		Long: `Decode runs a protocol's decoder and liveness check on a response captured
elsewhere, e.g. with tcpdump or Wireshark. No connection is made.

The response is given as hex. Spaces, colons and a 0x prefix are ignored,
and several arguments are joined.

Examples:
  # An MQTT CONNACK accepting the connection
  svcping decode mqtt 20 02 00 00

  # A colon separated capture
  svcping decode mqtt 20:02:00:05`,
		Args: cobra.MinimumNArgs(2),
		RunE: runDecodeCmd,
	}
}

func runDecodeCmd(cmd *cobra.Command, args []string) error {
	tester, err := protocol.DefaultRegistry().Lookup(args[0])
	if err != nil {
		return err
	}

	raw, err := codec.HexDecode(strings.Join(args[1:], ""))
	if err != nil {
		return err
	}

	outcome := tester.Evaluate(raw)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "protocol: %s\n", tester.Descriptor().ShortName)
	fmt.Fprintf(out, "bytes:    %d\n", len(raw))
	if outcome.Summary != "" {
		fmt.Fprintf(out, "response: %s\n", outcome.Summary)
	}
	fmt.Fprintf(out, "alive:    %t\n", outcome.Success)
	if outcome.Success {
		return nil
	}

	fmt.Fprintf(out, "failure:  %s\n", outcome.Failure)
	if outcome.Err != nil {
		return fmt.Errorf("%s response rejected: %w", tester.Descriptor().ShortName, outcome.Err)
	}
	return fmt.Errorf("%s response rejected: %w", tester.Descriptor().ShortName, protocol.ErrUnexpectedResponse)
}
