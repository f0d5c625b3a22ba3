package main

import (
	"encoding/json"
	"errors"

	"github.com/nao1215/svcping/internal/protocol"
	"github.com/nao1215/svcping/internal/report"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List supported protocols and their capabilities",
		Long: `List prints every built-in protocol with its default port, transport and
capability matrix.

Examples:
  # Show all protocols
  svcping list

  # Only protocols that can be pinged
  svcping list --capability ping

  # Markdown table for documentation
  svcping list --markdown`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	cmd.Flags().String("capability", "",
		"Only list protocols with this capability (e.g., ping, fingerprint)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown table (mutually exclusive with --json)")

	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	capabilityName, err := flags.GetString("capability")
	if err != nil {
		return err
	}
	asJSON, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	asMarkdown, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	if asJSON && asMarkdown {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	registry := protocol.DefaultRegistry()

	testers := registry.List()
	if capabilityName != "" {
		capability, err := protocol.ParseCapability(capabilityName)
		if err != nil {
			return err
		}
		testers = registry.ListByCapability(capability)
	}

	descriptors := make([]protocol.Descriptor, len(testers))
	for i, t := range testers {
		descriptors[i] = t.Descriptor()
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(descriptors)
	case asMarkdown:
		return report.WriteCapabilitiesMarkdown(out, descriptors)
	default:
		return report.WriteCapabilities(out, descriptors)
	}
}
