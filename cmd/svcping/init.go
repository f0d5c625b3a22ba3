package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/svcping/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/svcping.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// ErrConfigExists is returned by init when the output file already exists.
var ErrConfigExists = errors.New("configuration file already exists")

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a svcping configuration file",
		Long: `Init writes a commented .svcping configuration file.

The generated file shows:
- Default retries and timeout for every protocol
- Per-protocol port, retries and timeout overrides
- A SOCKS5 proxy setting

Examples:
  # Create .svcping in current directory
  svcping init

  # Create the file in the XDG config directory
  svcping init -o ~/.config/svcping/config.yaml

  # Overwrite an existing file
  svcping init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("%w: %s (use -f to overwrite)", ErrConfigExists, outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/svcping.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - retries and timeout for every protocol")
	fmt.Fprintln(out, "  - ports that differ from the protocol defaults")
	fmt.Fprintln(out, "  - a SOCKS5 proxy")

	return nil
}
