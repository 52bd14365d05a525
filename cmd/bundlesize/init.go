package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/bundlesize/internal/config"
)

//go:embed templates/bundlesize.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new bundlesize configuration file",
		Long: `Initialize creates a new .bundlesize.yaml configuration file in the current directory.

The generated file includes:
- The repository URL used to link commits
- Report format defaults
- Commented include/exclude filter examples

Examples:
  # Create .bundlesize.yaml in current directory
  bundlesize init

  # Create config file at a specific path
  bundlesize init -o myconfig.yaml

  # Force overwrite existing file
  bundlesize init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
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
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/bundlesize.yaml")
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

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(w, "\nEdit this file to configure:")
	fmt.Fprintln(w, "  - The repository URL linked in reports")
	fmt.Fprintln(w, "  - The default delta format and output")
	fmt.Fprintln(w, "  - Package filters")

	return nil
}
