package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for bundlesize.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundlesize",
		Short: "Bundle size reports for pull requests",
		Long: `bundlesize compares the bundle sizes measured on a pull request build with a
baseline and reports which exports grew, shrank or are new.

The baseline is either a report file or the latest report uploaded for a
branch. The report is printed to standard output and can also be written
to a file, ready to be posted as a pull request comment.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .bundlesize.yaml in current or home directory)")

	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewUploadCmd())
	cmd.AddCommand(NewHistoryCmd())
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
