package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/bundlesize/internal/model"
	"github.com/nao1215/bundlesize/internal/storage"
)

// NewUploadCmd creates the upload command.
func NewUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <report>",
		Short: "Store a bundle-size report as baseline for a branch",
		Long: `Upload saves a report in the local report database. The latest report of a
branch is used as the baseline by 'bundlesize compare --branch'.

Examples:
  # Store the report of the main branch build
  bundlesize upload dist/bundle-size.json --branch main --commit "$GITHUB_SHA"`,
		Args: cobra.ExactArgs(1),
		RunE: runUploadCmd,
	}

	cmd.Flags().StringP("branch", "b", "",
		"Branch the report was measured on (default: branch from config, or main)")
	cmd.Flags().String("commit", "",
		"Commit SHA the report was measured at")
	cmd.Flags().String("db-dir", "",
		"Directory of the report database (default: XDG data directory)")

	return cmd
}

// runUploadCmd executes the upload command.
func runUploadCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	branch, err := cmd.Flags().GetString("branch")
	if err != nil {
		return err
	}
	if branch != "" {
		cfg.Branch = branch
	}
	if cfg.CommitSHA, err = cmd.Flags().GetString("commit"); err != nil {
		return err
	}
	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return err
		}
	}

	logger := setupLogger(cmd, cfg.Verbose)

	rep, err := model.LoadReport(args[0])
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBDir, storage.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}
	defer store.Close()

	id, err := store.Save(cmd.Context(), cfg.Branch, cfg.CommitSHA, rep)
	if err != nil {
		return err
	}

	logger.Info("report uploaded",
		"id", id,
		"branch", cfg.Branch,
		"entries", len(rep),
		"database", store.Path(),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d entries for %s: %s\n", len(rep), cfg.Branch, id)
	return nil
}
