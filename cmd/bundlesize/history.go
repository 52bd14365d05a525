package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/bundlesize/internal/storage"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List uploaded bundle-size reports",
		Long: `History lists the reports stored in the report database.

Without --branch, it lists the branches that have uploaded reports.

Examples:
  # List branches with reports
  bundlesize history

  # List the reports of main, newest first
  bundlesize history --branch main`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("branch", "b", "",
		"List the reports of this branch")
	cmd.Flags().String("db-dir", "",
		"Directory of the report database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return err
		}
	}
	branch, err := cmd.Flags().GetString("branch")
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBDir, storage.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}
	defer store.Close()

	if branch == "" {
		return listBranches(cmd.Context(), cmd.OutOrStdout(), store)
	}
	return listHistory(cmd.Context(), cmd.OutOrStdout(), store, branch)
}

// listBranches lists all branches with uploaded reports.
func listBranches(ctx context.Context, w io.Writer, store *storage.Store) error {
	branches, err := store.Branches(ctx)
	if err != nil {
		return err
	}

	if len(branches) == 0 {
		fmt.Fprintln(w, "No reports found in the database.")
		fmt.Fprintln(w, "\nUse 'bundlesize upload <report> --branch <name>' to store a report.")
		return nil
	}

	fmt.Fprintf(w, "Branches (%d):\n\n", len(branches))
	for _, b := range branches {
		fmt.Fprintf(w, "  • %s\n", b)
	}
	fmt.Fprintln(w, "\nUse 'bundlesize history --branch <name>' to see the reports of a branch.")
	return nil
}

// listHistory lists the reports of one branch, newest first.
func listHistory(ctx context.Context, w io.Writer, store *storage.Store, branch string) error {
	reports, err := store.History(ctx, branch)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintf(w, "No reports found for %s\n", branch)
		return nil
	}

	t := table.New().Headers("ID", "Commit", "Uploaded", "Entries")
	for _, meta := range reports {
		commit := meta.CommitSHA
		if commit == "" {
			commit = "-"
		}
		t.Row(
			meta.ID,
			commit,
			meta.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(meta.Entries),
		)
	}

	fmt.Fprintf(w, "Reports for %s (%d):\n\n", branch, len(reports))
	fmt.Fprintln(w, t.Render())
	return nil
}
