package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/bundlesize/internal/config"
	"github.com/nao1215/bundlesize/internal/format"
	"github.com/nao1215/bundlesize/internal/model"
	"github.com/nao1215/bundlesize/internal/pipeline"
	"github.com/nao1215/bundlesize/internal/report"
	"github.com/nao1215/bundlesize/internal/storage"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a bundle-size report with a baseline",
		Long: `Compare matches the entries of the current report against a baseline and
reports the size changes of every package export.

The baseline is the report given with --baseline or, without it, the latest
report uploaded for --branch (see 'bundlesize upload').

The command must run inside a JavaScript project: a package.json has to exist
in the working directory or one of its parents. Use --skip-root-check to
disable this check.

Examples:
  # Compare two report files and print a Markdown report
  bundlesize compare --current dist/bundle-size.json --baseline base.json

  # Compare against the latest report uploaded for main
  bundlesize compare --current dist/bundle-size.json --branch main \
    --commit "$GITHUB_SHA" --repository https://github.com/org/repo

  # Show absolute byte changes and list unchanged entries
  bundlesize compare --current dist/bundle-size.json --baseline base.json \
    --delta-format delta --show-unchanged

  # Write the report to a file as well
  bundlesize compare --current dist/bundle-size.json --baseline base.json \
    --report-file dist/bundle-size.md`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	cmd.Flags().String("current", "",
		"Report of the pull request build (JSON)")
	cmd.Flags().String("baseline", "",
		"Baseline report file (JSON); overrides --branch")
	cmd.Flags().StringP("branch", "b", config.DefaultBranch,
		"Branch whose latest uploaded report is the baseline")
	cmd.Flags().StringP("output", "o", string(config.DefaultOutputFormat),
		"Output format: markdown, text, json or html")
	cmd.Flags().String("delta-format", string(config.DefaultDeltaFormat),
		"Size change format: delta (bytes) or percent")
	cmd.Flags().Bool("show-unchanged", false,
		"List unchanged entries")
	cmd.Flags().String("commit", "",
		"Commit SHA the report is generated against")
	cmd.Flags().String("repository", "",
		"Repository URL used to link the commit")
	cmd.Flags().String("report-file", "",
		"Also write the report to this file (creates directories if needed)")
	cmd.Flags().StringSlice("include", nil,
		"Only report entries whose package/path matches one of these globs")
	cmd.Flags().StringSlice("exclude", nil,
		"Skip entries whose package/path matches one of these globs")
	cmd.Flags().Bool("skip-root-check", false,
		"Do not require a package.json above the working directory")
	cmd.Flags().String("db-dir", "",
		"Directory of the report database (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCompareConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	compared, err := runComparison(ctx, cfg, logger)
	if err != nil {
		return err
	}

	reporter := report.NewReporter(
		report.WithFormat(cfg.OutputFormat),
		report.WithStdout(cmd.OutOrStdout()),
		report.WithLogger(logger),
		report.WithRootCheck(cfg.RootCheck()),
	)

	task, err := reporter.Report(compared, cfg.ReportOptions())
	if err != nil {
		return err
	}

	_ = task.Wait() //nolint:errcheck // write failures are logged by the reporter
	return nil
}

// buildCompareConfig creates a Config from the config file and the flags
// explicitly set on the command line.
func buildCompareConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if cfg.CurrentReport, err = flags.GetString("current"); err != nil {
		return nil, err
	}
	if cfg.BaselineReport, err = flags.GetString("baseline"); err != nil {
		return nil, err
	}
	if flags.Changed("branch") {
		if cfg.Branch, err = flags.GetString("branch"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		output, err := flags.GetString("output")
		if err != nil {
			return nil, err
		}
		cfg.OutputFormat = report.Format(output)
	}
	if flags.Changed("delta-format") {
		deltaFormat, err := flags.GetString("delta-format")
		if err != nil {
			return nil, err
		}
		cfg.DeltaFormat = format.DeltaFormat(deltaFormat)
	}
	if flags.Changed("show-unchanged") {
		if cfg.ShowUnchanged, err = flags.GetBool("show-unchanged"); err != nil {
			return nil, err
		}
	}
	if cfg.CommitSHA, err = flags.GetString("commit"); err != nil {
		return nil, err
	}
	if flags.Changed("repository") {
		if cfg.Repository, err = flags.GetString("repository"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("report-file") {
		if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("include") {
		if cfg.Include, err = flags.GetStringSlice("include"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("exclude") {
		if cfg.Exclude, err = flags.GetStringSlice("exclude"); err != nil {
			return nil, err
		}
	}
	if cfg.SkipRootCheck, err = flags.GetBool("skip-root-check"); err != nil {
		return nil, err
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// runComparison loads, filters and compares the reports of cfg.
// The report database is only opened when no baseline file is given.
func runComparison(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.ComparedReport, error) {
	compareOpts := []pipeline.CompareOption{
		pipeline.WithFilter(cfg.Include, cfg.Exclude),
	}

	if cfg.BaselineReport == "" {
		store, err := storage.Open(cfg.DBDir, storage.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			return nil, fmt.Errorf("failed to open report database: %w", err)
		}
		defer store.Close()
		compareOpts = append(compareOpts, pipeline.WithStore(store, cfg.Branch))
	}

	p := pipeline.ComparePipeline([]pipeline.Option{pipeline.WithLogger(logger)}, compareOpts...)

	run := model.NewRun(cfg.CurrentReport, cfg.BaselineReport)
	if err := p.Execute(ctx, run); err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	logger.Info("reports compared",
		"baseline", run.BaselineRef,
		"entries", len(run.Compared),
	)
	return run.Compared, nil
}
