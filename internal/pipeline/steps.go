package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/bundlesize/internal/model"
	"github.com/nao1215/bundlesize/internal/storage"
)

// BaselineStore provides stored reports by branch.
// *storage.Store implements it.
type BaselineStore interface {
	Latest(ctx context.Context, branch string) (*storage.StoredReport, error)
}

// LoadStep reads the current and baseline reports of a run.
// Both are loaded concurrently. When the run has no baseline file, the
// latest stored report of the configured branch is used.
type LoadStep struct {
	// store supplies the baseline when the run has no baseline file.
	store BaselineStore

	// branch selects the stored baseline.
	branch string

	// logger for structured logging.
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithBaselineStore makes the step fall back to the latest stored report
// of branch.
func WithBaselineStore(store BaselineStore, branch string) LoadStepOption {
	return func(s *LoadStep) {
		s.store = store
		s.branch = branch
	}
}

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(ctx context.Context, run *model.Run) error {
	var current, baseline model.Report

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := model.LoadReport(run.CurrentPath)
		if err != nil {
			return fmt.Errorf("failed to load current report: %w", err)
		}
		current = r
		return nil
	})
	g.Go(func() error {
		r, err := s.loadBaseline(ctx, run)
		if err != nil {
			return err
		}
		baseline = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	run.Current = current
	run.Baseline = baseline

	s.logger.Debug("reports loaded",
		"current_entries", len(current),
		"baseline_entries", len(baseline),
		"baseline", run.BaselineRef,
	)
	return nil
}

// loadBaseline reads the baseline file, or the latest stored report.
// A baseline already present in the run is kept.
func (s *LoadStep) loadBaseline(ctx context.Context, run *model.Run) (model.Report, error) {
	switch {
	case run.BaselinePath != "":
		r, err := model.LoadReport(run.BaselinePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load baseline report: %w", err)
		}
		run.BaselineRef = run.BaselinePath
		return r, nil
	case run.Baseline != nil:
		return run.Baseline, nil
	case s.store != nil:
		stored, err := s.store.Latest(ctx, s.branch)
		if err != nil {
			return nil, fmt.Errorf("failed to load baseline of branch %s: %w", s.branch, err)
		}
		run.BaselineRef = s.branch + "@" + stored.CommitSHA
		return stored.Report, nil
	default:
		return nil, ErrNoBaselineSource
	}
}

// FilterStep drops entries whose "package/path" label does not pass the
// include and exclude glob patterns. Both reports of the run are filtered.
type FilterStep struct {
	// include lists patterns of which one must match. Empty keeps all.
	include []string

	// exclude lists patterns of which none may match.
	exclude []string
}

// NewFilterStep creates a new filter step.
func NewFilterStep(include, exclude []string) *FilterStep {
	return &FilterStep{
		include: include,
		exclude: exclude,
	}
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return "filter"
}

// Do executes the filter step.
func (s *FilterStep) Do(_ context.Context, run *model.Run) error {
	if len(s.include) == 0 && len(s.exclude) == 0 {
		return nil
	}

	current, err := s.filter(run.Current)
	if err != nil {
		return err
	}
	baseline, err := s.filter(run.Baseline)
	if err != nil {
		return err
	}

	run.Current = current
	run.Baseline = baseline
	return nil
}

func (s *FilterStep) filter(report model.Report) (model.Report, error) {
	if report == nil {
		return nil, nil
	}

	kept := make(model.Report, 0, len(report))
	for _, e := range report {
		ok, err := s.keep(e.Label())
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// keep reports whether label passes the filter.
func (s *FilterStep) keep(label string) (bool, error) {
	included := len(s.include) == 0
	for _, p := range s.include {
		ok, err := doublestar.Match(p, label)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		if ok {
			included = true
			break
		}
	}
	if !included {
		return false, nil
	}

	for _, p := range s.exclude {
		ok, err := doublestar.Match(p, label)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// CompareStep matches the current report against the baseline.
type CompareStep struct{}

// NewCompareStep creates a new compare step.
func NewCompareStep() *CompareStep {
	return &CompareStep{}
}

// Name returns the step name.
func (s *CompareStep) Name() string {
	return "compare"
}

// Do executes the compare step.
func (s *CompareStep) Do(_ context.Context, run *model.Run) error {
	run.Compared = model.Compare(run.Current, run.Baseline)
	return nil
}

// CompareConfig holds configuration for the compare pipeline.
type CompareConfig struct {
	// Store supplies the baseline when the run has no baseline file.
	Store BaselineStore

	// Branch selects the stored baseline.
	Branch string

	// Include and Exclude filter entries by "package/path".
	Include []string
	Exclude []string
}

// CompareOption configures a CompareConfig.
type CompareOption func(*CompareConfig)

// WithStore sets the baseline store and branch.
func WithStore(store BaselineStore, branch string) CompareOption {
	return func(c *CompareConfig) {
		c.Store = store
		c.Branch = branch
	}
}

// WithFilter sets the include and exclude patterns.
func WithFilter(include, exclude []string) CompareOption {
	return func(c *CompareConfig) {
		c.Include = include
		c.Exclude = exclude
	}
}

// ComparePipeline creates the load, filter and compare pipeline.
// The filter step is only added when patterns are configured.
func ComparePipeline(pipelineOpts []Option, configOpts ...CompareOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &CompareConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}

	loadOpts := []LoadStepOption{WithLoadLogger(p.logger)}
	if cfg.Store != nil {
		loadOpts = append(loadOpts, WithBaselineStore(cfg.Store, cfg.Branch))
	}

	p.AddStep(NewLoadStep(loadOpts...))
	if len(cfg.Include) > 0 || len(cfg.Exclude) > 0 {
		p.AddStep(NewFilterStep(cfg.Include, cfg.Exclude))
	}
	p.AddStep(NewCompareStep())

	return p
}
