package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/bundlesize/internal/format"
	"github.com/nao1215/bundlesize/internal/project"
	"github.com/nao1215/bundlesize/internal/report"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "bundlesize"

	// DefaultBranch is the branch whose latest stored report is the baseline
	// when no baseline file is given.
	DefaultBranch = "main"

	// DefaultDeltaFormat shows size changes as percentages.
	DefaultDeltaFormat = format.DeltaFormatPercent

	// DefaultOutputFormat renders a Markdown report.
	DefaultOutputFormat = report.FormatMarkdown
)

// Config holds all options of a bundlesize run.
// It is populated from the configuration file and CLI flags and passed
// through the application rather than kept as global state.
type Config struct {
	// CurrentReport is the path of the report produced by the pull request build.
	CurrentReport string

	// BaselineReport is the path of the baseline report.
	// When empty, the latest stored report of Branch is the baseline.
	BaselineReport string

	// Branch selects the stored baseline and labels uploaded reports.
	Branch string

	// CommitSHA identifies the commit the report is generated against.
	CommitSHA string

	// Repository is the base URL used to link CommitSHA.
	Repository string

	// ShowUnchanged lists unchanged entries in the report.
	ShowUnchanged bool

	// DeltaFormat selects absolute byte deltas or percentages.
	DeltaFormat format.DeltaFormat

	// OutputFormat selects the report writer.
	OutputFormat report.Format

	// ReportFile, when set, also receives the rendered report.
	ReportFile string

	// Include and Exclude are glob patterns matched against "package/path".
	// An entry is kept when it matches any Include pattern (or Include is
	// empty) and no Exclude pattern.
	Include []string
	Exclude []string

	// Manifests are the file names marking the project root.
	Manifests []string

	// SkipRootCheck disables the project root precondition.
	SkipRootCheck bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file given on the command line.
	ConfigFilePath string

	// DBDir is the directory of the report database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Branch:       DefaultBranch,
		DeltaFormat:  DefaultDeltaFormat,
		OutputFormat: DefaultOutputFormat,
		Manifests:    []string{project.DefaultManifest},
		DBDir:        XDGDataDir(),
	}
}

// ReportOptions returns the renderer options of the configuration.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		CommitSHA:     c.CommitSHA,
		Repository:    c.Repository,
		ShowUnchanged: c.ShowUnchanged,
		DeltaFormat:   c.DeltaFormat,
		OutputFile:    c.ReportFile,
	}
}

// RootCheck returns the project root precondition of the configuration.
func (c *Config) RootCheck() project.RootCheck {
	if c.SkipRootCheck {
		return project.NoCheck
	}
	return project.RequireRoot(c.Manifests...)
}

// XDGDataDir returns the XDG data directory for bundlesize.
// On Linux: ~/.local/share/bundlesize
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for bundlesize.
// On Linux: ~/.config/bundlesize
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the options of the compare command.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.CurrentReport == "" {
		return ErrNoCurrentReport
	}
	if c.BaselineReport == "" && c.Branch == "" {
		return ErrNoBaseline
	}
	if _, err := format.ParseDeltaFormat(string(c.DeltaFormat)); err != nil {
		return ErrInvalidDeltaFormat
	}
	if !validOutputFormat(c.OutputFormat) {
		return ErrInvalidOutputFormat
	}
	if !c.SkipRootCheck && len(c.Manifests) == 0 {
		return ErrNoManifests
	}
	return validatePatterns(append(append([]string{}, c.Include...), c.Exclude...))
}

func validOutputFormat(f report.Format) bool {
	for _, known := range report.Formats() {
		if f == known {
			return true
		}
	}
	return false
}
