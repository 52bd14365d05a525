package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/bundlesize/internal/format"
	"github.com/nao1215/bundlesize/internal/report"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".bundlesize.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .bundlesize.yaml configuration file.
// Every field is optional; CLI flags take precedence.
type File struct {
	Repository    string   `yaml:"repository,omitempty"`
	Branch        string   `yaml:"branch,omitempty"`
	DeltaFormat   string   `yaml:"deltaFormat,omitempty"`
	Output        string   `yaml:"output,omitempty"`
	ReportFile    string   `yaml:"reportFile,omitempty"`
	ShowUnchanged *bool    `yaml:"showUnchanged,omitempty"`
	Include       []string `yaml:"include,omitempty"`
	Exclude       []string `yaml:"exclude,omitempty"`
	Manifests     []string `yaml:"manifests,omitempty"`
	DBDir         string   `yaml:"dbDir,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if specified
//  2. .bundlesize.yaml in the current directory
//  3. config.yaml in the XDG config directory
//  4. .bundlesize.yaml in the user's home directory
//
// Returns the path of the first existing file, or "" if none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Apply copies the values set in f into c.
func (c *Config) Apply(f *File) error {
	if f == nil {
		return nil
	}
	if f.Repository != "" {
		c.Repository = f.Repository
	}
	if f.Branch != "" {
		c.Branch = f.Branch
	}
	if f.DeltaFormat != "" {
		df, err := format.ParseDeltaFormat(f.DeltaFormat)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDeltaFormat, err)
		}
		c.DeltaFormat = df
	}
	if f.Output != "" {
		c.OutputFormat = report.Format(f.Output)
	}
	if f.ReportFile != "" {
		c.ReportFile = f.ReportFile
	}
	if f.ShowUnchanged != nil {
		c.ShowUnchanged = *f.ShowUnchanged
	}
	if len(f.Include) > 0 {
		c.Include = f.Include
	}
	if len(f.Exclude) > 0 {
		c.Exclude = f.Exclude
	}
	if len(f.Manifests) > 0 {
		c.Manifests = f.Manifests
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
	return nil
}

// validatePatterns checks include and exclude globs.
func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}
	return nil
}
