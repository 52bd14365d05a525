package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/bundlesize/internal/config"
	"github.com/nao1215/bundlesize/internal/project"
	"github.com/nao1215/bundlesize/internal/report"
)

const currentReportJSON = `[
  {"packageName": "@example/button", "name": "Button", "path": "bundle-size/Button.fixture.js", "minifiedSize": 1500, "gzippedSize": 600},
  {"packageName": "@example/core", "name": "core", "path": "bundle-size/index.fixture.js", "minifiedSize": 4096, "gzippedSize": 1024},
  {"packageName": "@example/tabs", "name": "Tabs", "path": "bundle-size/Tabs.fixture.js", "minifiedSize": 3072, "gzippedSize": 1100}
]`

const baselineReportJSON = `[
  {"packageName": "@example/button", "name": "Button", "path": "bundle-size/Button.fixture.js", "minifiedSize": 2000, "gzippedSize": 800},
  {"packageName": "@example/core", "name": "core", "path": "bundle-size/index.fixture.js", "minifiedSize": 4096, "gzippedSize": 1024}
]`

// testWorkspace holds the files of one CLI test.
type testWorkspace struct {
	dir      string
	current  string
	baseline string
	config   string
}

// newTestWorkspace writes both reports and a config file into a temporary
// directory. The config file keeps tests independent of the user's files.
func newTestWorkspace(t *testing.T, configYAML string) testWorkspace {
	t.Helper()

	dir := t.TempDir()
	ws := testWorkspace{
		dir:      dir,
		current:  filepath.Join(dir, "current.json"),
		baseline: filepath.Join(dir, "baseline.json"),
		config:   filepath.Join(dir, config.DefaultConfigFile),
	}
	for path, content := range map[string]string{
		ws.current:  currentReportJSON,
		ws.baseline: baselineReportJSON,
		ws.config:   configYAML,
	} {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return ws
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestNewCompareCmd tests the compare command flags.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	tests := []struct {
		name string
		def  string
	}{
		{"current", ""},
		{"baseline", ""},
		{"branch", "main"},
		{"output", "markdown"},
		{"delta-format", "percent"},
		{"show-unchanged", "false"},
		{"commit", ""},
		{"repository", ""},
		{"report-file", ""},
		{"skip-root-check", "false"},
		{"db-dir", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.DefValue != tt.def {
				t.Errorf("expected default %q, got %q", tt.def, flag.DefValue)
			}
		})
	}
}

// TestCompareCmd tests the compare command end to end.
func TestCompareCmd(t *testing.T) {
	t.Parallel()

	const repoConfig = "repository: https://github.com/example/widgets\n"

	t.Run("prints markdown report", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--baseline", ws.baseline,
			"--commit", "abc1234",
			"--skip-root-check",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"## 📊 Bundle size report",
			"<samp>@example/button</samp>",
			"-25.0% 🔻<br />-25.0% 🔻",
			"🆕 New entry",
			"<a href='https://github.com/example/widgets/commit/abc1234'>abc1234</a>",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
		if strings.Contains(out, "@example/core") {
			t.Error("unchanged entry must not be listed without --show-unchanged")
		}
	})

	t.Run("applies flags over config file", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig+"deltaFormat: percent\nshowUnchanged: false\n")
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--baseline", ws.baseline,
			"--commit", "abc1234",
			"--delta-format", "delta",
			"--show-unchanged",
			"--skip-root-check",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "-0.488 kB 🔻<br />-0.195 kB 🔻") {
			t.Errorf("expected byte deltas, got:\n%s", out)
		}
		if !strings.Contains(out, "Unchanged fixtures") || !strings.Contains(out, "@example/core") {
			t.Errorf("expected unchanged section, got:\n%s", out)
		}
	})

	t.Run("filters entries", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--baseline", ws.baseline,
			"--exclude", "@example/tabs/**",
			"--skip-root-check",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out, "Tabs") {
			t.Errorf("expected excluded entry to be dropped, got:\n%s", out)
		}
		if !strings.Contains(out, "@example/button") {
			t.Errorf("expected remaining entry, got:\n%s", out)
		}
	})

	t.Run("no changes", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.baseline,
			"--baseline", ws.baseline,
			"--show-unchanged",
			"--skip-root-check",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "✅ No changes found") {
			t.Errorf("expected no changes message, got:\n%s", out)
		}
		if strings.Contains(out, "<sub>") {
			t.Error("footer must not be printed without changes")
		}
	})

	t.Run("writes report file", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		reportFile := filepath.Join(ws.dir, "out", "report.md")
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--baseline", ws.baseline,
			"--report-file", reportFile,
			"--skip-root-check",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(reportFile)
		if err != nil {
			t.Fatalf("expected report file to be written: %v", err)
		}
		if string(content) != out {
			t.Error("expected report file to match standard output")
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--baseline", ws.baseline,
			"--output", "json",
			"--skip-root-check",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc report.JSONReport
		if err := json.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, out)
		}
		if len(doc.Changed) != 2 {
			t.Errorf("expected 2 changed entries, got %d", len(doc.Changed))
		}
	})

	t.Run("text output", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--baseline", ws.baseline,
			"--output", "text",
			"--skip-root-check",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "BUNDLE SIZE REPORT") {
			t.Errorf("expected text report, got:\n%s", out)
		}
	})

	t.Run("fails outside project", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig+"manifests:\n  - bundlesize-missing-manifest.json\n")
		out, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--baseline", ws.baseline,
		)
		if !errors.Is(err, project.ErrProjectRootNotFound) {
			t.Fatalf("expected ErrProjectRootNotFound, got %v", err)
		}
		if out != "" {
			t.Errorf("expected no output, got %q", out)
		}
	})

	t.Run("rejects invalid flags", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		tests := []struct {
			args []string
			want error
		}{
			{[]string{"--baseline", ws.baseline}, config.ErrNoCurrentReport},
			{[]string{"--current", ws.current, "--delta-format", "bytes"}, config.ErrInvalidDeltaFormat},
			{[]string{"--current", ws.current, "--output", "pdf"}, config.ErrInvalidOutputFormat},
			{[]string{"--current", ws.current, "--include", "[a-"}, config.ErrInvalidPattern},
		}
		for _, tt := range tests {
			args := append([]string{"compare", "--config", ws.config, "--skip-root-check"}, tt.args...)
			if _, _, err := execute(t, args...); !errors.Is(err, tt.want) {
				t.Errorf("%v: expected %v, got %v", tt.args, tt.want, err)
			}
		}
	})

	t.Run("fails for explicit missing config", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		_, _, err := execute(t, "compare",
			"--config", filepath.Join(ws.dir, "missing.yaml"),
			"--current", ws.current,
			"--baseline", ws.baseline,
		)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("fails without database", func(t *testing.T) {
		t.Parallel()

		ws := newTestWorkspace(t, repoConfig)
		_, _, err := execute(t, "compare",
			"--config", ws.config,
			"--current", ws.current,
			"--db-dir", filepath.Join(ws.dir, "db"),
			"--skip-root-check",
		)
		if err == nil || !strings.Contains(err.Error(), "report database") {
			t.Errorf("expected database error, got %v", err)
		}
	})
}

// TestUploadAndCompare tests comparing against an uploaded baseline.
func TestUploadAndCompare(t *testing.T) {
	t.Parallel()

	ws := newTestWorkspace(t, "repository: https://github.com/example/widgets\n")
	dbDir := filepath.Join(ws.dir, "db")

	out, _, err := execute(t, "upload", ws.baseline,
		"--config", ws.config,
		"--branch", "release",
		"--commit", "1111111",
		"--db-dir", dbDir,
	)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.Contains(out, "Uploaded 2 entries for release") {
		t.Errorf("unexpected upload output %q", out)
	}

	out, _, err = execute(t, "compare",
		"--config", ws.config,
		"--current", ws.current,
		"--branch", "release",
		"--commit", "2222222",
		"--db-dir", dbDir,
		"--skip-root-check",
	)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(out, "-25.0% 🔻") {
		t.Errorf("expected comparison against uploaded baseline, got:\n%s", out)
	}

	_, _, err = execute(t, "compare",
		"--config", ws.config,
		"--current", ws.current,
		"--branch", "unknown",
		"--db-dir", dbDir,
		"--skip-root-check",
	)
	if err == nil {
		t.Error("expected error for branch without reports")
	}
}
