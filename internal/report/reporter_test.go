package report

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/bundlesize/internal/model"
	"github.com/nao1215/bundlesize/internal/project"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestReporter returns a Reporter printing to stdout and logging to logs.
func newTestReporter(stdout, logs *syncBuffer, opts ...ReporterOption) *Reporter {
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	base := []ReporterOption{
		WithStdout(stdout),
		WithLogger(logger),
		WithRootCheck(project.NoCheck),
	}
	return NewReporter(append(base, opts...)...)
}

// TestReporterReport tests printing and the optional file write.
func TestReporterReport(t *testing.T) {
	t.Parallel()

	t.Run("prints without output file", func(t *testing.T) {
		t.Parallel()

		var stdout, logs syncBuffer
		task, err := newTestReporter(&stdout, &logs).Report(model.ComparedReport{shrunkEntry()}, testOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := task.Wait(); err != nil {
			t.Errorf("unexpected write error: %v", err)
		}
		if task.Path() != "" {
			t.Errorf("expected no output path, got %q", task.Path())
		}
		if !strings.Contains(stdout.String(), "Bundle size report") {
			t.Error("expected report on stdout")
		}
		if !strings.HasSuffix(stdout.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("writes output file", func(t *testing.T) {
		t.Parallel()

		var stdout, logs syncBuffer
		opts := testOptions()
		opts.OutputFile = filepath.Join(t.TempDir(), "nested", "report.md")

		task, err := newTestReporter(&stdout, &logs).Report(model.ComparedReport{shrunkEntry()}, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := task.Wait(); err != nil {
			t.Fatalf("unexpected write error: %v", err)
		}

		data, err := os.ReadFile(opts.OutputFile)
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		if string(data) != stdout.String() {
			t.Error("expected file content to match stdout")
		}
		if !strings.Contains(logs.String(), "report written") {
			t.Errorf("expected success log, got %q", logs.String())
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		var stdout, logs syncBuffer
		opts := testOptions()
		opts.OutputFile = filepath.Join(t.TempDir(), "report.md")
		if err := os.WriteFile(opts.OutputFile, []byte(strings.Repeat("stale\n", 1000)), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		task, err := newTestReporter(&stdout, &logs).Report(nil, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := task.Wait(); err != nil {
			t.Fatalf("unexpected write error: %v", err)
		}

		data, err := os.ReadFile(opts.OutputFile)
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		if strings.Contains(string(data), "stale") {
			t.Error("expected file to be overwritten")
		}
	})

	t.Run("write failure is logged not returned", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, []byte("file"), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		var stdout, logs syncBuffer
		opts := testOptions()
		opts.OutputFile = filepath.Join(blocker, "report.md")

		task, err := newTestReporter(&stdout, &logs).Report(model.ComparedReport{shrunkEntry()}, opts)
		if err != nil {
			t.Fatalf("expected no error from Report, got %v", err)
		}
		if !strings.Contains(stdout.String(), "Bundle size report") {
			t.Error("expected report on stdout despite write failure")
		}

		if err := task.Wait(); err == nil {
			t.Error("expected write error from Wait")
		}
		if !strings.Contains(logs.String(), "failed to write report file") {
			t.Errorf("expected error log, got %q", logs.String())
		}
		if !strings.Contains(logs.String(), "level=ERROR") {
			t.Errorf("expected ERROR level, got %q", logs.String())
		}
	})

	t.Run("root check failure aborts before output", func(t *testing.T) {
		t.Parallel()

		var stdout, logs syncBuffer
		opts := testOptions()
		opts.OutputFile = filepath.Join(t.TempDir(), "report.md")

		check := project.RequireRootFrom(t.TempDir(), "bundlesize-no-such-manifest.json")
		task, err := newTestReporter(&stdout, &logs, WithRootCheck(check)).
			Report(model.ComparedReport{shrunkEntry()}, opts)

		if !errors.Is(err, project.ErrProjectRootNotFound) {
			t.Fatalf("expected ErrProjectRootNotFound, got %v", err)
		}
		if task != nil {
			t.Error("expected no write task")
		}
		if stdout.String() != "" {
			t.Errorf("expected no output, got %q", stdout.String())
		}
		if _, err := os.Stat(opts.OutputFile); !os.IsNotExist(err) {
			t.Error("expected no output file")
		}
	})

	t.Run("root check runs once per report", func(t *testing.T) {
		t.Parallel()

		calls := 0
		check := func() error {
			calls++
			return nil
		}

		var stdout, logs syncBuffer
		r := newTestReporter(&stdout, &logs, WithRootCheck(check))
		for range 2 {
			if _, err := r.Report(model.ComparedReport{shrunkEntry()}, testOptions()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if calls != 2 {
			t.Errorf("expected 2 root checks, got %d", calls)
		}
	})

	t.Run("other formats", func(t *testing.T) {
		t.Parallel()

		var stdout, logs syncBuffer
		r := newTestReporter(&stdout, &logs, WithFormat(FormatJSON))
		if _, err := r.Report(model.ComparedReport{shrunkEntry()}, testOptions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout.String(), "{") {
			t.Errorf("expected JSON output, got %q", stdout.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		var stdout, logs syncBuffer
		r := newTestReporter(&stdout, &logs, WithFormat("pdf"))
		if _, err := r.Report(nil, testOptions()); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

// TestWriteTaskNil tests that a nil task is safe to use.
func TestWriteTaskNil(t *testing.T) {
	t.Parallel()

	var task *WriteTask
	if err := task.Wait(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if task.Path() != "" {
		t.Error("expected empty path")
	}
}
