package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/bundlesize/internal/model"
	"github.com/nao1215/bundlesize/internal/project"
)

// Reporter renders a compared report, prints it and optionally writes it to
// a file.
//
// Before rendering, Reporter runs its RootCheck; a failing check aborts the
// report before anything is printed. The file write runs detached from the
// caller: its failure is logged and never returned by Report. Callers that
// need the file on disk wait on the returned WriteTask.
type Reporter struct {
	format    Format
	stdout    io.Writer
	logger    *slog.Logger
	rootCheck project.RootCheck
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithFormat selects the output format. Markdown is the default.
func WithFormat(f Format) ReporterOption {
	return func(r *Reporter) {
		r.format = f
	}
}

// WithStdout replaces the standard output the report is printed to.
func WithStdout(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.stdout = w
	}
}

// WithLogger sets the logger receiving the file write outcome.
func WithLogger(logger *slog.Logger) ReporterOption {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// WithRootCheck replaces the precondition run before each report.
// Pass project.NoCheck to disable it.
func WithRootCheck(check project.RootCheck) ReporterOption {
	return func(r *Reporter) {
		r.rootCheck = check
	}
}

// NewReporter creates a Reporter. By default it renders Markdown to
// os.Stdout, logs through slog.Default and requires a package.json above
// the working directory.
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		format:    FormatMarkdown,
		stdout:    os.Stdout,
		rootCheck: project.RequireRoot(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.rootCheck == nil {
		r.rootCheck = project.NoCheck
	}
	return r
}

// Report renders the report, prints it to stdout and, when opts.OutputFile
// is set, starts writing it to that file.
//
// The returned error covers the root check, rendering and printing only.
// The WriteTask is never nil; Wait on it returns the file write error, if any.
func (r *Reporter) Report(report model.ComparedReport, opts Options) (*WriteTask, error) {
	if err := r.rootCheck(); err != nil {
		return nil, fmt.Errorf("cannot generate report: %w", err)
	}

	var buf bytes.Buffer
	w, err := NewWriter(r.format, &buf, opts)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(report); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	text := buf.Bytes()

	if _, err := r.stdout.Write(text); err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}

	if opts.OutputFile == "" {
		return &WriteTask{}, nil
	}
	return r.startWrite(opts.OutputFile, text), nil
}

// startWrite writes data to path in a detached goroutine.
func (r *Reporter) startWrite(path string, data []byte) *WriteTask {
	task := &WriteTask{path: path, group: new(errgroup.Group)}
	task.group.Go(func() error {
		if err := writeFile(path, data); err != nil {
			r.logger.Error("failed to write report file", "path", path, "error", err)
			return err
		}
		r.logger.Info("report written", "path", path, "bytes", len(data))
		return nil
	})
	return task
}

// writeFile overwrites path with data, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // reports are meant to be shared
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteTask is a file write started by Reporter.Report.
// The zero value represents no write.
type WriteTask struct {
	path  string
	group *errgroup.Group
}

// Path returns the file being written, or "" when there is none.
func (t *WriteTask) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Wait blocks until the write finishes and returns its error.
// The error has already been logged by the Reporter.
func (t *WriteTask) Wait() error {
	if t == nil || t.group == nil {
		return nil
	}
	return t.group.Wait()
}
