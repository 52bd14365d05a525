package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/bundlesize/internal/format"
	"github.com/nao1215/bundlesize/internal/model"
)

// Options holds the display preferences and metadata of a report.
type Options struct {
	// CommitSHA identifies the commit the report was generated against.
	CommitSHA string

	// Repository is the base URL of the repository, used to link CommitSHA
	// as "{Repository}/commit/{CommitSHA}".
	Repository string

	// ShowUnchanged lists unchanged entries in a collapsible section.
	ShowUnchanged bool

	// DeltaFormat selects absolute byte deltas or percentages.
	DeltaFormat format.DeltaFormat

	// OutputFile, when set, also receives the rendered report.
	OutputFile string
}

// commitURL returns the link to the commit the report was generated against.
func (o Options) commitURL() string {
	return o.Repository + "/commit/" + o.CommitSHA
}

// Writer renders a compared report to its destination.
// Implementations render different output formats.
type Writer interface {
	// Write renders the report and returns the number of bytes written.
	Write(report model.ComparedReport) (int, error)
}

// Format names an output format.
type Format string

const (
	// FormatMarkdown renders a GitHub flavored Markdown report.
	FormatMarkdown Format = "markdown"
	// FormatText renders a terminal table.
	FormatText Format = "text"
	// FormatJSON renders the compared entries as JSON.
	FormatJSON Format = "json"
	// FormatHTML renders the Markdown report converted to HTML.
	FormatHTML Format = "html"
)

// ErrUnknownFormat is returned by NewWriter for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatText, FormatJSON, FormatHTML}
}

// NewWriter creates the Writer for the given format.
func NewWriter(f Format, output io.Writer, opts Options) (Writer, error) {
	switch f {
	case FormatMarkdown, "":
		return NewMarkdownWriter(output, opts), nil
	case FormatText:
		return NewTextWriter(output, opts), nil
	case FormatJSON:
		return NewJSONWriter(output, opts, WithPrettyPrint()), nil
	case FormatHTML:
		return NewHTMLWriter(output, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report with every Writer.
// Returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(report model.ComparedReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	opts   Options
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts Options) baseWriter {
	return baseWriter{output: output, opts: opts}
}

// deltaFunc returns the formatter for the configured delta format.
func (b baseWriter) deltaFunc(symbol format.SymbolFunc) format.DeltaFunc {
	return format.DeltaFactory(b.opts.DeltaFormat, symbol)
}
