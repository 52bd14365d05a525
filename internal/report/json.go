package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/bundlesize/internal/format"
	"github.com/nao1215/bundlesize/internal/model"
)

// JSONWriter outputs the compared report in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts Options, jsonOpts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output, opts),
	}
	for _, opt := range jsonOpts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// CommitSHA is the commit the report was generated against.
	CommitSHA string `json:"commitSHA,omitempty"`

	// Repository is the repository base URL.
	Repository string `json:"repository,omitempty"`

	// DeltaFormat is the configured delta format.
	DeltaFormat format.DeltaFormat `json:"deltaFormat"`

	// Changed lists entries whose sizes differ from the baseline.
	Changed []model.ComparedEntry `json:"changed"`

	// Unchanged lists entries with identical sizes. Only present when
	// unchanged entries are requested.
	Unchanged []model.ComparedEntry `json:"unchanged,omitempty"`
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report model.ComparedReport) (int, error) {
	changed, unchanged := report.Split()
	if changed == nil {
		changed = []model.ComparedEntry{}
	}

	doc := JSONReport{
		CommitSHA:   w.opts.CommitSHA,
		Repository:  w.opts.Repository,
		DeltaFormat: w.opts.DeltaFormat,
		Changed:     changed,
	}
	if w.opts.ShowUnchanged {
		doc.Unchanged = unchanged
	}

	return w.writeJSON(doc)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
