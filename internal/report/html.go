package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/nao1215/bundlesize/internal/model"
)

// HTMLWriter outputs the Markdown report converted to an HTML fragment.
// Raw HTML of the Markdown report (details, samp, abbr) is kept as is.
type HTMLWriter struct {
	baseWriter

	md goldmark.Markdown
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts Options) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output, opts),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Write renders the Markdown report and converts it to HTML.
func (w *HTMLWriter) Write(report model.ComparedReport) (int, error) {
	var src bytes.Buffer
	if _, err := NewMarkdownWriter(&src, w.opts).Write(report); err != nil {
		return 0, err
	}

	var out bytes.Buffer
	if err := w.md.Convert(src.Bytes(), &out); err != nil {
		return 0, fmt.Errorf("failed to convert report to HTML: %w", err)
	}
	return w.output.Write(out.Bytes())
}
