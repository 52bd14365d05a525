package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nao1215/bundlesize/internal/format"
	"github.com/nao1215/bundlesize/internal/model"
)

// TextWriter outputs the report as a terminal table.
// Increases are shown in red and decreases in green when the output
// supports colors; otherwise plain text is written.
type TextWriter struct {
	baseWriter

	header   lipgloss.Style
	increase lipgloss.Style
	decrease lipgloss.Style
	muted    lipgloss.Style
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
// The color profile is detected from output.
func NewTextWriter(output io.Writer, opts Options) *TextWriter {
	r := lipgloss.NewRenderer(output)
	return &TextWriter{
		baseWriter: newBaseWriter(output, opts),
		header:     r.NewStyle().Bold(true),
		increase:   r.NewStyle().Foreground(lipgloss.Color("1")),
		decrease:   r.NewStyle().Foreground(lipgloss.Color("2")),
		muted:      r.NewStyle().Faint(true),
	}
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report model.ComparedReport) (int, error) {
	var sb strings.Builder
	changed, unchanged := report.Split()

	sb.WriteString(w.header.Render("BUNDLE SIZE REPORT"))
	sb.WriteString("\n\n")

	if len(changed) == 0 {
		sb.WriteString("No changes found\n")
		return w.output.Write([]byte(sb.String()))
	}

	w.writeChanged(&sb, changed)

	if w.opts.ShowUnchanged && len(unchanged) > 0 {
		w.writeUnchanged(&sb, unchanged)
	}

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeChanged writes the table of changed entries.
func (w *TextWriter) writeChanged(sb *strings.Builder, entries []model.ComparedEntry) {
	formatDelta := w.deltaFunc(nil)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Package", "Export", "Baseline (min / gzip)", "PR (min / gzip)", "Change (min / gzip)")

	for _, e := range entries {
		before := "new"
		change := "new entry"
		if !e.Diff.Empty {
			before = textSizes(e.BaselineMinifiedSize(), e.BaselineGzippedSize())
			change = w.styleDelta(e.Diff.Minified.Delta, formatDelta(e.Diff.Minified.Delta, e.Diff.Minified.Percent)) +
				" / " +
				w.styleDelta(e.Diff.Gzip.Delta, formatDelta(e.Diff.Gzip.Delta, e.Diff.Gzip.Percent))
		}
		t.Row(e.PackageName, e.Name, before, textSizes(e.MinifiedSize, e.GzippedSize), change)
	}

	sb.WriteString(t.String())
	sb.WriteString("\n\n")
}

// writeUnchanged writes the table of unchanged entries.
func (w *TextWriter) writeUnchanged(sb *strings.Builder, entries []model.ComparedEntry) {
	sb.WriteString(w.header.Render(fmt.Sprintf("Unchanged (%d)", len(entries))))
	sb.WriteString("\n")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Package", "Export", "Size (min / gzip)")
	for _, e := range entries {
		t.Row(e.PackageName, e.Name, textSizes(e.MinifiedSize, e.GzippedSize))
	}

	sb.WriteString(t.String())
	sb.WriteString("\n\n")
}

// writeFooter writes the commit the report was generated against.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(w.muted.Render(fmt.Sprintf("Generated against %s (%s)", w.opts.CommitSHA, w.opts.commitURL())))
	sb.WriteString("\n")
}

// styleDelta colors a formatted delta by direction.
func (w *TextWriter) styleDelta(delta int64, d format.Delta) string {
	switch {
	case delta > 0:
		return w.increase.Render(d.Output())
	case delta < 0:
		return w.decrease.Render(d.Output())
	default:
		return d.Output()
	}
}

func textSizes(minified, gzipped int64) string {
	return format.FormatBytes(minified) + " / " + format.FormatBytes(gzipped)
}
