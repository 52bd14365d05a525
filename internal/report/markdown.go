package report

import (
	"html"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/bundlesize/internal/format"
	"github.com/nao1215/bundlesize/internal/model"
)

const (
	markdownTitle     = "📊 Bundle size report"
	noChangesMessage  = "✅ No changes found"
	newEntryMarker    = "🆕 New entry"
	unchangedSummary  = "Unchanged fixtures"
	markdownLineBreak = "<br />"
)

// MarkdownWriter renders the bundle size report as GitHub flavored Markdown,
// suitable for a pull request comment.
type MarkdownWriter struct {
	baseWriter

	icons IconSet
}

// MarkdownOption configures a MarkdownWriter.
type MarkdownOption func(*MarkdownWriter)

// WithIcons replaces the direction icons shown next to deltas.
func WithIcons(icons IconSet) MarkdownOption {
	return func(w *MarkdownWriter) {
		w.icons = icons
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts Options, mdOpts ...MarkdownOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output, opts),
		icons:      DefaultIconSet(),
	}
	for _, opt := range mdOpts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
//
// Without changed entries only the title and a "no changes" line are written;
// unchanged entries and the footer are omitted on that path.
func (w *MarkdownWriter) Write(report model.ComparedReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	changed, unchanged := report.Split()

	md.H2(markdownTitle)
	md.PlainText("")

	if len(changed) == 0 {
		md.PlainText(noChangesMessage)
		return len(md.String()), md.Build()
	}

	w.writeChanged(md, changed)

	if w.opts.ShowUnchanged && len(unchanged) > 0 {
		w.writeUnchanged(md, unchanged)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeChanged writes the table of changed entries.
func (w *MarkdownWriter) writeChanged(md *markdown.Markdown, entries []model.ComparedEntry) {
	formatDelta := w.deltaFunc(w.icons.Symbol)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			entryTitle(e.Entry),
			w.beforeCell(e),
			sizesCell(e.MinifiedSize, e.GzippedSize),
			w.changeCell(e, formatDelta),
		})
	}

	md.CustomTable(markdown.TableSet{
		Header: []string{"Package & Exports", "Baseline (minified/GZIP)", "PR", "Change"},
		Rows:   rows,
	}, markdown.TableOptions{AutoWrapText: false})
	md.PlainText("")
}

// beforeCell renders the baseline sizes. New entries have no baseline and
// render as zero.
func (w *MarkdownWriter) beforeCell(e model.ComparedEntry) string {
	if e.Diff.Empty {
		return sizesCell(0, 0)
	}
	return sizesCell(e.BaselineMinifiedSize(), e.BaselineGzippedSize())
}

// changeCell renders the minified and compressed deltas, or the new entry
// marker.
func (w *MarkdownWriter) changeCell(e model.ComparedEntry, formatDelta format.DeltaFunc) string {
	if e.Diff.Empty {
		return newEntryMarker
	}
	return deltaText(formatDelta(e.Diff.Minified.Delta, e.Diff.Minified.Percent)) +
		markdownLineBreak +
		deltaText(formatDelta(e.Diff.Gzip.Delta, e.Diff.Gzip.Percent))
}

// writeUnchanged writes the collapsible table of unchanged entries.
func (w *MarkdownWriter) writeUnchanged(md *markdown.Markdown, entries []model.ComparedEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			entryTitle(e.Entry),
			sizesCell(e.MinifiedSize, e.GzippedSize),
		})
	}

	table := markdown.NewMarkdown(io.Discard)
	table.CustomTable(markdown.TableSet{
		Header: []string{"Package & Exports", "Size (minified/GZIP)"},
		Rows:   rows,
	}, markdown.TableOptions{AutoWrapText: false})

	md.Details(unchangedSummary, "\n"+table.String())
	md.PlainText("")
}

// writeFooter writes the link to the commit the report was generated against.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.PlainTextf("<sub>🤖 This report was generated against <a href='%s'>%s</a></sub>",
		w.opts.commitURL(), w.opts.CommitSHA)
}

// deltaText renders a formatted delta, appending its direction symbol when
// it has one.
func deltaText(d format.Delta) string {
	switch d := d.(type) {
	case format.SymbolDelta:
		if d.Symbol == "" {
			return d.Text
		}
		return d.Text + " " + d.Symbol
	case format.PlainDelta:
		return d.Text
	}
	// Delta is sealed; only a nil Delta gets here.
	return ""
}

// entryTitle renders the package name and the export with its path as tooltip.
func entryTitle(e model.Entry) string {
	return "<samp>" + cellText(e.PackageName) + "</samp> " + markdownLineBreak +
		" <abbr title='" + cellText(e.Path) + "'>" + cellText(e.Name) + "</abbr>"
}

// cellText escapes HTML special characters and the column separator of text
// placed in a table cell.
func cellText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "|", `\|`)
}

// sizesCell renders a minified and a compressed size stacked in one cell.
func sizesCell(minified, gzipped int64) string {
	return strings.Join([]string{
		markdown.Code(format.FormatBytes(minified)),
		markdownLineBreak,
		markdown.Code(format.FormatBytes(gzipped)),
	}, "")
}
