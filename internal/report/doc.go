// Package report renders compared bundle size reports.
//
// This package contains writers for different output formats:
//   - MarkdownWriter: pull request comment with tables and a collapsible
//     list of unchanged entries
//   - TextWriter: terminal table styled with lipgloss
//   - JSONWriter: changed and unchanged entries for tool integration
//   - HTMLWriter: the Markdown report converted with goldmark
//
// Writers implement the Writer interface and can be composed with
// MultiWriter. Reporter ties a writer to its side effects: it checks the
// project root, prints the report to standard output and writes it to an
// optional file in a detached task.
package report
