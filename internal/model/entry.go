package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyReportPath is returned by LoadReport when no path is given.
var ErrEmptyReportPath = errors.New("report path is empty")

// Entry is one measured bundle export.
type Entry struct {
	// PackageName is the name of the package owning the export (e.g. "@scope/button").
	PackageName string `json:"packageName"`

	// Name is the display name of the measured fixture.
	Name string `json:"name"`

	// Path is the path of the fixture inside the package.
	// Together with PackageName it identifies an entry across reports.
	Path string `json:"path"`

	// MinifiedSize is the size of the minified bundle in bytes.
	MinifiedSize int64 `json:"minifiedSize"`

	// GzippedSize is the size of the compressed bundle in bytes.
	GzippedSize int64 `json:"gzippedSize"`
}

// Key returns the identity of the entry used to match it against a baseline.
func (e Entry) Key() string {
	return e.PackageName + "|" + e.Path
}

// Label returns "package/path", the string filters are matched against.
func (e Entry) Label() string {
	if e.Path == "" {
		return e.PackageName
	}
	return e.PackageName + "/" + e.Path
}

// Report is the list of entries produced by one build.
type Report []Entry

// ParseReport decodes a JSON report.
func ParseReport(r io.Reader) (Report, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, nil
}

// LoadReport reads a JSON report from a file.
func LoadReport(path string) (Report, error) {
	if path == "" {
		return nil, ErrEmptyReportPath
	}

	f, err := os.Open(path) //nolint:gosec // report path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer f.Close()

	report, err := ParseReport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}
