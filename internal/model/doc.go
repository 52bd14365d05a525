// Package model defines the data structures shared by the bundlesize packages.
//
// This package contains the following main types:
//   - Entry: one measured bundle export (package + export path) with its sizes
//   - Report: the list of entries produced by the measuring tool
//   - Diff and DiffByMetric: per-entry comparison against a baseline
//   - ComparedReport: entries of the current report annotated with their diff
//   - Run: the state passed through the comparison pipeline
//
// Report and ComparedReport serialize to JSON so they can be read from files
// written by the measuring tool and stored in the report database.
package model
