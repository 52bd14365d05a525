package storage

import "errors"

var (
	// ErrReportNotFound is returned when no stored report matches a lookup.
	ErrReportNotFound = errors.New("report not found")

	// ErrEmptyBranch is returned when a report is saved without a branch.
	ErrEmptyBranch = errors.New("branch must not be empty")
)
