package pipeline

import "errors"

// ErrNoBaselineSource is returned by LoadStep when the run has no baseline
// file and no baseline store is configured.
var ErrNoBaselineSource = errors.New("no baseline source: give a baseline file or a branch with stored reports")
