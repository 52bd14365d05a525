package model

// Run is the state passed through the comparison pipeline.
// Steps read the fields filled by earlier steps and fill their own.
type Run struct {
	// BaselinePath and CurrentPath are the report files to load.
	// BaselinePath may be empty when Baseline is supplied directly.
	BaselinePath string
	CurrentPath  string

	// Baseline and Current are the loaded reports.
	Baseline Report
	Current  Report

	// BaselineRef describes where the baseline came from: a file path or
	// "branch@commit" for a stored report.
	BaselineRef string

	// Compared is the result of the compare step.
	Compared ComparedReport

	// Steps records the names of the steps that completed.
	Steps []string

	// Err holds the error of the step that failed, if any.
	Err error
}

// NewRun creates a Run for the given report files.
func NewRun(currentPath, baselinePath string) *Run {
	return &Run{
		CurrentPath:  currentPath,
		BaselinePath: baselinePath,
	}
}
