// Package pipeline turns report files into a compared report.
//
// A comparison runs as a sequence of steps over a model.Run: loading the
// current and baseline reports, filtering entries by glob patterns and
// matching entries against the baseline. Each step reads what earlier steps
// left in the run and adds its own result.
package pipeline
