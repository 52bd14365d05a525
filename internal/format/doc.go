// Package format turns byte counts and size deltas into display strings.
//
// FormatBytes and FormatPercent produce the values shown in report cells.
// DeltaFactory selects how a size change is rendered (absolute bytes or
// percent) and whether it carries a direction symbol; its result is the
// Delta sum type so renderers can switch on the shape.
package format
