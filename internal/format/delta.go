package format

import (
	"errors"
	"fmt"
)

// DeltaFormat selects how size changes are displayed.
type DeltaFormat string

const (
	// DeltaFormatDelta shows the absolute change in bytes.
	DeltaFormatDelta DeltaFormat = "delta"
	// DeltaFormatPercent shows the change relative to the baseline.
	DeltaFormatPercent DeltaFormat = "percent"
)

// ErrUnknownDeltaFormat is returned by ParseDeltaFormat for unknown values.
var ErrUnknownDeltaFormat = errors.New("unknown delta format")

// ParseDeltaFormat converts a flag or config value into a DeltaFormat.
// The empty string selects DeltaFormatPercent.
func ParseDeltaFormat(s string) (DeltaFormat, error) {
	switch DeltaFormat(s) {
	case "":
		return DeltaFormatPercent, nil
	case DeltaFormatDelta, DeltaFormatPercent:
		return DeltaFormat(s), nil
	default:
		return "", fmt.Errorf("%w: %q (use %q or %q)", ErrUnknownDeltaFormat, s, DeltaFormatDelta, DeltaFormatPercent)
	}
}

// String returns the flag value of the format.
func (f DeltaFormat) String() string {
	return string(f)
}

// Delta is a formatted size change. It is either PlainDelta or SymbolDelta.
type Delta interface {
	// Output returns the formatted change without any direction symbol.
	Output() string

	isDelta()
}

// PlainDelta is a formatted change without direction symbol.
type PlainDelta struct {
	Text string
}

// SymbolDelta is a formatted change together with its direction symbol.
// Symbol is empty when the change is zero.
type SymbolDelta struct {
	Text   string
	Symbol string
}

// Output returns the formatted change.
func (d PlainDelta) Output() string { return d.Text }

// Output returns the formatted change.
func (d SymbolDelta) Output() string { return d.Text }

func (PlainDelta) isDelta()  {}
func (SymbolDelta) isDelta() {}

// SymbolFunc returns the direction symbol for a delta in bytes.
type SymbolFunc func(delta int64) string

// DeltaFunc formats one metric change given its byte delta and its
// preformatted percentage.
type DeltaFunc func(delta int64, percent string) Delta

// DeltaFactory returns a DeltaFunc for the given format.
// DeltaFormatDelta renders the byte delta with FormatBytes; any other format
// renders the percentage. When symbol is nil the result is a PlainDelta,
// otherwise a SymbolDelta carrying symbol(delta).
func DeltaFactory(f DeltaFormat, symbol SymbolFunc) DeltaFunc {
	return func(delta int64, percent string) Delta {
		text := percent
		if f == DeltaFormatDelta {
			text = FormatBytes(delta)
		}
		if symbol == nil {
			return PlainDelta{Text: text}
		}
		return SymbolDelta{Text: text, Symbol: symbol(delta)}
	}
}
