package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatBytes renders a byte count in kilobytes with three decimals,
// using English digit grouping: 1500 -> "1.465 kB", 0 -> "0.000 kB".
// Negative values are rendered with a leading minus sign.
func FormatBytes(n int64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.3f kB", float64(n)/1024)
}

// FormatPercent renders a fraction as a signed percentage with one decimal:
// 0.125 -> "+12.5%", -0.03 -> "-3.0%". Zero renders as "0%".
func FormatPercent(fraction float64) string {
	if fraction == 0 {
		return "0%"
	}
	return fmt.Sprintf("%+.1f%%", fraction*100)
}
