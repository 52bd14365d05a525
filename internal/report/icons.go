package report

// IconSet maps size change directions to the markup shown next to a delta.
// The zero value renders no icons. Fields are unexported so a set cannot be
// changed after construction; use NewIconSet to build a custom one.
type IconSet struct {
	increase string
	decrease string
}

// NewIconSet creates an IconSet from the markup for growing and shrinking sizes.
func NewIconSet(increase, decrease string) IconSet {
	return IconSet{increase: increase, decrease: decrease}
}

// DefaultIconSet returns the icons used by the Markdown report.
func DefaultIconSet() IconSet {
	return NewIconSet("🔺", "🔻")
}

// Increase returns the markup for a positive delta.
func (s IconSet) Increase() string { return s.increase }

// Decrease returns the markup for a negative delta.
func (s IconSet) Decrease() string { return s.decrease }

// Symbol returns the icon for a delta: decrease for negative values,
// increase for positive values and nothing for zero.
func (s IconSet) Symbol(delta int64) string {
	switch {
	case delta < 0:
		return s.decrease
	case delta > 0:
		return s.increase
	default:
		return ""
	}
}
