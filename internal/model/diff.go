package model

import "github.com/nao1215/bundlesize/internal/format"

// NewEntryPercent is the percent shown for entries without a baseline.
const NewEntryPercent = "100%"

// DiffByMetric is the change of one size metric relative to the baseline.
type DiffByMetric struct {
	// Delta is current minus baseline, in bytes.
	Delta int64 `json:"delta"`

	// Percent is the change relative to the baseline, already formatted.
	Percent string `json:"percent"`
}

// Diff is the comparison record of one entry.
type Diff struct {
	// Empty is true when the entry has no counterpart in the baseline.
	// Deltas of an empty diff equal the current sizes.
	Empty bool `json:"empty"`

	// Minified is the change of the minified size.
	Minified DiffByMetric `json:"minified"`

	// Gzip is the change of the compressed size.
	Gzip DiffByMetric `json:"gzip"`
}

// Unchanged reports whether neither metric moved.
// New entries are never unchanged.
func (d Diff) Unchanged() bool {
	return !d.Empty && d.Minified.Delta == 0 && d.Gzip.Delta == 0
}

// ComparedEntry is an entry of the current report annotated with its diff.
type ComparedEntry struct {
	Entry
	Diff Diff `json:"diff"`
}

// BaselineMinifiedSize reconstructs the baseline minified size.
func (e ComparedEntry) BaselineMinifiedSize() int64 {
	if e.Diff.Empty {
		return 0
	}
	return e.MinifiedSize - e.Diff.Minified.Delta
}

// BaselineGzippedSize reconstructs the baseline compressed size.
func (e ComparedEntry) BaselineGzippedSize() int64 {
	if e.Diff.Empty {
		return 0
	}
	return e.GzippedSize - e.Diff.Gzip.Delta
}

// ComparedReport is the result of comparing a report against its baseline.
type ComparedReport []ComparedEntry

// Compare annotates every entry of current with its diff against baseline.
// Entries are matched by Entry.Key; entries missing from the baseline get an
// empty diff. Baseline entries missing from current are dropped.
// The order of current is preserved.
func Compare(current, baseline Report) ComparedReport {
	index := make(map[string]Entry, len(baseline))
	for _, e := range baseline {
		index[e.Key()] = e
	}

	result := make(ComparedReport, 0, len(current))
	for _, e := range current {
		before, ok := index[e.Key()]
		if !ok {
			result = append(result, ComparedEntry{Entry: e, Diff: newEntryDiff(e)})
			continue
		}

		result = append(result, ComparedEntry{
			Entry: e,
			Diff: Diff{
				Minified: diffMetric(e.MinifiedSize, before.MinifiedSize),
				Gzip:     diffMetric(e.GzippedSize, before.GzippedSize),
			},
		})
	}
	return result
}

// Split partitions the report into changed and unchanged entries,
// preserving order within each list.
func (r ComparedReport) Split() (changed, unchanged []ComparedEntry) {
	for _, e := range r {
		if e.Diff.Unchanged() {
			unchanged = append(unchanged, e)
			continue
		}
		changed = append(changed, e)
	}
	return changed, unchanged
}

// newEntryDiff builds the diff of an entry that has no baseline.
func newEntryDiff(e Entry) Diff {
	return Diff{
		Empty:    true,
		Minified: DiffByMetric{Delta: e.MinifiedSize, Percent: NewEntryPercent},
		Gzip:     DiffByMetric{Delta: e.GzippedSize, Percent: NewEntryPercent},
	}
}

func diffMetric(current, baseline int64) DiffByMetric {
	delta := current - baseline
	if baseline == 0 {
		if delta == 0 {
			return DiffByMetric{Percent: format.FormatPercent(0)}
		}
		return DiffByMetric{Delta: delta, Percent: NewEntryPercent}
	}
	return DiffByMetric{
		Delta:   delta,
		Percent: format.FormatPercent(float64(delta) / float64(baseline)),
	}
}
