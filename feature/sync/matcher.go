package sync

import (
	"math"
	"sort"
	"time"
)

// Default tolerances for treating two readings as the same physical event.
const (
	// DefaultTimestampTolerance treats readings within ±2 minutes as the
	// same moment.
	DefaultTimestampTolerance = 2 * time.Minute
	// DefaultWeightTolerance treats weights within 0.1kg as the same
	// reading (accounts for unit rounding differences between platforms).
	DefaultWeightTolerance = 0.1
)

// Matcher decides whether a candidate measurement already has a
// counterpart in a reference collection. The tolerance relation is
// symmetric but not transitive (tolerance windows can chain), so only
// pairwise tests are offered, never global clustering.
type Matcher struct {
	// TimestampTolerance is the maximum absolute timestamp difference.
	TimestampTolerance time.Duration
	// WeightTolerance is the maximum absolute weight difference in kg.
	WeightTolerance float64
}

// NewMatcher creates a matcher with the default tolerances.
func NewMatcher() *Matcher {
	return &Matcher{
		TimestampTolerance: DefaultTimestampTolerance,
		WeightTolerance:    DefaultWeightTolerance,
	}
}

// matches is the pairwise tolerance test. The timestamp check gates the
// weight check; both must hold.
func (m *Matcher) matches(a, b Measurement) bool {
	dt := a.Timestamp.Sub(b.Timestamp)
	if dt < 0 {
		dt = -dt
	}
	if dt > m.TimestampTolerance {
		return false
	}
	return math.Abs(a.Weight-b.Weight) <= m.WeightTolerance
}

// IsDuplicate reports whether candidate matches any reference record.
// An empty reference set always yields false.
func (m *Matcher) IsDuplicate(candidate Measurement, refs []Measurement) bool {
	for _, ref := range refs {
		if m.matches(candidate, ref) {
			return true
		}
	}
	return false
}

// FilterDuplicates returns the candidates that have no counterpart in
// refs, sorted ascending by timestamp. Callers depend on oldest-first
// ordering for a deterministic, auditable upload order.
func (m *Matcher) FilterDuplicates(candidates, refs []Measurement) []Measurement {
	unique := make([]Measurement, 0, len(candidates))
	for _, c := range candidates {
		if !m.IsDuplicate(c, refs) {
			unique = append(unique, c)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Timestamp.Before(unique[j].Timestamp)
	})

	return unique
}

// FindDuplicatesInList returns every unordered index pair (i, j), i < j,
// whose records match under the tolerance test. Diagnostic helper; not
// on the sync critical path.
func (m *Matcher) FindDuplicatesInList(measurements []Measurement) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(measurements); i++ {
		for j := i + 1; j < len(measurements); j++ {
			if m.matches(measurements[i], measurements[j]) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}
