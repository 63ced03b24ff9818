package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMeasurement(t *testing.T, ts time.Time, weight float64) Measurement {
	t.Helper()
	m, err := NewMeasurement(ts, weight)
	require.NoError(t, err)
	return m
}

func TestMatcher_IsDuplicate(t *testing.T) {
	base := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)
	matcher := NewMatcher()

	tests := []struct {
		name      string
		candidate Measurement
		ref       Measurement
		want      bool
	}{
		{
			name:      "identical",
			candidate: mustMeasurement(t, base, 80.0),
			ref:       mustMeasurement(t, base, 80.0),
			want:      true,
		},
		{
			name:      "exactly at timestamp tolerance",
			candidate: mustMeasurement(t, base.Add(2*time.Minute), 80.0),
			ref:       mustMeasurement(t, base, 80.0),
			want:      true,
		},
		{
			name:      "one second beyond timestamp tolerance",
			candidate: mustMeasurement(t, base.Add(2*time.Minute+time.Second), 80.0),
			ref:       mustMeasurement(t, base, 80.0),
			want:      false,
		},
		{
			name:      "exactly at weight tolerance",
			candidate: mustMeasurement(t, base, 80.1),
			ref:       mustMeasurement(t, base, 80.0),
			want:      true,
		},
		{
			name:      "beyond weight tolerance",
			candidate: mustMeasurement(t, base, 80.11),
			ref:       mustMeasurement(t, base, 80.0),
			want:      false,
		},
		{
			name:      "timestamp matches but weight differs",
			candidate: mustMeasurement(t, base.Add(time.Minute), 81.0),
			ref:       mustMeasurement(t, base, 80.0),
			want:      false,
		},
		{
			name:      "weight matches but timestamp differs",
			candidate: mustMeasurement(t, base.Add(time.Hour), 80.0),
			ref:       mustMeasurement(t, base, 80.0),
			want:      false,
		},
		{
			name:      "symmetric: candidate earlier than reference",
			candidate: mustMeasurement(t, base.Add(-90*time.Second), 80.05),
			ref:       mustMeasurement(t, base, 80.0),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matcher.IsDuplicate(tt.candidate, []Measurement{tt.ref})
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty reference set", func(t *testing.T) {
		c := mustMeasurement(t, base, 80.0)
		assert.False(t, matcher.IsDuplicate(c, nil))
		assert.False(t, matcher.IsDuplicate(c, []Measurement{}))
	})
}

func TestMatcher_FilterDuplicates(t *testing.T) {
	base := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)
	matcher := NewMatcher()

	t.Run("removes matched candidates", func(t *testing.T) {
		refs := []Measurement{
			mustMeasurement(t, base, 80.0),
			mustMeasurement(t, base.Add(24*time.Hour), 79.5),
		}
		candidates := []Measurement{
			mustMeasurement(t, base.Add(time.Minute), 80.05),     // dup of refs[0]
			mustMeasurement(t, base.Add(48*time.Hour), 79.0),     // new
			mustMeasurement(t, base.Add(24*time.Hour), 79.5),     // dup of refs[1]
			mustMeasurement(t, base.Add(12*time.Hour), 80.0),     // new
		}

		unique := matcher.FilterDuplicates(candidates, refs)
		require.Len(t, unique, 2)
		assert.Equal(t, base.Add(12*time.Hour), unique[0].Timestamp)
		assert.Equal(t, base.Add(48*time.Hour), unique[1].Timestamp)
	})

	t.Run("sorts ascending regardless of input order", func(t *testing.T) {
		candidates := []Measurement{
			mustMeasurement(t, base.Add(72*time.Hour), 79.0),
			mustMeasurement(t, base, 80.0),
			mustMeasurement(t, base.Add(24*time.Hour), 79.5),
		}

		unique := matcher.FilterDuplicates(candidates, nil)
		require.Len(t, unique, 3)
		for i := 1; i < len(unique); i++ {
			assert.True(t, unique[i-1].Timestamp.Before(unique[i].Timestamp))
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		unique := matcher.FilterDuplicates(nil, []Measurement{mustMeasurement(t, base, 80.0)})
		assert.Empty(t, unique)
	})
}

func TestMatcher_FindDuplicatesInList(t *testing.T) {
	base := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)
	matcher := NewMatcher()

	measurements := []Measurement{
		mustMeasurement(t, base, 80.0),
		mustMeasurement(t, base.Add(time.Minute), 80.05), // pairs with 0
		mustMeasurement(t, base.Add(24*time.Hour), 79.0),
		mustMeasurement(t, base.Add(30*time.Second), 80.02), // pairs with 0 and 1
	}

	pairs := matcher.FindDuplicatesInList(measurements)
	assert.ElementsMatch(t, [][2]int{{0, 1}, {0, 3}, {1, 3}}, pairs)

	t.Run("no duplicates", func(t *testing.T) {
		clean := []Measurement{
			mustMeasurement(t, base, 80.0),
			mustMeasurement(t, base.Add(24*time.Hour), 79.0),
		}
		assert.Empty(t, matcher.FindDuplicatesInList(clean))
	})
}

func TestMatcher_CustomTolerances(t *testing.T) {
	base := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)
	matcher := &Matcher{
		TimestampTolerance: 10 * time.Minute,
		WeightTolerance:    0.5,
	}

	c := mustMeasurement(t, base.Add(9*time.Minute), 80.4)
	ref := mustMeasurement(t, base, 80.0)
	assert.True(t, matcher.IsDuplicate(c, []Measurement{ref}))
}
