package sync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeasurement(t *testing.T) {
	t.Run("normalizes timestamp to UTC", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		local := time.Date(2026, 8, 20, 8, 30, 0, 0, loc)

		m, err := NewMeasurement(local, 80.0)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, m.Timestamp.Location())
		assert.Equal(t, time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC), m.Timestamp)
	})

	t.Run("rejects zero weight", func(t *testing.T) {
		_, err := NewMeasurement(time.Now(), 0)
		assert.ErrorIs(t, err, ErrInvalidWeight)
	})

	t.Run("rejects negative weight", func(t *testing.T) {
		_, err := NewMeasurement(time.Now(), -70.0)
		assert.ErrorIs(t, err, ErrInvalidWeight)
	})
}

func TestMeasurement_WithHeight(t *testing.T) {
	base := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)

	t.Run("derives bmi", func(t *testing.T) {
		m, err := NewMeasurement(base, 70.0)
		require.NoError(t, err)

		m = m.WithHeight(1.75)
		require.NotNil(t, m.BMI)
		require.NotNil(t, m.Height)
		assert.InDelta(t, 22.857142857142858, *m.BMI, 1e-9)
		assert.Equal(t, 1.75, *m.Height)
	})

	t.Run("bmi omitted without height", func(t *testing.T) {
		m, err := NewMeasurement(base, 70.0)
		require.NoError(t, err)
		assert.Nil(t, m.BMI)
		assert.Nil(t, m.Height)

		// The JSON shape omits the field entirely, not null-as-zero.
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "bmi")
		assert.NotContains(t, string(data), "height")
	})

	t.Run("ignores non-positive height", func(t *testing.T) {
		m, err := NewMeasurement(base, 70.0)
		require.NoError(t, err)

		m = m.WithHeight(0)
		assert.Nil(t, m.BMI)
	})
}
