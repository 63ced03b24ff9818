package sync

import (
	"errors"
	"time"
)

// ErrInvalidWeight rejects records without a strictly positive weight.
// A record lacking a weight value is not a measurement and must not
// enter the pipeline.
var ErrInvalidWeight = errors.New("sync: measurement weight must be positive")

// Measurement is a single body-weight reading. Timestamps are normalized
// to UTC so readings from platforms with different native timezone
// representations compare correctly. Values are immutable once
// constructed; the engine only filters and reorders collections of them.
type Measurement struct {
	// Timestamp is the moment the reading was taken, in UTC.
	Timestamp time.Time `json:"timestamp"`
	// Weight is the reading in kilograms, always positive.
	Weight float64 `json:"weight"`
	// BMI is derived from weight and height when the source reported a
	// height in the same measure group. Nil when no height was present.
	BMI *float64 `json:"bmi,omitempty"`
	// Height is the height in meters, carried for provenance only.
	// It is never written to the sink.
	Height *float64 `json:"height,omitempty"`
}

// NewMeasurement constructs a measurement, normalizing the timestamp to
// UTC and rejecting non-positive weights.
func NewMeasurement(ts time.Time, weightKg float64) (Measurement, error) {
	if weightKg <= 0 {
		return Measurement{}, ErrInvalidWeight
	}
	return Measurement{Timestamp: ts.UTC(), Weight: weightKg}, nil
}

// WithHeight returns a copy carrying the height and the derived BMI
// (weight / height²). A non-positive height is ignored.
func (m Measurement) WithHeight(heightM float64) Measurement {
	if heightM <= 0 {
		return m
	}
	bmi := m.Weight / (heightM * heightM)
	m.Height = &heightM
	m.BMI = &bmi
	return m
}
