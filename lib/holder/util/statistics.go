package util

import "math"

// Distribution summarizes how a set of per-symbol counts is spread out.
// It is used by the holder implementations to report how evenly pending
// waiters are distributed across symbols without exposing the raw counts.
type Distribution struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	StdDeviation float64 `json:"std_deviation"`
	// Quality combines the coefficient of variation and the min/max ratio
	// into a single [0,1] score; higher means more even.
	Quality float64 `json:"quality"`
}

// NewDistribution computes distribution statistics for the given values.
// An empty input yields the zero Distribution.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	min, max := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}
	stdDev := math.Sqrt(sumSquaredDiffs / float64(len(values)))

	minMaxRatio := 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	var cv float64
	if mean > 0 {
		cv = stdDev / mean
	}

	return Distribution{
		Min:          min,
		Max:          max,
		Mean:         mean,
		StdDeviation: stdDev,
		Quality:      (1.0-math.Min(1.0, cv))*0.5 + minMaxRatio*0.5,
	}
}
