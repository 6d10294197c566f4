// Package formulas provides the statistical building blocks shared by the
// Monte Carlo and backtest aggregators.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// ConfidenceHalfWidth95 returns the half-width of a symmetric 95% confidence
// interval around the sample mean: 1.96 * stddev / sqrt(n).
func ConfidenceHalfWidth95(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return 1.96 * StdDev(data) / math.Sqrt(float64(len(data)))
}

// Min returns the smallest value in data, or 0 for an empty slice.
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
