package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Round2 rounds to 2 decimal places, the precision used for monetary amounts
// and percentage shares throughout the engine.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Quartiles returns the three quartile cut points (Q1, Q2, Q3) of data.
//
// The method is linear interpolation between order statistics with exclusive
// plotting positions: for cut point k the position is m = k*(n+1)/4 over the
// sorted sample, interpolating between the two neighbouring order statistics
// and clamping at the extremes. Quartile algorithms differ subtly between
// ecosystems, so the exact method is pinned here and in the tests.
//
// The input slice is not modified. A single-element sample returns that value
// for all three cut points; an empty sample returns zeros.
func Quartiles(data []float64) [3]float64 {
	var q [3]float64
	n := len(data)
	if n == 0 {
		return q
	}
	if n == 1 {
		q[0], q[1], q[2] = data[0], data[0], data[0]
		return q
	}

	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	for k := 1; k <= 3; k++ {
		pos := k * (n + 1)
		j := pos / 4
		if j < 1 {
			j = 1
		}
		if j > n-1 {
			j = n - 1
		}
		// delta computed after clamping: cut points that fall outside the
		// sample are linearly extrapolated from the nearest pair.
		delta := pos - j*4
		q[k-1] = (sorted[j-1]*float64(4-delta) + sorted[j]*float64(delta)) / 4
	}

	return q
}

// Percentile75 returns the 75th percentile (third quartile cut point) of data.
func Percentile75(data []float64) float64 {
	return Quartiles(data)[2]
}
