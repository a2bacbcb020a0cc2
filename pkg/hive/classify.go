package hive

import (
	"math"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// Classification is the outcome of binning axis metric values.
type Classification struct {
	// Counts holds the number of values binned to each axis.
	Counts []int
	// Bins holds the axis index of each input value, in input order.
	Bins []int
	// Mean is the arithmetic mean of the input values (0 when empty).
	Mean float64
	// Thresholds are the upper bounds of axes 0..numAxes-2.
	Thresholds []float64
}

// Thresholds returns the bin upper bounds for the given mean:
// threshold(k) = 2·(k+1)·mean / numAxes for k in [0, numAxes-2].
// The last axis is unbounded, so the result has numAxes-1 elements.
// Thresholds stay finite for any finite mean.
func Thresholds(mean float64, numAxes int) []float64 {
	if numAxes <= 1 {
		return []float64{}
	}
	th := make([]float64, numAxes-1)
	for k := range th {
		th[k] = 2 * float64(k+1) * mean / float64(numAxes)
		if math.IsInf(th[k], 0) {
			// 2·(k+1)·mean overflowed; divide first and clamp.
			th[k] = 2 * float64(k+1) * (mean / float64(numAxes))
			th[k] = max(min(th[k], math.MaxFloat64), -math.MaxFloat64)
		}
	}
	return th
}

// meanOf returns the arithmetic mean of values, or 0 when empty. A sum
// that overflows falls back to a running mean, so the result is finite
// whenever every value is.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	if !math.IsInf(sum, 0) {
		return sum / float64(len(values))
	}
	var mean float64
	for i, v := range values {
		mean += (v - mean) / float64(i+1)
	}
	return mean
}

// Classify bins each value to the smallest axis k whose threshold is at
// least the value, or to the last axis when no threshold is. Values are
// assumed finite.
func Classify(values []float64, numAxes int) (Classification, error) {
	if numAxes <= 0 {
		return Classification{}, herrors.New(herrors.ErrCodeInvalidConfig, "num_axes must be positive, got %d", numAxes)
	}

	mean := meanOf(values)
	c := Classification{
		Counts:     make([]int, numAxes),
		Bins:       make([]int, len(values)),
		Mean:       mean,
		Thresholds: Thresholds(mean, numAxes),
	}
	for i, v := range values {
		bin := numAxes - 1
		for k, th := range c.Thresholds {
			if v <= th {
				bin = k
				break
			}
		}
		c.Bins[i] = bin
		c.Counts[bin]++
	}
	return c, nil
}
