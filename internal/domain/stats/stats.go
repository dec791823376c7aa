// Package stats provides the numeric primitives behind course difficulty
// estimation: median, mean, population standard deviation, winsorization,
// and a confidence-interval estimate shrunk toward zero. Everything works on
// plain float64 samples so it can be tested apart from the entity model.
package stats

import (
	"math"
	"sort"
)

// ZScore95 is the two-sided 95% confidence half-width multiplier.
const ZScore95 = 1.96

// Median returns the middle value of the sample, averaging the two middle
// values for even-sized samples. Returns 0 for an empty sample.
func Median(sample []float64) float64 {
	n := len(sample)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	var sum float64
	for _, x := range sample {
		sum += x
	}
	return sum / float64(len(sample))
}

// Stdev returns the population standard deviation, or 0 for samples of
// fewer than two values.
func Stdev(sample []float64) float64 {
	n := len(sample)
	if n < 2 {
		return 0
	}
	mean := Mean(sample)
	var sum float64
	for _, x := range sample {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// Winsorize drops floor(n*frac) values from each end of an ascending-sorted
// sample and returns the remainder. The input must already be sorted; the
// returned slice aliases it.
func Winsorize(sorted []float64, frac float64) []float64 {
	if frac <= 0 {
		return sorted
	}
	cut := int(float64(len(sorted)) * frac)
	if cut == 0 {
		return sorted
	}
	return sorted[cut : len(sorted)-cut]
}

// ShrinkTowardZero moves mean toward zero by at most the confidence-interval
// half-width z*stdev/sqrt(n). The result is the bound of the interval
// closest to zero; an interval straddling zero collapses to exactly zero.
func ShrinkTowardZero(mean, stdev float64, n int, z float64) float64 {
	if n <= 0 {
		return 0
	}
	halfWidth := z * stdev / math.Sqrt(float64(n))
	if mean > 0 {
		return mean - math.Min(mean, halfWidth)
	}
	return mean + math.Min(-mean, halfWidth)
}

// ConservativeMean sorts the sample, winsorizes it by trimFrac on each tail,
// and returns the trimmed mean shrunk toward zero by the z confidence
// half-width, along with the number of values that survived trimming.
func ConservativeMean(sample []float64, trimFrac, z float64) (float64, int) {
	if len(sample) == 0 {
		return 0, 0
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	trimmed := Winsorize(sorted, trimFrac)
	n := len(trimmed)
	return ShrinkTowardZero(Mean(trimmed), Stdev(trimmed), n, z), n
}
