package pricing

import (
	"math"
	"slices"
)

// sortedCopy returns values in ascending order without touching the input.
// Every aggregate below sums in sorted order so results are bit-identical no
// matter how the caller ordered the listings.
func sortedCopy(values []float64) []float64 {
	s := slices.Clone(values)
	slices.Sort(s)
	return s
}

func mean(sorted []float64) float64 {
	n := float64(len(sorted))
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	if !math.IsInf(sum, 0) {
		return sum / n
	}
	// Near MaxFloat64 the plain sum overflows; average the scaled values.
	sum = 0
	for _, v := range sorted {
		sum += v / n
	}
	return sum
}

// Median returns the middle value, or the mean of the two middle values.
// Returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := sortedCopy(values)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return s[n/2-1]/2 + s[n/2]/2
}

// TrimmedMean drops floor(n*trim) values from each end of the sorted slice
// and averages the rest. Lists too short to trim fall back to the plain mean.
// Returns 0 for an empty slice.
func TrimmedMean(values []float64, trim float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := sortedCopy(values)
	n := len(s)
	if n < 3 {
		return mean(s)
	}

	k := int(float64(n) * trim)
	if k == 0 || k*2 >= n {
		return mean(s)
	}
	return mean(s[k : n-k])
}

// Round rounds v to the nearest multiple of quantum, halves away from zero.
// Values too large to divide by quantum are returned unchanged.
func Round(v, quantum float64) float64 {
	q := v / quantum
	if math.IsInf(q, 0) {
		return v
	}
	return math.Round(q) * quantum
}

// ceilTo rounds v up to a multiple of quantum. Values already within a
// rounding error of a multiple snap to it.
func ceilTo(v, quantum float64) float64 {
	q := v / quantum
	if r := math.Round(q); math.Abs(q-r) < 1e-9 {
		return r * quantum
	}
	return math.Ceil(q) * quantum
}

// finalize rounds to the configured quantum and clamps at the floor.
func (e *Engine) finalize(v float64) float64 {
	return math.Max(Round(v, e.cfg.Quantum), e.cfg.Floor)
}
