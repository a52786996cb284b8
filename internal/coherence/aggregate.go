package coherence

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Unbounded marks a coherence time that was never observed to end within the
// simulated window. It is +Inf so it dominates any mean it takes part in.
var Unbounded = math.Inf(1)

// IsUnbounded reports whether v is the Unbounded sentinel
func IsUnbounded(v float64) bool {
	return math.IsInf(v, 1)
}

// FirstPassage scans theta from the start and returns the time i/fs of the
// first sample deviating from theta[0] by at least limit.
// ok is false when the deviation never reaches limit.
func FirstPassage(theta []float64, limit, fs float64) (t float64, ok bool) {
	if len(theta) == 0 {
		return Unbounded, false
	}
	start := theta[0]
	for i, v := range theta {
		if math.Abs(v-start) >= limit {
			return float64(i) / fs, true
		}
	}
	return Unbounded, false
}

// MeanCrossing averages the finite first-passage times in samples.
// Repeats that never crossed (Unbounded) are left out; if none crossed the
// result is Unbounded.
func MeanCrossing(samples []float64) float64 {
	finite := make([]float64, 0, len(samples))
	for _, s := range samples {
		if !IsUnbounded(s) {
			finite = append(finite, s)
		}
	}
	if len(finite) == 0 {
		return Unbounded
	}
	return stat.Mean(finite, nil)
}

// CountCrossings returns how many samples are finite
func CountCrossings(samples []float64) int {
	var n int
	for _, s := range samples {
		if !IsUnbounded(s) {
			n++
		}
	}
	return n
}

// MovingAverage smooths values with a centered window of the given width and
// returns a slice of the same length. Near the edges the window shrinks to
// the samples that exist, so no zero padding leaks in. A window holding an
// Unbounded value averages to Unbounded.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}
	before := (window - 1) / 2
	after := window - 1 - before

	for i := range values {
		lo := max(0, i-before)
		hi := min(len(values)-1, i+after)

		var sum float64
		unbounded := false
		for j := lo; j <= hi; j++ {
			if IsUnbounded(values[j]) {
				unbounded = true
				break
			}
			sum += values[j]
		}
		if unbounded {
			out[i] = Unbounded
			continue
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
