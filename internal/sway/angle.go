package sway

import (
	"fmt"
	"math"
)

// Angles converts a displacement series [m] into misalignment angles [deg]
// seen across a baseline [m].
func Angles(displacement []float64, baseline float64) ([]float64, error) {
	if !(baseline > 0) {
		return nil, fmt.Errorf("%w: baseline must be positive, got %v", ErrConfig, baseline)
	}

	out := make([]float64, len(displacement))
	for i, d := range displacement {
		out[i] = math.Atan2(d, baseline) * 180 / math.Pi
	}
	return out, nil
}
