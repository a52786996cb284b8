package coherence

import (
	"fmt"
	"math"

	"github.com/RMahshie/beamsway/internal/sway"
)

const (
	// DefaultAlpha scales the half-power beamwidth into the tolerated misalignment
	DefaultAlpha = 0.3578

	speedOfLight = 3e8
)

// ThetaMax returns the largest tolerated misalignment [deg] of an array with
// the given number of elements, using DefaultAlpha.
func ThetaMax(antennas int) (float64, error) {
	return ThetaMaxAlpha(antennas, DefaultAlpha)
}

// ThetaMaxAlpha returns alpha * asin(0.891/antennas) in degrees
func ThetaMaxAlpha(antennas int, alpha float64) (float64, error) {
	if antennas < 1 {
		return 0, fmt.Errorf("%w: antenna count must be at least 1, got %d", sway.ErrConfig, antennas)
	}
	if !(alpha > 0) {
		return 0, fmt.Errorf("%w: alpha must be positive, got %v", sway.ErrConfig, alpha)
	}
	beamwidth := math.Asin(0.891 / float64(antennas))
	return alpha * beamwidth * 180 / math.Pi, nil
}

// ThresholdCurve evaluates ThetaMaxAlpha for every antenna count
func ThresholdCurve(counts []int, alpha float64) ([]float64, error) {
	out := make([]float64, len(counts))
	for i, c := range counts {
		v, err := ThetaMaxAlpha(c, alpha)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// AntennaCount returns the number of half-wavelength elements that fit in an
// array of the given length [m] at the carrier frequency [Hz].
func AntennaCount(arrayLength, carrierHz float64) (int, error) {
	if !(arrayLength > 0) || !(carrierHz > 0) {
		return 0, fmt.Errorf("%w: array length and carrier must be positive, got %v m, %v Hz", sway.ErrConfig, arrayLength, carrierHz)
	}
	wavelength := speedOfLight / carrierHz
	return int(math.Round(arrayLength * 2 / wavelength)), nil
}
