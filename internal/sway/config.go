package sway

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrConfig is returned for invalid simulation parameters
	ErrConfig = errors.New("invalid simulation config")
	// ErrComputation is returned when a numeric anomaly (NaN/Inf) escapes the model
	ErrComputation = errors.New("numeric computation failed")
)

// Physical constants of the pole sway model
const (
	AirDensity      = 1.22  // rho_a [kg/m^3]
	DragCoefficient = 0.5   // C_D
	EffectiveArea   = 0.09  // A_e [m^2]
	NaturalFreq     = 1.0   // f_n [Hz]
	DampingRatio    = 0.002 // zeta
	TerrainRough    = 2.0   // z0 [m]
	StrouhalNumber  = 0.2   // S, vortex parameter
)

// MaxSamples bounds N = round(T*Fs) of a single realization
const MaxSamples = 1 << 22

// SimulationConfig holds the inputs of one sway realization
type SimulationConfig struct {
	Duration   float64 `json:"duration" mapstructure:"duration"`       // T [s]
	SampleRate float64 `json:"sample_rate" mapstructure:"sample_rate"` // Fs [Hz]
	Baseline   float64 `json:"baseline" mapstructure:"baseline"`       // D [m]
	WindSpeed  float64 `json:"wind_speed" mapstructure:"wind_speed"`   // u_avg [m/s]
	Mass       float64 `json:"mass" mapstructure:"mass"`               // m [kg]
	Height     float64 `json:"height" mapstructure:"height"`           // pole height [m]
	Diameter   float64 `json:"diameter" mapstructure:"diameter"`       // dp [m]
	Seed       *uint64 `json:"seed,omitempty" mapstructure:"seed"`
}

// DefaultConfig returns the reference pole: 10 m high, 0.5 m wide, 5 kg, 50 m link
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		Duration:   2,
		SampleRate: 1000,
		Baseline:   50,
		WindSpeed:  13,
		Mass:       5,
		Height:     10,
		Diameter:   0.5,
	}
}

// WithWindSpeed returns a copy of the config with a different mean wind speed
func (c SimulationConfig) WithWindSpeed(u float64) SimulationConfig {
	c.WindSpeed = u
	return c
}

// WithSeed returns a copy of the config with the given seed
func (c SimulationConfig) WithSeed(seed uint64) SimulationConfig {
	c.Seed = &seed
	return c
}

// Samples returns N = round(T*Fs)
func (c SimulationConfig) Samples() int {
	return int(math.Round(c.Duration * c.SampleRate))
}

// Validate checks the config against the model preconditions
func (c SimulationConfig) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"duration", c.Duration},
		{"sample rate", c.SampleRate},
		{"baseline", c.Baseline},
		{"mass", c.Mass},
		{"height", c.Height},
		{"diameter", c.Diameter},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrConfig, p.name, p.value)
		}
	}
	if !(c.WindSpeed >= 0) || math.IsInf(c.WindSpeed, 0) {
		return fmt.Errorf("%w: wind speed must be non-negative, got %v", ErrConfig, c.WindSpeed)
	}
	if c.Height <= TerrainRough {
		return fmt.Errorf("%w: height %v must exceed terrain roughness %v", ErrConfig, c.Height, TerrainRough)
	}
	if n := c.Duration * c.SampleRate; n > MaxSamples {
		return fmt.Errorf("%w: duration*sample rate yields %.3g samples, at most %d", ErrConfig, n, MaxSamples)
	}
	if n := c.Samples(); n < 2 {
		return fmt.Errorf("%w: duration*sample rate yields %d samples, need at least 2", ErrConfig, n)
	}
	return nil
}
