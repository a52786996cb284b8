package sway

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeRatio(t *testing.T) {
	assert.Equal(t, 2.0, SafeRatio(4, 2))
	assert.Equal(t, 0.0, SafeRatio(4, 0))
	assert.Equal(t, 0.0, SafeRatio(0, 0))
	assert.Equal(t, -0.5, SafeRatio(1, -2))
}

func TestComputePSD_ZeroWind(t *testing.T) {
	cfg := DefaultConfig().WithWindSpeed(0)
	grid := NewGrid(cfg)

	psd, err := ComputePSD(cfg, grid.Frequency)
	require.NoError(t, err)

	for i := range grid.Frequency {
		assert.False(t, math.IsNaN(psd.AlongWind[i]))
		assert.False(t, math.IsNaN(psd.CrossWind[i]))
		assert.Equal(t, 0.0, psd.VortexForce[i], "vortex term at bin %d", i)
		assert.Equal(t, 0.0, psd.AlongWind[i], "along-wind PSD at bin %d", i)
		assert.Equal(t, 0.0, psd.CrossWind[i], "cross-wind PSD at bin %d", i)
	}
}

func TestComputePSD_NonNegativeAndFinite(t *testing.T) {
	for _, u := range []float64{0.5, 1, 5, 13, 30} {
		cfg := DefaultConfig().WithWindSpeed(u)
		grid := NewGrid(cfg)

		psd, err := ComputePSD(cfg, grid.Frequency)
		require.NoError(t, err)
		require.Len(t, psd.AlongWind, grid.N)
		require.Len(t, psd.CrossWind, grid.N)

		for i := range grid.Frequency {
			assert.GreaterOrEqual(t, psd.AlongWind[i], 0.0)
			assert.GreaterOrEqual(t, psd.CrossWind[i], 0.0)
			assert.False(t, math.IsInf(psd.CrossWind[i], 0))
		}
	}
}

func TestComputePSD_VortexPeak(t *testing.T) {
	cfg := DefaultConfig().WithWindSpeed(10)
	fvs := VortexFrequency(cfg.WindSpeed, cfg.Diameter)
	require.InDelta(t, 4.0, fvs, 1e-12)

	psd, err := ComputePSD(cfg, []float64{0, fvs / 2, fvs, 2 * fvs})
	require.NoError(t, err)

	// exp(-(1-r)^2/0.18) peaks at r=1
	assert.Equal(t, 0.0, psd.VortexForce[0])
	assert.Greater(t, psd.VortexForce[2], psd.VortexForce[1])
	assert.Greater(t, psd.VortexForce[2], psd.VortexForce[3])

	kappa := DragFactor()
	assert.InDelta(t, kappa*kappa*1.125*math.Sqrt(math.Pi), psd.VortexForce[2], 1e-15)
}

func TestComputePSD_TransferResonance(t *testing.T) {
	cfg := DefaultConfig()
	psd, err := ComputePSD(cfg, []float64{0, NaturalFreq, 10 * NaturalFreq})
	require.NoError(t, err)

	stiffness := 4 * cfg.Mass * math.Pi * math.Pi
	assert.InDelta(t, 1/(stiffness*stiffness), psd.TransferPower[0], 1e-15)
	assert.InDelta(t, 1/math.Pow(stiffness*2*DampingRatio, 2), psd.TransferPower[1], 1e-9)
	assert.Greater(t, psd.TransferPower[1], psd.TransferPower[0])
	assert.Less(t, psd.TransferPower[2], psd.TransferPower[0])
}

func TestComputePSD_CombinesTerms(t *testing.T) {
	cfg := DefaultConfig().WithWindSpeed(7)
	grid := NewGrid(cfg)

	psd, err := ComputePSD(cfg, grid.Frequency)
	require.NoError(t, err)

	for _, i := range []int{0, 1, 7, grid.N / 2} {
		assert.InDelta(t, psd.TransferPower[i]*psd.AlongForce[i], psd.AlongWind[i], 1e-24)
		assert.InDelta(t, psd.TransferPower[i]*(psd.CrossForce[i]+psd.VortexForce[i]), psd.CrossWind[i], 1e-24)
	}
}

func TestFrictionVelocity(t *testing.T) {
	uStar := FrictionVelocity(13, 10)
	assert.InDelta(t, 13/(2.5*math.Log(5)), uStar, 1e-12)
	assert.Equal(t, 0.0, FrictionVelocity(13, TerrainRough))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimulationConfig)
		wantErr bool
	}{
		{"default", func(c *SimulationConfig) {}, false},
		{"zero wind", func(c *SimulationConfig) { c.WindSpeed = 0 }, false},
		{"negative wind", func(c *SimulationConfig) { c.WindSpeed = -1 }, true},
		{"zero duration", func(c *SimulationConfig) { c.Duration = 0 }, true},
		{"zero sample rate", func(c *SimulationConfig) { c.SampleRate = 0 }, true},
		{"negative baseline", func(c *SimulationConfig) { c.Baseline = -50 }, true},
		{"zero mass", func(c *SimulationConfig) { c.Mass = 0 }, true},
		{"zero diameter", func(c *SimulationConfig) { c.Diameter = 0 }, true},
		{"height below roughness", func(c *SimulationConfig) { c.Height = 1.5 }, true},
		{"NaN duration", func(c *SimulationConfig) { c.Duration = math.NaN() }, true},
		{"single sample", func(c *SimulationConfig) { c.Duration = 0.001; c.SampleRate = 1000 }, true},
		{"at sample limit", func(c *SimulationConfig) { c.Duration = 1; c.SampleRate = MaxSamples }, false},
		{"above sample limit", func(c *SimulationConfig) { c.Duration = 2; c.SampleRate = MaxSamples }, true},
		{"overflowing sample count", func(c *SimulationConfig) { c.Duration = 1e9; c.SampleRate = 1e9 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 1
	cfg.SampleRate = 100

	g := NewGrid(cfg)
	assert.Equal(t, 100, g.N)
	assert.Len(t, g.Time, 100)
	assert.Len(t, g.Frequency, 100)
	assert.InDelta(t, 0.01, g.Dt, 1e-15)
	assert.InDelta(t, 1.0, g.Df, 1e-15)
	assert.InDelta(t, 0.99, g.Time[99], 1e-12)
	assert.InDelta(t, 99.0, g.Frequency[99], 1e-12)
}

func TestPositiveBins(t *testing.T) {
	assert.Equal(t, 3, PositiveBins(4))
	assert.Equal(t, 3, PositiveBins(5))
	assert.Equal(t, 51, PositiveBins(100))
	assert.Equal(t, 51, PositiveBins(101))
}
