package sway

// Grid pairs the time axis of a realization with its frequency axis.
// Both have exactly N samples.
type Grid struct {
	N         int
	Dt        float64
	Df        float64
	Time      []float64
	Frequency []float64
}

// NewGrid builds the time and frequency grids for a validated config
func NewGrid(cfg SimulationConfig) Grid {
	n := cfg.Samples()
	dt := 1.0 / cfg.SampleRate
	df := cfg.SampleRate / float64(n)

	g := Grid{
		N:         n,
		Dt:        dt,
		Df:        df,
		Time:      make([]float64, n),
		Frequency: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		g.Time[i] = float64(i) * dt
		g.Frequency[i] = float64(i) * df
	}
	return g
}

// PositiveBins returns ceil((N+1)/2), the number of bins from DC up to Nyquist
func PositiveBins(n int) int {
	return n/2 + 1
}
