package sway

import (
	"fmt"
	"math/rand/v2"
)

// pcgStream is the fixed PCG increment paired with a realization seed
const pcgStream = 0x9e3779b97f4a7c15

// Realization is one simulated run of the pole for both wind axes
type Realization struct {
	Config            SimulationConfig
	Seed              uint64 // set by Run only
	Time              []float64
	AlongDisplacement []float64 // L_d [m]
	CrossDisplacement []float64 // L_c [m]
	AlongAngle        []float64 // theta_d [deg], projected over the link baseline
	CrossAngle        []float64 // theta_c [deg], projected over the pole height
	PSD               *PSD
	Frequency         []float64
}

// NewSource returns the random source used for a given seed
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, pcgStream))
}

// Process runs realizations that share duration and sample rate.
// It owns a Synthesizer, so one Process must not be shared between goroutines.
type Process struct {
	base  SimulationConfig
	grid  Grid
	synth *Synthesizer
}

// NewProcess validates cfg and prepares the grids and FFT plan
func NewProcess(cfg SimulationConfig) (*Process, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid := NewGrid(cfg)
	return &Process{
		base:  cfg,
		grid:  grid,
		synth: NewSynthesizer(grid.N, grid.Df),
	}, nil
}

// Grid returns the time/frequency grid shared by every realization
func (p *Process) Grid() Grid {
	return p.grid
}

// Realize runs one realization at the given wind speed with phases drawn from rng.
// The along-wind phases are drawn first, then the cross-wind phases.
// Realize does not know the seed behind rng, so Seed and Config.Seed of the
// result are left unset; Run fills them in.
func (p *Process) Realize(windSpeed float64, rng *rand.Rand) (*Realization, error) {
	cfg := p.base.WithWindSpeed(windSpeed)
	cfg.Seed = nil
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	psd, err := ComputePSD(cfg, p.grid.Frequency)
	if err != nil {
		return nil, err
	}

	along, err := p.synth.Synthesize(psd.AlongWind, rng)
	if err != nil {
		return nil, fmt.Errorf("synthesizing along-wind displacement: %w", err)
	}
	cross, err := p.synth.Synthesize(psd.CrossWind, rng)
	if err != nil {
		return nil, fmt.Errorf("synthesizing cross-wind displacement: %w", err)
	}

	alongAngle, err := Angles(along, cfg.Baseline)
	if err != nil {
		return nil, err
	}
	crossAngle, err := Angles(cross, cfg.Height)
	if err != nil {
		return nil, err
	}

	return &Realization{
		Config:            cfg,
		Time:              p.grid.Time,
		AlongDisplacement: along,
		CrossDisplacement: cross,
		AlongAngle:        alongAngle,
		CrossAngle:        crossAngle,
		PSD:               psd,
		Frequency:         p.grid.Frequency,
	}, nil
}

// Run executes a single realization for cfg. When cfg.Seed is nil a seed is
// drawn and reported back on the Realization so the run can be replayed.
func Run(cfg SimulationConfig) (*Realization, error) {
	proc, err := NewProcess(cfg)
	if err != nil {
		return nil, err
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = rand.Uint64()
	}

	r, err := proc.Realize(cfg.WindSpeed, NewSource(seed))
	if err != nil {
		return nil, err
	}
	r.Seed = seed
	r.Config.Seed = &seed
	return r, nil
}
