package sway

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// PSD holds the spectral densities of one config over a frequency grid.
// AlongWind and CrossWind are the displacement PSDs fed to the synthesizer;
// the remaining fields are the force and transfer terms they are built from.
type PSD struct {
	AlongWind []float64
	CrossWind []float64

	AlongForce    []float64
	CrossForce    []float64
	VortexForce   []float64
	TransferPower []float64 // |Hm|^2
}

// SafeRatio returns num/den, or 0 when den is zero.
// Every denominator of the PSD model that can vanish goes through here.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// DragFactor returns kappa = 0.5*rho_a*C_D*A_e
func DragFactor() float64 {
	return 0.5 * AirDensity * DragCoefficient * EffectiveArea
}

// FrictionVelocity returns u* = u_avg / (2.5*ln(height/z0))
func FrictionVelocity(windSpeed, height float64) float64 {
	return SafeRatio(windSpeed, 2.5*math.Log(height/TerrainRough))
}

// VortexFrequency returns the shedding frequency S*u_avg/dp
func VortexFrequency(windSpeed, diameter float64) float64 {
	return SafeRatio(StrouhalNumber*windSpeed, diameter)
}

// ComputePSD evaluates the wind, vortex and mechanical spectra over freqs
func ComputePSD(cfg SimulationConfig, freqs []float64) (*PSD, error) {
	n := len(freqs)
	p := &PSD{
		AlongWind:     make([]float64, n),
		CrossWind:     make([]float64, n),
		AlongForce:    make([]float64, n),
		CrossForce:    make([]float64, n),
		VortexForce:   make([]float64, n),
		TransferPower: make([]float64, n),
	}

	u := cfg.WindSpeed
	kappa := DragFactor()
	uStar := FrictionVelocity(u, cfg.Height)
	fvs := VortexFrequency(u, cfg.Diameter)

	alongScale := SafeRatio(500*uStar*uStar, math.Pi*u)
	crossScale := SafeRatio(75*uStar*uStar, 2*math.Pi*u)
	alongForce := math.Pow(2*kappa*u, 2)
	crossForce := math.Pow(kappa*u, 2)
	stiffness := 4 * cfg.Mass * math.Pi * math.Pi * NaturalFreq * NaturalFreq

	for i, f := range freqs {
		// von Karman-type turbulence spectra, -5/3 tail
		sud := alongScale * math.Pow(1/(1+SafeRatio(500*f, 2*math.Pi*u)), 5.0/3.0)
		suc := crossScale * math.Pow(1/(1+SafeRatio(95*f, 2*math.Pi*u)), 5.0/3.0)
		p.AlongForce[i] = alongForce * sud
		p.CrossForce[i] = crossForce * suc

		// vortex shedding peak around f_vs
		r := SafeRatio(f, fvs)
		if r > 0 {
			p.VortexForce[i] = kappa * kappa * 1.125 * math.Sqrt(math.Pi*r) * math.Exp(-((1-r)*(1-r))/0.18)
		}

		// single degree of freedom pole response
		q := SafeRatio(f, NaturalFreq)
		hm := SafeRatio(1, stiffness*math.Sqrt((1-q*q)*(1-q*q)+(2*DampingRatio*q)*(2*DampingRatio*q)))
		p.TransferPower[i] = hm * hm

		p.AlongWind[i] = p.TransferPower[i] * p.AlongForce[i]
		p.CrossWind[i] = p.TransferPower[i] * (p.CrossForce[i] + p.VortexForce[i])
	}

	if floats.HasNaN(p.AlongWind) || floats.HasNaN(p.CrossWind) || hasInf(p.AlongWind) || hasInf(p.CrossWind) {
		return nil, fmt.Errorf("%w: displacement PSD is not finite (u=%v, height=%v)", ErrComputation, u, cfg.Height)
	}
	return p, nil
}

func hasInf(s []float64) bool {
	for _, v := range s {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
