package models

import (
	"time"
)

// Sweep run statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// SimulationParams overrides the pole and sampling parameters of a run.
// Zero fields keep the server defaults.
type SimulationParams struct {
	Duration   float64 `json:"duration,omitempty" minimum:"0" maximum:"3600" doc:"Simulated duration in seconds"`
	SampleRate float64 `json:"sample_rate,omitempty" minimum:"0" maximum:"100000" doc:"Sample rate in Hz"`
	Baseline   float64 `json:"baseline,omitempty" minimum:"0" doc:"Link distance in meters"`
	Mass       float64 `json:"mass,omitempty" minimum:"0" doc:"Modal mass of the pole in kg"`
	Height     float64 `json:"height,omitempty" minimum:"0" doc:"Pole height in meters"`
	Diameter   float64 `json:"diameter,omitempty" minimum:"0" doc:"Pole diameter in meters"`
}

// SweepParams are the resolved inputs of a sweep run
type SweepParams struct {
	AntennaCounts []int            `json:"antenna_counts"`
	WindSpeeds    []float64        `json:"wind_speeds"`
	Repeats       int              `json:"repeats"`
	Seed          uint64           `json:"seed"`
	Alpha         float64          `json:"alpha"`
	Window        int              `json:"window"`
	Simulation    SimulationParams `json:"simulation"`
}

// SweepRun represents the core sweep entity (for internal use)
type SweepRun struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	Progress    int         `json:"progress"`
	Params      SweepParams `json:"params"`
	ErrorMsg    *string     `json:"error_message,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// CurvePoint is the coherence time at one wind speed. A nil time together
// with the unbounded flag means no repeat crossed the threshold.
type CurvePoint struct {
	WindSpeed      float64  `json:"wind_speed" doc:"Mean wind speed in m/s"`
	AlongWind      *float64 `json:"along_wind" doc:"Smoothed along-wind coherence time in seconds"`
	CrossWind      *float64 `json:"cross_wind" doc:"Smoothed cross-wind coherence time in seconds"`
	AlongUnbounded bool     `json:"along_unbounded" doc:"Along-wind coherence exceeded the simulated window"`
	CrossUnbounded bool     `json:"cross_unbounded" doc:"Cross-wind coherence exceeded the simulated window"`
	RawAlongWind   *float64 `json:"raw_along_wind" doc:"Along-wind mean before smoothing"`
	RawCrossWind   *float64 `json:"raw_cross_wind" doc:"Cross-wind mean before smoothing"`
	AlongCrossings int      `json:"along_crossings" doc:"Repeats whose along-wind angle crossed the threshold"`
	CrossCrossings int      `json:"cross_crossings" doc:"Repeats whose cross-wind angle crossed the threshold"`
}

// CurveResult is the coherence curve of one antenna count
type CurveResult struct {
	AntennaCount int          `json:"antenna_count" doc:"Number of array elements"`
	ThetaMax     float64      `json:"theta_max" doc:"Tolerated misalignment in degrees"`
	Points       []CurvePoint `json:"points"`
}

// SweepResults represents the stored results of a completed sweep
type SweepResults struct {
	ID           string        `json:"id"`
	SweepID      string        `json:"sweep_id"`
	Curves       []CurveResult `json:"curves"`
	Realizations int           `json:"realizations"`
	ElapsedMs    int64         `json:"elapsed_ms"`
	PlotKey      *string       `json:"plot_key,omitempty"`
	CSVKey       *string       `json:"csv_key,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
