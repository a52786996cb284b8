package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateSweepRequest represents a request to start a coherence sweep.
// Antenna counts are given directly or derived from array lengths at a
// carrier frequency.
type CreateSweepRequest struct {
	Body struct {
		AntennaCounts []int             `json:"antenna_counts,omitempty" maxItems:"32" doc:"Antenna counts to evaluate"`
		ArrayLengths  []float64         `json:"array_lengths,omitempty" maxItems:"32" doc:"Array lengths in meters, converted to antenna counts"`
		CarrierHz     float64           `json:"carrier_hz,omitempty" minimum:"0" doc:"Carrier frequency in Hz used with array_lengths"`
		WindSpeeds    []float64         `json:"wind_speeds" minItems:"1" maxItems:"256" required:"true" doc:"Mean wind speeds in m/s"`
		Repeats       int               `json:"repeats" minimum:"1" maximum:"10000" required:"true" doc:"Monte-Carlo repeats per point"`
		Seed          *uint64           `json:"seed,omitempty" doc:"Sweep seed; random when omitted"`
		Alpha         float64           `json:"alpha,omitempty" minimum:"0" doc:"Beamwidth scaling of the misalignment threshold"`
		Window        int               `json:"window,omitempty" minimum:"0" maximum:"101" doc:"Moving average width"`
		Simulation    *SimulationParams `json:"simulation,omitempty" doc:"Simulation overrides"`
	}
}

// CreateSweepResponseBody is the body of the create sweep response
type CreateSweepResponseBody struct {
	ID     string `json:"id" doc:"Sweep unique identifier"`
	Status string `json:"status" doc:"Initial sweep status"`
	Seed   uint64 `json:"seed" doc:"Seed the sweep runs with"`
}

// CreateSweepResponse represents the response from creating a sweep
type CreateSweepResponse struct {
	Body CreateSweepResponseBody
}

// GetSweepStatusRequest represents a request to get sweep status
type GetSweepStatusRequest struct {
	ID string `path:"id" doc:"Sweep ID"`
}

// GetSweepStatusResponseBody is the body of the status response
type GetSweepStatusResponseBody struct {
	ID       string `json:"id" doc:"Sweep ID"`
	Status   string `json:"status" enum:"pending,processing,completed,failed" doc:"Sweep status"`
	Progress int    `json:"progress" minimum:"0" maximum:"100" doc:"Sweep progress percentage"`
	Message  string `json:"message,omitempty" doc:"Human-readable status message"`
}

// GetSweepStatusResponse represents the current status of a sweep
type GetSweepStatusResponse struct {
	Body GetSweepStatusResponseBody
}

// GetSweepResultsRequest represents a request to get sweep results
type GetSweepResultsRequest struct {
	ID string `path:"id" doc:"Sweep ID"`
}

// GetSweepResultsResponseBody is the body of the results response
type GetSweepResultsResponseBody struct {
	ID           string        `json:"id" doc:"Sweep ID"`
	Params       SweepParams   `json:"params" doc:"Resolved sweep parameters"`
	Curves       []CurveResult `json:"curves" doc:"Coherence curves per antenna count"`
	Realizations int           `json:"realizations" doc:"Number of simulated realizations"`
	ElapsedMs    int64         `json:"elapsed_ms" doc:"Sweep wall time in milliseconds"`
	PlotURL      string        `json:"plot_url,omitempty" doc:"Pre-signed URL of the coherence chart"`
	CSVURL       string        `json:"csv_url,omitempty" doc:"Pre-signed URL of the CSV export"`
	CreatedAt    time.Time     `json:"created_at" doc:"Results creation timestamp"`
}

// GetSweepResultsResponse represents the complete sweep results
type GetSweepResultsResponse struct {
	Body GetSweepResultsResponseBody
}

// RealizationRequest represents a request to simulate one realization
type RealizationRequest struct {
	Body struct {
		WindSpeed  float64           `json:"wind_speed" minimum:"0" required:"true" doc:"Mean wind speed in m/s"`
		Seed       *uint64           `json:"seed,omitempty" doc:"Realization seed; random when omitted"`
		Simulation *SimulationParams `json:"simulation,omitempty" doc:"Simulation overrides"`
		IncludePSD bool              `json:"include_psd,omitempty" doc:"Return the displacement PSDs"`
	}
}

// PSDResponse holds the displacement spectra of a realization
type PSDResponse struct {
	AlongWind []FrequencyPoint `json:"along_wind" doc:"Along-wind displacement PSD"`
	CrossWind []FrequencyPoint `json:"cross_wind" doc:"Cross-wind displacement PSD"`
}

// RealizationResponseBody is the body of the realization response
type RealizationResponseBody struct {
	Seed              uint64       `json:"seed" doc:"Seed that reproduces this realization"`
	WindSpeed         float64      `json:"wind_speed" doc:"Mean wind speed in m/s"`
	Time              []float64    `json:"time" doc:"Time grid in seconds"`
	AlongDisplacement []float64    `json:"along_displacement" doc:"Along-wind displacement in meters"`
	CrossDisplacement []float64    `json:"cross_displacement" doc:"Cross-wind displacement in meters"`
	AlongAngle        []float64    `json:"along_angle" doc:"Along-wind pointing angle in degrees"`
	CrossAngle        []float64    `json:"cross_angle" doc:"Cross-wind pointing angle in degrees"`
	PSD               *PSDResponse `json:"psd,omitempty" doc:"Displacement spectra, positive frequencies only"`
}

// RealizationResponse represents a simulated realization
type RealizationResponse struct {
	Body RealizationResponseBody
}

// ThresholdRequest represents a request for the misalignment threshold curve
type ThresholdRequest struct {
	Counts []int   `query:"counts" required:"true" doc:"Antenna counts"`
	Alpha  float64 `query:"alpha" minimum:"0" doc:"Beamwidth scaling, default 0.3578"`
}

// ThresholdPoint is theta_max for one antenna count
type ThresholdPoint struct {
	AntennaCount int     `json:"antenna_count" doc:"Number of array elements"`
	ThetaMax     float64 `json:"theta_max" doc:"Tolerated misalignment in degrees"`
}

// ThresholdResponse represents the threshold curve
type ThresholdResponse struct {
	Body struct {
		Points []ThresholdPoint `json:"points"`
	}
}

// ListSweepsRequest represents a request to list recent sweeps
type ListSweepsRequest struct {
	Limit int `query:"limit" minimum:"0" maximum:"500" doc:"Maximum number of sweeps, default 50"`
}

// ListSweepsResponse represents recent sweeps, newest first
type ListSweepsResponse struct {
	Body struct {
		Sweeps []GetSweepStatusResponseBody `json:"sweeps"`
	}
}
