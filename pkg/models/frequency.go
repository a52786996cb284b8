package models

// FrequencyPoint represents a single spectral density sample
type FrequencyPoint struct {
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
	Magnitude float64 `json:"magnitude" doc:"Power spectral density at this frequency"`
}
