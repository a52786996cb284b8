package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/beamsway/internal/api/handlers"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, sweepHandler *handlers.SweepHandler, simHandler *handlers.SimulationHandler) {
	// Sweep routes
	huma.Register(api, huma.Operation{
		OperationID:   "createSweep",
		Method:        http.MethodPost,
		Path:          "/api/sweeps",
		Summary:       "Create a coherence sweep",
		Description:   "Stores a Monte-Carlo coherence-time sweep and starts processing it in the background",
		Tags:          []string{"Sweep"},
		DefaultStatus: http.StatusAccepted,
	}, sweepHandler.CreateSweep)

	huma.Register(api, huma.Operation{
		OperationID: "listSweeps",
		Method:      http.MethodGet,
		Path:        "/api/sweeps",
		Summary:     "List sweeps",
		Description: "Returns the most recently created sweeps",
		Tags:        []string{"Sweep"},
	}, sweepHandler.ListSweeps)

	huma.Register(api, huma.Operation{
		OperationID: "getSweepStatus",
		Method:      http.MethodGet,
		Path:        "/api/sweeps/{id}/status",
		Summary:     "Get sweep status",
		Description: "Returns the current status and progress of a sweep",
		Tags:        []string{"Sweep"},
	}, sweepHandler.GetSweepStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getSweepResults",
		Method:      http.MethodGet,
		Path:        "/api/sweeps/{id}/results",
		Summary:     "Get sweep results",
		Description: "Returns the coherence-time curves of a completed sweep with artifact download links",
		Tags:        []string{"Sweep"},
	}, sweepHandler.GetSweepResults)

	// Synchronous simulation routes
	huma.Register(api, huma.Operation{
		OperationID: "runRealization",
		Method:      http.MethodPost,
		Path:        "/api/realizations",
		Summary:     "Simulate one realization",
		Description: "Synthesizes the pole displacement and misalignment angles for one wind speed",
		Tags:        []string{"Simulation"},
	}, simHandler.RunRealization)

	huma.Register(api, huma.Operation{
		OperationID: "getThreshold",
		Method:      http.MethodGet,
		Path:        "/api/threshold",
		Summary:     "Get misalignment thresholds",
		Description: "Returns the maximum tolerable misalignment angle for each antenna count",
		Tags:        []string{"Simulation"},
	}, simHandler.GetThreshold)
}
