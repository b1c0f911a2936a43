package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"logistics/internal/domain"
	"logistics/internal/service"
)

// SimulationHandler handles HTTP requests for delivery simulations.
type SimulationHandler struct {
	simulationService *service.SimulationService
	defaultDrivers    int
	defaultMaxHours   float64
}

// NewSimulationHandler creates a new SimulationHandler. The defaults apply
// when a request omits the corresponding field.
func NewSimulationHandler(simulationService *service.SimulationService, defaultDrivers int, defaultMaxHours float64) *SimulationHandler {
	return &SimulationHandler{
		simulationService: simulationService,
		defaultDrivers:    defaultDrivers,
		defaultMaxHours:   defaultMaxHours,
	}
}

// RunSimulationRequest is the HTTP request body for running a simulation.
type RunSimulationRequest struct {
	NumberOfDrivers   *int       `json:"number_of_drivers"`
	MaxHoursPerDriver *float64   `json:"max_hours_per_driver"`
	StartTime         *time.Time `json:"start_time"`
	Commit            bool       `json:"commit"`
}

// SimulationStatusResponse is the HTTP response for the simulation status.
type SimulationStatusResponse struct {
	InProgress  bool                     `json:"in_progress"`
	LastResults *domain.SimulationResult `json:"last_results"`
}

// SimulationRunResponse summarises a persisted simulation run.
type SimulationRunResponse struct {
	ID        string                   `json:"id"`
	Committed bool                     `json:"committed"`
	CreatedAt time.Time                `json:"created_at"`
	Result    *domain.SimulationResult `json:"result"`
}

// Run handles POST /v1/simulation/run
func (h *SimulationHandler) Run(c *gin.Context) {
	var req RunSimulationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	drivers := h.defaultDrivers
	if req.NumberOfDrivers != nil {
		drivers = *req.NumberOfDrivers
	}
	maxHours := h.defaultMaxHours
	if req.MaxHoursPerDriver != nil {
		maxHours = *req.MaxHoursPerDriver
	}

	result, err := h.simulationService.Run(c.Request.Context(), service.RunSimulationRequest{
		NumberOfDrivers:   drivers,
		MaxHoursPerDriver: maxHours,
		StartTime:         req.StartTime,
		Commit:            req.Commit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, result)
}

// Status handles GET /v1/simulation/status
func (h *SimulationHandler) Status(c *gin.Context) {
	status, err := h.simulationService.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SimulationStatusResponse{
		InProgress:  status.InProgress,
		LastResults: status.LastResult,
	})
}

// History handles GET /v1/simulation/history
func (h *SimulationHandler) History(c *gin.Context) {
	runs, err := h.simulationService.History(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SimulationRunResponse, 0, len(runs))
	for _, r := range runs {
		response = append(response, SimulationRunResponse{
			ID:        r.ID,
			Committed: r.Committed,
			CreatedAt: r.CreatedAt,
			Result:    r.Result,
		})
	}

	respondJSON(c, http.StatusOK, response)
}
