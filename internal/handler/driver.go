package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"logistics/internal/domain"
	"logistics/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverRequest is the HTTP request body for creating or updating a driver.
type DriverRequest struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Rating            float64 `json:"rating"`
	HourlyRate        float64 `json:"hourly_rate"`
	Status            string  `json:"status"`
	CurrentShiftHours float64 `json:"current_shift_hours"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Rating            float64   `json:"rating"`
	HourlyRate        float64   `json:"hourly_rate"`
	Status            string    `json:"status"`
	CurrentShiftHours float64   `json:"current_shift_hours"`
	FatigueFactor     float64   `json:"fatigue_factor"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r DriverRequest) input() service.DriverInput {
	return service.DriverInput{
		ID:                r.ID,
		Name:              r.Name,
		Rating:            r.Rating,
		HourlyRate:        r.HourlyRate,
		Status:            domain.DriverStatus(r.Status),
		CurrentShiftHours: r.CurrentShiftHours,
	}
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:                d.ID,
		Name:              d.Name,
		Rating:            d.Rating,
		HourlyRate:        d.HourlyRate,
		Status:            string(d.Status),
		CurrentShiftHours: d.CurrentShiftHours,
		FatigueFactor:     d.FatigueFactor(),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// Create handles POST /v1/drivers
func (h *DriverHandler) Create(c *gin.Context) {
	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, toDriverResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/drivers/:id
func (h *DriverHandler) Get(c *gin.Context) {
	driver, err := h.driverService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// Update handles PUT /v1/drivers/:id
func (h *DriverHandler) Update(c *gin.Context) {
	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// Delete handles DELETE /v1/drivers/:id
func (h *DriverHandler) Delete(c *gin.Context) {
	if err := h.driverService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
