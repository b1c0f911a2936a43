package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"logistics/internal/domain"
	"logistics/internal/service"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// RouteRequest is the HTTP request body for creating or updating a route.
type RouteRequest struct {
	ID              string   `json:"id"`
	DistanceKm      float64  `json:"distance_km"`
	TrafficLevel    string   `json:"traffic_level"`
	BaseTimeMinutes int      `json:"base_time_minutes"`
	FuelCostPerKm   *float64 `json:"fuel_cost_per_km"`
	TollCharges     float64  `json:"toll_charges"`
}

// RouteResponse is the HTTP response for route data.
type RouteResponse struct {
	ID                    string    `json:"id"`
	DistanceKm            float64   `json:"distance_km"`
	TrafficLevel          string    `json:"traffic_level"`
	BaseTimeMinutes       int       `json:"base_time_minutes"`
	FuelCostPerKm         float64   `json:"fuel_cost_per_km"`
	TollCharges           float64   `json:"toll_charges"`
	FuelCost              float64   `json:"fuel_cost"`
	TotalCompletions      int       `json:"total_completions"`
	AverageCompletionTime int       `json:"average_completion_time"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (r RouteRequest) input() service.RouteInput {
	return service.RouteInput{
		ID:              r.ID,
		DistanceKm:      r.DistanceKm,
		TrafficLevel:    domain.TrafficLevel(r.TrafficLevel),
		BaseTimeMinutes: r.BaseTimeMinutes,
		FuelCostPerKm:   r.FuelCostPerKm,
		TollCharges:     r.TollCharges,
	}
}

func toRouteResponse(r *domain.Route) RouteResponse {
	return RouteResponse{
		ID:                    r.ID,
		DistanceKm:            r.DistanceKm,
		TrafficLevel:          string(r.TrafficLevel),
		BaseTimeMinutes:       r.BaseTimeMinutes,
		FuelCostPerKm:         r.FuelCostPerKm,
		TollCharges:           r.TollCharges,
		FuelCost:              domain.Round2(r.FuelCost()),
		TotalCompletions:      r.TotalCompletions,
		AverageCompletionTime: r.AverageCompletionTime,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// Create handles POST /v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	route, err := h.routeService.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRouteResponse(route))
}

// GetAll handles GET /v1/routes
func (h *RouteHandler) GetAll(c *gin.Context) {
	routes, err := h.routeService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		response = append(response, toRouteResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	route, err := h.routeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRouteResponse(route))
}

// Update handles PUT /v1/routes/:id
func (h *RouteHandler) Update(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	route, err := h.routeService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRouteResponse(route))
}

// Delete handles DELETE /v1/routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.routeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
