package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"logistics/internal/repository"
	"logistics/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrRouteRequired),
		errors.Is(err, service.ErrInvalidDeliveryTime),
		errors.Is(err, service.ErrInvalidDriverCount),
		errors.Is(err, service.ErrInvalidMaxHours):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrSimulationInProgress),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderNotAssigned),
		errors.Is(err, service.ErrOrderNotInProgress),
		errors.Is(err, service.ErrOrderClosed),
		errors.Is(err, repository.ErrInUse):
		return http.StatusConflict

	// Nothing to simulate
	case errors.Is(err, service.ErrNoEligibleDrivers),
		errors.Is(err, service.ErrNoPendingOrders):
		return http.StatusUnprocessableEntity

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// queryInt reads an integer query parameter, returning def when it is absent
// or malformed.
func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
