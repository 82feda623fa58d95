package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stationops/internal/backend"
	"stationops/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error(), Kind: string(service.Classify(err))})
}

// respondBadRequest rejects a request body that could not be decoded.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: string(service.KindValidation)})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/backend errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Wrong step or another action still running.
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRequestInFlight):
		return http.StatusConflict
	}

	switch service.Classify(err) {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict, service.KindBusy:
		return http.StatusConflict
	case service.KindTransient:
		return http.StatusServiceUnavailable
	}

	// The backend answered with something unusable.
	if errors.Is(err, backend.ErrFatal) || errors.Is(err, service.ErrInconsistentAssignment) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
