package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"stationops/internal/backend"
	"stationops/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidTransition, http.StatusConflict},
		{service.ErrRequestInFlight, http.StatusConflict},
		{service.ErrSameBattery, http.StatusBadRequest},
		{service.ErrPercentageOutOfRange, http.StatusBadRequest},
		{fmt.Errorf("%w: occupied", backend.ErrRejected), http.StatusBadRequest},
		{service.ErrBookingNotFound, http.StatusNotFound},
		{backend.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: timeout", backend.ErrTransient), http.StatusServiceUnavailable},
		{service.ErrTransactionUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: 500", backend.ErrFatal), http.StatusBadGateway},
		{service.ErrInconsistentAssignment, http.StatusBadGateway},
		{errors.New("restore session: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorToHTTPStatus(tt.err))
		})
	}
}
