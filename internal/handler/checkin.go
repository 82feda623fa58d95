package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stationops/internal/domain"
	"stationops/internal/middleware"
	"stationops/internal/service"
)

// CheckInHandler handles HTTP requests for the check-in workflow.
type CheckInHandler struct {
	checkInService *service.CheckInService
}

// NewCheckInHandler creates a new CheckInHandler.
func NewCheckInHandler(checkInService *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

// ScanRequest is the HTTP request body for a booking search.
type ScanRequest struct {
	Query string `json:"query"`
}

// VerifyRequest is the HTTP request body for verification.
type VerifyRequest struct {
	DisplayName string `json:"display_name"`
}

// SwapRequest is the HTTP request body for the battery exchange.
type SwapRequest struct {
	OldBatteryID string `json:"old_battery_id"`
	NewBatteryID string `json:"new_battery_id"`
}

// JournalEntryResponse is the HTTP response for one journal entry.
type JournalEntryResponse struct {
	ID                  string `json:"id"`
	OperatorID          string `json:"operator_id"`
	BookingID           string `json:"booking_id,omitempty"`
	TransactionID       string `json:"transaction_id,omitempty"`
	Step                string `json:"step"`
	Event               string `json:"event"`
	NeedsReconciliation bool   `json:"needs_reconciliation"`
	Detail              string `json:"detail,omitempty"`
	CreatedAt           string `json:"created_at"`
}

// Current handles GET /v1/checkin
func (h *CheckInHandler) Current(c *gin.Context) {
	view, err := h.checkInService.Current(c.Request.Context(), middleware.Operator(c))
	respondView(c, view, err)
}

// Scan handles POST /v1/checkin/scan
func (h *CheckInHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	view, err := h.checkInService.Scan(c.Request.Context(), middleware.Operator(c), req.Query)
	respondView(c, view, err)
}

// Verify handles POST /v1/checkin/verify
func (h *CheckInHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	// An empty body keeps the display name prefilled at scan.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}

	view, err := h.checkInService.Verify(c.Request.Context(), middleware.Operator(c), req.DisplayName)
	respondView(c, view, err)
}

// StartPayment handles POST /v1/checkin/payment
func (h *CheckInHandler) StartPayment(c *gin.Context) {
	view, err := h.checkInService.StartPayment(c.Request.Context(), middleware.Operator(c))
	respondView(c, view, err)
}

// CompletePayment handles POST /v1/checkin/payment/complete
func (h *CheckInHandler) CompletePayment(c *gin.Context) {
	view, err := h.checkInService.CompletePayment(c.Request.Context(), middleware.Operator(c))
	respondView(c, view, err)
}

// Resume handles GET /v1/checkin/resume
func (h *CheckInHandler) Resume(c *gin.Context) {
	view, err := h.checkInService.Resume(c.Request.Context(), middleware.Operator(c), c.Request.URL.Query())
	respondView(c, view, err)
}

// Swap handles POST /v1/checkin/swap
func (h *CheckInHandler) Swap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	view, err := h.checkInService.Swap(c.Request.Context(), middleware.Operator(c), req.OldBatteryID, req.NewBatteryID)
	respondView(c, view, err)
}

// Back handles POST /v1/checkin/back
func (h *CheckInHandler) Back(c *gin.Context) {
	view, err := h.checkInService.Back(c.Request.Context(), middleware.Operator(c))
	respondView(c, view, err)
}

// Abandon handles DELETE /v1/checkin
func (h *CheckInHandler) Abandon(c *gin.Context) {
	view, err := h.checkInService.Abandon(c.Request.Context(), middleware.Operator(c))
	respondView(c, view, err)
}

// StationBookings handles GET /v1/stations/:id/bookings
func (h *CheckInHandler) StationBookings(c *gin.Context) {
	op := middleware.Operator(c)
	op.StationID = c.Param("id")

	bookings, err := h.checkInService.StationBookings(c.Request.Context(), op)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingInfo, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingInfo(b))
	}
	respondJSON(c, http.StatusOK, response)
}

// Journal handles GET /v1/checkin/journal
func (h *CheckInHandler) Journal(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.checkInService.Journal(c.Request.Context(), middleware.Operator(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toJournalResponse(entries))
}

// Reconciliation handles GET /v1/checkin/reconciliation
func (h *CheckInHandler) Reconciliation(c *gin.Context) {
	entries, err := h.checkInService.Reconciliation(c.Request.Context(), middleware.Operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toJournalResponse(entries))
}

func toJournalResponse(entries []*domain.JournalEntry) []JournalEntryResponse {
	response := make([]JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, JournalEntryResponse{
			ID:                  e.ID,
			OperatorID:          e.OperatorID,
			BookingID:           e.BookingID,
			TransactionID:       e.TransactionID,
			Step:                string(e.Step),
			Event:               string(e.Event),
			NeedsReconciliation: e.NeedsReconciliation,
			Detail:              e.Detail,
			CreatedAt:           e.CreatedAt.Format(time.RFC3339),
		})
	}
	return response
}
