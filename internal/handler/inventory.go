package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationops/internal/domain"
	"stationops/internal/middleware"
	"stationops/internal/service"
)

// InventoryHandler handles HTTP requests for slot and battery mutations.
type InventoryHandler struct {
	inventoryGuard *service.InventoryGuard
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryGuard *service.InventoryGuard) *InventoryHandler {
	return &InventoryHandler{inventoryGuard: inventoryGuard}
}

// AssignBatteryRequest is the HTTP request body for docking a battery.
type AssignBatteryRequest struct {
	BatteryID        string `json:"battery_id"`
	ChargePercentage *int   `json:"charge_percentage" binding:"required"`
}

// UpdatePercentageRequest is the HTTP request body for a charge update.
type UpdatePercentageRequest struct {
	ChargePercentage *int `json:"charge_percentage" binding:"required"`
}

// BatteryResponse is the HTTP response for a battery.
type BatteryResponse struct {
	ID               string `json:"id"`
	TypeID           string `json:"type_id,omitempty"`
	StationID        string `json:"station_id,omitempty"`
	Status           string `json:"status,omitempty"`
	ChargePercentage int    `json:"charge_percentage"`
	SlotID           string `json:"slot_id,omitempty"`
}

// SlotResponse is the HTTP response for a slot.
type SlotResponse struct {
	ID        string `json:"id,omitempty"`
	StationID string `json:"station_id,omitempty"`
	BatteryID string `json:"battery_id,omitempty"`
	Empty     bool   `json:"empty"`
}

// AssignmentResponse is the HTTP response for inventory mutations.
type AssignmentResponse struct {
	Slot    SlotResponse    `json:"slot"`
	Battery BatteryResponse `json:"battery"`
}

// StationBatteries handles GET /v1/stations/:id/batteries
func (h *InventoryHandler) StationBatteries(c *gin.Context) {
	batteries, err := h.inventoryGuard.StationBatteries(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BatteryResponse, 0, len(batteries))
	for _, b := range batteries {
		response = append(response, toBatteryResponse(b))
	}
	respondJSON(c, http.StatusOK, response)
}

// AssignBattery handles POST /v1/slots/:id/battery
func (h *InventoryHandler) AssignBattery(c *gin.Context) {
	var req AssignBatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	assignment, err := h.inventoryGuard.Assign(c.Request.Context(), service.AssignRequest{
		StationID:        middleware.Operator(c).StationID,
		BatteryID:        req.BatteryID,
		SlotID:           c.Param("id"),
		ChargePercentage: *req.ChargePercentage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toAssignmentResponse(assignment))
}

// UpdatePercentage handles PATCH /v1/batteries/:id/percentage
func (h *InventoryHandler) UpdatePercentage(c *gin.Context) {
	var req UpdatePercentageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	assignment, err := h.inventoryGuard.UpdatePercentage(c.Request.Context(), service.UpdatePercentageRequest{
		StationID:        middleware.Operator(c).StationID,
		BatteryID:        c.Param("id"),
		ChargePercentage: *req.ChargePercentage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toAssignmentResponse(assignment))
}

// RemoveBattery handles DELETE /v1/batteries/:id/slot
func (h *InventoryHandler) RemoveBattery(c *gin.Context) {
	assignment, err := h.inventoryGuard.Remove(c.Request.Context(), service.RemoveRequest{
		StationID: middleware.Operator(c).StationID,
		BatteryID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toAssignmentResponse(assignment))
}

func toBatteryResponse(b *domain.Battery) BatteryResponse {
	return BatteryResponse{
		ID:               b.ID,
		TypeID:           b.TypeID,
		StationID:        b.StationID,
		Status:           string(b.Status),
		ChargePercentage: b.ChargePercentage,
		SlotID:           b.SlotID,
	}
}

func toAssignmentResponse(a *domain.SlotAssignment) AssignmentResponse {
	return AssignmentResponse{
		Slot: SlotResponse{
			ID:        a.Slot.ID,
			StationID: a.Slot.StationID,
			BatteryID: a.Slot.BatteryID,
			Empty:     a.Slot.IsEmpty(),
		},
		Battery: toBatteryResponse(&a.Battery),
	}
}
