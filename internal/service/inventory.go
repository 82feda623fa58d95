package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stationops/internal/domain"
	"stationops/internal/redis"
)

// InventoryGuard is the only sanctioned path for changing which battery sits
// in which slot. It validates requests before they reach the backend, checks
// that the backend kept the slot/battery pairing one-to-one, and drops the
// cached batteries-by-station view after every mutation.
type InventoryGuard struct {
	gateway InventoryGateway
	cache   redis.BatteryCacheInterface
	log     *zap.Logger
}

// NewInventoryGuard creates a new InventoryGuard.
func NewInventoryGuard(gateway InventoryGateway, cache redis.BatteryCacheInterface, log *zap.Logger) *InventoryGuard {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryGuard{
		gateway: gateway,
		cache:   cache,
		log:     log,
	}
}

// AssignRequest contains the parameters for docking a battery into a slot.
type AssignRequest struct {
	StationID        string
	BatteryID        string
	SlotID           string
	ChargePercentage int
}

// Assign docks a battery into a slot.
func (g *InventoryGuard) Assign(ctx context.Context, req AssignRequest) (*domain.SlotAssignment, error) {
	stationID := strings.TrimSpace(req.StationID)
	batteryID := strings.TrimSpace(req.BatteryID)
	slotID := strings.TrimSpace(req.SlotID)

	if stationID == "" {
		return nil, ErrMissingOperator
	}
	if batteryID == "" {
		return nil, ErrBatteryIDRequired
	}
	if slotID == "" {
		return nil, ErrSlotIDRequired
	}
	if !domain.ValidChargePercentage(req.ChargePercentage) {
		return nil, ErrPercentageOutOfRange
	}

	if known := g.findBattery(ctx, stationID, batteryID); known != nil && !known.CanOccupySlot() {
		return nil, fmt.Errorf("%w: %s is %s", ErrBatteryNotAssignable, batteryID, known.Status)
	}

	assignment, err := g.gateway.AssignBattery(ctx, slotID, batteryID, req.ChargePercentage)
	if err != nil {
		return nil, err
	}

	if err := checkAssigned(assignment, slotID, batteryID); err != nil {
		return nil, err
	}
	assignment.Battery.ChargePercentage = req.ChargePercentage
	fillStation(assignment, stationID)

	g.invalidate(ctx, stationID)
	return assignment, nil
}

// UpdatePercentageRequest contains the parameters for a charge update.
type UpdatePercentageRequest struct {
	StationID        string
	BatteryID        string
	ChargePercentage int
}

// UpdatePercentage sets a battery's charge percentage without touching its slot.
func (g *InventoryGuard) UpdatePercentage(ctx context.Context, req UpdatePercentageRequest) (*domain.SlotAssignment, error) {
	stationID := strings.TrimSpace(req.StationID)
	batteryID := strings.TrimSpace(req.BatteryID)

	if stationID == "" {
		return nil, ErrMissingOperator
	}
	if batteryID == "" {
		return nil, ErrBatteryIDRequired
	}
	if !domain.ValidChargePercentage(req.ChargePercentage) {
		return nil, ErrPercentageOutOfRange
	}

	assignment, err := g.gateway.UpdatePercentage(ctx, batteryID, req.ChargePercentage)
	if err != nil {
		return nil, err
	}
	if assignment.Battery.ID != batteryID {
		return nil, fmt.Errorf("%w: asked for %s, got %s", ErrInconsistentAssignment, batteryID, assignment.Battery.ID)
	}
	assignment.Battery.ChargePercentage = req.ChargePercentage
	fillStation(assignment, stationID)

	g.invalidate(ctx, stationID)
	return assignment, nil
}

// RemoveRequest contains the parameters for undocking a battery.
type RemoveRequest struct {
	StationID string
	BatteryID string
}

// Remove undocks a battery, clearing both sides of the pairing.
func (g *InventoryGuard) Remove(ctx context.Context, req RemoveRequest) (*domain.SlotAssignment, error) {
	stationID := strings.TrimSpace(req.StationID)
	batteryID := strings.TrimSpace(req.BatteryID)

	if stationID == "" {
		return nil, ErrMissingOperator
	}
	if batteryID == "" {
		return nil, ErrBatteryIDRequired
	}

	assignment, err := g.gateway.RemoveBattery(ctx, batteryID)
	if err != nil {
		return nil, err
	}

	if assignment.Battery.ID != batteryID || assignment.Battery.SlotID != "" || assignment.Slot.BatteryID != "" {
		return nil, fmt.Errorf("%w: %s still paired after removal", ErrInconsistentAssignment, batteryID)
	}
	fillStation(assignment, stationID)

	g.invalidate(ctx, stationID)
	return assignment, nil
}

// StationBatteries returns the batteries-by-station view, re-deriving it from
// the backend when the cached copy was invalidated.
func (g *InventoryGuard) StationBatteries(ctx context.Context, stationID string) ([]*domain.Battery, error) {
	if stationID == "" {
		return nil, ErrMissingOperator
	}

	cached, err := g.cache.GetStationBatteries(ctx, stationID)
	if err != nil {
		g.log.Warn("battery cache read failed", zap.String("station_id", stationID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	batteries, err := g.gateway.ListStationBatteries(ctx, stationID)
	if err != nil {
		return nil, err
	}

	if err := g.cache.SetStationBatteries(ctx, stationID, batteries); err != nil {
		g.log.Warn("battery cache write failed", zap.String("station_id", stationID), zap.Error(err))
	}
	return batteries, nil
}

// Invalidate drops the cached view of a station after a change made elsewhere
// (a completed swap flips two batteries at once).
func (g *InventoryGuard) Invalidate(ctx context.Context, stationID string) {
	g.invalidate(ctx, stationID)
}

func (g *InventoryGuard) invalidate(ctx context.Context, stationID string) {
	if err := g.cache.InvalidateStationBatteries(ctx, stationID); err != nil {
		g.log.Warn("battery cache invalidation failed", zap.String("station_id", stationID), zap.Error(err))
	}
}

// findBattery looks a battery up in the station view. A view that cannot be
// loaded is not an error here; the backend has the last word.
func (g *InventoryGuard) findBattery(ctx context.Context, stationID, batteryID string) *domain.Battery {
	batteries, err := g.StationBatteries(ctx, stationID)
	if err != nil {
		g.log.Debug("station view unavailable for pre-check", zap.String("station_id", stationID), zap.Error(err))
		return nil
	}
	for _, b := range batteries {
		if b.ID == batteryID {
			return b
		}
	}
	return nil
}

// checkAssigned fails on any contradiction between the backend answer and the
// requested pairing, then completes the sides the answer left blank.
func checkAssigned(a *domain.SlotAssignment, slotID, batteryID string) error {
	switch {
	case a.Battery.ID != batteryID,
		a.Battery.SlotID != "" && a.Battery.SlotID != slotID,
		a.Slot.ID != "" && a.Slot.ID != slotID,
		a.Slot.BatteryID != "" && a.Slot.BatteryID != batteryID:
		return fmt.Errorf("%w: asked for %s in %s, got %s in %s (slot holds %q)",
			ErrInconsistentAssignment, batteryID, slotID, a.Battery.ID, a.Battery.SlotID, a.Slot.BatteryID)
	}

	a.Slot.ID = slotID
	a.Slot.BatteryID = batteryID
	a.Battery.SlotID = slotID
	return nil
}

func fillStation(a *domain.SlotAssignment, stationID string) {
	if a.Slot.StationID == "" && a.Slot.ID != "" {
		a.Slot.StationID = stationID
	}
	if a.Battery.StationID == "" {
		a.Battery.StationID = stationID
	}
}
