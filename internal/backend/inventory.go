package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"stationops/internal/domain"
)

// ListStationBatteries returns every battery known at a station.
func (c *Client) ListStationBatteries(ctx context.Context, stationID string) ([]*domain.Battery, error) {
	resp, err := c.call(ctx, http.MethodGet, "/api/stations/"+escape(stationID)+"/batteries", nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	items, err := decodeList(resp.body)
	if err != nil {
		return nil, err
	}

	batteries := make([]*domain.Battery, 0, len(items))
	for _, item := range items {
		if b := normalizeBattery(item); b != nil {
			if b.StationID == "" {
				b.StationID = stationID
			}
			batteries = append(batteries, b)
		}
	}
	return batteries, nil
}

// GetBattery retrieves a battery by id.
func (c *Client) GetBattery(ctx context.Context, batteryID string) (*domain.Battery, error) {
	resp, err := c.call(ctx, http.MethodGet, "/api/batteries/"+escape(batteryID), nil)
	if err != nil {
		return nil, err
	}

	f, err := decodeObject(resp.body)
	if err != nil {
		return nil, err
	}
	b := normalizeBattery(f)
	if b == nil {
		return nil, fmt.Errorf("%w: battery %s has no id", ErrFatal, batteryID)
	}
	return b, nil
}

// AssignBattery docks a battery into a slot with the given charge percentage.
// A 409 is success only when the battery already sits in that slot; an
// occupied slot or a battery that is in use elsewhere is ErrRejected.
func (c *Client) AssignBattery(ctx context.Context, slotID, batteryID string, chargePercentage int) (*domain.SlotAssignment, error) {
	path := "/api/slots/" + escape(slotID) + "/battery"

	resp, err := c.call(ctx, http.MethodPost, path, map[string]any{
		"batteryId":        batteryID,
		"chargePercentage": chargePercentage,
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		return c.alreadyAssigned(ctx, slotID, batteryID, err)
	}

	return decodeAssignment(resp.body, path)
}

// UpdatePercentage sets the charge percentage of a battery.
func (c *Client) UpdatePercentage(ctx context.Context, batteryID string, chargePercentage int) (*domain.SlotAssignment, error) {
	path := "/api/batteries/" + escape(batteryID) + "/percentage"

	resp, err := c.call(ctx, http.MethodPatch, path, map[string]any{
		"chargePercentage": chargePercentage,
	})
	if err != nil {
		return nil, err
	}

	return decodeAssignment(resp.body, path)
}

// RemoveBattery undocks a battery from its slot. A 409 is success only when
// the battery is no longer docked anywhere.
func (c *Client) RemoveBattery(ctx context.Context, batteryID string) (*domain.SlotAssignment, error) {
	path := "/api/batteries/" + escape(batteryID) + "/slot"

	resp, err := c.call(ctx, http.MethodDelete, path, nil)
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		return c.alreadyRemoved(ctx, batteryID, err)
	}

	return decodeAssignment(resp.body, path)
}

func (c *Client) alreadyAssigned(ctx context.Context, slotID, batteryID string, conflict error) (*domain.SlotAssignment, error) {
	b, err := c.GetBattery(ctx, batteryID)
	if err != nil {
		return nil, err
	}
	if b.SlotID != slotID {
		return nil, fmt.Errorf("%w: %s is not in %s: %v", ErrRejected, batteryID, slotID, conflict)
	}

	c.log.Info("battery already in slot", zap.String("battery_id", batteryID), zap.String("slot_id", slotID))
	return &domain.SlotAssignment{
		Slot:    domain.Slot{ID: slotID, StationID: b.StationID, BatteryID: batteryID},
		Battery: *b,
	}, nil
}

func (c *Client) alreadyRemoved(ctx context.Context, batteryID string, conflict error) (*domain.SlotAssignment, error) {
	b, err := c.GetBattery(ctx, batteryID)
	if err != nil {
		return nil, err
	}
	if b.SlotID != "" {
		return nil, fmt.Errorf("%w: %s is still in %s: %v", ErrRejected, batteryID, b.SlotID, conflict)
	}

	c.log.Info("battery already out of its slot", zap.String("battery_id", batteryID))
	return &domain.SlotAssignment{Battery: *b}, nil
}

func decodeAssignment(body []byte, path string) (*domain.SlotAssignment, error) {
	f, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	a := normalizeAssignment(f)
	if a == nil {
		return nil, fmt.Errorf("%w: %s returned no battery", ErrFatal, path)
	}
	return a, nil
}
