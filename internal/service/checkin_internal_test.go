package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"stationops/internal/backend"
	"stationops/internal/domain"
)

func TestValidateSwap(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		wantOld  string
		wantNew  string
		wantErr  error
	}{
		{"valid", "BATT-1", "BATT-2", "BATT-1", "BATT-2", nil},
		{"trimmed", "  BATT_1 ", "b2", "BATT_1", "b2", nil},
		{"same", "BATT-1", "BATT-1", "", "", ErrSameBattery},
		{"same ignoring case", "batt-1", "BATT-1", "", "", ErrSameBattery},
		{"empty old", "", "BATT-2", "", "", ErrBatteryIDRequired},
		{"empty new", "BATT-1", "   ", "", "", ErrBatteryIDRequired},
		{"slash", "BATT/1", "BATT-2", "", "", ErrInvalidBatteryID},
		{"leading underscore", "BATT-1", "_B", "", "", ErrInvalidBatteryID},
		{"too long", "B" + fmt.Sprintf("%064d", 0), "BATT-2", "", "", ErrInvalidBatteryID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldID, newID, err := validateSwap(tt.old, tt.new)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOld, oldID)
			assert.Equal(t, tt.wantNew, newID)
		})
	}
}

func TestPreviousStep(t *testing.T) {
	full := []domain.Step{domain.StepScan, domain.StepVerify, domain.StepPayment, domain.StepSwap, domain.StepCompleted}
	payLater := []domain.Step{domain.StepScan, domain.StepVerify, domain.StepSwap, domain.StepCompleted}

	tests := []struct {
		name   string
		path   []domain.Step
		step   domain.Step
		want   domain.Step
		wantOK bool
	}{
		{"scan has no predecessor", full, domain.StepScan, "", false},
		{"verify goes to scan", full, domain.StepVerify, domain.StepScan, true},
		{"payment goes to verify", full, domain.StepPayment, domain.StepVerify, true},
		{"swap goes to payment", full, domain.StepSwap, domain.StepPayment, true},
		{"swap skips payment when paying later", payLater, domain.StepSwap, domain.StepVerify, true},
		{"completed is final", full, domain.StepCompleted, "", false},
		{"step outside path", payLater, domain.StepPayment, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := previousStep(tt.path, tt.step)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAssigned(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.SlotAssignment
		wantErr bool
	}{
		{"both sides", domain.SlotAssignment{
			Slot:    domain.Slot{ID: "S1", BatteryID: "B1"},
			Battery: domain.Battery{ID: "B1", SlotID: "S1"},
		}, false},
		{"battery side only", domain.SlotAssignment{Battery: domain.Battery{ID: "B1"}}, false},
		{"other battery", domain.SlotAssignment{Battery: domain.Battery{ID: "B2", SlotID: "S1"}}, true},
		{"battery in other slot", domain.SlotAssignment{Battery: domain.Battery{ID: "B1", SlotID: "S9"}}, true},
		{"slot holds other battery", domain.SlotAssignment{
			Slot:    domain.Slot{ID: "S1", BatteryID: "B7"},
			Battery: domain.Battery{ID: "B1", SlotID: "S1"},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.in
			err := checkAssigned(&a, "S1", "B1")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInconsistentAssignment)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "S1", a.Slot.ID)
			assert.Equal(t, "B1", a.Slot.BatteryID)
			assert.Equal(t, "S1", a.Battery.SlotID)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrBookingNotFound, KindNotFound},
		{fmt.Errorf("get: %w", backend.ErrNotFound), KindNotFound},
		{ErrSameBattery, KindValidation},
		{fmt.Errorf("%w: slot occupied", backend.ErrRejected), KindValidation},
		{ErrPaymentReferenceMismatch, KindValidation},
		{backend.ErrConflict, KindConflict},
		{fmt.Errorf("%w: timeout", backend.ErrTransient), KindTransient},
		{ErrTransactionUnavailable, KindTransient},
		{ErrRequestInFlight, KindBusy},
		{fmt.Errorf("%w: 500", backend.ErrFatal), KindFatal},
		{ErrInconsistentAssignment, KindFatal},
		{errors.New("something else"), KindFatal},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCheckInConfig_PayLater(t *testing.T) {
	cfg := CheckInConfig{PayLater: true, PayLaterStations: map[string]bool{"ST-2": false, "ST-3": true}}
	assert.True(t, cfg.payLater("ST-1"))
	assert.False(t, cfg.payLater("ST-2"))
	assert.True(t, cfg.payLater("ST-3"))

	cfg = CheckInConfig{PayLaterStations: map[string]bool{"ST-3": true}}
	assert.False(t, cfg.payLater("ST-1"))
	assert.True(t, cfg.payLater("ST-3"))
}

func TestMergeBooking(t *testing.T) {
	scanned := &domain.Booking{ID: "RES-1", CustomerName: "Minh Tran", VehiclePlate: "51F-123.45", Status: domain.BookingStatusBooked}

	merged := mergeBooking(scanned, &domain.Booking{ID: "RES-1"})
	assert.Equal(t, "Minh Tran", merged.CustomerName)
	assert.Equal(t, "51F-123.45", merged.VehiclePlate)
	assert.Equal(t, domain.BookingStatusChecked, merged.Status)
	assert.Equal(t, domain.BookingStatusBooked, scanned.Status, "the scanned booking is not modified")

	merged = mergeBooking(scanned, &domain.Booking{ID: "RES-1", CustomerName: "Tran Van Minh"})
	assert.Equal(t, "Tran Van Minh", merged.CustomerName)
}
