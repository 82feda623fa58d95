package service

import (
	"context"

	"stationops/internal/backend"
	"stationops/internal/domain"
)

// CheckInGateway is the slice of the backend the check-in workflow uses.
type CheckInGateway interface {
	SearchBooking(ctx context.Context, query string) (*domain.Booking, error)
	ListStationBookings(ctx context.Context, stationID string) ([]*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetTransactionByBooking(ctx context.Context, bookingID string) (*domain.SwapTransaction, error)
	CompleteTransaction(ctx context.Context, req backend.CompleteTransactionRequest) (*domain.SwapTransaction, error)
	InitiatePayment(ctx context.Context, transactionID, returnURL string) (*domain.PaymentSession, error)
}

// InventoryGateway is the slice of the backend the inventory guard fronts.
// Repeated assign and remove calls resolve to the current pairing or to
// backend.ErrRejected; they never answer a bare backend.ErrConflict.
type InventoryGateway interface {
	ListStationBatteries(ctx context.Context, stationID string) ([]*domain.Battery, error)
	AssignBattery(ctx context.Context, slotID, batteryID string, chargePercentage int) (*domain.SlotAssignment, error)
	UpdatePercentage(ctx context.Context, batteryID string, chargePercentage int) (*domain.SlotAssignment, error)
	RemoveBattery(ctx context.Context, batteryID string) (*domain.SlotAssignment, error)
}

// Ensure the backend client implements both gateways.
var (
	_ CheckInGateway   = (*backend.Client)(nil)
	_ InventoryGateway = (*backend.Client)(nil)
)
