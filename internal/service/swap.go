package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"stationops/internal/backend"
	"stationops/internal/domain"
)

var batteryIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Swap records the physical exchange: oldBatteryID came out of the vehicle,
// newBatteryID went in. Both ids are checked before anything is sent. On
// failure the check-in stays at swap and neither id is recorded.
func (s *CheckInService) Swap(ctx context.Context, op domain.Operator, oldBatteryID, newBatteryID string) (*View, error) {
	return s.run(ctx, op, "swap", func(ctx context.Context, f *flow) error {
		if f.snap.Step != domain.StepSwap {
			return ErrInvalidTransition
		}

		oldID, newID, err := validateSwap(oldBatteryID, newBatteryID)
		if err != nil {
			return err
		}

		if err := s.holdTransaction(ctx, f); err != nil {
			return err
		}

		tx, err := s.gateway.CompleteTransaction(ctx, backend.CompleteTransactionRequest{
			TransactionID: f.snap.TransactionID,
			BookingID:     f.snap.BookingID(),
			StationID:     op.StationID,
			OldBatteryID:  oldID,
			NewBatteryID:  newID,
		})
		if err != nil {
			return err
		}

		f.snap.OldBatteryID = oldID
		f.snap.NewBatteryID = newID
		f.snap.Step = domain.StepCompleted
		f.clear = true

		f.receipt = s.receiptService.GenerateReceipt(GenerateReceiptRequest{
			Transaction: tx,
			Booking:     f.snap.Booking,
			DisplayName: f.snap.DisplayName,
			StationID:   op.StationID,
		})

		if s.inventory != nil {
			s.inventory.Invalidate(ctx, op.StationID)
		}
		if err := s.bookingCache.InvalidateStationBookings(ctx, op.StationID); err != nil {
			s.log.Warn("booking cache invalidation failed", zap.String("station_id", op.StationID), zap.Error(err))
		}

		customerID := ""
		if f.snap.Booking != nil {
			customerID = f.snap.Booking.CustomerID
		}
		if err := s.notificationService.NotifySwapCompleted(ctx, customerID, f.receipt); err != nil {
			s.log.Warn("swap notification failed", zap.String("transaction_id", tx.ID), zap.Error(err))
		}

		s.record(ctx, f.op, f.snap, domain.JournalEventSwapped, oldID+" -> "+newID)
		return nil
	})
}

// holdTransaction picks the transaction the swap completes: the one held in
// the snapshot, else the booking's open one, else a new client-generated id.
// A new id is stored before the backend sees it so a retry reuses it.
func (s *CheckInService) holdTransaction(ctx context.Context, f *flow) error {
	if f.snap.TransactionID != "" {
		return nil
	}

	if f.snap.Booking != nil {
		err := s.ensureTransaction(ctx, f)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrTransactionUnavailable) {
			return err
		}
	}

	f.snap.TransactionID = s.newID()
	f.dirty = true
	if err := s.sessions.Save(ctx, f.op, f.snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.log.Info("generated swap transaction id",
		zap.String("booking_id", f.snap.BookingID()),
		zap.String("transaction_id", f.snap.TransactionID),
	)
	return nil
}

func validateSwap(oldBatteryID, newBatteryID string) (string, string, error) {
	oldID := strings.TrimSpace(oldBatteryID)
	newID := strings.TrimSpace(newBatteryID)

	if oldID == "" || newID == "" {
		return "", "", ErrBatteryIDRequired
	}
	if !batteryIDPattern.MatchString(oldID) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidBatteryID, oldID)
	}
	if !batteryIDPattern.MatchString(newID) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidBatteryID, newID)
	}
	if strings.EqualFold(oldID, newID) {
		return "", "", ErrSameBattery
	}
	return oldID, newID, nil
}
