package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"stationops/internal/domain"
)

// ReceiptService builds swap receipts.
type ReceiptService struct {
	now func() time.Time
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService() *ReceiptService {
	return &ReceiptService{now: time.Now}
}

// GenerateReceiptRequest contains the parameters for generating a receipt.
type GenerateReceiptRequest struct {
	Transaction *domain.SwapTransaction
	Booking     *domain.Booking // nil for walk-in swaps
	DisplayName string
	StationID   string
}

// GenerateReceipt generates a receipt for a completed swap.
func (s *ReceiptService) GenerateReceipt(req GenerateReceiptRequest) *domain.Receipt {
	tx := req.Transaction

	completedAt := tx.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now().UTC()
	}

	receipt := &domain.Receipt{
		ID:            uuid.New().String(),
		TransactionID: tx.ID,
		BookingID:     tx.BookingID,
		StationID:     req.StationID,
		CustomerName:  req.DisplayName,
		OldBatteryID:  tx.OldBatteryID,
		NewBatteryID:  tx.NewBatteryID,
		Amount:        tx.Amount,
		PaymentStatus: tx.PaymentStatus,
		CompletedAt:   completedAt,
	}
	if req.Booking != nil {
		receipt.VehiclePlate = req.Booking.VehiclePlate
		if receipt.CustomerName == "" {
			receipt.CustomerName = req.Booking.CustomerName
		}
	}

	return receipt
}

// FormatReceipt formats the receipt as plain text for printing.
func (s *ReceiptService) FormatReceipt(receipt *domain.Receipt) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(label)
		sb.WriteString(strings.Repeat(" ", 14-len(label)))
		sb.WriteString(value)
		sb.WriteByte('\n')
	}

	sb.WriteString("=====================================\n")
	sb.WriteString("        BATTERY SWAP RECEIPT\n")
	sb.WriteString("=====================================\n")
	line("Receipt:", receipt.ID)
	line("Transaction:", receipt.TransactionID)
	line("Booking:", receipt.BookingID)
	line("Station:", receipt.StationID)
	line("Date:", receipt.CompletedAt.Format("Jan 02, 2006 3:04 PM"))
	sb.WriteString("-------------------------------------\n")
	line("Customer:", receipt.CustomerName)
	line("Vehicle:", receipt.VehiclePlate)
	line("Returned:", receipt.OldBatteryID)
	line("Installed:", receipt.NewBatteryID)
	sb.WriteString("-------------------------------------\n")
	line("Amount:", receipt.Amount.StringFixed(2))
	line("Payment:", string(receipt.PaymentStatus))
	sb.WriteString("=====================================\n")

	return sb.String()
}
