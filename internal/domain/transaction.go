package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of a swap transaction.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusInitiated  TransactionStatus = "INITIATED"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusCancelled  TransactionStatus = "CANCELLED"
)

// PaymentStatus represents the payment state of a swap transaction.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// SwapTransaction represents one physical battery exchange.
// BookingID is empty for transactions created outside a reservation.
type SwapTransaction struct {
	ID            string
	BookingID     string
	StationID     string
	OldBatteryID  string
	NewBatteryID  string
	Amount        decimal.Decimal
	Status        TransactionStatus
	PaymentStatus PaymentStatus
	CompletedAt   time.Time
}

// IsTerminal reports whether the transaction can no longer change.
func (t *SwapTransaction) IsTerminal() bool {
	switch t.Status {
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentSession is a pending payment handed to the external provider.
type PaymentSession struct {
	TransactionID string
	RedirectURL   string
	QRImage       string
}

// Receipt summarizes a completed swap for the operator and customer.
type Receipt struct {
	ID            string
	TransactionID string
	BookingID     string
	StationID     string
	CustomerName  string
	VehiclePlate  string
	OldBatteryID  string
	NewBatteryID  string
	Amount        decimal.Decimal
	PaymentStatus PaymentStatus
	CompletedAt   time.Time
}
