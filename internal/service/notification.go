package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stationops/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationCheckedIn      NotificationType = "CHECKED_IN"
	NotificationPaymentPending NotificationType = "PAYMENT_PENDING"
	NotificationSwapCompleted  NotificationType = "SWAP_COMPLETED"
)

// Notification represents a customer-facing notice about a check-in.
type Notification struct {
	Type        NotificationType
	RecipientID string // customer id
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService emits customer notifications. Delivery channels live in
// the backend; this service records what was sent.
type NotificationService struct {
	log *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{log: log}
}

// NotifyCheckedIn tells the customer their booking was checked in.
func (s *NotificationService) NotifyCheckedIn(ctx context.Context, booking *domain.Booking, stationID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationCheckedIn,
		RecipientID: booking.CustomerID,
		Title:       "Checked In",
		Message:     fmt.Sprintf("Booking %s is checked in at station %s", booking.ID, stationID),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"station_id": stationID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentPending tells the customer a payment is waiting for them.
func (s *NotificationService) NotifyPaymentPending(ctx context.Context, booking *domain.Booking, payment *domain.PaymentSession) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentPending,
		RecipientID: booking.CustomerID,
		Title:       "Payment Pending",
		Message:     "Scan the QR code or follow the payment link to pay for your swap",
		Data: map[string]interface{}{
			"booking_id":     booking.ID,
			"transaction_id": payment.TransactionID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifySwapCompleted tells the customer the swap is done.
func (s *NotificationService) NotifySwapCompleted(ctx context.Context, customerID string, receipt *domain.Receipt) error {
	if customerID == "" {
		return nil // walk-in swap without a booking
	}
	return s.send(ctx, Notification{
		Type:        NotificationSwapCompleted,
		RecipientID: customerID,
		Title:       "Swap Completed",
		Message:     fmt.Sprintf("Battery %s installed, battery %s returned", receipt.NewBatteryID, receipt.OldBatteryID),
		Data: map[string]interface{}{
			"receipt_id":     receipt.ID,
			"transaction_id": receipt.TransactionID,
			"amount":         receipt.Amount.StringFixed(2),
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(_ context.Context, notification Notification) error {
	s.log.Info("notification",
		zap.String("type", string(notification.Type)),
		zap.String("recipient_id", notification.RecipientID),
		zap.String("title", notification.Title),
		zap.String("message", notification.Message),
	)
	return nil
}
