package domain

import "time"

// Step is a position in the check-in workflow.
type Step string

const (
	StepScan      Step = "scan"
	StepVerify    Step = "verify"
	StepPayment   Step = "payment"
	StepSwap      Step = "swap"
	StepCompleted Step = "completed"
)

// Snapshot is the persisted state of one in-progress check-in.
type Snapshot struct {
	Step             Step      `json:"step"`
	Booking          *Booking  `json:"booking,omitempty"`
	DisplayName      string    `json:"display_name,omitempty"`
	BookingConfirmed bool      `json:"booking_confirmed"`
	TransactionID    string    `json:"transaction_id,omitempty"`
	PaymentURL       string    `json:"payment_url,omitempty"`
	QRImage          string    `json:"qr_image,omitempty"`
	OldBatteryID     string    `json:"old_battery_id,omitempty"`
	NewBatteryID     string    `json:"new_battery_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	CapturedAt       time.Time `json:"captured_at"`
}

// BookingID returns the id of the booking under check-in, if any.
func (s *Snapshot) BookingID() string {
	if s.Booking == nil {
		return ""
	}
	return s.Booking.ID
}

// Operator identifies one browsing context: the operator at a station.
type Operator struct {
	OperatorID string
	StationID  string
}
