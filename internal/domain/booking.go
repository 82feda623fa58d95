package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the lifecycle status of a swap reservation.
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusChecked   BookingStatus = "CHECKED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking represents a customer's reservation for a swap at a station.
type Booking struct {
	ID              string        `json:"id"`
	CustomerID      string        `json:"customer_id"`
	CustomerName    string        `json:"customer_name,omitempty"`
	CustomerPhone   string        `json:"customer_phone,omitempty"`
	VehicleID       string        `json:"vehicle_id"`
	VehiclePlate    string        `json:"vehicle_plate,omitempty"`
	StationID       string        `json:"station_id"`
	BatteryTypeID   string        `json:"battery_type_id"`
	BatteryTypeName string        `json:"battery_type_name,omitempty"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	Status          BookingStatus `json:"status"`
}

// IsConfirmed reports whether the booking has already been checked in or completed.
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusChecked || b.Status == BookingStatusCompleted
}

// Matches reports whether a free-text operator query identifies this booking.
// The booking id and plate must match exactly (ignoring case and separators);
// the customer name may match partially.
func (b *Booking) Matches(query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return false
	}

	if strings.EqualFold(b.ID, q) {
		return true
	}

	if b.VehiclePlate != "" && canonicalPlate(b.VehiclePlate) == canonicalPlate(q) {
		return true
	}

	if b.CustomerName != "" && strings.Contains(strings.ToLower(b.CustomerName), strings.ToLower(q)) {
		return true
	}

	return false
}

func canonicalPlate(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch r {
		case ' ', '-', '.', '_':
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
