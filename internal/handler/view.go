package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stationops/internal/domain"
	"stationops/internal/service"
)

// ViewResponse is the HTTP rendering of the check-in state.
type ViewResponse struct {
	Step          string       `json:"step"`
	Path          []string     `json:"path"`
	Loading       bool         `json:"loading"`
	Message       string       `json:"message,omitempty"`
	ErrorKind     string       `json:"error_kind,omitempty"`
	Booking       *BookingInfo `json:"booking,omitempty"`
	DisplayName   string       `json:"display_name,omitempty"`
	TransactionID string       `json:"transaction_id,omitempty"`
	PaymentURL    string       `json:"payment_url,omitempty"`
	QRImage       string       `json:"qr_image,omitempty"`
	OldBatteryID  string       `json:"old_battery_id,omitempty"`
	NewBatteryID  string       `json:"new_battery_id,omitempty"`
	Receipt       *ReceiptInfo `json:"receipt,omitempty"`
	Actions       []string     `json:"actions"`
}

// BookingInfo contains booking details in the response.
type BookingInfo struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	VehicleID     string `json:"vehicle_id,omitempty"`
	VehiclePlate  string `json:"vehicle_plate,omitempty"`
	StationID     string `json:"station_id,omitempty"`
	BatteryType   string `json:"battery_type,omitempty"`
	ScheduledAt   string `json:"scheduled_at,omitempty"`
	Status        string `json:"status"`
}

// ReceiptInfo contains receipt details in the response.
type ReceiptInfo struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	BookingID     string `json:"booking_id,omitempty"`
	StationID     string `json:"station_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	VehiclePlate  string `json:"vehicle_plate,omitempty"`
	OldBatteryID  string `json:"old_battery_id"`
	NewBatteryID  string `json:"new_battery_id"`
	Amount        string `json:"amount"`
	PaymentStatus string `json:"payment_status,omitempty"`
	CompletedAt   string `json:"completed_at"`
	Text          string `json:"text,omitempty"`
}

// respondView renders the view of an intent. A failed intent still renders
// its view, with the status code of the failure.
func respondView(c *gin.Context, view *service.View, err error) {
	if view == nil {
		respondError(c, err)
		return
	}

	code := http.StatusOK
	if err != nil {
		code = mapErrorToHTTPStatus(err)
	}
	respondJSON(c, code, toViewResponse(view))
}

func toViewResponse(v *service.View) ViewResponse {
	resp := ViewResponse{
		Step:          string(v.Step),
		Path:          make([]string, 0, len(v.Path)),
		Loading:       v.Loading,
		Message:       v.Message,
		ErrorKind:     string(v.ErrorKind),
		DisplayName:   v.DisplayName,
		TransactionID: v.TransactionID,
		PaymentURL:    v.PaymentURL,
		QRImage:       v.QRImage,
		OldBatteryID:  v.OldBatteryID,
		NewBatteryID:  v.NewBatteryID,
		Actions:       make([]string, 0, len(v.Actions)),
	}
	for _, s := range v.Path {
		resp.Path = append(resp.Path, string(s))
	}
	for _, a := range v.Actions {
		resp.Actions = append(resp.Actions, string(a))
	}
	if v.Booking != nil {
		info := toBookingInfo(v.Booking)
		resp.Booking = &info
	}
	if v.Receipt != nil {
		resp.Receipt = &ReceiptInfo{
			ID:            v.Receipt.ID,
			TransactionID: v.Receipt.TransactionID,
			BookingID:     v.Receipt.BookingID,
			StationID:     v.Receipt.StationID,
			CustomerName:  v.Receipt.CustomerName,
			VehiclePlate:  v.Receipt.VehiclePlate,
			OldBatteryID:  v.Receipt.OldBatteryID,
			NewBatteryID:  v.Receipt.NewBatteryID,
			Amount:        v.Receipt.Amount.StringFixed(2),
			PaymentStatus: string(v.Receipt.PaymentStatus),
			CompletedAt:   v.Receipt.CompletedAt.Format(time.RFC3339),
			Text:          v.ReceiptText,
		}
	}
	return resp
}

func toBookingInfo(b *domain.Booking) BookingInfo {
	info := BookingInfo{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		VehicleID:     b.VehicleID,
		VehiclePlate:  b.VehiclePlate,
		StationID:     b.StationID,
		BatteryType:   b.BatteryTypeName,
		Status:        string(b.Status),
	}
	if info.BatteryType == "" {
		info.BatteryType = b.BatteryTypeID
	}
	if !b.ScheduledAt.IsZero() {
		info.ScheduledAt = b.ScheduledAt.Format(time.RFC3339)
	}
	return info
}
