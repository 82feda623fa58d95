package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stationops/internal/domain"
)

// The backend has answered with several field-naming conventions over time
// (camelCase, snake_case, PascalCase, prefixed ids). Every response is decoded
// into a fields map and normalized exactly once, here.

type fields map[string]any

// decodeBody unwraps the common envelopes ({"data": ...}, {"result": ...},
// {"payload": ...}) and returns the inner value.
func decodeBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrFatal, err)
	}

	for {
		m, ok := v.(map[string]any)
		if !ok {
			return v, nil
		}
		inner, found := firstPresent(m, "data", "result", "payload")
		if !found || inner == nil {
			return v, nil
		}
		v = inner
	}
}

// decodeObject decodes a body expected to hold one entity.
func decodeObject(body []byte) (fields, error) {
	v, err := decodeBody(body)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case map[string]any:
		return fields(t), nil
	case []any:
		if len(t) == 0 {
			return nil, nil
		}
		if m, ok := t[0].(map[string]any); ok {
			return fields(m), nil
		}
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: expected an object, got %T", ErrFatal, v)
}

// decodeList decodes a body expected to hold a collection. A bare object is
// treated as a single-element list; {"items": [...]} and similar are unwrapped.
func decodeList(body []byte) ([]fields, error) {
	v, err := decodeBody(body)
	if err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		if inner, found := firstPresent(m, "items", "content", "records", "bookings", "batteries", "transactions"); found {
			v = inner
		}
	}

	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []fields{fields(t)}, nil
	case []any:
		out := make([]fields, 0, len(t))
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: expected list of objects, got %T", ErrFatal, item)
			}
			out = append(out, fields(m))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: expected a list, got %T", ErrFatal, v)
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func (f fields) str(keys ...string) string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case json.Number:
			return t.String()
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

func (f fields) obj(keys ...string) fields {
	for _, k := range keys {
		if m, ok := f[k].(map[string]any); ok {
			return fields(m)
		}
	}
	return nil
}

func (f fields) decimal(keys ...string) decimal.Decimal {
	s := f.str(keys...)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (f fields) percentage(keys ...string) int {
	s := f.str(keys...)
	if s == "" {
		return 0
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(p))
}

func (f fields) time(keys ...string) time.Time {
	s := f.str(keys...)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// nested returns the id of an embedded object, e.g. {"station": {"id": "S1"}}.
func (f fields) nested(objKeys []string, idKeys ...string) string {
	if o := f.obj(objKeys...); o != nil {
		return o.str(idKeys...)
	}
	return ""
}

func statusKey(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(s))
}

func normalizeBooking(f fields) *domain.Booking {
	if f == nil {
		return nil
	}

	b := &domain.Booking{
		ID:            f.str("bookingId", "booking_id", "BookingId", "bookingID", "id", "Id"),
		CustomerID:    f.str("customerId", "customer_id", "userId", "user_id", "driverId", "driver_id", "CustomerId"),
		CustomerName:  f.str("customerName", "customer_name", "fullName", "full_name", "userName", "driverName", "name"),
		CustomerPhone: f.str("customerPhone", "customer_phone", "phone", "phoneNumber"),
		VehicleID:     f.str("vehicleId", "vehicle_id", "VehicleId"),
		VehiclePlate:  f.str("vehiclePlate", "vehicle_plate", "licensePlate", "license_plate", "plateNumber", "plate"),
		StationID:     f.str("stationId", "station_id", "StationId"),
		BatteryTypeID: f.str("batteryTypeId", "battery_type_id", "BatteryTypeId", "batteryType"),
		ScheduledAt:   f.time("scheduledTime", "scheduled_time", "bookingTime", "booking_time", "scheduledAt", "timeSlot"),
		Status:        normalizeBookingStatus(f.str("status", "bookingStatus", "booking_status", "Status")),
	}

	if user := f.obj("customer", "user", "driver"); user != nil {
		if b.CustomerID == "" {
			b.CustomerID = user.str("id", "userId", "customerId")
		}
		if b.CustomerName == "" {
			b.CustomerName = user.str("fullName", "full_name", "name")
		}
		if b.CustomerPhone == "" {
			b.CustomerPhone = user.str("phone", "phoneNumber")
		}
	}
	if vehicle := f.obj("vehicle"); vehicle != nil {
		if b.VehicleID == "" {
			b.VehicleID = vehicle.str("id", "vehicleId")
		}
		if b.VehiclePlate == "" {
			b.VehiclePlate = vehicle.str("licensePlate", "license_plate", "plate", "plateNumber")
		}
	}
	if b.StationID == "" {
		b.StationID = f.nested([]string{"station"}, "id", "stationId")
	}
	if bt := f.obj("batteryType", "battery_type"); bt != nil {
		if b.BatteryTypeID == "" {
			b.BatteryTypeID = bt.str("id", "batteryTypeId")
		}
		b.BatteryTypeName = bt.str("name", "typeName", "model")
	}
	if b.BatteryTypeName == "" {
		b.BatteryTypeName = f.str("batteryTypeName", "battery_type_name")
	}

	if b.ID == "" {
		return nil
	}
	return b
}

func normalizeBookingStatus(s string) domain.BookingStatus {
	switch statusKey(s) {
	case "checked", "checkedin", "checkin", "inprogress":
		return domain.BookingStatusChecked
	case "completed", "complete", "done", "finished":
		return domain.BookingStatusCompleted
	case "cancelled", "canceled", "cancel":
		return domain.BookingStatusCancelled
	default:
		return domain.BookingStatusBooked
	}
}

func normalizeTransaction(f fields) *domain.SwapTransaction {
	if f == nil {
		return nil
	}

	t := &domain.SwapTransaction{
		ID:            f.str("transactionId", "transaction_id", "swapTransactionId", "swap_transaction_id", "TransactionId", "id", "Id"),
		BookingID:     f.str("bookingId", "booking_id", "BookingId"),
		StationID:     f.str("stationId", "station_id", "StationId"),
		OldBatteryID:  f.str("oldBatteryId", "old_battery_id", "returnedBatteryId", "batteryOutId"),
		NewBatteryID:  f.str("newBatteryId", "new_battery_id", "issuedBatteryId", "batteryInId"),
		Amount:        f.decimal("amount", "totalAmount", "total_amount", "price", "cost"),
		Status:        normalizeTransactionStatus(f.str("status", "transactionStatus", "transaction_status", "Status")),
		PaymentStatus: normalizePaymentStatus(f.str("paymentStatus", "payment_status", "PaymentStatus")),
		CompletedAt:   f.time("completedAt", "completed_at", "swapTime", "swap_time", "updatedAt"),
	}
	if t.BookingID == "" {
		t.BookingID = f.nested([]string{"booking"}, "id", "bookingId")
	}

	if t.ID == "" {
		return nil
	}
	return t
}

func normalizeTransactionStatus(s string) domain.TransactionStatus {
	switch statusKey(s) {
	case "initiated", "initialized", "created":
		return domain.TransactionStatusInitiated
	case "processing", "inprogress":
		return domain.TransactionStatusProcessing
	case "completed", "complete", "success", "succeeded", "done":
		return domain.TransactionStatusCompleted
	case "failed", "failure", "error":
		return domain.TransactionStatusFailed
	case "cancelled", "canceled":
		return domain.TransactionStatusCancelled
	default:
		return domain.TransactionStatusPending
	}
}

func normalizePaymentStatus(s string) domain.PaymentStatus {
	switch statusKey(s) {
	case "paid", "success", "succeeded", "completed":
		return domain.PaymentStatusPaid
	case "failed", "failure", "error":
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatusPending
	}
}

func normalizeBattery(f fields) *domain.Battery {
	if f == nil {
		return nil
	}

	b := &domain.Battery{
		ID:               f.str("batteryId", "battery_id", "BatteryId", "id", "Id"),
		TypeID:           f.str("batteryTypeId", "battery_type_id", "typeId", "type"),
		StationID:        f.str("stationId", "station_id", "StationId"),
		Status:           normalizeBatteryStatus(f.str("status", "batteryStatus", "battery_status", "Status")),
		ChargePercentage: f.percentage("chargePercentage", "charge_percentage", "percentage", "stateOfCharge", "soc", "chargeLevel"),
		SlotID:           f.str("slotId", "slot_id", "SlotId"),
	}
	if b.SlotID == "" {
		b.SlotID = f.nested([]string{"slot"}, "id", "slotId")
	}
	if b.StationID == "" {
		b.StationID = f.nested([]string{"station"}, "id", "stationId")
	}

	if b.ID == "" {
		return nil
	}
	return b
}

func normalizeBatteryStatus(s string) domain.BatteryStatus {
	switch statusKey(s) {
	case "charging":
		return domain.BatteryStatusCharging
	case "inuse", "installed", "issued":
		return domain.BatteryStatusInUse
	case "maintenance", "undermaintenance":
		return domain.BatteryStatusMaintenance
	case "damaged", "faulty", "broken":
		return domain.BatteryStatusDamaged
	default:
		return domain.BatteryStatusAvailable
	}
}

func normalizeSlot(f fields) *domain.Slot {
	if f == nil {
		return nil
	}

	s := &domain.Slot{
		ID:        f.str("slotId", "slot_id", "SlotId", "id", "Id"),
		StationID: f.str("stationId", "station_id", "StationId"),
		BatteryID: f.str("batteryId", "battery_id", "BatteryId", "currentBatteryId"),
	}
	if s.BatteryID == "" {
		s.BatteryID = f.nested([]string{"battery", "currentBattery"}, "id", "batteryId")
	}

	if s.ID == "" {
		return nil
	}
	return s
}

// normalizeAssignment accepts either {"slot": {...}, "battery": {...}} or a
// flat battery object carrying its slot id.
func normalizeAssignment(f fields) *domain.SlotAssignment {
	if f == nil {
		return nil
	}

	slotFields := f.obj("slot", "Slot")
	batteryFields := f.obj("battery", "Battery")

	var battery *domain.Battery
	if batteryFields != nil {
		battery = normalizeBattery(batteryFields)
	} else {
		battery = normalizeBattery(f)
	}
	if battery == nil {
		return nil
	}

	var slot *domain.Slot
	if slotFields != nil {
		slot = normalizeSlot(slotFields)
		if slot != nil && battery.SlotID == "" && slot.BatteryID == battery.ID {
			battery.SlotID = slot.ID
		}
	}
	if slot == nil {
		slot = &domain.Slot{
			ID:        battery.SlotID,
			StationID: battery.StationID,
			BatteryID: battery.ID,
		}
		if battery.SlotID == "" {
			slot.ID = f.str("previousSlotId", "previous_slot_id", "slotId", "slot_id")
			slot.BatteryID = ""
		}
	}

	return &domain.SlotAssignment{Slot: *slot, Battery: *battery}
}

func normalizePayment(f fields, transactionID string) *domain.PaymentSession {
	if f == nil {
		return nil
	}

	p := &domain.PaymentSession{
		TransactionID: f.str("transactionId", "transaction_id", "txnRef"),
		RedirectURL:   f.str("paymentUrl", "payment_url", "redirectUrl", "redirect_url", "checkoutUrl", "url"),
		QRImage:       f.str("qrCode", "qr_code", "qrImage", "qr_image", "qrCodeUrl", "qr"),
	}
	if p.TransactionID == "" {
		p.TransactionID = transactionID
	}
	if p.RedirectURL == "" && p.QRImage == "" {
		return nil
	}
	return p
}

func errorMessage(body []byte) string {
	f, err := decodeObject(body)
	if err != nil || f == nil {
		s := strings.TrimSpace(string(body))
		if len(s) > 200 {
			s = s[:200]
		}
		return s
	}
	return f.str("message", "error", "detail", "title", "errorMessage")
}
