package domain

// BatteryStatus represents the station-scoped status of a battery.
type BatteryStatus string

const (
	BatteryStatusAvailable   BatteryStatus = "AVAILABLE"
	BatteryStatusCharging    BatteryStatus = "CHARGING"
	BatteryStatusInUse       BatteryStatus = "IN_USE"
	BatteryStatusMaintenance BatteryStatus = "MAINTENANCE"
	BatteryStatusDamaged     BatteryStatus = "DAMAGED"
)

const (
	MinChargePercentage = 0
	MaxChargePercentage = 100
)

// Battery represents a swappable battery pack.
type Battery struct {
	ID               string        `json:"id"`
	TypeID           string        `json:"type_id"`
	StationID        string        `json:"station_id"`
	Status           BatteryStatus `json:"status"`
	ChargePercentage int           `json:"charge_percentage"`
	SlotID           string        `json:"slot_id,omitempty"` // empty when not docked
}

// CanOccupySlot reports whether the battery status allows a slot assignment.
func (b *Battery) CanOccupySlot() bool {
	return b.Status != BatteryStatusInUse && b.Status != BatteryStatusDamaged
}

// Slot is a physical bay at a station holding at most one battery.
type Slot struct {
	ID        string `json:"id"`
	StationID string `json:"station_id"`
	BatteryID string `json:"battery_id,omitempty"` // empty when the slot is empty
}

// IsEmpty reports whether no battery is docked in the slot.
func (s *Slot) IsEmpty() bool {
	return s.BatteryID == ""
}

// SlotAssignment is the slot/battery pair returned by inventory mutations.
type SlotAssignment struct {
	Slot    Slot
	Battery Battery
}

// ValidChargePercentage reports whether p is within [0,100].
func ValidChargePercentage(p int) bool {
	return p >= MinChargePercentage && p <= MaxChargePercentage
}
