package service

import (
	"errors"

	"stationops/internal/backend"
)

var (
	// ErrMissingOperator is returned when a request carries no operator or station id.
	ErrMissingOperator = errors.New("operator and station ids are required")

	// ErrEmptyQuery is returned when a booking search input is blank.
	ErrEmptyQuery = errors.New("booking search input is empty")

	// ErrBookingNotFound is returned when no booking matches the search input.
	ErrBookingNotFound = errors.New("no booking matches the search input")

	// ErrBookingNotActive is returned when the booking was cancelled or already completed.
	ErrBookingNotActive = errors.New("booking is cancelled or already completed")

	// ErrBookingRequired is returned when verification is attempted without a booking.
	ErrBookingRequired = errors.New("no booking selected")

	// ErrDisplayNameRequired is returned when the customer display name is blank.
	ErrDisplayNameRequired = errors.New("display name is required")

	// ErrTransactionUnavailable is returned when no swap transaction exists for the booking yet.
	ErrTransactionUnavailable = errors.New("no swap transaction for this booking yet, retry shortly")

	// ErrBatteryIDRequired is returned when a battery id is blank.
	ErrBatteryIDRequired = errors.New("battery id is required")

	// ErrInvalidBatteryID is returned when a battery id has an unexpected format.
	ErrInvalidBatteryID = errors.New("invalid battery id")

	// ErrSameBattery is returned when the removed and installed battery are the same.
	ErrSameBattery = errors.New("old and new battery must differ")

	// ErrSlotIDRequired is returned when a slot id is blank.
	ErrSlotIDRequired = errors.New("slot id is required")

	// ErrPercentageOutOfRange is returned when a charge percentage is outside [0,100].
	ErrPercentageOutOfRange = errors.New("charge percentage must be between 0 and 100")

	// ErrBatteryNotAssignable is returned when a battery in use or damaged is docked.
	ErrBatteryNotAssignable = errors.New("battery in use or damaged cannot occupy a slot")

	// ErrInconsistentAssignment is returned when the backend answer breaks the slot/battery pairing.
	ErrInconsistentAssignment = errors.New("backend returned an inconsistent slot assignment")

	// ErrInvalidTransition is returned when an intent does not apply to the current step.
	ErrInvalidTransition = errors.New("action not allowed at the current step")

	// ErrPaymentReferenceMismatch is returned when the provider echoes another transaction.
	ErrPaymentReferenceMismatch = errors.New("payment return does not belong to this check-in")

	// ErrPaymentDeclined is returned when the provider reports the payment as failed.
	ErrPaymentDeclined = errors.New("payment was not completed")

	// ErrRequestInFlight is returned while another action of the same session is outstanding.
	ErrRequestInFlight = errors.New("another action is still in progress")
)

// ErrorKind groups errors by how the operator can react to them.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindTransient  ErrorKind = "transient"
	KindFatal      ErrorKind = "fatal"
	KindBusy       ErrorKind = "busy"
)

// Classify maps an error onto its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone

	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, backend.ErrNotFound):
		return KindNotFound

	case errors.Is(err, ErrMissingOperator),
		errors.Is(err, ErrEmptyQuery),
		errors.Is(err, ErrBookingNotActive),
		errors.Is(err, ErrBookingRequired),
		errors.Is(err, ErrDisplayNameRequired),
		errors.Is(err, ErrBatteryIDRequired),
		errors.Is(err, ErrInvalidBatteryID),
		errors.Is(err, ErrSameBattery),
		errors.Is(err, ErrSlotIDRequired),
		errors.Is(err, ErrPercentageOutOfRange),
		errors.Is(err, ErrBatteryNotAssignable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrPaymentReferenceMismatch),
		errors.Is(err, ErrPaymentDeclined),
		errors.Is(err, backend.ErrRejected):
		return KindValidation

	case errors.Is(err, backend.ErrConflict):
		return KindConflict

	case errors.Is(err, ErrTransactionUnavailable),
		errors.Is(err, backend.ErrTransient):
		return KindTransient

	case errors.Is(err, ErrRequestInFlight):
		return KindBusy

	default:
		return KindFatal
	}
}

// IsValidation reports whether err was raised before reaching the backend or
// was refused by it as invalid input.
func IsValidation(err error) bool {
	return Classify(err) == KindValidation
}
