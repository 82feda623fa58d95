package domain

import "time"

// JournalEvent names a recorded check-in transition.
type JournalEvent string

const (
	JournalEventStarted        JournalEvent = "STARTED"
	JournalEventVerified       JournalEvent = "VERIFIED"
	JournalEventPaymentStarted JournalEvent = "PAYMENT_STARTED"
	JournalEventPaymentDone    JournalEvent = "PAYMENT_DONE"
	JournalEventResumed        JournalEvent = "RESUMED"
	JournalEventSwapped        JournalEvent = "SWAPPED"
	JournalEventAbandoned      JournalEvent = "ABANDONED"
)

// JournalEntry is one row of the check-in journal.
type JournalEntry struct {
	ID                  string
	OperatorID          string
	StationID           string
	BookingID           string
	TransactionID       string
	Step                Step
	Event               JournalEvent
	NeedsReconciliation bool // abandoned after the backend already confirmed the booking
	Detail              string
	CreatedAt           time.Time
}
