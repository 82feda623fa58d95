package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stationops/internal/backend"
	"stationops/internal/domain"
	"stationops/internal/redis"
	"stationops/internal/repository"
)

// DefaultLockTTL bounds how long one intent may hold a browsing context.
const DefaultLockTTL = 30 * time.Second

// Action is an intent the current view accepts.
type Action string

const (
	ActionAdvance Action = "advance"
	ActionBack    Action = "back"
	ActionAbandon Action = "abandon"
)

// CheckInConfig holds the workflow options.
type CheckInConfig struct {
	// PayLater skips the payment step for every station.
	PayLater bool
	// PayLaterStations overrides PayLater per station id.
	PayLaterStations map[string]bool
	LockTTL          time.Duration
	// ReturnURL is where the payment provider sends the operator back to.
	ReturnURL string
}

func (c CheckInConfig) payLater(stationID string) bool {
	if v, ok := c.PayLaterStations[stationID]; ok {
		return v
	}
	return c.PayLater
}

// View is what the step views render: the current step and its display
// fields, plus what the operator may do next.
type View struct {
	Step          domain.Step
	Path          []domain.Step
	Loading       bool
	Message       string
	ErrorKind     ErrorKind
	Booking       *domain.Booking
	DisplayName   string
	TransactionID string
	PaymentURL    string
	QRImage       string
	OldBatteryID  string
	NewBatteryID  string
	Receipt       *domain.Receipt
	ReceiptText   string
	Actions       []Action
}

// CheckInService drives an operator through scan, verify, payment, swap and
// completion. Every intent restores the browsing context's snapshot, applies
// one transition and stores the result again.
type CheckInService struct {
	gateway             CheckInGateway
	sessions            redis.SessionStoreInterface
	locks               redis.LockStoreInterface
	bookingCache        redis.BookingCacheInterface
	inventory           *InventoryGuard
	journal             repository.JournalRepository
	notificationService *NotificationService
	receiptService      *ReceiptService
	cfg                 CheckInConfig
	log                 *zap.Logger
	now                 func() time.Time
	newID               func() string
}

// NewCheckInService creates a new CheckInService.
func NewCheckInService(
	gateway CheckInGateway,
	sessions redis.SessionStoreInterface,
	locks redis.LockStoreInterface,
	bookingCache redis.BookingCacheInterface,
	inventory *InventoryGuard,
	journal repository.JournalRepository,
	notificationService *NotificationService,
	receiptService *ReceiptService,
	cfg CheckInConfig,
	log *zap.Logger,
) *CheckInService {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckInService{
		gateway:             gateway,
		sessions:            sessions,
		locks:               locks,
		bookingCache:        bookingCache,
		inventory:           inventory,
		journal:             journal,
		notificationService: notificationService,
		receiptService:      receiptService,
		cfg:                 cfg,
		log:                 log,
		now:                 time.Now,
		newID:               func() string { return uuid.New().String() },
	}
}

// WithIDGenerator replaces the generator for client-side transaction ids.
func (s *CheckInService) WithIDGenerator(newID func() string) *CheckInService {
	s.newID = newID
	return s
}

// flow is the state one intent works on.
type flow struct {
	op       domain.Operator
	snap     *domain.Snapshot
	restored bool
	receipt  *domain.Receipt
	message  string

	dirty   bool // snapshot changed and must be saved
	clear   bool // workflow ended, drop the stored entry
	resumed bool // drop the entry, then store the resumed state anew
}

// Current returns the view of the stored snapshot without changing it.
func (s *CheckInService) Current(ctx context.Context, op domain.Operator) (*View, error) {
	if err := validateOperator(op); err != nil {
		return nil, err
	}

	snap, err := s.sessions.Restore(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	f := &flow{op: op, snap: snap, restored: snap != nil}
	if snap == nil {
		f.snap = s.fresh()
	}

	view := s.view(f)
	locked, err := s.locks.IsSessionLocked(ctx, op)
	if err != nil {
		s.log.Warn("session lock lookup failed", zap.String("station_id", op.StationID), zap.Error(err))
	}
	view.Loading = locked
	return view, nil
}

// Scan looks up the booking the customer presents and moves to verify.
func (s *CheckInService) Scan(ctx context.Context, op domain.Operator, query string) (*View, error) {
	return s.run(ctx, op, "scan", func(ctx context.Context, f *flow) error {
		if f.snap.Step != domain.StepScan && f.snap.Step != domain.StepVerify {
			return ErrInvalidTransition
		}

		query = strings.TrimSpace(query)
		if query == "" {
			return ErrEmptyQuery
		}

		booking, err := s.findBooking(ctx, op.StationID, query)
		if errors.Is(err, ErrBookingNotFound) && f.restored {
			// A failed rescan from verify drops the booking shown so far.
			if f.snap.BookingID() != "" {
				s.record(ctx, f.op, f.snap, domain.JournalEventAbandoned, "no booking matches "+query)
			}
			f.snap = s.fresh()
			f.clear = true
			return err
		}
		if err != nil {
			return err
		}

		if booking.Status == domain.BookingStatusCancelled || booking.Status == domain.BookingStatusCompleted {
			return fmt.Errorf("%w: %s is %s", ErrBookingNotActive, booking.ID, booking.Status)
		}

		if f.restored && f.snap.BookingID() != "" && f.snap.BookingID() != booking.ID {
			s.record(ctx, f.op, f.snap, domain.JournalEventAbandoned, "replaced by "+booking.ID)
		}

		createdAt := f.snap.CreatedAt
		f.snap = s.fresh()
		f.snap.CreatedAt = createdAt
		f.snap.Step = domain.StepVerify
		f.snap.Booking = booking
		f.snap.DisplayName = booking.CustomerName
		f.dirty = true

		s.record(ctx, f.op, f.snap, domain.JournalEventStarted, query)
		return nil
	})
}

// findBooking searches the cached station bookings first and the backend second.
func (s *CheckInService) findBooking(ctx context.Context, stationID, query string) (*domain.Booking, error) {
	cached, err := s.bookingCache.GetStationBookings(ctx, stationID)
	if err != nil {
		s.log.Warn("booking cache read failed", zap.String("station_id", stationID), zap.Error(err))
	}
	for _, b := range cached {
		if b.Matches(query) {
			return b, nil
		}
	}

	booking, err := s.gateway.SearchBooking(ctx, query)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// Verify confirms the booking with the backend and looks up its swap
// transaction. Pay-later stations go straight to swap.
func (s *CheckInService) Verify(ctx context.Context, op domain.Operator, displayName string) (*View, error) {
	return s.run(ctx, op, "verify", func(ctx context.Context, f *flow) error {
		if f.snap.Step != domain.StepVerify {
			return ErrInvalidTransition
		}
		if f.snap.Booking == nil {
			return ErrBookingRequired
		}

		name := strings.TrimSpace(displayName)
		if name == "" {
			name = strings.TrimSpace(f.snap.DisplayName)
		}
		if name == "" {
			return ErrDisplayNameRequired
		}

		confirmed, err := s.gateway.ConfirmBooking(ctx, f.snap.Booking.ID)
		if err != nil {
			return err
		}

		// The confirmation stands even if the lookup below fails; a retry
		// confirms again, which the backend treats as a no-op.
		f.snap.Booking = mergeBooking(f.snap.Booking, confirmed)
		f.snap.BookingConfirmed = true
		f.snap.DisplayName = name
		f.dirty = true

		if err := s.bookingCache.InvalidateStationBookings(ctx, op.StationID); err != nil {
			s.log.Warn("booking cache invalidation failed", zap.String("station_id", op.StationID), zap.Error(err))
		}
		if err := s.notificationService.NotifyCheckedIn(ctx, f.snap.Booking, op.StationID); err != nil {
			s.log.Warn("checked-in notification failed", zap.String("booking_id", f.snap.BookingID()), zap.Error(err))
		}

		tx, err := s.gateway.GetTransactionByBooking(ctx, f.snap.Booking.ID)
		if err != nil && !errors.Is(err, backend.ErrNotFound) {
			return err
		}
		if tx != nil && !tx.IsTerminal() {
			f.snap.TransactionID = tx.ID
		}

		if s.cfg.payLater(op.StationID) {
			f.snap.Step = domain.StepSwap
		} else {
			f.snap.Step = domain.StepPayment
		}

		s.record(ctx, f.op, f.snap, domain.JournalEventVerified, name)
		return nil
	})
}

// StartPayment asks the provider for a payment session. The snapshot is
// stored before the view is returned, so the operator can leave for the
// provider right away.
func (s *CheckInService) StartPayment(ctx context.Context, op domain.Operator) (*View, error) {
	return s.run(ctx, op, "start_payment", func(ctx context.Context, f *flow) error {
		if f.snap.Step != domain.StepPayment {
			return ErrInvalidTransition
		}

		if err := s.ensureTransaction(ctx, f); err != nil {
			return err
		}

		payment, err := s.gateway.InitiatePayment(ctx, f.snap.TransactionID, s.cfg.ReturnURL)
		if err != nil {
			return err
		}

		f.snap.PaymentURL = payment.RedirectURL
		f.snap.QRImage = payment.QRImage
		f.dirty = true

		if f.snap.Booking != nil {
			if err := s.notificationService.NotifyPaymentPending(ctx, f.snap.Booking, payment); err != nil {
				s.log.Warn("payment notification failed", zap.String("booking_id", f.snap.BookingID()), zap.Error(err))
			}
		}

		s.record(ctx, f.op, f.snap, domain.JournalEventPaymentStarted, payment.RedirectURL)
		return nil
	})
}

// CompletePayment moves to swap once the operator reports the payment done.
func (s *CheckInService) CompletePayment(ctx context.Context, op domain.Operator) (*View, error) {
	return s.run(ctx, op, "complete_payment", func(ctx context.Context, f *flow) error {
		if f.snap.Step != domain.StepPayment {
			return ErrInvalidTransition
		}

		if err := s.ensureTransaction(ctx, f); err != nil {
			return err
		}

		f.snap.Step = domain.StepSwap
		f.dirty = true

		s.record(ctx, f.op, f.snap, domain.JournalEventPaymentDone, "operator")
		return nil
	})
}

// Resume handles the navigation back from the payment provider. A check-in
// waiting at payment is fast-forwarded to swap without confirming the booking
// again.
func (s *CheckInService) Resume(ctx context.Context, op domain.Operator, query url.Values) (*View, error) {
	return s.run(ctx, op, "resume", func(ctx context.Context, f *flow) error {
		if !redis.IsResumeSignal(query) {
			return nil
		}

		if !f.restored {
			f.message = "session expired, scan the booking again"
			return nil
		}

		if f.snap.Step != domain.StepPayment {
			// Already resumed by an earlier reload.
			return nil
		}

		if redis.ProviderOutcome(query) == redis.PaymentOutcomeFailed {
			return ErrPaymentDeclined
		}

		if err := s.ensureTransaction(ctx, f); err != nil {
			return err
		}

		if ref := redis.ProviderReference(query); ref != "" && !strings.EqualFold(ref, f.snap.TransactionID) {
			s.log.Warn("payment return for another transaction",
				zap.String("operator_id", op.OperatorID),
				zap.String("station_id", op.StationID),
				zap.String("transaction_id", f.snap.TransactionID),
				zap.String("provider_reference", ref),
			)
			return fmt.Errorf("%w: provider echoed %s", ErrPaymentReferenceMismatch, ref)
		}

		f.snap.Step = domain.StepSwap
		f.resumed = true

		s.record(ctx, f.op, f.snap, domain.JournalEventResumed, "provider return")
		return nil
	})
}

// Back steps one position back along the station's path.
func (s *CheckInService) Back(ctx context.Context, op domain.Operator) (*View, error) {
	return s.run(ctx, op, "back", func(ctx context.Context, f *flow) error {
		prev, ok := previousStep(s.path(op.StationID), f.snap.Step)
		if !ok {
			return ErrInvalidTransition
		}

		if prev == domain.StepScan {
			if f.snap.BookingConfirmed {
				s.record(ctx, f.op, f.snap, domain.JournalEventAbandoned, "back to scan")
			}
			createdAt := f.snap.CreatedAt
			f.snap = s.fresh()
			f.snap.CreatedAt = createdAt
		} else {
			f.snap.Step = prev
		}
		f.dirty = true
		return nil
	})
}

// Abandon drops the check-in. Nothing already sent to the backend is rolled
// back; the journal flags confirmed bookings for reconciliation instead.
func (s *CheckInService) Abandon(ctx context.Context, op domain.Operator) (*View, error) {
	return s.run(ctx, op, "abandon", func(ctx context.Context, f *flow) error {
		if f.restored && f.snap.Booking != nil {
			s.record(ctx, f.op, f.snap, domain.JournalEventAbandoned, "operator")
		}

		f.snap = s.fresh()
		f.clear = true
		f.message = "check-in abandoned"
		return nil
	})
}

// StationBookings lists the station's bookings and refreshes the local cache
// that Scan searches first.
func (s *CheckInService) StationBookings(ctx context.Context, op domain.Operator) ([]*domain.Booking, error) {
	if err := validateOperator(op); err != nil {
		return nil, err
	}

	bookings, err := s.gateway.ListStationBookings(ctx, op.StationID)
	if err != nil {
		return nil, err
	}

	if err := s.bookingCache.SetStationBookings(ctx, op.StationID, bookings); err != nil {
		s.log.Warn("booking cache write failed", zap.String("station_id", op.StationID), zap.Error(err))
	}
	return bookings, nil
}

// Journal returns the station's most recent journal entries.
func (s *CheckInService) Journal(ctx context.Context, op domain.Operator, limit int) ([]*domain.JournalEntry, error) {
	if err := validateOperator(op); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.journal.ListByStation(ctx, op.StationID, limit)
}

// Reconciliation returns abandoned check-ins whose booking or transaction
// was already created on the backend.
func (s *CheckInService) Reconciliation(ctx context.Context, op domain.Operator) ([]*domain.JournalEntry, error) {
	if err := validateOperator(op); err != nil {
		return nil, err
	}
	return s.journal.ListNeedingReconciliation(ctx, op.StationID)
}

// run applies one intent under the browsing context's lock.
func (s *CheckInService) run(ctx context.Context, op domain.Operator, intent string, apply func(context.Context, *flow) error) (*View, error) {
	if err := validateOperator(op); err != nil {
		return nil, err
	}

	token, acquired, err := s.locks.AcquireSessionLock(ctx, op, s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !acquired {
		view, verr := s.Current(ctx, op)
		if verr != nil {
			return nil, ErrRequestInFlight
		}
		view.Loading = true
		view.Message = ErrRequestInFlight.Error()
		view.ErrorKind = KindBusy
		return view, ErrRequestInFlight
	}
	defer func() {
		released, err := s.locks.ReleaseSessionLock(context.WithoutCancel(ctx), op, token)
		switch {
		case err != nil:
			s.log.Warn("session lock release failed", zap.String("station_id", op.StationID), zap.Error(err))
		case !released:
			s.log.Warn("session lock expired before the intent finished",
				zap.String("station_id", op.StationID),
				zap.String("intent", intent),
				zap.Duration("lock_ttl", s.cfg.LockTTL),
			)
		}
	}()

	snap, err := s.sessions.Restore(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	f := &flow{op: op, snap: snap, restored: snap != nil}
	if snap == nil {
		f.snap = s.fresh()
	}

	applyErr := apply(ctx, f)

	if err := s.persist(ctx, f); err != nil {
		return nil, err
	}

	view := s.view(f)
	if applyErr != nil {
		view.Message = applyErr.Error()
		view.ErrorKind = Classify(applyErr)
		s.log.Info("check-in intent failed",
			zap.String("intent", intent),
			zap.String("operator_id", op.OperatorID),
			zap.String("station_id", op.StationID),
			zap.String("booking_id", f.snap.BookingID()),
			zap.String("step", string(f.snap.Step)),
			zap.String("kind", string(view.ErrorKind)),
			zap.Error(applyErr),
		)
		return view, applyErr
	}

	s.log.Debug("check-in intent applied",
		zap.String("intent", intent),
		zap.String("operator_id", op.OperatorID),
		zap.String("station_id", op.StationID),
		zap.String("booking_id", f.snap.BookingID()),
		zap.String("transaction_id", f.snap.TransactionID),
		zap.String("step", string(f.snap.Step)),
	)
	return view, nil
}

func (s *CheckInService) persist(ctx context.Context, f *flow) error {
	switch {
	case f.clear:
		if err := s.sessions.Clear(ctx, f.op); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	case f.resumed:
		if err := s.sessions.Clear(ctx, f.op); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		if err := s.sessions.Save(ctx, f.op, f.snap); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	case f.dirty:
		if err := s.sessions.Save(ctx, f.op, f.snap); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	return nil
}

// ensureTransaction makes sure the snapshot holds a transaction id, fetching
// it by booking when missing. No transaction is a retryable error.
func (s *CheckInService) ensureTransaction(ctx context.Context, f *flow) error {
	if f.snap.TransactionID != "" {
		return nil
	}
	if f.snap.Booking == nil {
		return ErrBookingRequired
	}

	tx, err := s.gateway.GetTransactionByBooking(ctx, f.snap.Booking.ID)
	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		return err
	}
	if tx == nil || tx.IsTerminal() {
		return ErrTransactionUnavailable
	}

	f.snap.TransactionID = tx.ID
	f.dirty = true
	return nil
}

func (s *CheckInService) record(ctx context.Context, op domain.Operator, snap *domain.Snapshot, event domain.JournalEvent, detail string) {
	entry := &domain.JournalEntry{
		ID:            uuid.New().String(),
		OperatorID:    op.OperatorID,
		StationID:     op.StationID,
		BookingID:     snap.BookingID(),
		TransactionID: snap.TransactionID,
		Step:          snap.Step,
		Event:         event,
		Detail:        detail,
		CreatedAt:     s.now().UTC(),
	}
	if event == domain.JournalEventAbandoned {
		entry.NeedsReconciliation = snap.BookingConfirmed || snap.TransactionID != ""
	}

	if err := s.journal.Append(ctx, entry); err != nil {
		s.log.Warn("journal append failed",
			zap.String("event", string(event)),
			zap.String("booking_id", entry.BookingID),
			zap.Error(err),
		)
	}
}

func (s *CheckInService) fresh() *domain.Snapshot {
	return &domain.Snapshot{Step: domain.StepScan, CreatedAt: s.now().UTC()}
}

func (s *CheckInService) path(stationID string) []domain.Step {
	if s.cfg.payLater(stationID) {
		return []domain.Step{domain.StepScan, domain.StepVerify, domain.StepSwap, domain.StepCompleted}
	}
	return []domain.Step{domain.StepScan, domain.StepVerify, domain.StepPayment, domain.StepSwap, domain.StepCompleted}
}

func (s *CheckInService) view(f *flow) *View {
	snap := f.snap
	v := &View{
		Step:          snap.Step,
		Path:          s.path(f.op.StationID),
		Message:       f.message,
		Booking:       snap.Booking,
		DisplayName:   snap.DisplayName,
		TransactionID: snap.TransactionID,
		Receipt:       f.receipt,
	}
	if f.receipt != nil {
		v.ReceiptText = s.receiptService.FormatReceipt(f.receipt)
	}

	switch snap.Step {
	case domain.StepScan:
		v.Actions = []Action{ActionAdvance}
	case domain.StepPayment:
		v.PaymentURL = snap.PaymentURL
		v.QRImage = snap.QRImage
		v.Actions = []Action{ActionAdvance, ActionBack, ActionAbandon}
	case domain.StepCompleted:
		v.OldBatteryID = snap.OldBatteryID
		v.NewBatteryID = snap.NewBatteryID
		v.Actions = []Action{}
	default:
		v.Actions = []Action{ActionAdvance, ActionBack, ActionAbandon}
	}
	return v
}

func previousStep(path []domain.Step, step domain.Step) (domain.Step, bool) {
	for i, p := range path {
		if p == step {
			// Nothing precedes scan and nothing leaves completed.
			if i == 0 || step == domain.StepCompleted {
				return "", false
			}
			return path[i-1], true
		}
	}
	return "", false
}

// mergeBooking applies the confirmed status to the booking found at scan,
// keeping fields a terse confirm answer leaves out.
func mergeBooking(scanned, confirmed *domain.Booking) *domain.Booking {
	merged := *scanned
	if confirmed != nil {
		if confirmed.CustomerName != "" {
			merged.CustomerName = confirmed.CustomerName
		}
		if confirmed.VehiclePlate != "" {
			merged.VehiclePlate = confirmed.VehiclePlate
		}
	}
	merged.Status = domain.BookingStatusChecked
	return &merged
}

func validateOperator(op domain.Operator) error {
	if strings.TrimSpace(op.OperatorID) == "" || strings.TrimSpace(op.StationID) == "" {
		return ErrMissingOperator
	}
	return nil
}
