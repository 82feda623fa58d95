package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"stationops/internal/backend"
	"stationops/internal/domain"
	"stationops/internal/redis"
	"stationops/internal/repository"
	"stationops/internal/service"
)

// ──────────────────────────────────────────────
// MOCK BACKEND GATEWAY
// ──────────────────────────────────────────────

// MockGateway is an in-memory backend implementing both service gateways.
type MockGateway struct {
	mu           sync.Mutex
	bookings     map[string]*domain.Booking
	transactions map[string]*domain.SwapTransaction
	batteries    map[string]*domain.Battery
	slots        map[string]*domain.Slot

	// CreateTransactionOnConfirm makes ConfirmBooking open a pending
	// transaction for the booking, as some backend deployments do.
	CreateTransactionOnConfirm bool

	// Counters for verification
	SearchCallCount          int32
	ListBookingsCallCount    int32
	ConfirmCallCount         int32
	GetTxByBookingCallCount  int32
	CompleteCallCount        int32
	InitiatePaymentCallCount int32
	ListBatteriesCallCount   int32
	AssignCallCount          int32
	UpdateCallCount          int32
	RemoveCallCount          int32

	// Requests seen by CompleteTransaction.
	CompleteRequests []backend.CompleteTransactionRequest

	// Error injection
	SearchError          error
	ConfirmError         error
	GetTxByBookingError  error
	CompleteError        error
	InitiatePaymentError error
	ListBatteriesError   error
	AssignError          error
	RemoveError          error

	// CorruptAssign makes AssignBattery answer with the wrong slot.
	CorruptAssign bool

	// OnSearch runs inside SearchBooking, while the calling intent is in flight.
	OnSearch func()
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		bookings:     make(map[string]*domain.Booking),
		transactions: make(map[string]*domain.SwapTransaction),
		batteries:    make(map[string]*domain.Battery),
		slots:        make(map[string]*domain.Slot),
	}
}

var (
	_ service.CheckInGateway   = (*MockGateway)(nil)
	_ service.InventoryGateway = (*MockGateway)(nil)
)

// AddBooking adds a booking to the mock backend.
func (m *MockGateway) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

// AddTransaction adds a swap transaction to the mock backend.
func (m *MockGateway) AddTransaction(tx *domain.SwapTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
}

// AddBattery adds a battery to the mock backend.
func (m *MockGateway) AddBattery(battery *domain.Battery) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batteries[battery.ID] = battery
}

// AddSlot adds a slot to the mock backend.
func (m *MockGateway) AddSlot(slot *domain.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot.ID] = slot
}

func (m *MockGateway) SearchBooking(ctx context.Context, query string) (*domain.Booking, error) {
	atomic.AddInt32(&m.SearchCallCount, 1)
	if m.OnSearch != nil {
		m.OnSearch()
	}
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.bookings))
	for id := range m.bookings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if b := m.bookings[id]; b.Matches(query) {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockGateway) ListStationBookings(ctx context.Context, stationID string) ([]*domain.Booking, error) {
	atomic.AddInt32(&m.ListBookingsCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.StationID == stationID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockGateway) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	atomic.AddInt32(&m.ConfirmCallCount, 1)
	if m.ConfirmError != nil {
		return nil, m.ConfirmError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", backend.ErrNotFound, bookingID)
	}

	if b.Status == domain.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: booking %s is %s", backend.ErrRejected, bookingID, b.Status)
	}

	// Already checked: the real gateway turns the 409 into success.
	if !b.IsConfirmed() {
		b.Status = domain.BookingStatusChecked
		if m.CreateTransactionOnConfirm && m.openTransactionLocked(bookingID) == nil {
			id := "tx-" + bookingID
			m.transactions[id] = &domain.SwapTransaction{
				ID:            id,
				BookingID:     bookingID,
				StationID:     b.StationID,
				Amount:        decimal.RequireFromString("4.50"),
				Status:        domain.TransactionStatusPending,
				PaymentStatus: domain.PaymentStatusPending,
			}
		}
	}

	copy := *b
	return &copy, nil
}

func (m *MockGateway) GetTransactionByBooking(ctx context.Context, bookingID string) (*domain.SwapTransaction, error) {
	atomic.AddInt32(&m.GetTxByBookingCallCount, 1)
	if m.GetTxByBookingError != nil {
		return nil, m.GetTxByBookingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if tx := m.openTransactionLocked(bookingID); tx != nil {
		copy := *tx
		return &copy, nil
	}
	return nil, nil
}

func (m *MockGateway) openTransactionLocked(bookingID string) *domain.SwapTransaction {
	for _, tx := range m.transactions {
		if tx.BookingID == bookingID && !tx.IsTerminal() {
			return tx
		}
	}
	return nil
}

func (m *MockGateway) CompleteTransaction(ctx context.Context, req backend.CompleteTransactionRequest) (*domain.SwapTransaction, error) {
	atomic.AddInt32(&m.CompleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteRequests = append(m.CompleteRequests, req)

	if m.CompleteError != nil {
		return nil, m.CompleteError
	}

	tx, ok := m.transactions[req.TransactionID]
	if !ok {
		tx = &domain.SwapTransaction{
			ID:            req.TransactionID,
			BookingID:     req.BookingID,
			StationID:     req.StationID,
			Amount:        decimal.RequireFromString("4.50"),
			PaymentStatus: domain.PaymentStatusPending,
		}
		m.transactions[tx.ID] = tx
	}

	if tx.Status == domain.TransactionStatusCompleted {
		if tx.OldBatteryID != req.OldBatteryID || tx.NewBatteryID != req.NewBatteryID {
			return nil, fmt.Errorf("%w: completed with different batteries", backend.ErrRejected)
		}
		copy := *tx
		return &copy, nil
	}

	tx.OldBatteryID = req.OldBatteryID
	tx.NewBatteryID = req.NewBatteryID
	tx.Status = domain.TransactionStatusCompleted
	tx.CompletedAt = time.Now().UTC()

	if old, ok := m.batteries[req.OldBatteryID]; ok {
		old.Status = domain.BatteryStatusAvailable
	}
	if installed, ok := m.batteries[req.NewBatteryID]; ok {
		installed.Status = domain.BatteryStatusInUse
		if installed.SlotID != "" {
			if slot, ok := m.slots[installed.SlotID]; ok {
				slot.BatteryID = ""
			}
			installed.SlotID = ""
		}
	}

	copy := *tx
	return &copy, nil
}

func (m *MockGateway) InitiatePayment(ctx context.Context, transactionID, returnURL string) (*domain.PaymentSession, error) {
	atomic.AddInt32(&m.InitiatePaymentCallCount, 1)
	if m.InitiatePaymentError != nil {
		return nil, m.InitiatePaymentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[transactionID]; !ok {
		return nil, fmt.Errorf("%w: transaction %s", backend.ErrNotFound, transactionID)
	}
	return &domain.PaymentSession{
		TransactionID: transactionID,
		RedirectURL:   "https://pay.example.test/checkout/" + transactionID + "?return=" + returnURL,
		QRImage:       "qr-" + transactionID,
	}, nil
}

func (m *MockGateway) ListStationBatteries(ctx context.Context, stationID string) ([]*domain.Battery, error) {
	atomic.AddInt32(&m.ListBatteriesCallCount, 1)
	if m.ListBatteriesError != nil {
		return nil, m.ListBatteriesError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*domain.Battery
	for _, b := range m.batteries {
		if b.StationID == stationID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockGateway) AssignBattery(ctx context.Context, slotID, batteryID string, chargePercentage int) (*domain.SlotAssignment, error) {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return nil, m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("%w: slot %s", backend.ErrNotFound, slotID)
	}
	battery, ok := m.batteries[batteryID]
	if !ok {
		return nil, fmt.Errorf("%w: battery %s", backend.ErrNotFound, batteryID)
	}

	if slot.BatteryID == batteryID {
		return &domain.SlotAssignment{Slot: *slot, Battery: *battery}, nil
	}
	if slot.BatteryID != "" {
		return nil, fmt.Errorf("%w: slot %s is occupied", backend.ErrRejected, slotID)
	}

	if battery.SlotID != "" {
		if prev, ok := m.slots[battery.SlotID]; ok {
			prev.BatteryID = ""
		}
	}
	slot.BatteryID = batteryID
	battery.SlotID = slotID
	battery.ChargePercentage = chargePercentage

	result := &domain.SlotAssignment{Slot: *slot, Battery: *battery}
	if m.CorruptAssign {
		result.Battery.SlotID = slotID + "-other"
	}
	return result, nil
}

func (m *MockGateway) UpdatePercentage(ctx context.Context, batteryID string, chargePercentage int) (*domain.SlotAssignment, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	battery, ok := m.batteries[batteryID]
	if !ok {
		return nil, fmt.Errorf("%w: battery %s", backend.ErrNotFound, batteryID)
	}
	battery.ChargePercentage = chargePercentage

	result := &domain.SlotAssignment{Battery: *battery}
	if slot, ok := m.slots[battery.SlotID]; ok {
		result.Slot = *slot
	}
	return result, nil
}

func (m *MockGateway) RemoveBattery(ctx context.Context, batteryID string) (*domain.SlotAssignment, error) {
	atomic.AddInt32(&m.RemoveCallCount, 1)
	if m.RemoveError != nil {
		return nil, m.RemoveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	battery, ok := m.batteries[batteryID]
	if !ok {
		return nil, fmt.Errorf("%w: battery %s", backend.ErrNotFound, batteryID)
	}
	if battery.SlotID == "" {
		return &domain.SlotAssignment{Battery: *battery}, nil
	}

	slot := m.slots[battery.SlotID]
	slot.BatteryID = ""
	battery.SlotID = ""

	return &domain.SlotAssignment{Slot: *slot, Battery: *battery}, nil
}

// GetBooking returns a booking for test assertions.
func (m *MockGateway) GetBooking(id string) *domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

// GetTransaction returns a transaction for test assertions.
func (m *MockGateway) GetTransaction(id string) *domain.SwapTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transactions[id]
}

// CountOpenTransactions counts non-terminal transactions of a booking.
func (m *MockGateway) CountOpenTransactions(bookingID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.transactions {
		if tx.BookingID == bookingID && !tx.IsTerminal() {
			n++
		}
	}
	return n
}

// CountTransactions counts all transactions of a booking.
func (m *MockGateway) CountTransactions(bookingID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.transactions {
		if tx.BookingID == bookingID {
			n++
		}
	}
	return n
}

// SlotState returns a copy of a slot for test assertions.
func (m *MockGateway) SlotState(id string) *domain.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *m.slots[id]
	return &copy
}

// BatteryState returns a copy of a battery for test assertions.
func (m *MockGateway) BatteryState(id string) *domain.Battery {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *m.batteries[id]
	return &copy
}

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

// MockSessionStore is a mock implementation of SessionStore. Snapshots are
// stored as JSON so tests see what a real round trip would give back.
type MockSessionStore struct {
	mu      sync.Mutex
	entries map[domain.Operator][]byte

	// Counters
	SaveCallCount    int32
	RestoreCallCount int32
	ClearCallCount   int32

	// Error injection
	SaveError error
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		entries: make(map[domain.Operator][]byte),
	}
}

var _ redis.SessionStoreInterface = (*MockSessionStore)(nil)

func (m *MockSessionStore) Save(ctx context.Context, op domain.Operator, snapshot *domain.Snapshot) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	snapshot.CapturedAt = time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = snapshot.CapturedAt
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[op] = data
	return nil
}

func (m *MockSessionStore) Restore(ctx context.Context, op domain.Operator) (*domain.Snapshot, error) {
	atomic.AddInt32(&m.RestoreCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[op]
	if !ok {
		return nil, nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *MockSessionStore) Clear(ctx context.Context, op domain.Operator) error {
	atomic.AddInt32(&m.ClearCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, op)
	return nil
}

// Put stores a snapshot as is, without stamping it (for test setup).
func (m *MockSessionStore) Put(op domain.Operator, snapshot *domain.Snapshot) {
	data, _ := json.Marshal(snapshot)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[op] = data
}

// Stored returns the stored snapshot, or nil (for test assertions).
func (m *MockSessionStore) Stored(op domain.Operator) *domain.Snapshot {
	m.mu.Lock()
	data, ok := m.entries[op]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[domain.Operator]heldLock
	next  int

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

type heldLock struct {
	token  string
	expiry time.Time
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[domain.Operator]heldLock),
	}
}

var _ redis.LockStoreInterface = (*MockLockStore)(nil)

func (m *MockLockStore) AcquireSessionLock(ctx context.Context, op domain.Operator, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, exists := m.locks[op]; exists && time.Now().Before(held.expiry) {
		return "", false, nil // Lock still held.
	}
	m.next++
	token := fmt.Sprintf("lock-%d", m.next)
	m.locks[op] = heldLock{token: token, expiry: time.Now().Add(ttl)}
	return token, true, nil
}

func (m *MockLockStore) IsSessionLocked(ctx context.Context, op domain.Operator) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	held, exists := m.locks[op]
	return exists && time.Now().Before(held.expiry), nil
}

func (m *MockLockStore) ReleaseSessionLock(ctx context.Context, op domain.Operator, token string) (bool, error) {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, exists := m.locks[op]; !exists || held.token != token {
		return false, nil
	}
	delete(m.locks, op)
	return true, nil
}

// Hold takes the lock on behalf of another request (for test setup).
func (m *MockLockStore) Hold(op domain.Operator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[op] = heldLock{token: "held-elsewhere", expiry: time.Now().Add(time.Minute)}
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStore.
type MockCacheStore struct {
	mu        sync.Mutex
	batteries map[string][]*domain.Battery
	bookings  map[string][]*domain.Booking

	// Counters
	BatteryInvalidations int32
	BookingInvalidations int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		batteries: make(map[string][]*domain.Battery),
		bookings:  make(map[string][]*domain.Booking),
	}
}

var (
	_ redis.BatteryCacheInterface = (*MockCacheStore)(nil)
	_ redis.BookingCacheInterface = (*MockCacheStore)(nil)
)

func (m *MockCacheStore) GetStationBatteries(ctx context.Context, stationID string) ([]*domain.Battery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batteries[stationID], nil
}

func (m *MockCacheStore) SetStationBatteries(ctx context.Context, stationID string, batteries []*domain.Battery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batteries[stationID] = batteries
	return nil
}

func (m *MockCacheStore) InvalidateStationBatteries(ctx context.Context, stationID string) error {
	atomic.AddInt32(&m.BatteryInvalidations, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.batteries, stationID)
	return nil
}

func (m *MockCacheStore) GetStationBookings(ctx context.Context, stationID string) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[stationID], nil
}

func (m *MockCacheStore) SetStationBookings(ctx context.Context, stationID string, bookings []*domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[stationID] = bookings
	return nil
}

func (m *MockCacheStore) InvalidateStationBookings(ctx context.Context, stationID string) error {
	atomic.AddInt32(&m.BookingInvalidations, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, stationID)
	return nil
}

// HasStationBatteries reports whether a battery view is cached (for test assertions).
func (m *MockCacheStore) HasStationBatteries(stationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.batteries[stationID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK JOURNAL REPOSITORY
// ──────────────────────────────────────────────

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	mu      sync.Mutex
	entries []*domain.JournalEntry

	// Error injection
	AppendError error
}

// NewMockJournalRepository creates a new mock journal repository.
func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{}
}

var _ repository.JournalRepository = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) Append(ctx context.Context, entry *domain.JournalEntry) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockJournalRepository) ListByStation(ctx context.Context, stationID string, limit int) ([]*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.JournalEntry
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if m.entries[i].StationID == stationID {
			result = append(result, m.entries[i])
		}
	}
	return result, nil
}

func (m *MockJournalRepository) ListNeedingReconciliation(ctx context.Context, stationID string) ([]*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.JournalEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if e := m.entries[i]; e.StationID == stationID && e.NeedsReconciliation {
			result = append(result, e)
		}
	}
	return result, nil
}

// Events returns the recorded events in order (for test assertions).
func (m *MockJournalRepository) Events() []domain.JournalEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.JournalEvent, 0, len(m.entries))
	for _, e := range m.entries {
		events = append(events, e.Event)
	}
	return events
}

// ──────────────────────────────────────────────
// FIXTURE
// ──────────────────────────────────────────────

// Fixture bundles a check-in service with its mocks.
type Fixture struct {
	Gateway   *MockGateway
	Sessions  *MockSessionStore
	Locks     *MockLockStore
	Cache     *MockCacheStore
	Journal   *MockJournalRepository
	Inventory *service.InventoryGuard
	CheckIn   *service.CheckInService
	Operator  domain.Operator
}

// NewFixture wires a CheckInService against fresh mocks.
func NewFixture(cfg service.CheckInConfig) *Fixture {
	f := &Fixture{
		Gateway:  NewMockGateway(),
		Sessions: NewMockSessionStore(),
		Locks:    NewMockLockStore(),
		Cache:    NewMockCacheStore(),
		Journal:  NewMockJournalRepository(),
		Operator: domain.Operator{OperatorID: "op-1", StationID: "ST-1"},
	}
	f.Inventory = service.NewInventoryGuard(f.Gateway, f.Cache, nil)
	f.CheckIn = service.NewCheckInService(
		f.Gateway,
		f.Sessions,
		f.Locks,
		f.Cache,
		f.Inventory,
		f.Journal,
		service.NewNotificationService(nil),
		service.NewReceiptService(),
		cfg,
		nil,
	)
	return f
}

// NewBooking returns a booked reservation at ST-1.
func NewBooking(id string) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		CustomerID:    "cust-" + id,
		CustomerName:  "Minh Tran",
		VehicleID:     "veh-" + id,
		VehiclePlate:  "51F-123.45",
		StationID:     "ST-1",
		BatteryTypeID: "BT-48V",
		ScheduledAt:   time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
		Status:        domain.BookingStatusBooked,
	}
}
