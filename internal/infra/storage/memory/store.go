package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type dayKey struct {
	propertyID int64
	date       string
}

type txKey struct{}

// Store хранилище в памяти процесса
// Реализует все репозитории, менеджер транзакций и блокировку объекта.
// Транзакция держит общий мьютекс целиком, поэтому любые проверки и записи внутри нее сериализованы
type Store struct {
	mu sync.Mutex

	properties   map[int64]*domain.Property
	reviews      map[int64][]float64
	days         map[dayKey]domain.AvailabilityDay
	reservations map[int64]*domain.Reservation

	nextPropertyID    int64
	nextReservationID int64

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		properties:   make(map[int64]*domain.Property),
		reviews:      make(map[int64][]float64),
		days:         make(map[dayKey]domain.AvailabilityDay),
		reservations: make(map[int64]*domain.Reservation),
		now:          time.Now,
	}
}

// SetClock подменяет источник времени (created_at, updated_at)
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// lock берет мьютекс, если вызов не внутри транзакции этого же хранилища
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	properties        map[int64]*domain.Property
	reviews           map[int64][]float64
	days              map[dayKey]domain.AvailabilityDay
	reservations      map[int64]*domain.Reservation
	nextPropertyID    int64
	nextReservationID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		properties:        make(map[int64]*domain.Property, len(s.properties)),
		reviews:           make(map[int64][]float64, len(s.reviews)),
		days:              make(map[dayKey]domain.AvailabilityDay, len(s.days)),
		reservations:      make(map[int64]*domain.Reservation, len(s.reservations)),
		nextPropertyID:    s.nextPropertyID,
		nextReservationID: s.nextReservationID,
	}
	for id, p := range s.properties {
		cp := *p
		snap.properties[id] = &cp
	}
	for id, r := range s.reviews {
		snap.reviews[id] = append([]float64(nil), r...)
	}
	for k, d := range s.days {
		snap.days[k] = d
	}
	for id, r := range s.reservations {
		cp := *r
		snap.reservations[id] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.properties = snap.properties
	s.reviews = snap.reviews
	s.days = snap.days
	s.reservations = snap.reservations
	s.nextPropertyID = snap.nextPropertyID
	s.nextReservationID = snap.nextReservationID
}

// TransactionManager менеджер транзакций поверх Store
type TransactionManager struct {
	store *Store
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

// Do выполняет fn атомарно: при ошибке все изменения откатываются
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == m.store {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, m.store)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// DoSerializable в памяти эквивалентен Do: транзакции и так выполняются по одной
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// DoReadOnly выполняет fn под общим мьютексом
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
