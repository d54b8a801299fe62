package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
)

// ReservationRepository бронирования в памяти
type ReservationRepository struct {
	store *Store
}

// Reservations возвращает репозиторий бронирований
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

// LockProperty в памяти ничего не делает: транзакция уже держит общий мьютекс
func (r *ReservationRepository) LockProperty(ctx context.Context, propertyID int64) error {
	if owner, ok := ctx.Value(txKey{}).(*Store); !ok || owner != r.store {
		return fmt.Errorf("%w: LockProperty - called outside of transaction", reservationRepo.ErrLock)
	}
	return nil
}

// Create сохраняет бронирование, повторяя ограничение reservations_no_overlap
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s := r.store
	defer s.lock(ctx)()

	if res.IsBlocking() {
		for _, other := range s.reservations {
			if other.PropertyID == res.PropertyID && other.IsBlocking() && other.Overlaps(res.CheckIn, res.CheckOut) {
				return nil, fmt.Errorf("%w: Create - property_id=%d overlaps reservation id=%d",
					reservationRepo.ErrOverlap, res.PropertyID, other.ID)
			}
		}
	}

	s.nextReservationID++
	cp := *res
	cp.ID = s.nextReservationID
	cp.CheckIn = domain.TruncateToDay(res.CheckIn)
	cp.CheckOut = domain.TruncateToDay(res.CheckOut)
	cp.CreatedAt = s.now()
	cp.UpdatedAt = cp.CreatedAt
	s.reservations[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	s := r.store
	defer s.lock(ctx)()

	res, ok := s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *ReservationRepository) GetOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Reservation, 0)
	for _, res := range s.reservations {
		if res.PropertyID != propertyID || !res.IsBlocking() {
			continue
		}
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		if res.Overlaps(checkIn, checkOut) {
			cp := *res
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckIn.Before(result[j].CheckIn) })
	return result, nil
}

func (r *ReservationRepository) CountCreatedSince(ctx context.Context, propertyIDs []int64, since time.Time) (int, error) {
	s := r.store
	defer s.lock(ctx)()

	ids := make(map[int64]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		ids[id] = struct{}{}
	}

	count := 0
	for _, res := range s.reservations {
		if _, ok := ids[res.PropertyID]; ok && !res.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *ReservationRepository) Cancel(ctx context.Context, id int64, refund domain.Refund, cancelledAt time.Time) error {
	s := r.store
	defer s.lock(ctx)()

	res, ok := s.reservations[id]
	if !ok || !res.IsBlocking() {
		return reservationRepo.ErrReservationNotFound
	}
	cancel(res, refund, cancelledAt, s.now())
	return nil
}

func (r *ReservationRepository) ExpirePending(ctx context.Context, createdBefore, now time.Time) ([]int64, error) {
	s := r.store
	defer s.lock(ctx)()

	ids := make([]int64, 0)
	for id, res := range s.reservations {
		if res.Status == domain.StatusPending && res.CreatedAt.Before(createdBefore) {
			cancel(res, domain.Refund{}, now, s.now())
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// SetStatus меняет статус бронирования (подтверждение оплаты вне сервиса)
func (r *ReservationRepository) SetStatus(id int64, status domain.ReservationStatus) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if res, ok := s.reservations[id]; ok {
		res.Status = status
	}
}

func cancel(res *domain.Reservation, refund domain.Refund, cancelledAt, now time.Time) {
	percentage := refund.Percentage
	amount := refund.Amount
	at := cancelledAt
	res.Status = domain.StatusCancelled
	res.RefundPercentage = &percentage
	res.RefundAmount = &amount
	res.CancelledAt = &at
	res.UpdatedAt = now
}
