package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	propertyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/property"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
)

// Config настройки бронирований
type Config struct {
	MaxStayNights int
	PendingTTL    time.Duration
}

// Service сервис для работы с бронированиями
type Service struct {
	reservationRepo ReservationRepository
	propertyRepo    PropertyRepository
	detector        ConflictDetector
	policy          CancellationPolicy
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
	cfg             Config
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	propertyRepo PropertyRepository,
	detector ConflictDetector,
	policy CancellationPolicy,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
	cfg Config,
) *Service {
	if cfg.MaxStayNights <= 0 {
		cfg.MaxStayNights = domain.DefaultMaxStayNights
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = domain.DefaultPendingTTL
	}
	return &Service{
		reservationRepo: reservationRepo,
		propertyRepo:    propertyRepo,
		detector:        detector,
		policy:          policy,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
		cfg:             cfg,
	}
}

// CheckAvailability true, если диапазон [checkIn, checkOut) можно забронировать
// Диапазон проверяется до обращения к хранилищу
func (s *Service) CheckAvailability(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (bool, error) {
	checkIn, checkOut = domain.TruncateToDay(checkIn), domain.TruncateToDay(checkOut)
	if propertyID <= 0 {
		return false, fmt.Errorf("%w: property id must be positive", ErrInvalidInput)
	}
	if !checkOut.After(checkIn) {
		return false, fmt.Errorf("%w: check-out must be after check-in", ErrInvalidInput)
	}
	if nights := domain.DaysBetween(checkIn, checkOut); nights > s.cfg.MaxStayNights {
		return false, fmt.Errorf("%w: stay of %d nights exceeds maximum of %d", ErrInvalidInput, nights, s.cfg.MaxStayNights)
	}

	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return false, err
	}
	if !property.IsActive {
		return false, nil
	}

	conflict, err := s.detector.HasConflict(ctx, propertyID, checkIn, checkOut, nil)
	if err != nil {
		s.logger.Error("CheckAvailability: conflict check failed for property_id=%d: %v", propertyID, err)
		return false, fmt.Errorf("%w: CheckAvailability - conflict check: %v", ErrInternal, err)
	}

	return !conflict, nil
}

// GetByID получает бронирование по ID
// Видеть бронирование может гость или хозяин объекта
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, reservation, userID); err != nil {
		return nil, err
	}

	return models.FromDomainReservation(reservation), nil
}

// Cancel отменяет бронирование и фиксирует возврат
// Отменить может гость или хозяин объекта, только пока бронирование занимает даты
func (s *Service) Cancel(ctx context.Context, id int64, userID int64, cancelledAt time.Time) (*models.CancelResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d at %s", id, userID, cancelledAt.Format(time.RFC3339))

	var result *models.CancelResponse
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Бронирование (под блокировкой строки)
		reservation, err := s.getReservation(ctx, id)
		if err != nil {
			return err
		}

		// 2. Права
		if err := s.checkAccess(ctx, reservation, userID); err != nil {
			return err
		}

		// 3. Статус
		if !reservation.CanBeCancelled() {
			s.logger.Warn("Cancel: reservation id=%d has status %s", id, reservation.Status)
			return fmt.Errorf("%w: status is %s", ErrCannotCancel, reservation.Status)
		}

		// 4. Возврат и запись
		refund := s.policy.Refund(reservation, cancelledAt)
		if err := s.reservationRepo.Cancel(ctx, id, refund, cancelledAt); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return fmt.Errorf("%w: status changed concurrently", ErrCannotCancel)
			}
			s.logger.Error("Cancel: repository error for reservation id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		result = &models.CancelResponse{
			ReservationID:    id,
			Status:           string(domain.StatusCancelled),
			RefundPercentage: refund.Percentage,
			RefundAmount:     refund.Amount,
			CancelledAt:      cancelledAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: reservation id=%d cancelled, refund %d%% (%.2f)", id, result.RefundPercentage, result.RefundAmount)
	return result, nil
}

// ExpireStalePending отменяет неоплаченные бронирования старше PendingTTL и освобождает их даты
func (s *Service) ExpireStalePending(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	cutoff := now.Add(-s.cfg.PendingTTL)

	ids, err := s.reservationRepo.ExpirePending(ctx, cutoff, now)
	if err != nil {
		s.logger.Error("ExpireStalePending: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpireStalePending - repository error: %v", ErrInternal, err)
	}

	if len(ids) > 0 {
		s.logger.Info("ExpireStalePending: expired %d pending reservations created before %s: %v",
			len(ids), cutoff.Format(time.RFC3339), ids)
		if s.metrics != nil {
			s.metrics.AddExpiredReservations(len(ids))
		}
	}
	return len(ids), nil
}

func (s *Service) getReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("reservations: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("reservations: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get reservation: %v", ErrInternal, err)
	}
	return reservation, nil
}

func (s *Service) getProperty(ctx context.Context, id int64) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			return nil, ErrPropertyNotFound
		}
		s.logger.Error("reservations: repository error for property id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get property: %v", ErrInternal, err)
	}
	return property, nil
}

// checkAccess гость бронирования или хозяин объекта
func (s *Service) checkAccess(ctx context.Context, reservation *domain.Reservation, userID int64) error {
	if reservation.GuestID == userID {
		return nil
	}

	property, err := s.getProperty(ctx, reservation.PropertyID)
	if err != nil {
		return err
	}
	if property.IsOwnedBy(userID) {
		return nil
	}

	s.logger.Warn("reservations: access denied for user=%d to reservation id=%d", userID, reservation.ID)
	return ErrAccessDenied
}
