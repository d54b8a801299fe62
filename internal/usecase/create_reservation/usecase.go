package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	propertyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/property"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
)

// Config настройки создания бронирований
type Config struct {
	MaxStayNights int
	CheckInHour   int
}

// UseCase use case для создания бронирования, если даты свободны
type UseCase struct {
	propertyRepo     PropertyRepository
	reservationRepo  ReservationRepository
	availabilityRepo AvailabilityRepository
	detector         ConflictDetector
	txManager        TransactionManager
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
	cfg              Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	propertyRepo PropertyRepository,
	reservationRepo ReservationRepository,
	availabilityRepo AvailabilityRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *UseCase {
	if cfg.MaxStayNights <= 0 {
		cfg.MaxStayNights = domain.DefaultMaxStayNights
	}
	return &UseCase{
		propertyRepo:     propertyRepo,
		reservationRepo:  reservationRepo,
		availabilityRepo: availabilityRepo,
		detector:         detector,
		txManager:        txManager,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		cfg:              cfg,
	}
}

// Execute создает бронирование в статусе pending
// Проверка конфликтов и вставка выполняются под блокировкой объекта в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных (до обращения к хранилищу)
	now := uc.timeProvider.Now()
	if err := validateRequest(req, uc.cfg.MaxStayNights, now); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	checkIn, checkOut := domain.TruncateToDay(req.CheckIn), domain.TruncateToDay(req.CheckOut)
	nights := domain.DaysBetween(checkIn, checkOut)
	uc.logger.Info("CreateReservation: guest=%d property=%d %s..%s (%d nights, %d guests)",
		req.GuestID, req.PropertyID, checkIn.Format(domain.DateFormat), checkOut.Format(domain.DateFormat), nights, req.Guests)

	// 2. Получаем объект
	property, err := uc.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			uc.logger.Warn("CreateReservation: property id=%d not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("CreateReservation: failed to get property id=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get property: %v", ErrInternal, err)
	}

	// 3. Ограничения объекта
	if err := validateProperty(property, req.Guests, nights); err != nil {
		uc.logger.Warn("CreateReservation: property id=%d rejects request: %v", req.PropertyID, err)
		return nil, err
	}

	checkInInstant := checkIn.Add(time.Duration(uc.cfg.CheckInHour) * time.Hour)

	// 4. Проверка и вставка в сериализуемой транзакции
	var created *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// 4.1. Блокировка объекта до конца транзакции
		if err := uc.reservationRepo.LockProperty(ctx, property.ID); err != nil {
			return fmt.Errorf("%w: failed to lock property: %v", ErrInternal, err)
		}

		// 4.2. Календарь на ночи [checkIn, checkOut)
		days, err := uc.availabilityRepo.GetRange(ctx, property.ID, checkIn, checkOut.AddDate(0, 0, -1))
		if err != nil {
			return fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
		}

		// 4.3. Ограничения дня заезда
		if err := validateCheckInDay(findDay(days, checkIn), nights, checkInInstant, now); err != nil {
			return err
		}

		// 4.4. Конфликты с бронированиями и закрытыми днями
		report, err := uc.detector.Check(ctx, property.ID, checkIn, checkOut, nil)
		if err != nil {
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}
		if report.HasConflict() {
			uc.logger.Warn("CreateReservation: property id=%d unavailable, reservations=%v blocked=%d days",
				property.ID, report.ConflictingReservationIDs, len(report.BlockedDates))
			return ErrDatesUnavailable
		}

		// 4.5. Создаем бронирование
		created, err = uc.reservationRepo.Create(ctx, &domain.Reservation{
			PropertyID: property.ID,
			GuestID:    req.GuestID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Guests:     req.Guests,
			TotalPrice: totalPrice(property, days, checkIn, checkOut),
			Status:     domain.StatusPending,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				uc.logger.Warn("CreateReservation: overlap constraint for property id=%d: %v", property.ID, err)
				return ErrDatesUnavailable
			}
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDatesUnavailable) && uc.metrics != nil {
			uc.metrics.IncReservationConflict()
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateReservation: property id=%d: %v", property.ID, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d total=%.2f", created.ID, created.TotalPrice)
	return toResponse(created), nil
}

func findDay(days []*domain.AvailabilityDay, date time.Time) *domain.AvailabilityDay {
	for _, d := range days {
		if d.Date.Equal(date) {
			return d
		}
	}
	return nil
}

func toResponse(r *domain.Reservation) *Response {
	return &Response{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		GuestID:    r.GuestID,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		Nights:     r.Nights(),
		Guests:     r.Guests,
		TotalPrice: r.TotalPrice,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}
