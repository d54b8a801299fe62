package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	propertyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/property"
)

// Config ограничения календаря
type Config struct {
	MaxRangeDays int
}

// Service календарь доступности и цен по дням
type Service struct {
	availabilityRepo AvailabilityRepository
	propertyRepo     PropertyRepository
	txManager        TransactionManager
	logger           Logger
	cfg              Config
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	availabilityRepo AvailabilityRepository,
	propertyRepo PropertyRepository,
	txManager TransactionManager,
	logger Logger,
	cfg Config,
) *Service {
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = domain.DefaultMaxRangeDays
	}
	return &Service{
		availabilityRepo: availabilityRepo,
		propertyRepo:     propertyRepo,
		txManager:        txManager,
		logger:           logger,
		cfg:              cfg,
	}
}

// GetAvailability возвращает по одной записи на каждый день [from, to] включительно
// Дни без сохраненной записи синтезируются как доступные по базовой цене
func (s *Service) GetAvailability(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error) {
	from, to = domain.TruncateToDay(from), domain.TruncateToDay(to)
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}

	if _, err := s.getProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	stored, err := s.availabilityRepo.GetRange(ctx, propertyID, from, to)
	if err != nil {
		s.logger.Error("GetAvailability: repository error for property_id=%d: %v", propertyID, err)
		return nil, fmt.Errorf("%w: GetAvailability - repository error: %v", ErrInternal, err)
	}

	return fillRange(propertyID, from, to, stored), nil
}

// UpsertDay полностью перезаписывает один день календаря
func (s *Service) UpsertDay(ctx context.Context, userID int64, day *domain.AvailabilityDay) error {
	if day == nil {
		return fmt.Errorf("%w: day is required", ErrInvalidInput)
	}
	return s.BulkUpsert(ctx, userID, day.PropertyID, []*domain.AvailabilityDay{day})
}

// BulkUpsert перезаписывает набор дней атомарно: либо все дни, либо ни одного
func (s *Service) BulkUpsert(ctx context.Context, userID int64, propertyID int64, days []*domain.AvailabilityDay) error {
	s.logger.Info("BulkUpsert: property_id=%d user=%d days=%d", propertyID, userID, len(days))

	// 1. Проверяем все записи до записи в хранилище
	normalized, err := s.validateDays(propertyID, days)
	if err != nil {
		s.logger.Warn("BulkUpsert: validation failed for property_id=%d: %v", propertyID, err)
		return err
	}

	// 2. Проверяем, что пользователь хозяин объекта
	if err := s.checkOwner(ctx, propertyID, userID); err != nil {
		return err
	}

	// 3. Записываем одной транзакцией
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.availabilityRepo.UpsertDays(ctx, normalized)
	})
	if err != nil {
		s.logger.Error("BulkUpsert: failed to upsert %d days for property_id=%d: %v", len(normalized), propertyID, err)
		return fmt.Errorf("%w: BulkUpsert - upsert days: %v", ErrInternal, err)
	}

	s.logger.Info("BulkUpsert: property_id=%d updated %d days", propertyID, len(normalized))
	return nil
}

// ApplyRule разворачивает правило в даты и применяет его атомарно
// Возвращает число затронутых дней
func (s *Service) ApplyRule(ctx context.Context, userID int64, propertyID int64, rule domain.CalendarRule) (int, error) {
	ruleType := "<nil>"
	if rule.Action != nil {
		ruleType = string(rule.Action.Type())
	}
	s.logger.Info("ApplyRule: property_id=%d user=%d type=%s %s..%s",
		propertyID, userID, ruleType, rule.StartDate.Format(domain.DateFormat), rule.EndDate.Format(domain.DateFormat))

	// 1. Разворачиваем правило
	if rule.Notes != nil && len(*rule.Notes) > domain.MaxNotesLength {
		return 0, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidRule, domain.MaxNotesLength)
	}
	mutations, err := Expand(rule)
	if err != nil {
		s.logger.Warn("ApplyRule: invalid rule for property_id=%d: %v", propertyID, err)
		return 0, err
	}

	// 2. Проверяем права хозяина
	if err := s.checkOwner(ctx, propertyID, userID); err != nil {
		return 0, err
	}

	// 3. Применяем мутации одной транзакцией
	if err := s.applyMutations(ctx, propertyID, mutations, rule.Notes); err != nil {
		return 0, err
	}

	s.logger.Info("ApplyRule: property_id=%d type=%s touched %d days", propertyID, ruleType, len(mutations))
	return len(mutations), nil
}

// ApplyMutations применяет готовые мутации без проверки прав (служебные задачи)
func (s *Service) ApplyMutations(ctx context.Context, propertyID int64, mutations []domain.DayMutation) error {
	if len(mutations) == 0 {
		return nil
	}
	for _, m := range mutations {
		if m.Action == nil {
			return fmt.Errorf("%w: mutation for %s has no action", ErrInvalidInput, m.Date.Format(domain.DateFormat))
		}
	}
	return s.applyMutations(ctx, propertyID, mutations, nil)
}

func (s *Service) applyMutations(ctx context.Context, propertyID int64, mutations []domain.DayMutation, notes *string) error {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.availabilityRepo.ApplyMutations(ctx, propertyID, mutations, notes)
	})
	if err != nil {
		s.logger.Error("ApplyMutations: failed for property_id=%d (%d days): %v", propertyID, len(mutations), err)
		return fmt.Errorf("%w: ApplyMutations - repository error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) validateRange(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: 'to' %s is before 'from' %s", ErrInvalidRange, to.Format(domain.DateFormat), from.Format(domain.DateFormat))
	}
	if span := domain.DaysBetween(from, to) + 1; span > s.cfg.MaxRangeDays {
		return fmt.Errorf("%w: %d days requested, maximum is %d", ErrRangeTooWide, span, s.cfg.MaxRangeDays)
	}
	return nil
}

func (s *Service) validateDays(propertyID int64, days []*domain.AvailabilityDay) ([]*domain.AvailabilityDay, error) {
	if propertyID <= 0 {
		return nil, fmt.Errorf("%w: property id must be positive", ErrInvalidInput)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}
	if len(days) > s.cfg.MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days in one call, maximum is %d", ErrRangeTooWide, len(days), s.cfg.MaxRangeDays)
	}

	seen := make(map[string]struct{}, len(days))
	normalized := make([]*domain.AvailabilityDay, 0, len(days))
	for _, day := range days {
		if day == nil {
			return nil, fmt.Errorf("%w: day is required", ErrInvalidInput)
		}
		if day.PropertyID != 0 && day.PropertyID != propertyID {
			return nil, fmt.Errorf("%w: day belongs to property %d", ErrInvalidInput, day.PropertyID)
		}
		if day.Date.IsZero() {
			return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
		}
		date := domain.TruncateToDay(day.Date)
		key := date.Format(domain.DateFormat)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate date %s", ErrInvalidInput, key)
		}
		seen[key] = struct{}{}

		if day.Price != nil && *day.Price <= 0 {
			return nil, fmt.Errorf("%w: price for %s must be positive", ErrInvalidInput, key)
		}
		if day.MinStay != nil && *day.MinStay < 1 {
			return nil, fmt.Errorf("%w: min stay for %s must be at least 1", ErrInvalidInput, key)
		}
		if day.AdvanceNoticeHours != nil && *day.AdvanceNoticeHours < 0 {
			return nil, fmt.Errorf("%w: advance notice for %s must not be negative", ErrInvalidInput, key)
		}
		if day.Notes != nil && len(*day.Notes) > domain.MaxNotesLength {
			return nil, fmt.Errorf("%w: notes for %s exceed %d characters", ErrInvalidInput, key, domain.MaxNotesLength)
		}

		cp := *day
		cp.PropertyID = propertyID
		cp.Date = date
		normalized = append(normalized, &cp)
	}
	return normalized, nil
}

func (s *Service) getProperty(ctx context.Context, propertyID int64) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			s.logger.Warn("calendar: property_id=%d not found", propertyID)
			return nil, ErrPropertyNotFound
		}
		s.logger.Error("calendar: failed to get property_id=%d: %v", propertyID, err)
		return nil, fmt.Errorf("%w: get property: %v", ErrInternal, err)
	}
	return property, nil
}

func (s *Service) checkOwner(ctx context.Context, propertyID, userID int64) error {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if !property.IsOwnedBy(userID) {
		s.logger.Warn("calendar: user=%d is not the host of property_id=%d", userID, propertyID)
		return ErrAccessDenied
	}
	return nil
}

// fillRange дополняет сохраненные дни синтезированными до полного диапазона
func fillRange(propertyID int64, from, to time.Time, stored []*domain.AvailabilityDay) []*domain.AvailabilityDay {
	byDate := make(map[string]*domain.AvailabilityDay, len(stored))
	for _, day := range stored {
		byDate[domain.TruncateToDay(day.Date).Format(domain.DateFormat)] = day
	}

	dates := domain.DatesInRange(from, to)
	result := make([]*domain.AvailabilityDay, 0, len(dates))
	for _, date := range dates {
		if day, ok := byDate[date.Format(domain.DateFormat)]; ok {
			result = append(result, day)
			continue
		}
		result = append(result, domain.NewDefaultDay(propertyID, date))
	}
	return result
}
