package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
)

// AvailabilityRepository календарь в памяти
type AvailabilityRepository struct {
	store *Store

	// failOn позволяет тестам сымитировать ошибку записи конкретной даты
	failOn map[string]error
}

// Availability возвращает репозиторий календаря
func (s *Store) Availability() *AvailabilityRepository {
	return &AvailabilityRepository{store: s}
}

// FailOn заставляет запись даты завершаться ошибкой err
func (r *AvailabilityRepository) FailOn(date time.Time, err error) {
	if r.failOn == nil {
		r.failOn = make(map[string]error)
	}
	r.failOn[date.Format(domain.DateFormat)] = err
}

func key(propertyID int64, date time.Time) dayKey {
	return dayKey{propertyID: propertyID, date: domain.TruncateToDay(date).Format(domain.DateFormat)}
}

func (r *AvailabilityRepository) GetRange(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error) {
	s := r.store
	defer s.lock(ctx)()

	days := make([]*domain.AvailabilityDay, 0)
	for _, date := range domain.DatesInRange(from, to) {
		if day, ok := s.days[key(propertyID, date)]; ok {
			cp := copyDay(day)
			days = append(days, &cp)
		}
	}
	return days, nil
}

func (r *AvailabilityRepository) GetBlockedDates(ctx context.Context, propertyID int64, from, to time.Time) ([]time.Time, error) {
	s := r.store
	defer s.lock(ctx)()

	dates := make([]time.Time, 0)
	for k, day := range s.days {
		if k.propertyID != propertyID || !day.IsBlocked {
			continue
		}
		if !day.Date.Before(domain.TruncateToDay(from)) && day.Date.Before(domain.TruncateToDay(to)) {
			dates = append(dates, day.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (r *AvailabilityRepository) UpsertDays(ctx context.Context, days []*domain.AvailabilityDay) error {
	s := r.store
	defer s.lock(ctx)()

	for _, day := range days {
		if err := r.failure(day.Date); err != nil {
			return err
		}
		cp := copyDay(*day)
		cp.Date = domain.TruncateToDay(cp.Date)
		cp.UpdatedAt = s.now()
		s.days[key(day.PropertyID, day.Date)] = cp
	}
	return nil
}

func (r *AvailabilityRepository) ApplyMutations(ctx context.Context, propertyID int64, mutations []domain.DayMutation, notes *string) error {
	s := r.store
	defer s.lock(ctx)()

	for _, m := range mutations {
		if m.Action == nil {
			return availabilityRepo.ErrUnsupportedAction
		}
		if err := r.failure(m.Date); err != nil {
			return err
		}
		k := key(propertyID, m.Date)
		day, ok := s.days[k]
		if !ok {
			day = *domain.NewDefaultDay(propertyID, m.Date)
		}
		day = copyDay(day)
		m.Action.Apply(&day)
		if notes != nil {
			n := *notes
			day.Notes = &n
		}
		day.UpdatedAt = s.now()
		s.days[k] = day
	}
	return nil
}

func (r *AvailabilityRepository) failure(date time.Time) error {
	if r.failOn == nil {
		return nil
	}
	return r.failOn[domain.TruncateToDay(date).Format(domain.DateFormat)]
}

// copyDay отвязывает указатели от хранимой записи
func copyDay(day domain.AvailabilityDay) domain.AvailabilityDay {
	cp := day
	if day.Price != nil {
		v := *day.Price
		cp.Price = &v
	}
	if day.MinStay != nil {
		v := *day.MinStay
		cp.MinStay = &v
	}
	if day.AdvanceNoticeHours != nil {
		v := *day.AdvanceNoticeHours
		cp.AdvanceNoticeHours = &v
	}
	if day.Notes != nil {
		v := *day.Notes
		cp.Notes = &v
	}
	return cp
}
