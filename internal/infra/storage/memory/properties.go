package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	propertyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/property"
)

// PropertyRepository объекты размещения в памяти
type PropertyRepository struct {
	store *Store
}

// Properties возвращает репозиторий объектов
func (s *Store) Properties() *PropertyRepository {
	return &PropertyRepository{store: s}
}

// Add добавляет объект, ID назначается, если не задан
func (r *PropertyRepository) Add(p *domain.Property) *domain.Property {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.Amenities = append([]string(nil), p.Amenities...)
	if cp.ID == 0 {
		s.nextPropertyID++
		cp.ID = s.nextPropertyID
	} else if cp.ID > s.nextPropertyID {
		s.nextPropertyID = cp.ID
	}
	s.properties[cp.ID] = &cp

	out := cp
	return &out
}

// AddReview добавляет отзыв с оценкой объекту
func (r *PropertyRepository) AddReview(propertyID int64, rating float64) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[propertyID] = append(s.reviews[propertyID], rating)
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	s := r.store
	defer s.lock(ctx)()

	p, ok := s.properties[id]
	if !ok {
		return nil, propertyRepo.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PropertyRepository) GetCohort(ctx context.Context, cohort domain.Cohort) ([]*domain.Property, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Property, 0)
	for _, p := range s.properties {
		if !p.IsActive || p.Bedrooms != cohort.Bedrooms {
			continue
		}
		if !strings.EqualFold(p.Location.City, cohort.City) ||
			!strings.EqualFold(p.Location.State, cohort.State) ||
			!strings.EqualFold(p.PropertyType, cohort.PropertyType) {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *PropertyRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	s := r.store
	defer s.lock(ctx)()

	ids := make([]int64, 0, len(s.properties))
	for id, p := range s.properties {
		if p.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *PropertyRepository) GetStats(ctx context.Context, propertyID int64, since time.Time) (*domain.PropertyStats, error) {
	s := r.store
	defer s.lock(ctx)()

	if _, ok := s.properties[propertyID]; !ok {
		return nil, propertyRepo.ErrPropertyNotFound
	}

	stats := &domain.PropertyStats{}
	if ratings := s.reviews[propertyID]; len(ratings) > 0 {
		var sum float64
		for _, rating := range ratings {
			sum += rating
		}
		stats.AverageRating = sum / float64(len(ratings))
		stats.ReviewCount = len(ratings)
	}
	for _, res := range s.reservations {
		if res.PropertyID == propertyID && !res.CreatedAt.Before(since) {
			stats.TrailingBookings++
		}
	}
	return stats, nil
}
