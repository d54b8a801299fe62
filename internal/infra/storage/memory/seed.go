package memory

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ErrSeed ошибка загрузки начальных данных
var ErrSeed = errors.New("memory: failed to load seed")

type seedFile struct {
	Properties []seedProperty `toml:"properties"`
}

type seedProperty struct {
	ID           int64     `toml:"id"`
	HostID       int64     `toml:"host_id"`
	Title        string    `toml:"title"`
	City         string    `toml:"city"`
	State        string    `toml:"state"`
	Neighborhood string    `toml:"neighborhood"`
	PropertyType string    `toml:"property_type"`
	Bedrooms     int       `toml:"bedrooms"`
	Bathrooms    int       `toml:"bathrooms"`
	MaxGuests    int       `toml:"max_guests"`
	BasePrice    float64   `toml:"base_price"`
	MinStay      int       `toml:"min_stay"`
	MaxStay      int       `toml:"max_stay"`
	PetsAllowed  bool      `toml:"pets_allowed"`
	Amenities    []string  `toml:"amenities"`
	Inactive     bool      `toml:"inactive"`
	Ratings      []float64 `toml:"ratings"`
}

// LoadSeed загружает объекты и отзывы из toml-файла, возвращает число объектов
func (s *Store) LoadSeed(path string) (int, error) {
	var seed seedFile
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrSeed, path, err)
	}
	return s.seed(seed)
}

// LoadSeedString то же, что LoadSeed, но из строки
func (s *Store) LoadSeedString(data string) (int, error) {
	var seed seedFile
	if _, err := toml.Decode(data, &seed); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSeed, err)
	}
	return s.seed(seed)
}

func (s *Store) seed(seed seedFile) (int, error) {
	props := s.Properties()
	for i, sp := range seed.Properties {
		if sp.BasePrice <= 0 {
			return i, fmt.Errorf("%w: property #%d: base_price must be positive", ErrSeed, i+1)
		}
		minStay := sp.MinStay
		if minStay < 1 {
			minStay = 1
		}
		added := props.Add(&domain.Property{
			ID:     sp.ID,
			HostID: sp.HostID,
			Title:  sp.Title,
			Location: domain.Location{
				City:         sp.City,
				State:        sp.State,
				Neighborhood: sp.Neighborhood,
			},
			PropertyType: sp.PropertyType,
			Bedrooms:     sp.Bedrooms,
			Bathrooms:    sp.Bathrooms,
			MaxGuests:    sp.MaxGuests,
			BasePrice:    sp.BasePrice,
			MinStay:      minStay,
			MaxStay:      sp.MaxStay,
			PetsAllowed:  sp.PetsAllowed,
			Amenities:    sp.Amenities,
			IsActive:     !sp.Inactive,
		})
		for _, rating := range sp.Ratings {
			props.AddReview(added.ID, rating)
		}
	}
	return len(seed.Properties), nil
}
