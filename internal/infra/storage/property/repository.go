package property

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"host_id",
	"title",
	"city",
	"state",
	"neighborhood",
	"property_type",
	"bedrooms",
	"bathrooms",
	"max_guests",
	"base_price",
	"min_stay",
	"max_stay",
	"pets_allowed",
	"amenities",
	"is_active",
}

// Repository репозиторий объектов размещения (только чтение, CRUD объектов вне сервиса)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория объектов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает объект по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("properties").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanProperty(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan property: %v", ErrScanRow, err)
	}

	return p, nil
}

// GetCohort возвращает активные объекты когорты (город, штат, тип, число спален)
// Сравнение строк без учета регистра
func (r *Repository) GetCohort(ctx context.Context, cohort domain.Cohort) ([]*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("properties").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Expr("LOWER(city) = ?", strings.ToLower(cohort.City))).
		Where(squirrel.Expr("LOWER(state) = ?", strings.ToLower(cohort.State))).
		Where(squirrel.Expr("LOWER(property_type) = ?", strings.ToLower(cohort.PropertyType))).
		Where(squirrel.Eq{"bedrooms": cohort.Bedrooms}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCohort - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCohort - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	properties := make([]*domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetCohort - scan row: %v", ErrScanRow, err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCohort - rows error: %v", ErrScanRow, err)
	}

	return properties, nil
}

// ListActiveIDs возвращает ID всех активных объектов
func (r *Repository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("properties").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListActiveIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// GetStats возвращает рейтинг, число отзывов и число бронирований объекта, созданных начиная с since
func (r *Repository) GetStats(ctx context.Context, propertyID int64, since time.Time) (*domain.PropertyStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE((SELECT AVG(rating) FROM reviews WHERE property_id = p.id), 0)",
		"(SELECT COUNT(*) FROM reviews WHERE property_id = p.id)",
	).
		Column(squirrel.Expr("(SELECT COUNT(*) FROM reservations WHERE property_id = p.id AND created_at >= ?)", since)).
		From("properties p").
		Where(squirrel.Eq{"p.id": propertyID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.PropertyStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.AverageRating,
		&stats.ReviewCount,
		&stats.TrailingBookings,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - scan stats: %v", ErrScanRow, err)
	}

	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	var p domain.Property
	var amenities pq.StringArray

	err := row.Scan(
		&p.ID,
		&p.HostID,
		&p.Title,
		&p.Location.City,
		&p.Location.State,
		&p.Location.Neighborhood,
		&p.PropertyType,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.MaxGuests,
		&p.BasePrice,
		&p.MinStay,
		&p.MaxStay,
		&p.PetsAllowed,
		&amenities,
		&p.IsActive,
	)
	if err != nil {
		return nil, err
	}

	p.Amenities = []string(amenities)
	return &p, nil
}
