package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

var columns = []string{
	"id",
	"property_id",
	"guest_id",
	"check_in",
	"check_out",
	"guests",
	"total_price",
	"status",
	"refund_percentage",
	"refund_amount",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockProperty берет advisory lock объекта до конца текущей транзакции
// Все проверки доступности и вставки брони по одному объекту выполняются строго по очереди
func (r *Repository) LockProperty(ctx context.Context, propertyID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockProperty - called outside of transaction", ErrLock)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", propertyID); err != nil {
		return fmt.Errorf("%w: LockProperty - property_id=%d: %v", ErrLock, propertyID, err)
	}
	return nil
}

// Create создает бронирование
// Пересечение с другой блокирующей бронью отсекается ограничением reservations_no_overlap
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"property_id",
			"guest_id",
			"check_in",
			"check_out",
			"guests",
			"total_price",
			"status",
		).
		Values(
			res.PropertyID,
			res.GuestID,
			res.CheckIn.Format(domain.DateFormat),
			res.CheckOut.Format(domain.DateFormat),
			res.Guests,
			res.TotalPrice,
			res.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code == pgExclusionViolation || pqErr.Code == pgUniqueViolation) {
			return nil, fmt.Errorf("%w: Create - property_id=%d: %v", ErrOverlap, res.PropertyID, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetOverlapping возвращает блокирующие бронирования, пересекающие [checkIn, checkOut)
// excludeID позволяет исключить бронирование, которое сейчас изменяется
func (r *Repository) GetOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"property_id": propertyID}).
		Where(squirrel.Eq{"status": blockingStatuses()}).
		// пересечение полуоткрытых интервалов: a1 < b2 AND b1 < a2
		Where(squirrel.Lt{"check_in": checkOut.Format(domain.DateFormat)}).
		Where(squirrel.Gt{"check_out": checkIn.Format(domain.DateFormat)}).
		OrderBy("check_in ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// CountCreatedSince считает бронирования объектов, созданные начиная с since
func (r *Repository) CountCreatedSince(ctx context.Context, propertyIDs []int64, since time.Time) (int, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"property_id": propertyIDs}).
		Where(squirrel.GtOrEq{"created_at": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountCreatedSince - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountCreatedSince - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// Cancel переводит блокирующее бронирование в cancelled и сохраняет возврат
func (r *Repository) Cancel(ctx context.Context, id int64, refund domain.Refund, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("refund_percentage", refund.Percentage).
		Set("refund_amount", refund.Amount).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": blockingStatuses()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ExpirePending отменяет неоплаченные бронирования, созданные раньше createdBefore
// Возвращает ID отмененных бронирований
func (r *Repository) ExpirePending(ctx context.Context, createdBefore, now time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("refund_percentage", 0).
		Set("refund_amount", 0).
		Set("cancelled_at", now).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExpirePending - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpirePending - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ExpirePending - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpirePending - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

func blockingStatuses() []string {
	statuses := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var refundPercentage sql.NullInt64
	var refundAmount sql.NullFloat64
	var cancelledAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.PropertyID,
		&res.GuestID,
		&res.CheckIn,
		&res.CheckOut,
		&res.Guests,
		&res.TotalPrice,
		&res.Status,
		&refundPercentage,
		&refundAmount,
		&cancelledAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CheckIn = domain.TruncateToDay(res.CheckIn)
	res.CheckOut = domain.TruncateToDay(res.CheckOut)
	if refundPercentage.Valid {
		p := int(refundPercentage.Int64)
		res.RefundPercentage = &p
	}
	if refundAmount.Valid {
		res.RefundAmount = &refundAmount.Float64
	}
	if cancelledAt.Valid {
		res.CancelledAt = &cancelledAt.Time
	}

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
