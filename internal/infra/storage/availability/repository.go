package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// batchSize максимальное число строк в одном INSERT
const batchSize = 500

// Repository репозиторий календаря доступности
// Строки создаются лениво при первой записи и никогда не удаляются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRange возвращает сохраненные дни объекта в диапазоне [from, to] включительно
// Дни без строки в таблице не возвращаются
func (r *Repository) GetRange(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"property_id",
		"date",
		"is_blocked",
		"price",
		"min_stay",
		"advance_notice_hours",
		"notes",
		"updated_at",
	).
		From("availability_days").
		Where(squirrel.Eq{"property_id": propertyID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.AvailabilityDay, 0)
	for rows.Next() {
		var day domain.AvailabilityDay
		var price sql.NullFloat64
		var minStay, advanceNotice sql.NullInt64
		var notes sql.NullString

		if err := rows.Scan(
			&day.PropertyID,
			&day.Date,
			&day.IsBlocked,
			&price,
			&minStay,
			&advanceNotice,
			&notes,
			&day.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetRange - scan row: %v", ErrScanRow, err)
		}

		day.Date = domain.TruncateToDay(day.Date)
		if price.Valid {
			day.Price = &price.Float64
		}
		if minStay.Valid {
			v := int(minStay.Int64)
			day.MinStay = &v
		}
		if advanceNotice.Valid {
			v := int(advanceNotice.Int64)
			day.AdvanceNoticeHours = &v
		}
		if notes.Valid {
			day.Notes = &notes.String
		}

		days = append(days, &day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRange - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// GetBlockedDates возвращает заблокированные даты объекта в полуоткрытом диапазоне [from, to)
func (r *Repository) GetBlockedDates(ctx context.Context, propertyID int64, from, to time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date").
		From("availability_days").
		Where(squirrel.Eq{"property_id": propertyID, "is_blocked": true}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: GetBlockedDates - scan date: %v", ErrScanRow, err)
		}
		dates = append(dates, domain.TruncateToDay(d))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// UpsertDays полностью перезаписывает переданные дни
// Атомарность нескольких пачек обеспечивает вызывающий через транзакцию в контексте
func (r *Repository) UpsertDays(ctx context.Context, days []*domain.AvailabilityDay) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for start := 0; start < len(days); start += batchSize {
		end := min(start+batchSize, len(days))

		insert := psqlbuilder.Insert("availability_days").
			Columns(
				"property_id",
				"date",
				"is_blocked",
				"price",
				"min_stay",
				"advance_notice_hours",
				"notes",
				"updated_at",
			)

		for _, day := range days[start:end] {
			insert = insert.Values(
				day.PropertyID,
				day.Date.Format(domain.DateFormat),
				day.IsBlocked,
				day.Price,
				day.MinStay,
				day.AdvanceNoticeHours,
				day.Notes,
				squirrel.Expr("NOW()"),
			)
		}

		query, args, err := insert.
			Suffix(`ON CONFLICT (property_id, date) DO UPDATE SET
				is_blocked = EXCLUDED.is_blocked,
				price = EXCLUDED.price,
				min_stay = EXCLUDED.min_stay,
				advance_notice_hours = EXCLUDED.advance_notice_hours,
				notes = EXCLUDED.notes,
				updated_at = EXCLUDED.updated_at`).
			ToSql()

		if err != nil {
			return fmt.Errorf("%w: UpsertDays - build upsert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpsertDays - execute upsert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// ApplyMutations записывает мутации правила, меняя только колонку, принадлежащую действию
// Остальные поля существующих дней не трогаются, новые дни получают значения по умолчанию
func (r *Repository) ApplyMutations(ctx context.Context, propertyID int64, mutations []domain.DayMutation, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for start := 0; start < len(mutations); start += batchSize {
		end := min(start+batchSize, len(mutations))
		batch := mutations[start:end]

		column, err := actionColumn(batch[0].Action)
		if err != nil {
			return err
		}

		insert := psqlbuilder.Insert("availability_days").
			Columns("property_id", "date", column, "notes", "updated_at")

		for _, m := range batch {
			mColumn, err := actionColumn(m.Action)
			if err != nil {
				return err
			}
			if mColumn != column {
				return fmt.Errorf("%w: ApplyMutations - mixed actions in one call", ErrUnsupportedAction)
			}
			insert = insert.Values(propertyID, m.Date.Format(domain.DateFormat), actionValue(m.Action), notes, squirrel.Expr("NOW()"))
		}

		query, args, err := insert.
			Suffix(fmt.Sprintf(`ON CONFLICT (property_id, date) DO UPDATE SET
				%[1]s = EXCLUDED.%[1]s,
				notes = COALESCE(EXCLUDED.notes, availability_days.notes),
				updated_at = EXCLUDED.updated_at`, column)).
			ToSql()

		if err != nil {
			return fmt.Errorf("%w: ApplyMutations - build upsert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ApplyMutations - execute upsert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// actionColumn колонка availability_days, которой владеет действие
func actionColumn(action domain.RuleAction) (string, error) {
	switch action.(type) {
	case domain.BlockAction, domain.UnblockAction:
		return "is_blocked", nil
	case domain.PriceOverrideAction:
		return "price", nil
	case domain.MinStayAction:
		return "min_stay", nil
	case domain.AdvanceNoticeAction:
		return "advance_notice_hours", nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedAction, action)
	}
}

func actionValue(action domain.RuleAction) interface{} {
	switch a := action.(type) {
	case domain.BlockAction:
		return true
	case domain.UnblockAction:
		return false
	case domain.PriceOverrideAction:
		return a.Price
	case domain.MinStayAction:
		return a.Nights
	case domain.AdvanceNoticeAction:
		return a.Hours
	default:
		return nil
	}
}
