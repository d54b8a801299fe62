package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

const (
	defaultMaxRetries      = 3
	defaultInitialInterval = 20 * time.Millisecond
	defaultMaxInterval     = 300 * time.Millisecond
)

var (
	// ErrBeginTx возвращается, когда не удалось начать транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, когда не удалось закоммитить транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// failureReporter транзакция, которая помнит ошибку Postgres
type failureReporter interface {
	Failure() *pq.Error
}

// TransactionManager выполняет функции в транзакции, положенной в контекст
// Вложенный вызов переиспользует уже открытую транзакцию
type TransactionManager struct {
	db         TxBeginner
	maxRetries uint64
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{
		db:         db,
		maxRetries: defaultMaxRetries,
	}
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
	return err
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
	return err
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// При конфликте сериализации (40001) или дедлоке (40P01) транзакция повторяется целиком
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = defaultInitialInterval
	policy.MaxInterval = defaultMaxInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, m.maxRetries), ctx)

	return backoff.Retry(func() error {
		retryable, err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil {
			return nil
		}
		if retryable {
			return err
		}
		return backoff.Permanent(err)
	}, retry)
}

// run открывает транзакцию, выполняет fn и коммитит
// Возвращает признак того, что ошибку можно устранить повтором
func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (retryable bool, err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return false, fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return isRetryable(tx, err), err
	}

	if err = tx.Commit(); err != nil {
		return isRetryable(tx, err), fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return false, nil
}

// IsSerializationFailure проверяет, что ошибка вызвана конфликтом сериализации или дедлоком
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return isRetryableCode(pqErr.Code)
}

func isRetryable(tx dbmetrics.TxExecutor, err error) bool {
	if IsSerializationFailure(err) {
		return true
	}
	if reporter, ok := tx.(failureReporter); ok {
		if failure := reporter.Failure(); failure != nil {
			return isRetryableCode(failure.Code)
		}
	}
	return false
}

func isRetryableCode(code pq.ErrorCode) bool {
	return code == "40001" || code == "40P01"
}
