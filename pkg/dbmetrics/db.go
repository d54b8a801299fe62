package dbmetrics

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
)

const defaultStatsInterval = 15 * time.Second

// Recorder получатель метрик БД
// *metrics.Metrics реализует этот интерфейс
type Recorder interface {
	IncDBQuery(kind string, err error)
	SetDBStats(open, inUse, idle int, waitCount int64)
}

// DB обёртка над *sql.DB, считающая запросы
type DB struct {
	db      *sql.DB
	metrics Recorder
}

// Wrap оборачивает соединение, metrics может быть nil
func Wrap(db *sql.DB, metrics Recorder) *DB {
	return &DB{db: db, metrics: metrics}
}

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула
// Сбор останавливается при закрытии stopCh
func WrapWithDefault(db *sql.DB, metrics Recorder, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, metrics)
	if metrics != nil {
		go collectPoolStats(db, metrics, defaultStatsInterval, stopCh)
	}
	return wrapped
}

// Unwrap возвращает исходное соединение (для миграций)
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	d.record(query, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.record(query, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	row := d.db.QueryRowContext(ctx, query, args...)
	d.record(query, row.Err())
	return row
}

// BeginTx начинает транзакцию
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	d.record("begin", err)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, metrics: d.metrics}, nil
}

func (d *DB) record(query string, err error) {
	if d.metrics == nil {
		return
	}
	d.metrics.IncDBQuery(queryKind(query), err)
}

// Tx транзакция с учетом метрик
// Запоминает первую ошибку Postgres, чтобы менеджер транзакций мог решить, нужен ли повтор
type Tx struct {
	tx      *sql.Tx
	metrics Recorder

	mu      sync.Mutex
	failure *pq.Error
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.record(query, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.record(query, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.record(query, row.Err())
	return row
}

func (t *Tx) Commit() error {
	err := t.tx.Commit()
	t.record("commit", err)
	return err
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Failure возвращает первую ошибку Postgres, случившуюся в транзакции
func (t *Tx) Failure() *pq.Error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failure
}

func (t *Tx) record(query string, err error) {
	if t.metrics != nil {
		t.metrics.IncDBQuery(queryKind(query), err)
	}
	if err == nil {
		return
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		t.mu.Lock()
		if t.failure == nil {
			t.failure = pqErr
		}
		t.mu.Unlock()
	}
}

// queryKind первое слово запроса: select, insert, update...
func queryKind(query string) string {
	query = strings.TrimSpace(query)
	if i := strings.IndexAny(query, " \n\t("); i > 0 {
		query = query[:i]
	}
	if query == "" {
		return "unknown"
	}
	return strings.ToLower(query)
}

func collectPoolStats(db *sql.DB, metrics Recorder, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := db.Stats()
			metrics.SetDBStats(stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount)
		}
	}
}
