package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/migrations"
	propertyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/property"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

type propertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	GetCohort(ctx context.Context, cohort domain.Cohort) ([]*domain.Property, error)
	ListActiveIDs(ctx context.Context) ([]int64, error)
	GetStats(ctx context.Context, propertyID int64, since time.Time) (*domain.PropertyStats, error)
}

type reservationRepository interface {
	LockProperty(ctx context.Context, propertyID int64) error
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID *int64) ([]*domain.Reservation, error)
	CountCreatedSince(ctx context.Context, propertyIDs []int64, since time.Time) (int, error)
	Cancel(ctx context.Context, id int64, refund domain.Refund, cancelledAt time.Time) error
	ExpirePending(ctx context.Context, createdBefore, now time.Time) ([]int64, error)
}

type availabilityRepository interface {
	GetRange(ctx context.Context, propertyID int64, from, to time.Time) ([]*domain.AvailabilityDay, error)
	GetBlockedDates(ctx context.Context, propertyID int64, from, to time.Time) ([]time.Time, error)
	UpsertDays(ctx context.Context, days []*domain.AvailabilityDay) error
	ApplyMutations(ctx context.Context, propertyID int64, mutations []domain.DayMutation, notes *string) error
}

type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage репозитории и менеджер транзакций выбранного драйвера
type storage struct {
	properties   propertyRepository
	reservations reservationRepository
	availability availabilityRepository
	txManager    transactionManager

	close func() error
}

func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stopMetricsCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return openMemory(cfg, log)
	default:
		return openPostgres(ctx, cfg, m, stopMetricsCh, log)
	}
}

func openMemory(cfg *config.Config, log *logger.Logger) (*storage, error) {
	store := memory.NewStore()
	if cfg.Storage.SeedFile != "" {
		n, err := store.LoadSeed(cfg.Storage.SeedFile)
		if err != nil {
			return nil, err
		}
		log.Info("Loaded %d properties from %s", n, cfg.Storage.SeedFile)
	}
	log.Info("Using in-memory storage")

	return &storage{
		properties:   store.Properties(),
		reservations: store.Reservations(),
		availability: store.Availability(),
		txManager:    memory.NewTransactionManager(store),
		close:        func() error { return nil },
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stopMetricsCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// База может подниматься дольше сервиса, поэтому пингуем с экспоненциальной задержкой
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Duration(cfg.Database.ConnectTimeout) * time.Second
	ping := func() error { return db.PingContext(ctx) }
	notify := func(err error, wait time.Duration) {
		log.Warn("Database is not ready, retry in %s: %v", wait, err)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Database migrations applied")
	}

	// Обёртка нужна всегда: txmanager работает через dbmetrics.TxExecutor
	var wrappedDB *dbmetrics.DB
	if m != nil {
		wrappedDB = dbmetrics.WrapWithDefault(db, m, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		properties:   propertyRepo.NewRepository(wrappedDB),
		reservations: reservationRepo.NewRepository(wrappedDB),
		availability: availabilityRepo.NewRepository(wrappedDB),
		txManager:    txmanager.NewTransactionManager(wrappedDB),
		close:        db.Close,
	}, nil
}
