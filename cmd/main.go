package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applyCalendarRuleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/apply_calendar_rule"
	cancelReservationHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/cancel_reservation"
	checkAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/check_availability"
	createReservationHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_reservation"
	getCalendarHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_calendar"
	getPricingRecommendationsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_pricing_recommendations"
	getReservationHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_reservation"
	upsertCalendarDaysHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/upsert_calendar_days"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	memoryCache "github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/memory"
	redisCache "github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/redis"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/pricingadvisor"
	"github.com/m04kA/SMC-AvailabilityService/internal/scheduler"
	calendarService "github.com/m04kA/SMC-AvailabilityService/internal/service/calendar"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/cancellation"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/conflicts"
	marketService "github.com/m04kA/SMC-AvailabilityService/internal/service/market"
	pricingService "github.com/m04kA/SMC-AvailabilityService/internal/service/pricing"
	reservationsService "github.com/m04kA/SMC-AvailabilityService/internal/service/reservations"
	createReservationUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
	getPricingRecommendationsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_pricing_recommendations"
	repricePropertiesUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/reprice_properties"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from %s", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	store, err := openStorage(ctx, cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage (driver=%s): %v", cfg.Storage.Driver, err)
	}
	defer store.close()

	// Кэш рыночных снимков: redis, если включен, иначе LRU в памяти процесса
	var cache marketService.Cache
	if cfg.Redis.Enabled {
		rc := redisCache.New(redisCache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rc.Ping(ctx); err != nil {
			log.Fatal("Failed to connect to redis (addr=%s): %v", cfg.Redis.Addr, err)
		}
		defer rc.Close()
		cache = rc
		log.Info("Market cache: redis (addr=%s)", cfg.Redis.Addr)
	} else {
		lru, err := memoryCache.New(cfg.Market.CacheSize)
		if err != nil {
			log.Fatal("Failed to create market cache: %v", err)
		}
		cache = lru
		log.Info("Market cache: in-memory LRU (size=%d)", cfg.Market.CacheSize)
	}

	// Внешний советник по ценам (опционально)
	var advisor pricingService.Advisor
	if cfg.Advisor.Enabled {
		advisor = pricingadvisor.NewClient(
			cfg.Advisor.URL,
			time.Duration(cfg.Advisor.Timeout)*time.Second,
			log,
		)
		log.Info("Pricing advisor enabled (url=%s, timeout=%ds)", cfg.Advisor.URL, cfg.Advisor.Timeout)
	}

	// Инициализируем сервисы
	detector := conflicts.NewDetector(store.reservations, store.availability)
	policy := cancellation.NewPolicy(cfg.Booking.FreeCancellationHours, cfg.Booking.CheckInHour)

	calendarSvc := calendarService.NewService(
		store.availability,
		store.properties,
		store.txManager,
		log,
		calendarService.Config{MaxRangeDays: cfg.Calendar.MaxRangeDays},
	)
	reservationsSvc := reservationsService.NewService(
		store.reservations,
		store.properties,
		detector,
		policy,
		store.txManager,
		metricsCollector,
		&reservationsService.RealTimeProvider{},
		log,
		reservationsService.Config{
			MaxStayNights: cfg.Booking.MaxStayNights,
			PendingTTL:    cfg.Booking.PendingTTL,
		},
	)
	analyzer := marketService.NewAnalyzer(
		store.properties,
		store.reservations,
		cache,
		metricsCollector,
		&marketService.RealTimeProvider{},
		log,
		marketService.Config{
			CacheTTL:       cfg.Market.CacheTTL,
			BeachCities:    cfg.Market.BeachCities,
			MountainCities: cfg.Market.MountainCities,
		},
	)

	// Движок цен живет все время работы процесса
	engine := pricingService.NewEngine(
		advisor,
		metricsCollector,
		log,
		pricingService.Config{AdvisorTimeout: cfg.Pricing.AdvisorTimeout},
	)
	loader := pricingService.NewContextLoader(store.properties, analyzer, calendarSvc)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		store.properties,
		store.reservations,
		store.availability,
		detector,
		store.txManager,
		metricsCollector,
		log,
		createReservationUC.Config{
			MaxStayNights: cfg.Booking.MaxStayNights,
			CheckInHour:   cfg.Booking.CheckInHour,
		},
	)
	recommendationsUseCase := getPricingRecommendationsUC.NewUseCase(
		loader,
		engine,
		log,
		getPricingRecommendationsUC.Config{MaxRangeDays: cfg.Pricing.MaxRangeDays},
	)
	repriceUseCase := repricePropertiesUC.NewUseCase(
		store.properties,
		loader,
		engine,
		calendarSvc,
		metricsCollector,
		log,
		repricePropertiesUC.Config{
			HorizonDays: cfg.Jobs.RepriceHorizonDays,
			Concurrency: cfg.Jobs.RepriceConcurrency,
		},
	)

	// Фоновые задачи
	jobs := scheduler.New(log)
	if cfg.Jobs.RepriceEnabled {
		jobs.Add("reprice", cfg.Jobs.RepriceInterval, func(ctx context.Context) error {
			_, err := repriceUseCase.Execute(ctx)
			return err
		})
	}
	if cfg.Jobs.ExpireEnabled {
		jobs.Add("expire_pending", cfg.Jobs.ExpireInterval, func(ctx context.Context) error {
			_, err := reservationsSvc.ExpireStalePending(ctx)
			return err
		})
	}
	jobs.Start(ctx)

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(reservationsSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	applyCalendarRule := applyCalendarRuleHandler.NewHandler(calendarSvc, log)
	upsertCalendarDays := upsertCalendarDaysHandler.NewHandler(calendarSvc, log)
	getPricingRecommendations := getPricingRecommendationsHandler.NewHandler(recommendationsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка, свободен ли диапазон дат
	api.HandleFunc("/properties/{propertyId}/availability-check",
		checkAvailability.Handle).Methods(http.MethodGet)

	// Календарь объекта
	api.HandleFunc("/properties/{propertyId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Управление календарем и ценами (для хозяина объекта) ---
	protected.HandleFunc("/properties/{propertyId}/calendar/rules", applyCalendarRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/properties/{propertyId}/calendar/days", upsertCalendarDays.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/properties/{propertyId}/pricing/recommendations",
		getPricingRecommendations.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	stop()

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Фоновые задачи получили отмену вместе с ctx, дожидаемся текущих запусков
	jobs.Wait()
	log.Info("Background jobs stopped")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
