package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-ресивера: компоненты могут работать без метрик
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbOpenConnections prometheus.Gauge
	dbInUse           prometheus.Gauge
	dbIdle            prometheus.Gauge
	dbWaitCount       prometheus.Gauge
	dbQueries         *prometheus.CounterVec

	reservationConflicts prometheus.Counter
	advisorFailures      *prometheus.CounterVec
	marketCache          *prometheus.CounterVec
	repricedProperties   *prometheus.CounterVec
	expiredReservations  prometheus.Counter
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Количество HTTP запросов",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Длительность обработки HTTP запросов",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Открытые соединения с БД",
			ConstLabels: labels,
		}),
		dbInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Занятые соединения с БД",
			ConstLabels: labels,
		}),
		dbIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Свободные соединения с БД",
			ConstLabels: labels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Сколько раз пришлось ждать соединение",
			ConstLabels: labels,
		}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Количество запросов к БД",
			ConstLabels: labels,
		}, []string{"kind", "status"}),
		reservationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "reservation_conflicts_total",
			Help:        "Отклоненные из-за пересечения бронирования",
			ConstLabels: labels,
		}),
		advisorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pricing_advisor_failures_total",
			Help:        "Ошибки и таймауты внешнего советника по ценам",
			ConstLabels: labels,
		}, []string{"reason"}),
		marketCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "market_snapshot_cache_total",
			Help:        "Обращения к кэшу рыночных снимков",
			ConstLabels: labels,
		}, []string{"result"}),
		repricedProperties: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "repriced_properties_total",
			Help:        "Результаты периодического пересчета цен",
			ConstLabels: labels,
		}, []string{"result"}),
		expiredReservations: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "expired_pending_reservations_total",
			Help:        "Отмененные по таймауту неоплаченные бронирования",
			ConstLabels: labels,
		}),
	}

	prometheus.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbOpenConnections,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitCount,
		m.dbQueries,
		m.reservationConflicts,
		m.advisorFailures,
		m.marketCache,
		m.repricedProperties,
		m.expiredReservations,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.Set(float64(open))
	m.dbInUse.Set(float64(inUse))
	m.dbIdle.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// IncDBQuery фиксирует запрос к БД
func (m *Metrics) IncDBQuery(kind string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueries.WithLabelValues(kind, status).Inc()
}

// IncReservationConflict фиксирует отказ в бронировании из-за занятых дат
func (m *Metrics) IncReservationConflict() {
	if m == nil {
		return
	}
	m.reservationConflicts.Inc()
}

// IncAdvisorFailure фиксирует ошибку или таймаут советника
func (m *Metrics) IncAdvisorFailure(reason string) {
	if m == nil {
		return
	}
	m.advisorFailures.WithLabelValues(reason).Inc()
}

// IncMarketCache фиксирует попадание (hit) или промах (miss) кэша
func (m *Metrics) IncMarketCache(result string) {
	if m == nil {
		return
	}
	m.marketCache.WithLabelValues(result).Inc()
}

// IncRepriced фиксирует результат пересчета цен по объекту
func (m *Metrics) IncRepriced(result string) {
	if m == nil {
		return
	}
	m.repricedProperties.WithLabelValues(result).Inc()
}

// AddExpiredReservations фиксирует количество отмененных по таймауту бронирований
func (m *Metrics) AddExpiredReservations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.expiredReservations.Add(float64(n))
}
