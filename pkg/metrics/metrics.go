package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tattoo_booking"

// Metrics набор prometheus метрик сервиса. Все методы безопасны для nil получателя
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbConnections   *prometheus.GaugeVec
	dbWaitCount     prometheus.Gauge

	slotsGenerated   *prometheus.CounterVec
	checkoutResults  *prometheus.CounterVec
	confirmOutcomes  *prometheus.CounterVec
	externalFailures *prometheus.CounterVec
}

// New создает и регистрирует метрики. nil registerer означает DefaultRegisterer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests by route template and status code",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency by route template",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Database query latency by statement kind",
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "connections",
			Help:        "Connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		slotsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "availability",
			Name:        "slots_generated_total",
			Help:        "Bookable slots emitted by availability queries",
			ConstLabels: constLabels,
		}, []string{"service_slug"}),
		checkoutResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "booking",
			Name:        "checkout_total",
			Help:        "Checkout admission attempts by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		confirmOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "booking",
			Name:        "confirmation_total",
			Help:        "Payment confirmations by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		externalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "external",
			Name:        "failures_total",
			Help:        "Failed calls to external providers",
			ConstLabels: constLabels,
		}, []string{"provider", "operation"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbConnections,
		m.dbWaitCount,
		m.slotsGenerated,
		m.checkoutResults,
		m.confirmOutcomes,
		m.externalFailures,
	)
	return m
}

// ObserveHTTPRequest учитывает завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil && err != sql.ErrNoRows {
		status = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет состояние пула соединений
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

// AddSlotsGenerated учитывает количество выданных слотов для услуги
func (m *Metrics) AddSlotsGenerated(serviceSlug string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.slotsGenerated.WithLabelValues(serviceSlug).Add(float64(n))
}

// IncCheckout учитывает результат попытки checkout (created, slot_taken, payment_failed, ...)
func (m *Metrics) IncCheckout(result string) {
	if m == nil {
		return
	}
	m.checkoutResults.WithLabelValues(result).Inc()
}

// IncConfirmation учитывает исход подтверждения оплаты
func (m *Metrics) IncConfirmation(outcome string) {
	if m == nil {
		return
	}
	m.confirmOutcomes.WithLabelValues(outcome).Inc()
}

// IncExternalFailure учитывает ошибку внешнего провайдера (google_calendar, stripe)
func (m *Metrics) IncExternalFailure(provider, operation string) {
	if m == nil {
		return
	}
	m.externalFailures.WithLabelValues(provider, operation).Inc()
}
