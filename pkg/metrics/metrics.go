package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	AllocationRuns        *prometheus.CounterVec
	AllocatedBookings     prometheus.Counter
	AvailabilityDuration  prometheus.Histogram
	AvailabilityDaysTotal prometheus.Counter
}

// New создает метрики и регистрирует их в стандартном реестре
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		AllocationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "allocation_runs_total",
			Help:        "Allocation runs by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		AllocatedBookings: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "allocated_bookings_total",
			Help:        "Bookings placed into rooms by the allocator",
			ConstLabels: constLabels,
		}),

		AvailabilityDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "availability_calculation_duration_seconds",
			Help:        "Room availability calculation duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),

		AvailabilityDaysTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "availability_days_total",
			Help:        "Number of calendar days computed by availability requests",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.AllocationRuns,
		m.AllocatedBookings,
		m.AvailabilityDuration,
		m.AvailabilityDaysTotal,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(inUse, idle, open int) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("open").Set(float64(open))
}

// RecordAllocation фиксирует результат прогона аллокатора
func (m *Metrics) RecordAllocation(result string, allocated int) {
	if m == nil {
		return
	}
	m.AllocationRuns.WithLabelValues(result).Inc()
	m.AllocatedBookings.Add(float64(allocated))
}

// ObserveAvailability фиксирует расчёт доступности
func (m *Metrics) ObserveAvailability(days int, duration time.Duration) {
	if m == nil {
		return
	}
	m.AvailabilityDuration.Observe(duration.Seconds())
	m.AvailabilityDaysTotal.Add(float64(days))
}
