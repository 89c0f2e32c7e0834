package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Бронирования
	AdmissionsTotal  *prometheus.CounterVec
	AdmissionRetries prometheus.Counter
	ReferencesMinted *prometheus.CounterVec
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests.",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency.",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "http_requests_in_flight",
				Help:        "Number of HTTP requests being served.",
				ConstLabels: constLabels,
			},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query latency.",
				ConstLabels: constLabels,
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 3},
			},
			[]string{"operation"},
		),
		DBQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "db_query_errors_total",
				Help:        "Database query errors.",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_connections",
				Help:        "Database pool connections by state.",
				ConstLabels: constLabels,
			},
			[]string{"state"},
		),
		DBWaitCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_connection_waits",
				Help:        "Database pool wait statistics.",
				ConstLabels: constLabels,
			},
			[]string{"kind"},
		),
		AdmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_admissions_total",
				Help:        "Booking admission attempts by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		AdmissionRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "booking_admission_retries_total",
				Help:        "Admission retries after transient conflicts.",
				ConstLabels: constLabels,
			},
		),
		ReferencesMinted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_references_minted_total",
				Help:        "Booking references minted by counter backend.",
				ConstLabels: constLabels,
			},
			[]string{"backend"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBWaitCount,
		m.AdmissionsTotal,
		m.AdmissionRetries,
		m.ReferencesMinted,
	)

	return m
}

// IncAdmission увеличивает счетчик попыток бронирования с указанным исходом
func (m *Metrics) IncAdmission(outcome string) {
	if m == nil {
		return
	}
	m.AdmissionsTotal.WithLabelValues(outcome).Inc()
}

// IncAdmissionRetry увеличивает счетчик повторов бронирования
func (m *Metrics) IncAdmissionRetry() {
	if m == nil {
		return
	}
	m.AdmissionRetries.Inc()
}

// IncReferenceMinted увеличивает счетчик выданных номеров бронирований
func (m *Metrics) IncReferenceMinted(backend string) {
	if m == nil {
		return
	}
	m.ReferencesMinted.WithLabelValues(backend).Inc()
}
