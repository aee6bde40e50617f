package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector exported by the service.
// All Observe/Inc helpers are safe to call on a nil *Metrics.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge

	BookingsCreated     prometheus.Counter
	BookingConflicts    *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	FinancialSyncResult *prometheus.CounterVec
}

// New registers collectors in the default Prometheus registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry registers collectors in reg (tests use a fresh registry)
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "smc",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "smc",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "smc",
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Database call latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "smc",
			Subsystem:   "db",
			Name:        "open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "smc",
			Subsystem:   "db",
			Name:        "in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "smc",
			Subsystem:   "db",
			Name:        "idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: constLabels,
		}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "smc",
			Subsystem:   "appointments",
			Name:        "created_total",
			Help:        "Appointments created through booking",
			ConstLabels: constLabels,
		}),
		BookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "smc",
			Subsystem:   "appointments",
			Name:        "conflicts_total",
			Help:        "Bookings rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "smc",
			Subsystem:   "appointments",
			Name:        "status_transitions_total",
			Help:        "Applied appointment status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),
		FinancialSyncResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "smc",
			Subsystem:   "finance",
			Name:        "sync_total",
			Help:        "Financial posting attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"source", "result"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.BookingsCreated,
		m.BookingConflicts,
		m.StatusTransitions,
		m.FinancialSyncResult,
	)

	return m
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveDBQuery records one database call
func (m *Metrics) ObserveDBQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// SetPoolStats publishes sql.DBStats counters
func (m *Metrics) SetPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(open))
	m.DBInUseConnections.Set(float64(inUse))
	m.DBIdleConnections.Set(float64(idle))
}

// IncBookingCreated counts a successful booking
func (m *Metrics) IncBookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

// IncBookingConflict counts a slot-taken rejection; stage is "precheck" or "insert"
func (m *Metrics) IncBookingConflict(stage string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(stage).Inc()
}

// IncStatusTransition counts an applied transition
func (m *Metrics) IncStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// IncFinancialSync counts a posting attempt; source is "transition", "retry" or "manual"
func (m *Metrics) IncFinancialSync(source, result string) {
	if m == nil {
		return
	}
	m.FinancialSyncResult.WithLabelValues(source, result).Inc()
}
