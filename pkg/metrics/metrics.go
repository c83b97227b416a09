package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Appointment scheduling
	AppointmentOperations *prometheus.CounterVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Allowlist cache
	AllowlistLookups *prometheus.CounterVec

	// HTTP
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec
}

// New creates the application metrics and registers them with reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AppointmentOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_operations_total",
			Help:      "Total number of appointment operations by outcome",
		}, []string{"operation", "status"}),
		DatabaseOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		AllowlistLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allowlist_lookups_total",
			Help:      "Allowlist lookups by cache result",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
		}, []string{"method", "path", "status"}),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		ErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of HTTP errors",
		}, []string{"method", "path", "type"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.AppointmentOperations,
			m.DatabaseOperations,
			m.DatabaseLatency,
			m.AllowlistLookups,
			m.RequestDuration,
			m.RequestTotal,
			m.ErrorTotal,
		)
	}

	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAppointment counts one scheduler operation.
func (m *Metrics) RecordAppointment(operation string, err error) {
	if m == nil {
		return
	}
	m.AppointmentOperations.WithLabelValues(operation, outcome(err)).Inc()
}

// ObserveDatabase records the latency and outcome of a query started at start.
func (m *Metrics) ObserveDatabase(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	m.DatabaseOperations.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordAllowlistLookup counts a cache "hit" or "miss".
func (m *Metrics) RecordAllowlistLookup(result string) {
	if m == nil {
		return
	}
	m.AllowlistLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request. path is the route template, not the raw URL.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.RequestTotal.WithLabelValues(method, path, code).Inc()
	if status >= 500 {
		m.ErrorTotal.WithLabelValues(method, path, "server").Inc()
	} else if status >= 400 {
		m.ErrorTotal.WithLabelValues(method, path, "client").Inc()
	}
}
