package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAppointment(t *testing.T) {
	m := New("frontdesk", prometheus.NewRegistry())

	m.RecordAppointment("create", nil)
	m.RecordAppointment("create", nil)
	m.RecordAppointment("create", errors.New("db down"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.AppointmentOperations.WithLabelValues("create", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AppointmentOperations.WithLabelValues("create", "error")))
}

func TestObserveDatabase(t *testing.T) {
	m := New("frontdesk", prometheus.NewRegistry())

	m.ObserveDatabase("appointments_in_range", time.Now(), nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("appointments_in_range", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DatabaseLatency))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAppointment("delete", nil)
		m.ObserveDatabase("delete", time.Now(), nil)
		m.RecordAllowlistLookup("hit")
	})
}

func TestObserveRequest(t *testing.T) {
	m := New("frontdesk", prometheus.NewRegistry())

	m.ObserveRequest("GET", "/api/v1/appointments", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/appointments", 400, time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/appointments", 503, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "/api/v1/appointments", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorTotal.WithLabelValues("GET", "/api/v1/appointments", "client")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorTotal.WithLabelValues("GET", "/api/v1/appointments", "server")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveRequest("GET", "/", 200, 0) })
}
