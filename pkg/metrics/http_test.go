package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentHandler(t *testing.T) {
	m := New()
	h := m.InstrumentHandler("POST", "/api/v1/reports", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsInFlight.WithLabelValues("POST", "/api/v1/reports")))
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/api/v1/reports", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/reports", "422")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight.WithLabelValues("POST", "/api/v1/reports")))
}

func TestInstrumentHandler_DefaultStatus(t *testing.T) {
	m := New()
	h := m.InstrumentHandler("GET", "/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200")))
}

func TestRecordAuthRequest(t *testing.T) {
	m := New()
	m.RecordAuthRequest(true)
	m.RecordAuthRequest(false)
	m.RecordAuthRequest(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues("error")))
}

func TestInstrumentHandler_NilMetrics(t *testing.T) {
	var m *Metrics
	called := false
	h := m.InstrumentHandler("GET", "/", func(w http.ResponseWriter, r *http.Request) { called = true })
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}
