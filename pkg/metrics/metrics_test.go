package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	return New(prometheus.NewRegistry())
}

func TestRecordFlow(t *testing.T) {
	m := newTestMetrics()

	m.RecordFlow("createPaymentCustomer", true)
	m.RecordFlow("createPaymentCustomer", true)
	m.RecordFlow("createPaymentCustomer", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistrationFlows.WithLabelValues("createPaymentCustomer", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationFlows.WithLabelValues("createPaymentCustomer", OutcomeFailure)))
}

func TestObserveStripeCall(t *testing.T) {
	m := newTestMetrics()

	m.ObserveStripeCall("invoices.create", 10*time.Millisecond, nil)
	m.ObserveStripeCall("invoices.create", 10*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StripeCalls.WithLabelValues("invoices.create", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StripeCalls.WithLabelValues("invoices.create", OutcomeFailure)))
}

func TestDetachAndLedgerCounters(t *testing.T) {
	m := newTestMetrics()

	m.RecordDetach(true)
	m.RecordDetach(false)
	m.RecordLedgerMalformed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DetachedMethods.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DetachedMethods.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LedgerMalformed))
}

func TestMiddleware(t *testing.T) {
	m := newTestMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}
