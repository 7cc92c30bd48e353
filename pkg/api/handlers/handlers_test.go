package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/jordanlanch/regbilling/pkg/billing/billingtest"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func testPrices() []*stripe.Price {
	return []*stripe.Price{
		{ID: "price_small", Type: stripe.PriceTypeOneTime, UnitAmount: 14900,
			Metadata: map[string]string{"lowerlimit": "1", "upperlimit": "9"}},
		{ID: "price_medium", Type: stripe.PriceTypeOneTime, UnitAmount: 24900,
			Metadata: map[string]string{"lowerlimit": "10", "upperlimit": "15"}},
		{ID: "price_enterprise", Type: stripe.PriceTypeOneTime, UnitAmount: 99900},
	}
}

func newTestService(t *testing.T) (*registration.Service, *billingtest.Gateway) {
	t.Helper()
	gw := billingtest.New()
	gw.Prices = testPrices()

	catalog := billing.NewCatalog(gw, "prod_1", nil, 0, logger.Discard())
	svc := registration.NewService(gw, catalog, registration.Config{
		EnvironmentName: "test",
		VATTaxRateID:    "txr_vat20",
	}, logger.Discard())
	return svc, gw
}

func jsonRequest(t *testing.T, method, target string, body interface{}) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
