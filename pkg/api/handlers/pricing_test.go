package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingQuote(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		noPrices   bool
		wantStatus int
		wantPrice  string
		wantError  string
	}{
		{name: "ranged tier", query: "employees=12", wantStatus: http.StatusOK, wantPrice: "price_medium"},
		{name: "fallback tier", query: "employees=500", wantStatus: http.StatusOK, wantPrice: "price_enterprise"},
		{name: "missing employees", query: "", wantStatus: http.StatusBadRequest, wantError: "validation_error"},
		{name: "negative employees", query: "employees=-1", wantStatus: http.StatusBadRequest, wantError: "validation_error"},
		{name: "not a number", query: "employees=ten", wantStatus: http.StatusBadRequest, wantError: "validation_error"},
		{name: "empty catalog", query: "employees=3", noPrices: true, wantStatus: http.StatusBadGateway, wantError: "billing_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw := newTestService(t)
			if tt.noPrices {
				gw.Prices = nil
			}
			handler := NewPricingHandler(svc)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/quote?"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, handler.Quote(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantError != "" {
				var resp models.ErrorResponse
				decodeBody(t, rec, &resp)
				assert.Equal(t, tt.wantError, resp.Error)
				return
			}

			var quote models.PriceQuote
			decodeBody(t, rec, &quote)
			assert.Equal(t, tt.wantPrice, quote.PriceID)
			assert.InDelta(t, quote.AmountExVAT*1.2, quote.AmountIncVAT, 1e-9)
			assert.NotEmpty(t, quote.Display)
		})
	}
}

func TestPricingQuote_EmptyCatalogMessage(t *testing.T) {
	svc, gw := newTestService(t)
	gw.Prices = nil

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/quote?employees=3", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, NewPricingHandler(svc).Quote(e.NewContext(req, rec)))

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "NO_PRICES_PROVIDED", resp.Message)
}
