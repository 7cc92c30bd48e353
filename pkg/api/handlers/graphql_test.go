package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphQLEndpoint(t *testing.T) {
	svc, _ := newTestService(t)
	handler := NewGraphQLHandler(svc, logger.Discard())

	body := `{"query":"{ priceQuote(numberOfEmployees: 12) { priceId } }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.GraphQLEndpoint(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"priceQuote":{"priceId":"price_medium"}}}`, rec.Body.String())
}

func TestGraphQLEndpoint_FlowError(t *testing.T) {
	svc, gw := newTestService(t)
	gw.Prices = nil
	handler := NewGraphQLHandler(svc, logger.Discard())

	body := `{"query":"{ priceQuote(numberOfEmployees: 12) { priceId } }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.GraphQLEndpoint(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"NO_PRICES_PROVIDED"`)
	assert.Contains(t, rec.Body.String(), `"data":null`)
}

func TestGraphQLEndpoint_RequiresJSON(t *testing.T) {
	svc, gw := newTestService(t)
	handler := NewGraphQLHandler(svc, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`query=x`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.GraphQLEndpoint(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gw.CallLog())
}

func TestGraphQLPlayground(t *testing.T) {
	svc, _ := newTestService(t)
	handler := NewGraphQLHandler(svc, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/playground", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.Playground(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/graphql")
}
