package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newContext creates an echo.Context backed by an httptest.NewRecorder.
func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// captureLog redirects the standard logger to a buffer for the duration of fn.
func captureLog(fn func()) string {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestAllErrors_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		call       func(echo.Context) error
		wantStatus int
		wantError  string
	}{
		{
			name:       "ValidationError → 400",
			call:       func(c echo.Context) error { return ValidationError(c, errors.New("bad")) },
			wantStatus: http.StatusBadRequest,
			wantError:  "validation_error",
		},
		{
			name:       "DatabaseError → 500",
			call:       func(c echo.Context) error { return DatabaseError(c, errors.New("db")) },
			wantStatus: http.StatusInternalServerError,
			wantError:  "database_error",
		},
		{
			name:       "InternalError → 500",
			call:       func(c echo.Context) error { return InternalError(c, errors.New("oops")) },
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
		{
			name:       "NotFoundError → 404",
			call:       func(c echo.Context) error { return NotFoundError(c, "customer") },
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "UnauthorizedError → 401",
			call:       func(c echo.Context) error { return UnauthorizedError(c, "no token") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "BillingError → 502",
			call:       func(c echo.Context) error { return BillingError(c, &registration.FlowError{Message: "x"}) },
			wantStatus: http.StatusBadGateway,
			wantError:  "billing_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/test")
			err := tt.call(c)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			resp := parseBody(t, rec)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestErrors_NoInternalDetails(t *testing.T) {
	tests := []struct {
		name     string
		internal string
		call     func(echo.Context, string) error
	}{
		{"validation", "Key: 'RegistrationDetails.Email' Error:Field validation", func(c echo.Context, s string) error { return ValidationError(c, errors.New(s)) }},
		{"database", `pq: relation "billing_events" does not exist`, func(c echo.Context, s string) error { return DatabaseError(c, errors.New(s)) }},
		{"internal", "runtime error: nil pointer dereference", func(c echo.Context, s string) error { return InternalError(c, errors.New(s)) }},
		{"not found", "cus_secret123", func(c echo.Context, s string) error { return NotFoundError(c, s) }},
		{"unauthorized", "token abc123 expired", func(c echo.Context, s string) error { return UnauthorizedError(c, s) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			logged := captureLog(func() {
				var c echo.Context
				c, rec = newContext(http.MethodPost, "/api/v1/register/createPaymentCustomer")
				_ = tt.call(c, tt.internal)
			})

			assert.NotContains(t, rec.Body.String(), tt.internal)
			assert.Contains(t, logged, tt.internal)
			assert.Contains(t, logged, "/api/v1/register/createPaymentCustomer")
		})
	}
}

func TestBillingError_FlowMessage(t *testing.T) {
	cause := errors.New("stripe: card_declined")
	fe := &registration.FlowError{Flow: registration.FlowMakeMotoPayment, Message: registration.MsgCreateSetupIntent, Err: cause}

	var rec *httptest.ResponseRecorder
	logged := captureLog(func() {
		var c echo.Context
		c, rec = newContext(http.MethodPost, "/api/v1/register/makeMotoPayment")
		require.NoError(t, BillingError(c, fmt.Errorf("handler: %w", fe)))
	})

	resp := parseBody(t, rec)
	assert.Equal(t, registration.MsgCreateSetupIntent, resp.Message)
	assert.NotContains(t, rec.Body.String(), "card_declined")
	assert.Contains(t, logged, "[BILLING ERROR]")
	assert.Contains(t, logged, "card_declined")
}

func TestBillingError_NonFlowError(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/v1/register/makeMotoPayment")
	_ = BillingError(c, errors.New("context deadline exceeded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", parseBody(t, rec).Error)
}
