package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/jordanlanch/regbilling/pkg/api/errors"
	"github.com/jordanlanch/regbilling/pkg/audit"
	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/labstack/echo/v4"
)

// AdminTokenHeader carries the support token for the billing events endpoint.
const AdminTokenHeader = "X-Admin-Token"

// AuditHandler handles billing event endpoints for support staff
type AuditHandler struct {
	store      *audit.Store
	adminToken string
}

// NewAuditHandler creates a new audit handler. An empty token disables the endpoint.
func NewAuditHandler(store *audit.Store, adminToken string) *AuditHandler {
	return &AuditHandler{
		store:      store,
		adminToken: adminToken,
	}
}

// BillingEvent is one row of the billing event log.
type BillingEvent struct {
	ID         int64     `json:"id"`
	Flow       string    `json:"flow"`
	CustomerID string    `json:"customer_id"`
	InvoiceID  string    `json:"invoice_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// BillingEventsResponse lists billing events.
type BillingEventsResponse struct {
	Events []BillingEvent `json:"events"`
	Count  int            `json:"count"`
}

// GetCustomerEvents godoc
// @Summary List billing events for a customer
// @Description Newest first. Requires the X-Admin-Token header.
// @Tags Audit
// @Produce json
// @Param customerId path string true "Stripe customer id"
// @Param limit query int false "Maximum events (default 50, max 100)"
// @Success 200 {object} BillingEventsResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/admin/customers/{customerId}/billing-events [get]
func (h *AuditHandler) GetCustomerEvents(c echo.Context) error {
	if h.adminToken == "" {
		return apierrors.UnauthorizedError(c, "admin token not configured")
	}
	token := c.Request().Header.Get(AdminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
		return apierrors.UnauthorizedError(c, "invalid admin token")
	}

	customerID := c.Param("customerId")
	if customerID == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "customerId is required",
		})
	}

	// Get limit from query param (default 50, max 100)
	limit := 50
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	entries, err := h.store.ListByCustomer(c.Request().Context(), customerID, limit)
	if err != nil {
		return apierrors.DatabaseError(c, err)
	}

	events := make([]BillingEvent, 0, len(entries))
	for _, e := range entries {
		events = append(events, BillingEvent{
			ID:         e.ID,
			Flow:       e.Flow,
			CustomerID: e.CustomerID,
			InvoiceID:  e.InvoiceID,
			Outcome:    e.Outcome,
			Message:    e.Message,
			DurationMS: e.DurationMS,
			CreatedAt:  e.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, BillingEventsResponse{
		Events: events,
		Count:  len(events),
	})
}
