package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/jordanlanch/regbilling/pkg/api/errors"
	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/labstack/echo/v4"
)

// PricingHandler serves registration price quotes.
type PricingHandler struct {
	service *registration.Service
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(service *registration.Service) *PricingHandler {
	return &PricingHandler{service: service}
}

// Quote godoc
// @Summary Quote the registration price for a company size
// @Description Resolves the price tier for the number of employees and returns the VAT breakdown
// @Tags Pricing
// @Produce json
// @Param employees query int true "Number of employees"
// @Success 200 {object} models.PriceQuote
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/pricing/quote [get]
func (h *PricingHandler) Quote(c echo.Context) error {
	employees, err := strconv.Atoi(c.QueryParam("employees"))
	if err != nil || employees < 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "employees must be a non-negative integer",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quote, err := h.service.PriceQuote(ctx, employees)
	if err != nil {
		return apierrors.BillingError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}
