package handlers

import (
	"context"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/jordanlanch/regbilling/pkg/api/errors"
	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/labstack/echo/v4"
)

// RegistrationHandler exposes the registration flows over REST.
type RegistrationHandler struct {
	service   *registration.Service
	validator *validator.Validate
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(service *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Register mounts the flow routes on g, one per GraphQL mutation.
func (h *RegistrationHandler) Register(g *echo.Group) {
	g.POST("/register/"+registration.FlowCreatePaymentCustomer, h.CreatePaymentCustomer)
	g.POST("/register/"+registration.FlowUpdateExistingCustomer, h.UpdateExistingCustomer)
	g.POST("/register/"+registration.FlowCreateMotoPaymentCustomer, h.CreateMotoPaymentCustomer)
	g.POST("/register/"+registration.FlowUpdateExistingMotoPaymentCustomer, h.UpdateExistingMotoPaymentCustomer)
	g.POST("/register/"+registration.FlowMakeMotoPayment, h.MakeMotoPayment)
	g.POST("/register/"+registration.FlowPayExistingMotoInvoice, h.PayExistingMotoInvoice)
	g.POST("/register/"+registration.FlowCreateBacsCustomerAndInvoice, h.CreateBacsCustomerAndInvoice)
}

// bind decodes and validates the request body into req. When it reports false
// the error response has already been written.
func (h *RegistrationHandler) bind(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if err := h.validator.Struct(req); err != nil {
		return false, apierrors.ValidationError(c, err)
	}
	return true, nil
}

// fail reports a failed flow to Sentry and writes the error response.
func (h *RegistrationHandler) fail(c echo.Context, err error) error {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			if fe, ok := registration.AsFlowError(err); ok {
				scope.SetTag("flow", fe.Flow)
				scope.SetExtra("message", fe.Message)
			}
			hub.CaptureException(err)
		})
	}
	return apierrors.BillingError(c, err)
}

// CreatePaymentCustomer godoc
// @Summary Set up a new online-payment customer
// @Description Creates or reuses the Stripe customer, raises the registration invoice and returns the payment intent secret
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration details"
// @Success 200 {object} models.PaymentIntentResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/register/createPaymentCustomer [post]
func (h *RegistrationHandler) CreatePaymentCustomer(c echo.Context) error {
	var req models.RegisterRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), registration.FlowTimeout)
	defer cancel()

	result, err := h.service.CreatePaymentCustomer(ctx, &req.RegistrationDetails)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateExistingCustomer godoc
// @Summary Refresh an online-payment customer
// @Description Updates the customer, clears saved cards and returns the payment intent secret of the customer's invoice
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body models.CustomerRegisterRequest true "Customer and registration details"
// @Success 200 {object} models.PaymentIntentForExistingCustomer
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/register/updateExistingCustomer [post]
func (h *RegistrationHandler) UpdateExistingCustomer(c echo.Context) error {
	var req models.CustomerRegisterRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), registration.FlowTimeout)
	defer cancel()

	result, err := h.service.UpdateExistingCustomer(ctx, req.CustomerID, &req.RegistrationDetails)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// CreateMotoPaymentCustomer godoc
// @Summary Set up a customer for a phone payment
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration details"
// @Success 200 {object} models.PayingCustomer
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/register/createMotoPaymentCustomer [post]
func (h *RegistrationHandler) CreateMotoPaymentCustomer(c echo.Context) error {
	var req models.RegisterRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), registration.FlowTimeout)
	defer cancel()

	result, err := h.service.CreateMotoPaymentCustomer(ctx, &req.RegistrationDetails)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateExistingMotoPaymentCustomer godoc
// @Summary Refresh a customer before a phone payment
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body models.CustomerRegisterRequest true "Customer and registration details"
// @Success 200 {object} models.PayingCustomer
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/register/updateExistingMotoPaymentCustomer [post]
func (h *RegistrationHandler) UpdateExistingMotoPaymentCustomer(c echo.Context) error {
	var req models.CustomerRegisterRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), registration.FlowTimeout)
	defer cancel()

	result, err := h.service.UpdateExistingMotoPaymentCustomer(ctx, req.CustomerID, &req.RegistrationDetails)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// MakeMotoPayment godoc
// @Summary Invoice and charge a card taken over the phone
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body models.MotoPaymentRequest true "Payment method, customer and registration details"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/register/makeMotoPayment [post]
func (h *RegistrationHandler) MakeMotoPayment(c echo.Context) error {
	var req models.MotoPaymentRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), registration.FlowTimeout)
	defer cancel()

	paid, err := h.service.MakeMotoPayment(ctx, req.PaymentMethodID, req.CustomerID, &req.RegistrationDetails)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: paid})
}

// PayExistingMotoInvoice godoc
// @Summary Charge a card taken over the phone against an issued invoice
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body models.MotoPaymentRequest true "Payment method, customer and registration details with stripeInvoiceId"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/register/payExistingMotoInvoice [post]
func (h *RegistrationHandler) PayExistingMotoInvoice(c echo.Context) error {
	var req models.MotoPaymentRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), registration.FlowTimeout)
	defer cancel()

	paid, err := h.service.PayExistingMotoInvoice(ctx, req.PaymentMethodID, req.CustomerID, &req.RegistrationDetails)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: paid})
}

// CreateBacsCustomerAndInvoice godoc
// @Summary Invoice a customer for payment by bank transfer
// @Description New customers get a finalized invoice; a known stripeCustomerId updates the customer and returns the stored BACS invoice
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration details"
// @Success 200 {object} models.BacsCustomer
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/register/createBacsCustomerAndInvoice [post]
func (h *RegistrationHandler) CreateBacsCustomerAndInvoice(c echo.Context) error {
	var req models.RegisterRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), registration.FlowTimeout)
	defer cancel()

	result, err := h.service.CreateBacsCustomerAndInvoice(ctx, &req.RegistrationDetails)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
