package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/jordanlanch/regbilling/pkg/api/errors"
	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/phone"
	"github.com/labstack/echo/v4"
)

// PhoneHandler handles phone validation endpoints used by the registration form.
type PhoneHandler struct {
	validator *validator.Validate
}

// NewPhoneHandler creates a new phone handler.
func NewPhoneHandler() *PhoneHandler {
	return &PhoneHandler{validator: validator.New()}
}

// ValidatePhoneRequest represents a phone validation request.
type ValidatePhoneRequest struct {
	Phone       string `json:"phone" validate:"required,max=40"`
	CountryCode string `json:"country_code,omitempty"` // Optional, defaults to GB
}

// ValidatePhone godoc
// @Summary Validate a phone number
// @Description Parse a phone number and report its validity, E.164 form and type
// @Tags Phone
// @Accept json
// @Produce json
// @Param request body ValidatePhoneRequest true "Phone validation request"
// @Success 200 {object} phone.ValidationResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/phone/validate [post]
func (h *PhoneHandler) ValidatePhone(c echo.Context) error {
	var req ValidatePhoneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	result, err := phone.ValidatePhone(req.Phone, req.CountryCode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Phone number could not be parsed",
		})
	}

	return c.JSON(http.StatusOK, result)
}

// NormalizePhoneRequest represents a UK mobile normalization request.
type NormalizePhoneRequest struct {
	Phone string `json:"phone" validate:"required,max=40"`
}

// NormalizePhoneResponse represents a phone normalization response.
type NormalizePhoneResponse struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	IsValid    bool   `json:"is_valid"`
}

// NormalizePhone godoc
// @Summary Normalize a UK mobile number
// @Description Rewrite a UK mobile number to the 44-prefixed digits stored on the customer record
// @Tags Phone
// @Accept json
// @Produce json
// @Param request body NormalizePhoneRequest true "Phone normalization request"
// @Success 200 {object} NormalizePhoneResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/phone/normalize [post]
func (h *PhoneHandler) NormalizePhone(c echo.Context) error {
	var req NormalizePhoneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	normalized := phone.NormalizeUKMobile(req.Phone)
	return c.JSON(http.StatusOK, NormalizePhoneResponse{
		Original:   req.Phone,
		Normalized: normalized,
		IsValid:    phone.IsValidUKMobile(normalized),
	})
}
