// Package errors writes JSON error responses without leaking internal details.
package errors

import (
	"log"
	"net/http"

	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/labstack/echo/v4"
)

func logError(c echo.Context, kind string, err error) {
	log.Printf("[%s] %s %s: %v", kind, c.Request().Method, c.Request().URL.Path, err)
}

// ValidationError responds 400 with a generic message and logs the validator output.
func ValidationError(c echo.Context, err error) error {
	logError(c, "VALIDATION ERROR", err)
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "The registration details are invalid",
	})
}

// DatabaseError responds 500 for storage failures.
func DatabaseError(c echo.Context, err error) error {
	logError(c, "DATABASE ERROR", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "database_error",
		Message: "A database error occurred",
	})
}

// InternalError responds 500 for anything unexpected.
func InternalError(c echo.Context, err error) error {
	logError(c, "INTERNAL ERROR", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// NotFoundError responds 404. resource is logged, never echoed.
func NotFoundError(c echo.Context, resource string) error {
	log.Printf("[NOT FOUND] %s %s: %s", c.Request().Method, c.Request().URL.Path, resource)
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: "The requested resource was not found",
	})
}

// UnauthorizedError responds 401. reason is logged, never echoed.
func UnauthorizedError(c echo.Context, reason string) error {
	log.Printf("[UNAUTHORIZED] %s %s: %s", c.Request().Method, c.Request().URL.Path, reason)
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: "Authentication required",
	})
}

// BillingError maps a registration flow failure to 502 with the flow's fixed
// message. Errors that are not flow failures become internal errors.
func BillingError(c echo.Context, err error) error {
	fe, ok := registration.AsFlowError(err)
	if !ok {
		return InternalError(c, err)
	}

	log.Printf("[BILLING ERROR] %s %s: flow=%s message=%q cause=%v",
		c.Request().Method, c.Request().URL.Path, fe.Flow, fe.Message, fe.Err)
	return c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:   "billing_error",
		Message: fe.Message,
	})
}
