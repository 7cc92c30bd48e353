package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/labstack/echo/v4"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the state of the service's dependencies.
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checks: map[string]Pinger{}}
}

// AddCheck registers a dependency. Nil pingers are ignored.
func (h *HealthHandler) AddCheck(name string, p Pinger) {
	if p == nil {
		return
	}
	h.checks[name] = p
}

// Health godoc
// @Summary Health check
// @Description Pings the database and cache; 503 when any is unreachable
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := models.HealthResponse{Status: "healthy", Services: map[string]string{}}
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			resp.Services[name] = "unhealthy"
			resp.Status = "unhealthy"
			continue
		}
		resp.Services[name] = "healthy"
	}

	if resp.Status != "healthy" {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
