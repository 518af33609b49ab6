// Package handlers implements HTTP handlers for the vinyl pricer API.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type namedCheck struct {
	name string
	dep  Pinger
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks  []namedCheck
	timeout time.Duration
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithReadinessCheck adds another dependency that must answer Ping for
// the service to report ready.
func WithReadinessCheck(name string, dep Pinger) HealthOption {
	return func(h *HealthHandler) { h.checks = append(h.checks, namedCheck{name, dep}) }
}

// WithCheckTimeout bounds each readiness check. Default 2s.
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandler) { h.timeout = d }
}

// NewHealthHandler returns a handler whose readiness depends on db and any
// checks added with WithReadinessCheck.
func NewHealthHandler(db Pinger, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		checks:  []namedCheck{{"database", db}},
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz answers 200 while the process can serve requests at all.
func (*HealthHandler) Healthz(c echo.Context) error {
	metrics.HealthzUp.Set(1)
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz pings every dependency and answers 503 naming the ones that failed.
func (h *HealthHandler) Readyz(c echo.Context) error {
	results := make(map[string]string, len(h.checks))
	ready := true
	for _, chk := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		err := chk.dep.Ping(ctx)
		cancel()
		if err != nil {
			results[chk.name] = err.Error()
			ready = false
			continue
		}
		results[chk.name] = "ok"
	}

	if !ready {
		metrics.ReadyzUp.Set(0)
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable", Checks: results})
	}
	metrics.ReadyzUp.Set(1)
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready", Checks: results})
}
