// Package middleware provides Echo middleware for vinyl-pricer.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
)

// unmatchedPath labels requests that hit no registered route so scanners
// cannot inflate label cardinality.
const unmatchedPath = "unmatched"

// metricsSkipPaths are excluded from HTTP request metrics. Probe state is
// published by the health handlers themselves.
var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// Metrics returns Echo middleware that records request duration and status,
// labelled by route template rather than raw URL.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, skip := metricsSkipPaths[c.Request().URL.Path]; skip {
				return next(c)
			}

			start := time.Now()
			metrics.HTTPRequestsInFlight.Inc()
			err := next(c)
			metrics.HTTPRequestsInFlight.Dec()

			path := c.Path()
			if path == "" || path == "/*" {
				path = unmatchedPath
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}
