package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// probePaths are polled constantly by the orchestrator. Only their first
// success and every failure are logged.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestID returns the request ID stored in ctx by RequestLog.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header, the echo context and the request context.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var probesSeen sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), requestIDKey{}, reqID)))

			err := next(c)

			path := req.URL.Path
			status := c.Response().Status
			if _, probe := probePaths[path]; probe && status < http.StatusBadRequest {
				if _, seen := probesSeen.LoadOrStore(path, struct{}{}); seen {
					return err
				}
			}

			attrs := []any{
				"method", req.Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}
			if sc := trace.SpanContextFromContext(c.Request().Context()); sc.IsValid() {
				attrs = append(attrs, "trace_id", sc.TraceID().String())
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error("request", attrs...)
			case status >= http.StatusBadRequest:
				log.Warn("request", attrs...)
			default:
				log.Info("request", attrs...)
			}

			return err
		}
	}
}
