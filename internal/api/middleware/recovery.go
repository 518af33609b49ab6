package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
)

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace, and returns a problem-style 500 to the client.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)

					metrics.HTTPPanicsTotal.Inc()
					log.Error("panic recovered",
						"error", fmt.Sprint(r),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
						"request_id", RequestID(c.Request().Context()),
						"stack", string(buf[:n]),
					)

					err = c.JSON(http.StatusInternalServerError, map[string]any{
						"title":  http.StatusText(http.StatusInternalServerError),
						"status": http.StatusInternalServerError,
						"detail": "internal server error",
					})
				}
			}()
			return next(c)
		}
	}
}
