package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"budget-tracker/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery converts handler panics into a SYSTEM_001 JSON response so a
// single bad request cannot take the process down. The panic value and stack
// are logged with the trace ID for correlation.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				slog.Error("Panic recovered",
					"trace_id", traceID,
					"panic", r,
					"stack_trace", string(debug.Stack()),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
				)

				resp := errors.NewErrorResponse(errors.SystemInternalError, traceID)
				if err := c.JSON(http.StatusInternalServerError, resp); err != nil {
					slog.Error("Failed to send panic recovery response",
						"trace_id", traceID,
						"error", err.Error(),
					)
				}
			}()

			return next(c)
		}
	}
}
