package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	RequestIDKey = "X-Request-ID"

	contextKey   = "logger"
	requestIDKey = "request_id"
)

// FromContext returns the request scoped logger, building one from the
// request ID when the request ID middleware did not run.
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(contextKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger().With(zap.String(requestIDKey, RequestID(c)))
}

// RequestID returns the ID of the current request, or "unknown"
func RequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok && id != "" {
		return id
	}
	if id := c.Request().Header.Get(RequestIDKey); id != "" {
		return id
	}
	return "unknown"
}

// Attach stores id and a logger carrying it on the context
func Attach(c echo.Context, id string) *zap.Logger {
	l := GetLogger().With(zap.String(requestIDKey, id))
	c.Set(requestIDKey, id)
	c.Set(contextKey, l)
	return l
}

// With adds fields to the request logger, so later lines for the request
// including the access log carry them.
func With(c echo.Context, fields ...zap.Field) *zap.Logger {
	l := FromContext(c).With(fields...)
	c.Set(contextKey, l)
	return l
}
