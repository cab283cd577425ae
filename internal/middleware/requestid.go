package middleware

import (
	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags each request with an ID and a logger carrying it.
// An incoming X-Request-ID is kept so the radarctl client and proxies can
// correlate their own logs.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Response().Header().Set(logger.RequestIDKey, requestID)
		logger.Attach(c, requestID)

		return next(c)
	}
}
