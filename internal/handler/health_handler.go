package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HealthHandler struct {
	version string
	ping    func(ctx context.Context) error
}

// NewHealthHandler creates the health handler. ping checks the database and
// may be nil, in which case ?check=db reports the check as unavailable.
func NewHealthHandler(version string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{version: version, ping: ping}
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	log := logger.FromContext(c)

	response := map[string]interface{}{
		"success":   true,
		"message":   "Technology Radar API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	// Check database connection if requested
	if c.QueryParam("check") == "db" {
		if h.ping == nil {
			log.Warn("Database check requested but not configured")
			response["success"] = false
			response["db_status"] = "unavailable"
			response["db_error"] = "database check unavailable"
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		if err := h.ping(ctx); err != nil {
			log.Error("Database ping error", zap.Error(err))
			response["success"] = false
			response["db_status"] = "error"
			response["db_error"] = "Failed to ping database"
			return c.JSON(http.StatusServiceUnavailable, response)
		}
		response["db_status"] = "ok"
	}

	return c.JSON(http.StatusOK, response)
}
