// Package server assembles the HTTP API: middleware chain, routes and
// error handling.
package server

import (
	"context"
	"net/http"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/handler"
	mid "github.com/codecat1111/radar-clone/internal/middleware"
	"github.com/codecat1111/radar-clone/internal/radar"
	"github.com/codecat1111/radar-clone/pkg/config"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services are the read models behind the API
type Services struct {
	Technologies handler.TechnologyService
	Filters      handler.FilterService
	// Ping checks the database for /health?check=db
	Ping func(ctx context.Context) error
}

// RadarConfig converts the radar settings into a layout configuration
func RadarConfig(cfg config.RadarConfig) radar.Config {
	rc := radar.DefaultConfig()
	if cfg.MaxRadius > 0 {
		rc.MaxRadius = cfg.MaxRadius
	}
	if cfg.ArcSpan > 0 {
		rc.ArcSpan = cfg.ArcSpan
	}
	if cfg.Width > 0 {
		rc.Width = cfg.Width
	}
	if cfg.Height > 0 {
		rc.Height = cfg.Height
	}
	return rc
}

func logPanic(c echo.Context, err error, stack []byte) error {
	logger.FromContext(c).Error("Recovered from panic",
		zap.String("path", c.Request().URL.Path),
		zap.Error(err),
		zap.ByteString("stack", stack))
	return err
}

// New builds the echo instance serving the API
func New(cfg *config.Config, svc Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.HTTPErrorHandler = apierr.HTTPErrorHandler(!cfg.Server.IsProduction())

	// Middleware
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())
	// innermost so a recovered panic is logged and counted like any 500
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: logPanic,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORS.Origins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))
	e.Use(mid.RateLimitMiddleware(cfg.RateLimit))

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	health := handler.NewHealthHandler(cfg.Server.Version, svc.Ping)
	e.GET("/health", health.HealthCheck)

	techs := handler.NewTechnologyHandler(svc.Technologies)
	filters := handler.NewFilterHandler(svc.Filters)
	radarView := handler.NewRadarHandler(svc.Technologies, svc.Filters, RadarConfig(cfg.Radar))

	api := e.Group("/api")
	api.GET("/technologies", techs.ListTechnologies)
	api.GET("/technologies/:id", techs.GetTechnology)
	api.GET("/filters", filters.GetFilterOptions)
	api.GET("/filters/search", filters.SearchSuggestions)
	api.GET("/radar.svg", radarView.RenderSVG)
	api.GET("/radar.png", radarView.RenderPNG)

	return e
}
