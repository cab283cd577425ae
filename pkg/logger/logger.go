package logger

import (
	"fmt"
	"time"

	"github.com/codecat1111/radar-clone/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Build creates the service logger: JSON in production, colored console
// output otherwise. An unknown level falls back to info.
func Build(cfg *config.Config) (*zap.Logger, zapcore.Level, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Server.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.InitialFields = map[string]interface{}{
		"service": "tech-radar",
		"version": cfg.Server.Version,
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, level, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, level, nil
}

// InitLogger initializes the global logger
func InitLogger(cfg *config.Config) {
	l, level, err := Build(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log = l
	log.Info("Logger initialized", zap.Stringer("level", level))
}

// SetLogger replaces the global logger. radarctl uses it to keep log output
// off the terminal it draws on.
func SetLogger(l *zap.Logger) {
	log = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if log == nil {
		var err error
		log, err = zap.NewProduction()
		if err != nil {
			panic("Failed to create fallback logger: " + err.Error())
		}
	}
	return log
}

// quietPaths are polled constantly and only logged at debug level
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

// Middleware writes one access log line per request. Handler errors are
// passed to the echo error handler first so the logged status is final.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("route", c.Path()),
				zap.String("query", req.URL.RawQuery),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes_out", c.Response().Size),
				zap.String("ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			l := FromContext(c)
			switch {
			case status >= 500:
				l.Error("HTTP request failed", fields...)
			case status >= 400:
				l.Warn("HTTP request rejected", fields...)
			case quietPaths[req.URL.Path]:
				l.Debug("HTTP request completed", fields...)
			default:
				l.Info("HTTP request completed", fields...)
			}

			return nil
		}
	}
}
