package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/service"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FilterService provides filter options and search suggestions
type FilterService interface {
	Options(ctx context.Context) (*service.FilterOptions, error)
	Suggestions(ctx context.Context, q string, limit int) ([]service.Suggestion, error)
}

type FilterHandler struct {
	svc FilterService
}

func NewFilterHandler(svc FilterService) *FilterHandler {
	return &FilterHandler{svc: svc}
}

// GetFilterOptions handles GET /api/filters
func (h *FilterHandler) GetFilterOptions(c echo.Context) error {
	log := logger.FromContext(c)

	opts, err := h.svc.Options(c.Request().Context())
	if err != nil {
		return err
	}

	log.Info("Filter options retrieved",
		zap.Int("domains", len(opts.Domains)),
		zap.Int("tags", len(opts.Tags)))
	return ok(c, opts)
}

// SearchSuggestions handles GET /api/filters/search
func (h *FilterHandler) SearchSuggestions(c echo.Context) error {
	log := logger.FromContext(c)

	var errs []apierr.FieldError
	q := strings.TrimSpace(c.QueryParam("q"))
	if n := len([]rune(q)); n < service.MinSuggestionQuery || n > service.MaxSuggestionQuery {
		errs = append(errs, apierr.FieldError{Field: "q", Message: "must be between 2 and 100 characters", Value: q})
	}

	limit := service.DefaultSuggestionLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > service.MaxSuggestionLimit {
			errs = append(errs, apierr.FieldError{Field: "limit", Message: "must be an integer between 1 and 20", Value: raw})
		} else {
			limit = n
		}
	}
	if len(errs) > 0 {
		log.Warn("Invalid suggestion request", zap.String("q", q))
		return apierr.BadRequest(errs...)
	}

	suggestions, err := h.svc.Suggestions(c.Request().Context(), q, limit)
	if err != nil {
		return err
	}

	log.Info("Suggestions retrieved", zap.String("q", q), zap.Int("count", len(suggestions)))
	return ok(c, echo.Map{"suggestions": suggestions})
}
