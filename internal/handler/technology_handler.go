package handler

import (
	"context"
	"strconv"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/internal/service"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TechnologyService is the technology read model used by the handlers
type TechnologyService interface {
	List(ctx context.Context, f query.Filter) (*service.Page, error)
	Get(ctx context.Context, id uint, includeDetails bool) (*service.TechnologyDetail, error)
}

type TechnologyHandler struct {
	svc TechnologyService
}

func NewTechnologyHandler(svc TechnologyService) *TechnologyHandler {
	return &TechnologyHandler{svc: svc}
}

// ListTechnologies handles GET /api/technologies
func (h *TechnologyHandler) ListTechnologies(c echo.Context) error {
	log := logger.FromContext(c)

	f, err := technologyFilter(c)
	if err != nil {
		log.Warn("Invalid technology filter", zap.Error(err))
		return err
	}

	limit, offset := f.Window()
	log.Debug("Listing technologies",
		zap.String("search", f.SearchTerm()),
		zap.Int("domains", len(f.DomainIDs)),
		zap.Int("tags", len(f.TagIDs)),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	page, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}

	log.Info("Technologies retrieved",
		zap.Int("count", len(page.Technologies)),
		zap.Int64("total", page.Pagination.Total))
	return ok(c, page)
}

// GetTechnology handles GET /api/technologies/:id
func (h *TechnologyHandler) GetTechnology(c echo.Context) error {
	log := logger.FromContext(c)

	rawID := c.Param("id")
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil || id == 0 {
		log.Warn("Invalid technology ID", zap.String("technology_id", rawID))
		return apierr.BadRequest(apierr.FieldError{Field: "id", Message: "must be a positive integer", Value: rawID})
	}

	log = logger.With(c, zap.Uint64("technology_id", id))

	p := newParams(c)
	details := p.optionalBool("details")
	if err := p.err(); err != nil {
		return err
	}
	includeDetails := details == nil || *details

	tech, err := h.svc.Get(c.Request().Context(), uint(id), includeDetails)
	if err != nil {
		return err
	}
	if tech == nil {
		log.Info("Technology not found")
		return apierr.NotFound("Technology not found")
	}

	log.Info("Technology retrieved",
		zap.String("name", tech.Name),
		zap.Bool("details", includeDetails))
	return ok(c, echo.Map{"technology": tech})
}
