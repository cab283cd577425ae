package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/internal/radar"
	"github.com/codecat1111/radar-clone/internal/service"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/codecat1111/radar-clone/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	ViewScatter = "scatter"
	ViewRadial  = "radial"

	formatSVG = "svg"
	formatPNG = "png"
)

// RadarHandler renders the radar views as images
type RadarHandler struct {
	techs   TechnologyService
	filters FilterService
	cfg     radar.Config
}

func NewRadarHandler(techs TechnologyService, filters FilterService, cfg radar.Config) *RadarHandler {
	return &RadarHandler{techs: techs, filters: filters, cfg: cfg}
}

// RenderSVG handles GET /api/radar.svg
func (h *RadarHandler) RenderSVG(c echo.Context) error {
	return h.render(c, formatSVG)
}

// RenderPNG handles GET /api/radar.png
func (h *RadarHandler) RenderPNG(c echo.Context) error {
	return h.render(c, formatPNG)
}

func (h *RadarHandler) render(c echo.Context, format string) error {
	log := logger.FromContext(c)

	f, err := technologyFilter(c)
	if err != nil {
		return err
	}
	if f.Limit == nil {
		max := query.MaxLimit
		f.Limit = &max
	}

	view := c.QueryParam("view")
	if view == "" {
		view = ViewScatter
	}
	if view != ViewScatter && view != ViewRadial {
		return apierr.BadRequest(apierr.FieldError{Field: "view", Message: "must be scatter or radial", Value: view})
	}

	var selected uint
	if raw := c.QueryParam("selectedDomain"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return apierr.BadRequest(apierr.FieldError{Field: "selectedDomain", Message: "must be a positive integer", Value: raw})
		}
		selected = uint(id)
	}

	ctx := c.Request().Context()
	page, err := h.techs.List(ctx, f)
	if err != nil {
		return err
	}
	items := Items(page.Technologies)

	var buf bytes.Buffer
	switch view {
	case ViewRadial:
		opts, err := h.filters.Options(ctx)
		if err != nil {
			return err
		}
		domains := Domains(opts.Domains)
		if selected == 0 && len(domains) > 0 {
			radar.SortDomains(domains)
			selected = domains[0].ID
		}
		layout := radar.Radial(domains, items, selected, h.cfg)
		if format == formatSVG {
			err = radar.RenderRadialSVG(&buf, layout)
		} else {
			err = radar.RenderRadialPNG(&buf, layout)
		}
	default:
		layout := radar.Scatter(items, h.cfg)
		if format == formatSVG {
			err = radar.RenderScatterSVG(&buf, layout)
		} else {
			err = radar.RenderScatterPNG(&buf, layout)
		}
	}
	if err != nil {
		log.Error("Failed to render radar", zap.String("view", view), zap.String("format", format), zap.Error(err))
		return apierr.Internal("Failed to render radar", err)
	}

	prometheus.RecordRadarRender(view, format)
	log.Info("Radar rendered",
		zap.String("view", view),
		zap.String("format", format),
		zap.Int("technologies", len(items)))

	contentType := "image/svg+xml"
	if format == formatPNG {
		contentType = "image/png"
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

// Items converts listed technologies into layout items colored by domain
func Items(techs []service.TechnologySummary) []radar.Item {
	items := make([]radar.Item, 0, len(techs))
	for _, t := range techs {
		it := radar.Item{
			ID:       t.ID,
			Name:     t.Name,
			DomainID: t.Domain.ID,
			Angle:    t.Angle,
			Radius:   t.Radius,
			Color:    t.Domain.Color,
		}
		if t.Tag != nil {
			it.Tag = t.Tag.Name
		}
		items = append(items, it)
	}
	return items
}

// Domains converts filter domains into layout domains
func Domains(opts []service.DomainOption) []radar.Domain {
	out := make([]radar.Domain, 0, len(opts))
	for _, d := range opts {
		out = append(out, radar.Domain{ID: d.ID, Name: d.Name, Color: d.Color})
	}
	return out
}
