package handler

import (
	"strconv"
	"strings"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/model"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/labstack/echo/v4"
)

// params collects query parameter errors so a request reports all of them at once
type params struct {
	c    echo.Context
	errs []apierr.FieldError
}

func newParams(c echo.Context) *params {
	return &params{c: c}
}

func (p *params) fail(field, message, value string) {
	p.errs = append(p.errs, apierr.FieldError{Field: field, Message: message, Value: value})
}

func (p *params) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return apierr.BadRequest(p.errs...)
}

func (p *params) raw(name string) (string, bool) {
	values, ok := p.c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	v := strings.TrimSpace(values[0])
	return v, v != ""
}

// idList parses a comma separated list of positive integers
func (p *params) idList(name string) []uint {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(v, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || id == 0 {
			p.fail(name, "must be a comma separated list of positive integers", v)
			return nil
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// enumList parses a comma separated list restricted to allowed values
func (p *params) enumList(name string, valid func(string) bool) []string {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if !valid(part) {
			p.fail(name, "contains an unknown value", part)
			return nil
		}
		out = append(out, part)
	}
	return out
}

func (p *params) optionalInt(name string) *int {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, "must be an integer", v)
		return nil
	}
	return &n
}

func (p *params) optionalBool(name string) *bool {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(name, "must be a boolean", v)
		return nil
	}
	return &b
}

func (p *params) text(name string, max int) string {
	v, _ := p.raw(name)
	if len([]rune(v)) > max {
		p.fail(name, "must be at most "+strconv.Itoa(max)+" characters", "")
		return ""
	}
	return v
}

// technologyFilter reads the listing criteria shared by the list and render endpoints
func technologyFilter(c echo.Context) (query.Filter, error) {
	p := newParams(c)

	f := query.Filter{
		Search:        p.text("search", query.MaxSearchLength),
		DomainIDs:     p.idList("domain"),
		TagIDs:        p.idList("tag"),
		TechnologyIDs: p.idList("selectedTechnologies"),
		Impact:        p.enumList("impact", model.ValidImpact),
		Effort:        p.enumList("effort", model.ValidEffort),
		TimeToMarket:  p.optionalInt("timeToMarket"),
		RiskScoreMin:  p.optionalInt("riskScoreMin"),
		RiskScoreMax:  p.optionalInt("riskScoreMax"),
		IsActive:      p.optionalBool("isActive"),
		Limit:         p.optionalInt("limit"),
	}
	if offset := p.optionalInt("offset"); offset != nil {
		f.Offset = *offset
	}

	return f, p.err()
}
