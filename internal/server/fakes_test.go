package server

import (
	"context"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/internal/service"
)

type failingTechnologies struct{ err error }

func (f failingTechnologies) List(context.Context, query.Filter) (*service.Page, error) {
	return nil, apierr.Storage("Failed to fetch technologies", f.err)
}

func (f failingTechnologies) Get(context.Context, uint, bool) (*service.TechnologyDetail, error) {
	return nil, apierr.Storage("Failed to fetch technology", f.err)
}
