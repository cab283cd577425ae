package service

import (
	"context"
	"errors"
	"time"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/model"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	msgListFailed    = "Failed to fetch technologies"
	msgGetFailed     = "Failed to fetch technology"
	msgDetailsFailed = "Failed to fetch technology details"
)

// TechnologyService lists technologies and assembles technology details
type TechnologyService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewTechnologyService(db *gorm.DB, log *zap.Logger) *TechnologyService {
	return &TechnologyService{db: db, log: log}
}

// List returns one page of the technologies matching f, ordered by name
// then id, with the total number of matches.
func (s *TechnologyService) List(ctx context.Context, f query.Filter) (*Page, error) {
	defer prometheus.TrackDBOperation("list_technologies")(time.Now())

	limit, offset := f.Window()
	preds := query.Predicates(f, query.DialectOf(s.db))
	scoped := func() *gorm.DB {
		return query.Apply(s.db.WithContext(ctx).Model(&model.Technology{}), preds)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		s.log.Error("Failed to count technologies", zap.Error(err))
		return nil, apierr.Storage(msgListFailed, err)
	}

	var techs []model.Technology
	err := scoped().
		Preload("Domain").
		Preload("Tag").
		Order("technologies.name ASC").
		Order("technologies.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&techs).Error
	if err != nil {
		s.log.Error("Failed to list technologies", zap.Error(err))
		return nil, apierr.Storage(msgListFailed, err)
	}

	page := &Page{
		Technologies: make([]TechnologySummary, 0, len(techs)),
		Pagination: Pagination{
			Total:    total,
			Filtered: len(techs),
			Limit:    limit,
			Offset:   offset,
			HasMore:  int64(offset+len(techs)) < total,
		},
		FiltersApplied: FiltersApplied{
			Search:       f.SearchTerm(),
			Domain:       nonNilUints(f.DomainIDs),
			Tag:          nonNilUints(f.TagIDs),
			Impact:       nonNilStrings(f.Impact),
			Effort:       nonNilStrings(f.Effort),
			Technologies: f.TechnologyIDs,
			TimeToMarket: f.TimeToMarket,
			RiskScoreMin: f.RiskScoreMin,
			RiskScoreMax: f.RiskScoreMax,
		},
	}
	for _, t := range techs {
		page.Technologies = append(page.Technologies, toSummary(t))
	}

	prometheus.RecordTechnologyList(len(techs))
	return page, nil
}

// Get returns the active technology with the given id, or nil when there is
// none. With includeDetails the four child collections are loaded
// concurrently; if any of them fails the whole call fails.
func (s *TechnologyService) Get(ctx context.Context, id uint, includeDetails bool) (*TechnologyDetail, error) {
	defer prometheus.TrackDBOperation("get_technology")(time.Now())

	var tech model.Technology
	err := s.db.WithContext(ctx).
		Preload("Domain").
		Preload("Tag").
		Where("technologies.id = ? AND technologies.is_active = ?", id, true).
		Take(&tech).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to fetch technology", zap.Uint("technology_id", id), zap.Error(err))
		return nil, apierr.Storage(msgGetFailed, err)
	}

	detail := toDetail(tech)
	prometheus.RecordTechnologyView(includeDetails)
	if !includeDetails {
		return detail, nil
	}

	details, err := s.loadDetails(ctx, id)
	if err != nil {
		s.log.Error("Failed to fetch technology details", zap.Uint("technology_id", id), zap.Error(err))
		return nil, apierr.Storage(msgDetailsFailed, err)
	}
	detail.Details = details
	return detail, nil
}

func (s *TechnologyService) loadDetails(ctx context.Context, id uint) (*Details, error) {
	d := &Details{
		Benefits:  []model.TechnologyBenefit{},
		Risks:     []model.TechnologyRisk{},
		Workflows: []model.TechnologyWorkflow{},
		Metrics:   []model.TechnologyMetric{},
	}

	g, gctx := errgroup.WithContext(ctx)
	children := func(orderColumn string) *gorm.DB {
		return s.db.WithContext(gctx).
			Where("technology_id = ?", id).
			Order(orderColumn + " ASC").
			Order("id ASC")
	}

	g.Go(func() error { return children("order_index").Find(&d.Benefits).Error })
	g.Go(func() error { return children("order_index").Find(&d.Risks).Error })
	g.Go(func() error { return children("order_index").Find(&d.Workflows).Error })
	g.Go(func() error { return children("display_order").Find(&d.Metrics).Error })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func nonNilUints(v []uint) []uint {
	if v == nil {
		return []uint{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
