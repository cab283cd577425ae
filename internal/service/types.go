package service

import (
	"time"

	"github.com/codecat1111/radar-clone/internal/model"
)

// DomainSummary is the domain as embedded in a technology
type DomainSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// TagSummary is the tag as embedded in a technology
type TagSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// TechnologySummary is one row of a technology listing
type TechnologySummary struct {
	ID           uint          `json:"id"`
	UUID         string        `json:"uuid"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Angle        float64       `json:"angle"`
	Radius       float64       `json:"radius"`
	ImpactLevel  string        `json:"impact_level"`
	EffortLevel  string        `json:"effort_level"`
	TimeToMarket *int          `json:"time_to_market"`
	RiskScore    *int          `json:"risk_score"`
	IsFeatured   bool          `json:"is_featured"`
	Domain       DomainSummary `json:"domain"`
	Tag          *TagSummary   `json:"tag"`
}

type UseCase struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Details holds the ordered child collections of a technology
type Details struct {
	Benefits  []model.TechnologyBenefit  `json:"benefits"`
	Risks     []model.TechnologyRisk     `json:"risks"`
	Workflows []model.TechnologyWorkflow `json:"workflows"`
	Metrics   []model.TechnologyMetric   `json:"metrics"`
}

// TechnologyDetail is a single technology. Details is nil when the child
// collections were not requested, which drops them from the JSON.
type TechnologyDetail struct {
	TechnologySummary
	ImpactDescription string    `json:"impact_description"`
	EffortDescription string    `json:"effort_description"`
	UseCase           UseCase   `json:"use_case"`
	SourceURL         string    `json:"source_url"`
	DocumentationURL  string    `json:"documentation_url"`
	IsActive          bool      `json:"is_active"`
	Version           int       `json:"version"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	*Details
}

type Pagination struct {
	Total    int64 `json:"total"`
	Filtered int   `json:"filtered"`
	Limit    int   `json:"limit"`
	Offset   int   `json:"offset"`
	HasMore  bool  `json:"hasMore"`
}

// FiltersApplied echoes the criteria a listing was computed with
type FiltersApplied struct {
	Search       string   `json:"search"`
	Domain       []uint   `json:"domain"`
	Tag          []uint   `json:"tag"`
	Impact       []string `json:"impact"`
	Effort       []string `json:"effort"`
	Technologies []uint   `json:"technologies,omitempty"`
	TimeToMarket *int     `json:"timeToMarket,omitempty"`
	RiskScoreMin *int     `json:"riskScoreMin,omitempty"`
	RiskScoreMax *int     `json:"riskScoreMax,omitempty"`
}

// Page is one page of a technology listing
type Page struct {
	Technologies   []TechnologySummary `json:"technologies"`
	Pagination     Pagination          `json:"pagination"`
	FiltersApplied FiltersApplied      `json:"filters_applied"`
}

type DomainOption struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Count       int64  `json:"count"`
}

type TagOption struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
	Count       int64  `json:"count"`
}

type LevelOption struct {
	Value       string `json:"value"`
	Count       int64  `json:"count"`
	Description string `json:"description"`
}

// RangeOption is a time-to-market bucket; Max is nil for the open ended one
type RangeOption struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   *int   `json:"max"`
	Count int64  `json:"count"`
}

// FilterOptions lists every filter value with the number of active
// technologies carrying it
type FilterOptions struct {
	Domains            []DomainOption `json:"domains"`
	Tags               []TagOption    `json:"tags"`
	ImpactLevels       []LevelOption  `json:"impact_levels"`
	EffortLevels       []LevelOption  `json:"effort_levels"`
	TimeToMarketRanges []RangeOption  `json:"time_to_market_ranges"`
}

const (
	SuggestionTechnology = "technology"
	SuggestionDomain     = "domain"
)

type Suggestion struct {
	Type      string `json:"type"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Highlight string `json:"highlight"`
}

func toSummary(t model.Technology) TechnologySummary {
	s := TechnologySummary{
		ID:           t.ID,
		UUID:         t.UUID,
		Name:         t.Name,
		Description:  t.Description,
		Angle:        t.Angle,
		Radius:       t.Radius,
		ImpactLevel:  t.ImpactLevel,
		EffortLevel:  t.EffortLevel,
		TimeToMarket: t.TimeToMarket,
		RiskScore:    t.RiskScore,
		IsFeatured:   t.IsFeatured,
	}
	if t.Domain != nil {
		s.Domain = DomainSummary{ID: t.Domain.ID, Name: t.Domain.Name, Color: t.Domain.Color, Icon: t.Domain.Icon}
	} else {
		s.Domain = DomainSummary{ID: t.DomainID}
	}
	if t.Tag != nil {
		s.Tag = &TagSummary{ID: t.Tag.ID, Name: t.Tag.Name, Color: t.Tag.Color}
	}
	return s
}

func toDetail(t model.Technology) *TechnologyDetail {
	d := &TechnologyDetail{
		TechnologySummary: toSummary(t),
		ImpactDescription: t.ImpactDescription,
		EffortDescription: t.EffortDescription,
		UseCase:           UseCase{Title: t.UseCaseTitle, Description: t.UseCaseDescription},
		SourceURL:         t.SourceURL,
		DocumentationURL:  t.DocumentationURL,
		IsActive:          t.IsActive,
		Version:           t.Version,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
	if t.Domain != nil {
		d.Domain.Description = t.Domain.Description
	}
	if t.Tag != nil {
		d.Tag.Description = t.Tag.Description
	}
	return d
}
