package service

import (
	"context"
	"strings"
	"time"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/model"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/prometheus"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgOptionsFailed     = "Failed to fetch filter options"
	msgSuggestionsFailed = "Failed to fetch search suggestions"

	filterOptionsCacheKey = "radar:filter_options"

	MinSuggestionQuery      = 2
	MaxSuggestionQuery      = 100
	DefaultSuggestionLimit  = 10
	MaxSuggestionLimit      = 20
	maxTechnologySuggestion = 8
	maxDomainSuggestion     = 2
)

var impactDescriptions = map[string]string{
	model.HighImpact:   "Significant transformative potential",
	model.MediumImpact: "Moderate improvement potential",
	model.LowImpact:    "Limited or niche improvement potential",
}

var effortDescriptions = map[string]string{
	model.HighEffort:   "Requires significant resources and time",
	model.MediumEffort: "Moderate resource and time investment",
	model.LowEffort:    "Minimal resource and time requirements",
}

type timeBucket struct {
	label string
	min   int
	max   *int
}

func months(v int) *int { return &v }

// A technology with time_to_market m falls in the first bucket whose max is
// >= m.
var timeBuckets = []timeBucket{
	{"0-6 months", 0, months(6)},
	{"6-12 months", 6, months(12)},
	{"1-2 years", 12, months(24)},
	{"2+ years", 24, nil},
}

// Cache stores serialized values under a key. Get reports a miss with
// found == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// FilterService computes filter options and typeahead suggestions
type FilterService struct {
	db    *gorm.DB
	log   *zap.Logger
	cache Cache
}

// NewFilterService creates a filter service. cache may be nil.
func NewFilterService(db *gorm.DB, log *zap.Logger, cache Cache) *FilterService {
	return &FilterService{db: db, log: log, cache: cache}
}

// Options returns every filter value with its count of active technologies.
// The aggregate is served from the cache when one is configured.
func (s *FilterService) Options(ctx context.Context) (*FilterOptions, error) {
	if opts, ok := s.cachedOptions(ctx); ok {
		return opts, nil
	}

	opts, err := s.loadOptions(ctx)
	if err != nil {
		s.log.Error("Failed to fetch filter options", zap.Error(err))
		return nil, apierr.Storage(msgOptionsFailed, err)
	}

	s.storeOptions(ctx, opts)
	return opts, nil
}

func (s *FilterService) cachedOptions(ctx context.Context) (*FilterOptions, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, filterOptionsCacheKey)
	if err != nil {
		prometheus.RecordFilterCache("error")
		s.log.Warn("Filter options cache read failed", zap.Error(err))
		return nil, false
	}
	if !found {
		prometheus.RecordFilterCache("miss")
		return nil, false
	}
	var opts FilterOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		prometheus.RecordFilterCache("error")
		s.log.Warn("Discarding undecodable cached filter options", zap.Error(err))
		return nil, false
	}
	prometheus.RecordFilterCache("hit")
	return &opts, true
}

func (s *FilterService) storeOptions(ctx context.Context, opts *FilterOptions) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		s.log.Warn("Failed to encode filter options for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, filterOptionsCacheKey, raw); err != nil {
		s.log.Warn("Filter options cache write failed", zap.Error(err))
	}
}

type levelCount struct {
	Value string
	Count int64
}

type monthsCount struct {
	TimeToMarket int
	Count        int64
}

func (s *FilterService) loadOptions(ctx context.Context) (*FilterOptions, error) {
	defer prometheus.TrackDBOperation("filter_options")(time.Now())

	opts := &FilterOptions{
		Domains: []DomainOption{},
		Tags:    []TagOption{},
	}
	var impact, effort []levelCount
	var ttm []monthsCount

	g, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.db.WithContext(gctx) }

	g.Go(func() error {
		return db().Model(&model.Domain{}).
			Select("domains.id, domains.name, domains.color, domains.icon, domains.description, COUNT(technologies.id) AS count").
			Joins("LEFT JOIN technologies ON technologies.domain_id = domains.id AND technologies.is_active = ?", true).
			Group("domains.id, domains.name, domains.color, domains.icon, domains.description").
			Order("domains.name ASC").
			Order("domains.id ASC").
			Scan(&opts.Domains).Error
	})
	g.Go(func() error {
		return db().Model(&model.Tag{}).
			Select("tags.id, tags.name, tags.color, tags.description, tags.order_index, COUNT(technologies.id) AS count").
			Joins("LEFT JOIN technologies ON technologies.tag_id = tags.id AND technologies.is_active = ?", true).
			Group("tags.id, tags.name, tags.color, tags.description, tags.order_index").
			Order("tags.order_index ASC").
			Order("tags.name ASC").
			Scan(&opts.Tags).Error
	})
	g.Go(func() error {
		return db().Model(&model.Technology{}).
			Select("impact_level AS value, COUNT(*) AS count").
			Where("is_active = ?", true).
			Group("impact_level").
			Scan(&impact).Error
	})
	g.Go(func() error {
		return db().Model(&model.Technology{}).
			Select("effort_level AS value, COUNT(*) AS count").
			Where("is_active = ?", true).
			Group("effort_level").
			Scan(&effort).Error
	})
	g.Go(func() error {
		return db().Model(&model.Technology{}).
			Select("time_to_market, COUNT(*) AS count").
			Where("is_active = ? AND time_to_market IS NOT NULL", true).
			Group("time_to_market").
			Scan(&ttm).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts.ImpactLevels = levelOptions(model.ImpactLevels, impact, impactDescriptions)
	opts.EffortLevels = levelOptions(model.EffortLevels, effort, effortDescriptions)
	opts.TimeToMarketRanges = bucketTimeToMarket(ttm)
	return opts, nil
}

// levelOptions lists every known level in its fixed order, including levels
// no technology carries.
func levelOptions(levels []string, counts []levelCount, descriptions map[string]string) []LevelOption {
	byValue := make(map[string]int64, len(counts))
	for _, c := range counts {
		byValue[c.Value] = c.Count
	}
	out := make([]LevelOption, 0, len(levels))
	for _, l := range levels {
		out = append(out, LevelOption{Value: l, Count: byValue[l], Description: descriptions[l]})
	}
	return out
}

func bucketTimeToMarket(counts []monthsCount) []RangeOption {
	out := make([]RangeOption, len(timeBuckets))
	for i, b := range timeBuckets {
		out[i] = RangeOption{Label: b.label, Min: b.min, Max: b.max}
	}
	for _, c := range counts {
		for i, b := range timeBuckets {
			if b.max == nil || c.TimeToMarket <= *b.max {
				out[i].Count += c.Count
				break
			}
		}
	}
	return out
}

// Suggestions returns up to limit typeahead matches for q: technologies
// first with name-prefix matches leading, then domains by name. Both groups
// are ordered and capped in SQL. Callers validate q and limit.
func (s *FilterService) Suggestions(ctx context.Context, q string, limit int) ([]Suggestion, error) {
	defer prometheus.TrackDBOperation("search_suggestions")(time.Now())
	prometheus.RecordSuggestionQuery()

	q = strings.TrimSpace(q)
	if len(q) < MinSuggestionQuery {
		return []Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	techLimit := min(limit, maxTechnologySuggestion)
	domainLimit := min(limit-maxTechnologySuggestion, maxDomainSuggestion)

	var techs []model.Technology
	var domains []model.Domain

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return query.Apply(s.db.WithContext(gctx).Model(&model.Technology{}),
			suggestionPredicates(q, query.DialectOf(s.db))).
			Select("technologies.id, technologies.name").
			Clauses(prefixFirst(q)).
			Limit(techLimit).
			Find(&techs).Error
	})
	if domainLimit > 0 {
		g.Go(func() error {
			return s.db.WithContext(gctx).
				Where("LOWER(domains.name) LIKE ?", "%"+strings.ToLower(q)+"%").
				Order("domains.name ASC").
				Limit(domainLimit).
				Find(&domains).Error
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to fetch search suggestions", zap.String("query", q), zap.Error(err))
		return nil, apierr.Storage(msgSuggestionsFailed, err)
	}

	out := make([]Suggestion, 0, len(techs)+len(domains))
	for _, t := range techs {
		out = append(out, Suggestion{Type: SuggestionTechnology, ID: t.ID, Name: t.Name, Highlight: Highlight(t.Name, q)})
	}
	for _, d := range domains {
		out = append(out, Suggestion{Type: SuggestionDomain, ID: d.ID, Name: d.Name, Highlight: Highlight(d.Name, q)})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// prefixFirst orders technologies whose name starts with q ahead of other
// matches, then by name and id.
func prefixFirst(q string) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{
		SQL:                "CASE WHEN LOWER(technologies.name) LIKE ? THEN 0 ELSE 1 END, technologies.name ASC, technologies.id ASC",
		Vars:               []interface{}{strings.ToLower(q) + "%"},
		WithoutParentheses: true,
	}}
}

func suggestionPredicates(q string, dialect query.Dialect) []query.Predicate {
	active := query.Predicate{SQL: "technologies.is_active = ?", Args: []interface{}{true}}
	if dialect == query.SQLite {
		return []query.Predicate{active, {
			SQL:  "LOWER(technologies.name) LIKE ?",
			Args: []interface{}{"%" + strings.ToLower(q) + "%"},
		}}
	}
	return []query.Predicate{active, {
		SQL:  "(technologies.name ILIKE ? OR to_tsvector('english', technologies.name) @@ plainto_tsquery('english', ?))",
		Args: []interface{}{"%" + q + "%", q},
	}}
}

// Highlight wraps the first case-insensitive occurrence of q in name with
// <b></b>. Names without a literal occurrence are returned unchanged.
func Highlight(name, q string) string {
	if q == "" || !query.ContainsFold(name, q) {
		return name
	}
	idx := strings.Index(strings.ToLower(name), strings.ToLower(q))
	// lowering can change byte lengths outside ASCII
	if idx < 0 || idx+len(q) > len(name) || !strings.EqualFold(name[idx:idx+len(q)], q) {
		return name
	}
	return name[:idx] + "<b>" + name[idx:idx+len(q)] + "</b>" + name[idx+len(q):]
}
