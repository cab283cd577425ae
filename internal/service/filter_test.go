package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/codecat1111/radar-clone/internal/model"
	"gorm.io/gorm"
)

func TestOptions(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	svc := NewFilterService(db, testLogger(), nil)

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}

	var domains []string
	var domainCounts []int64
	for _, d := range opts.Domains {
		domains = append(domains, d.Name)
		domainCounts = append(domainCounts, d.Count)
	}
	if !reflect.DeepEqual(domains, []string{"Cloud & Infrastructure", "Intelligent Machines Technology", "Security & Privacy"}) {
		t.Errorf("domains = %v", domains)
	}
	if !reflect.DeepEqual(domainCounts, []int64{0, 6, 2}) {
		t.Errorf("domain counts = %v", domainCounts)
	}
	if opts.Domains[1].Icon != "cpu" || opts.Domains[1].Description != "AI and ML" {
		t.Errorf("domain fields = %+v", opts.Domains[1])
	}

	var tags []string
	var tagCounts []int64
	for _, tag := range opts.Tags {
		tags = append(tags, tag.Name)
		tagCounts = append(tagCounts, tag.Count)
	}
	if !reflect.DeepEqual(tags, []string{"Leading", "Nascent", "Watchlist"}) || !reflect.DeepEqual(tagCounts, []int64{5, 2, 0}) {
		t.Errorf("tags = %v counts = %v", tags, tagCounts)
	}

	wantImpact := []LevelOption{
		{Value: model.HighImpact, Count: 6, Description: "Significant transformative potential"},
		{Value: model.MediumImpact, Count: 2, Description: "Moderate improvement potential"},
		{Value: model.LowImpact, Count: 0, Description: "Limited or niche improvement potential"},
	}
	if !reflect.DeepEqual(opts.ImpactLevels, wantImpact) {
		t.Errorf("impact = %+v", opts.ImpactLevels)
	}

	var effortCounts []int64
	for _, e := range opts.EffortLevels {
		effortCounts = append(effortCounts, e.Count)
	}
	if !reflect.DeepEqual(effortCounts, []int64{4, 2, 2}) {
		t.Errorf("effort counts = %v", effortCounts)
	}

	var labels []string
	var rangeCounts []int64
	for _, r := range opts.TimeToMarketRanges {
		labels = append(labels, r.Label)
		rangeCounts = append(rangeCounts, r.Count)
	}
	if !reflect.DeepEqual(labels, []string{"0-6 months", "6-12 months", "1-2 years", "2+ years"}) {
		t.Errorf("labels = %v", labels)
	}
	if !reflect.DeepEqual(rangeCounts, []int64{1, 2, 2, 2}) {
		t.Errorf("range counts = %v", rangeCounts)
	}
	if last := opts.TimeToMarketRanges[3]; last.Min != 24 || last.Max != nil {
		t.Errorf("open ended bucket = %+v", last)
	}
}

func TestOptionsEmptyDatabase(t *testing.T) {
	svc := NewFilterService(newTestDB(t), testLogger(), nil)

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Domains) != 0 || opts.Domains == nil {
		t.Errorf("domains = %#v", opts.Domains)
	}
	if len(opts.TimeToMarketRanges) != 4 || len(opts.ImpactLevels) != 3 {
		t.Errorf("fixed options missing: %+v", opts)
	}
}

func TestBucketTimeToMarket(t *testing.T) {
	got := bucketTimeToMarket([]monthsCount{{0, 1}, {6, 2}, {7, 1}, {12, 1}, {13, 4}, {24, 1}, {25, 3}, {120, 1}})
	want := []int64{3, 2, 5, 4}
	for i, r := range got {
		if r.Count != want[i] {
			t.Errorf("%s = %d, want %d", r.Label, r.Count, want[i])
		}
	}
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string][]byte
	sets   int
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string][]byte{}
	}
	m.values[key] = value
	m.sets++
	return nil
}

func TestOptionsCached(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	cache := &memoryCache{}
	svc := NewFilterService(db, testLogger(), cache)
	ctx := context.Background()

	first, err := svc.Options(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	// a change after caching is not visible until the entry expires
	mlops := fx.techs["MLOps"]
	if err := db.Model(&mlops).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}

	second, err := svc.Options(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Errorf("cache written again on hit")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached options differ:\n%+v\n%+v", first, second)
	}
}

func TestSuggestions(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	svc := NewFilterService(db, testLogger(), nil)
	ctx := context.Background()

	got, err := svc.Suggestions(ctx, "in", 10)
	if err != nil {
		t.Fatalf("Suggestions() error = %v", err)
	}
	want := []Suggestion{
		{Type: SuggestionTechnology, Name: "Quantum Machine Learning", Highlight: "Quantum Mach<b>in</b>e Learning"},
		{Type: SuggestionTechnology, Name: "Swarm Intelligence", Highlight: "Swarm <b>In</b>telligence"},
		{Type: SuggestionDomain, Name: "Cloud & Infrastructure", Highlight: "Cloud & <b>In</b>frastructure"},
		{Type: SuggestionDomain, Name: "Intelligent Machines Technology", Highlight: "<b>In</b>telligent Machines Technology"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d suggestions: %+v", len(got), got)
	}
	for i := range want {
		if got[i].Type != want[i].Type || got[i].Name != want[i].Name || got[i].Highlight != want[i].Highlight || got[i].ID == 0 {
			t.Errorf("suggestion %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// with limit <= 8 no domain slots remain
	got, err = svc.Suggestions(ctx, "in", 8)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range got {
		if s.Type == SuggestionDomain {
			t.Errorf("unexpected domain suggestion %+v", s)
		}
	}
}

func TestSuggestionsPrefixFirst(t *testing.T) {
	db := newTestDB(t)
	seedFixture(t, db)
	svc := NewFilterService(db, testLogger(), nil)

	got, err := svc.Suggestions(context.Background(), "vi", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Vision Transformers" {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestSuggestionsLimitInQuery(t *testing.T) {
	db := newTestDB(t)
	domain := model.Domain{Name: "Edge", Color: "#000000"}
	mustCreate(t, db, &domain)
	for i := 0; i < 10; i++ {
		mustCreate(t, db, &model.Technology{
			Name: fmt.Sprintf("Alpha Zed %d", i), Description: "x", DomainID: domain.ID,
			Angle: 10, Radius: 0.5, ImpactLevel: model.LowImpact, EffortLevel: model.LowEffort,
		})
	}
	mustCreate(t, db, &model.Technology{
		Name: "Zed Prime", Description: "x", DomainID: domain.ID,
		Angle: 10, Radius: 0.5, ImpactLevel: model.LowImpact, EffortLevel: model.LowEffort,
	})

	var mu sync.Mutex
	var statements []string
	db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		mu.Lock()
		defer mu.Unlock()
		statements = append(statements, tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...))
	})

	svc := NewFilterService(db, testLogger(), nil)
	got, err := svc.Suggestions(context.Background(), "zed", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 8 || got[0].Name != "Zed Prime" || got[1].Name != "Alpha Zed 0" {
		t.Errorf("suggestions = %+v", got)
	}

	found := false
	for _, stmt := range statements {
		if strings.Contains(stmt, "FROM `technologies`") || strings.Contains(stmt, "FROM \"technologies\"") {
			found = true
			if !strings.Contains(stmt, "CASE WHEN") || !strings.Contains(stmt, "LIMIT 8") {
				t.Errorf("technology query not bounded in SQL: %s", stmt)
			}
		}
	}
	if !found {
		t.Errorf("no technology query captured: %v", statements)
	}
}

func TestSuggestionsShortQuery(t *testing.T) {
	svc := NewFilterService(newTestDB(t), testLogger(), nil)
	got, err := svc.Suggestions(context.Background(), " a ", 10)
	if err != nil || len(got) != 0 {
		t.Errorf("Suggestions() = %v, %v", got, err)
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct{ name, q, want string }{
		{"MLOps", "ml", "<b>ML</b>Ops"},
		{"Zero Trust Architecture", "TRUST", "Zero <b>Trust</b> Architecture"},
		{"Digital Twins", "xyz", "Digital Twins"},
		{"Digital Twins", "", "Digital Twins"},
	}
	for _, tt := range tests {
		if got := Highlight(tt.name, tt.q); got != tt.want {
			t.Errorf("Highlight(%q, %q) = %q, want %q", tt.name, tt.q, got, tt.want)
		}
	}
}
