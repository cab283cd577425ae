package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/codecat1111/radar-clone/internal/model"
	"github.com/codecat1111/radar-clone/pkg/config"
	"github.com/codecat1111/radar-clone/pkg/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// newTestDB opens a private in-memory SQLite database with the schema applied
func newTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	cfg := &config.Config{
		DB: config.DBConfig{
			Driver:       config.DriverSQLite,
			Path:         fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1)),
			MaxIdleConns: 1,
			MaxOpenConns: 1,
			LogLevel:     gormlogger.Silent,
		},
	}

	db, err := database.Open(cfg)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

type fixture struct {
	domains map[string]model.Domain
	tags    map[string]model.Tag
	techs   map[string]model.Technology
}

// seedFixture inserts three domains, three tags and nine technologies, one of
// them inactive.
func seedFixture(tb testing.TB, db *gorm.DB) fixture {
	tb.Helper()

	fx := fixture{
		domains: map[string]model.Domain{},
		tags:    map[string]model.Tag{},
		techs:   map[string]model.Technology{},
	}

	for _, d := range []model.Domain{
		{Name: "Intelligent Machines Technology", Color: "#3B82F6", Icon: "cpu", Description: "AI and ML"},
		{Name: "Security & Privacy", Color: "#EF4444", Icon: "shield-check"},
		{Name: "Cloud & Infrastructure", Color: "#F59E0B", Icon: "cloud"},
	} {
		mustCreate(tb, db, &d)
		fx.domains[d.Name] = d
	}
	for i, name := range []string{"Leading", "Nascent", "Watchlist"} {
		tag := model.Tag{Name: name, Color: "#90EE90", OrderIndex: i + 1}
		mustCreate(tb, db, &tag)
		fx.tags[name] = tag
	}

	ai := fx.domains["Intelligent Machines Technology"].ID
	sec := fx.domains["Security & Privacy"].ID
	cloud := fx.domains["Cloud & Infrastructure"].ID
	leading := fx.tags["Leading"].ID
	nascent := fx.tags["Nascent"].ID

	techs := []model.Technology{
		{Name: "Autonomous Agents (AI Agents)", Description: "Software entities acting on goals", DomainID: ai, TagID: uintPtr(leading), Angle: 45.5, Radius: 0.7, ImpactLevel: model.HighImpact, EffortLevel: model.MediumEffort, TimeToMarket: intPtr(18), RiskScore: intPtr(6)},
		{Name: "MLOps", Description: "Operational practices for machine learning", DomainID: ai, TagID: uintPtr(leading), Angle: 52.3, Radius: 0.6, ImpactLevel: model.HighImpact, EffortLevel: model.MediumEffort, TimeToMarket: intPtr(12), RiskScore: intPtr(4)},
		{Name: "Computer Vision APIs", Description: "Image analysis as a service", DomainID: ai, TagID: uintPtr(leading), Angle: 38.7, Radius: 0.65, ImpactLevel: model.HighImpact, EffortLevel: model.LowEffort, TimeToMarket: intPtr(6), RiskScore: intPtr(3)},
		{Name: "Zero Trust Architecture", Description: "Never trust, always verify", DomainID: sec, TagID: uintPtr(leading), Angle: 185.3, Radius: 0.73, ImpactLevel: model.HighImpact, EffortLevel: model.HighEffort, TimeToMarket: intPtr(20), RiskScore: intPtr(8), UseCaseTitle: "CISA Zero Trust Initiative"},
		{Name: "Behavioral Biometrics", Description: "Identity from interaction patterns", DomainID: sec, TagID: uintPtr(nascent), Angle: 165.2, Radius: 0.84, ImpactLevel: model.MediumImpact, EffortLevel: model.HighEffort, TimeToMarket: intPtr(30), RiskScore: intPtr(8)},
		{Name: "Quantum Machine Learning", Description: "Quantum algorithms for learning tasks", DomainID: ai, TagID: uintPtr(nascent), Angle: 15.3, Radius: 0.85, ImpactLevel: model.HighImpact, EffortLevel: model.HighEffort, TimeToMarket: intPtr(36), RiskScore: intPtr(9)},
		{Name: "Swarm Intelligence", Description: "Collective behaviour of simple agents", DomainID: ai, Angle: 68.2, Radius: 0.95, ImpactLevel: model.MediumImpact, EffortLevel: model.HighEffort},
		{Name: "Vision Transformers", Description: "Attention based image models", DomainID: ai, TagID: uintPtr(leading), Angle: 30, Radius: 0.5, ImpactLevel: model.HighImpact, EffortLevel: model.LowEffort, TimeToMarket: intPtr(8), RiskScore: intPtr(2)},
		{Name: "Legacy Mainframe", Description: "Retired platform", DomainID: cloud, Angle: 200, Radius: 0.9, ImpactLevel: model.LowImpact, EffortLevel: model.LowEffort, TimeToMarket: intPtr(4), RiskScore: intPtr(1)},
	}
	for _, t := range techs {
		mustCreate(tb, db, &t)
		fx.techs[t.Name] = t
	}

	// is_active has a database default, so false must be written explicitly
	legacy := fx.techs["Legacy Mainframe"]
	if err := db.Model(&legacy).Update("is_active", false).Error; err != nil {
		tb.Fatalf("deactivate: %v", err)
	}
	fx.techs["Legacy Mainframe"] = legacy

	return fx
}

func mustCreate(tb testing.TB, db *gorm.DB, v interface{}) {
	tb.Helper()
	if err := db.Create(v).Error; err != nil {
		tb.Fatalf("create %T: %v", v, err)
	}
}

func names(list []TechnologySummary) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Name)
	}
	return out
}

func testLogger() *zap.Logger { return zap.NewNop() }
