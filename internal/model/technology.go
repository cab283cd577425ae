package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Impact levels
const (
	HighImpact   = "High Impact"
	MediumImpact = "Medium Impact"
	LowImpact    = "Low Impact"
)

// Effort levels
const (
	HighEffort   = "High Effort"
	MediumEffort = "Medium Effort"
	LowEffort    = "Low Effort"
)

var (
	ImpactLevels = []string{HighImpact, MediumImpact, LowImpact}
	EffortLevels = []string{HighEffort, MediumEffort, LowEffort}
)

// ValidImpact reports whether s is a known impact level
func ValidImpact(s string) bool { return contains(ImpactLevels, s) }

// ValidEffort reports whether s is a known effort level
func ValidEffort(s string) bool { return contains(EffortLevels, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Technology is a single item plotted on the radar
type Technology struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	UUID               string    `json:"uuid" gorm:"type:varchar(36);uniqueIndex;not null"`
	Name               string    `json:"name" gorm:"type:varchar(250);not null;index"`
	Description        string    `json:"description" gorm:"type:text;not null"`
	DomainID           uint      `json:"domain_id" gorm:"not null;index"`
	Domain             *Domain   `json:"domain,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	TagID              *uint     `json:"tag_id" gorm:"index"`
	Tag                *Tag      `json:"tag,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Angle              float64   `json:"angle" gorm:"type:decimal(6,2);not null;check:chk_technologies_angle,angle >= 0 AND angle < 360"`
	Radius             float64   `json:"radius" gorm:"type:decimal(4,3);not null;check:chk_technologies_radius,radius >= 0 AND radius <= 1"`
	ImpactLevel        string    `json:"impact_level" gorm:"type:varchar(20);not null;index;check:chk_technologies_impact,impact_level IN ('High Impact','Medium Impact','Low Impact')"`
	EffortLevel        string    `json:"effort_level" gorm:"type:varchar(20);not null;index;check:chk_technologies_effort,effort_level IN ('High Effort','Medium Effort','Low Effort')"`
	ImpactDescription  string    `json:"impact_description" gorm:"type:text"`
	EffortDescription  string    `json:"effort_description" gorm:"type:text"`
	TimeToMarket       *int      `json:"time_to_market"`
	RiskScore          *int      `json:"risk_score" gorm:"check:chk_technologies_risk,risk_score >= 1 AND risk_score <= 10"`
	UseCaseTitle       string    `json:"-" gorm:"type:varchar(250)"`
	UseCaseDescription string    `json:"-" gorm:"type:text"`
	SourceURL          string    `json:"source_url" gorm:"type:varchar(500)"`
	DocumentationURL   string    `json:"documentation_url" gorm:"type:varchar(500)"`
	IsActive           bool      `json:"is_active" gorm:"default:true;index"`
	IsFeatured         bool      `json:"is_featured" gorm:"default:false"`
	Version            int       `json:"version" gorm:"default:1"`
	CreatedBy          string    `json:"created_by" gorm:"type:varchar(100)"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Benefits  []TechnologyBenefit  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Risks     []TechnologyRisk     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Workflows []TechnologyWorkflow `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Metrics   []TechnologyMetric   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns an external identifier when none is set
func (t *Technology) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}

// BeforeUpdate bumps the row version on every update
func (t *Technology) BeforeUpdate(tx *gorm.DB) error {
	t.Version++
	tx.Statement.SetColumn("version", t.Version)
	return nil
}
