package model

import (
	"time"

	"gorm.io/datatypes"
)

// Risk severities
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Workflow complexity levels
const (
	ComplexitySimple   = "Simple"
	ComplexityModerate = "Moderate"
	ComplexityComplex  = "Complex"
)

var (
	Severities   = []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	Complexities = []string{ComplexitySimple, ComplexityModerate, ComplexityComplex}
)

func ValidSeverity(s string) bool { return contains(Severities, s) }

func ValidComplexity(s string) bool { return contains(Complexities, s) }

// TechnologyBenefit is an ordered benefit of a technology
type TechnologyBenefit struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	TechnologyID uint      `json:"-" gorm:"not null;index"`
	Benefit      string    `json:"benefit" gorm:"type:text;not null"`
	Category     string    `json:"category" gorm:"type:varchar(100)"`
	OrderIndex   int       `json:"order_index" gorm:"default:0"`
	CreatedAt    time.Time `json:"-"`
}

// TechnologyRisk is an ordered risk of a technology
type TechnologyRisk struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	TechnologyID uint      `json:"-" gorm:"not null;index"`
	Risk         string    `json:"risk" gorm:"type:text;not null"`
	Severity     string    `json:"severity" gorm:"type:varchar(20);default:'Medium';check:chk_technology_risks_severity,severity IN ('Low','Medium','High','Critical')"`
	Category     string    `json:"category" gorm:"type:varchar(100)"`
	OrderIndex   int       `json:"order_index" gorm:"default:0"`
	CreatedAt    time.Time `json:"-"`
}

// TechnologyWorkflow is an ordered adoption workflow of a technology
type TechnologyWorkflow struct {
	ID                  uint           `json:"id" gorm:"primarykey"`
	TechnologyID        uint           `json:"-" gorm:"not null;index"`
	WorkflowName        string         `json:"workflow_name" gorm:"type:varchar(200);not null"`
	WorkflowDescription string         `json:"workflow_description" gorm:"type:text"`
	Steps               datatypes.JSON `json:"steps"`
	EstimatedDuration   string         `json:"estimated_duration" gorm:"type:varchar(100)"`
	ComplexityLevel     string         `json:"complexity_level" gorm:"type:varchar(20);check:chk_technology_workflows_complexity,complexity_level IN ('Simple','Moderate','Complex')"`
	OrderIndex          int            `json:"order_index" gorm:"default:0"`
	CreatedAt           time.Time      `json:"-"`
}

// TechnologyMetric is an ordered measurement attached to a technology
type TechnologyMetric struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	TechnologyID uint      `json:"-" gorm:"not null;index"`
	MetricName   string    `json:"metric_name" gorm:"type:varchar(200);not null"`
	MetricValue  string    `json:"metric_value" gorm:"type:varchar(100)"`
	MetricUnit   string    `json:"metric_unit" gorm:"type:varchar(50)"`
	MetricType   string    `json:"metric_type" gorm:"type:varchar(50)"`
	DisplayOrder int       `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"-"`
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&Domain{},
		&Tag{},
		&Technology{},
		&TechnologyBenefit{},
		&TechnologyRisk{},
		&TechnologyWorkflow{},
		&TechnologyMetric{},
	}
}
