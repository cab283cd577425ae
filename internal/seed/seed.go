// Package seed loads the reference radar data set into the database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/codecat1111/radar-clone/internal/model"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:embed data/radar.yaml
var defaultData []byte

type Domain struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Icon        string `yaml:"icon"`
}

type Tag struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Description string `yaml:"description"`
	OrderIndex  int    `yaml:"order_index"`
}

type Benefit struct {
	Benefit  string `yaml:"benefit"`
	Category string `yaml:"category"`
}

type Risk struct {
	Risk     string `yaml:"risk"`
	Severity string `yaml:"severity"`
	Category string `yaml:"category"`
}

type Workflow struct {
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	Steps             []string `yaml:"steps"`
	EstimatedDuration string   `yaml:"estimated_duration"`
	Complexity        string   `yaml:"complexity"`
}

type Metric struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Unit  string `yaml:"unit"`
	Type  string `yaml:"type"`
}

type UseCase struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Technology references its domain and tag by name
type Technology struct {
	Name              string     `yaml:"name"`
	Description       string     `yaml:"description"`
	Domain            string     `yaml:"domain"`
	Tag               string     `yaml:"tag"`
	Angle             float64    `yaml:"angle"`
	Radius            float64    `yaml:"radius"`
	Impact            string     `yaml:"impact"`
	Effort            string     `yaml:"effort"`
	ImpactDescription string     `yaml:"impact_description"`
	EffortDescription string     `yaml:"effort_description"`
	TimeToMarket      *int       `yaml:"time_to_market"`
	RiskScore         *int       `yaml:"risk_score"`
	UseCase           UseCase    `yaml:"use_case"`
	SourceURL         string     `yaml:"source_url"`
	DocumentationURL  string     `yaml:"documentation_url"`
	IsFeatured        bool       `yaml:"is_featured"`
	Benefits          []Benefit  `yaml:"benefits"`
	Risks             []Risk     `yaml:"risks"`
	Workflows         []Workflow `yaml:"workflows"`
	Metrics           []Metric   `yaml:"metrics"`
}

// Data is a complete seed document
type Data struct {
	Domains      []Domain     `yaml:"domains"`
	Tags         []Tag        `yaml:"tags"`
	Technologies []Technology `yaml:"technologies"`
}

// Result reports how many rows a seed run inserted
type Result struct {
	Domains      int
	Tags         int
	Technologies int
	Benefits     int
	Risks        int
	Workflows    int
	Metrics      int
}

// Default returns the bundled data set
func Default() (*Data, error) {
	return Parse(defaultData)
}

// ReadFile loads and validates a seed document from disk
func ReadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML seed document
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks references and value ranges before anything is written
func (d *Data) Validate() error {
	domains := make(map[string]bool, len(d.Domains))
	for _, dom := range d.Domains {
		if dom.Name == "" {
			return fmt.Errorf("domain without a name")
		}
		if domains[dom.Name] {
			return fmt.Errorf("duplicate domain %q", dom.Name)
		}
		domains[dom.Name] = true
	}

	tags := make(map[string]bool, len(d.Tags))
	for _, tag := range d.Tags {
		if tag.Name == "" {
			return fmt.Errorf("tag without a name")
		}
		if tags[tag.Name] {
			return fmt.Errorf("duplicate tag %q", tag.Name)
		}
		tags[tag.Name] = true
	}

	for _, t := range d.Technologies {
		switch {
		case t.Name == "":
			return fmt.Errorf("technology without a name")
		case !domains[t.Domain]:
			return fmt.Errorf("technology %q: unknown domain %q", t.Name, t.Domain)
		case t.Tag != "" && !tags[t.Tag]:
			return fmt.Errorf("technology %q: unknown tag %q", t.Name, t.Tag)
		case t.Angle < 0 || t.Angle >= 360:
			return fmt.Errorf("technology %q: angle %v outside [0, 360)", t.Name, t.Angle)
		case t.Radius < 0 || t.Radius > 1:
			return fmt.Errorf("technology %q: radius %v outside [0, 1]", t.Name, t.Radius)
		case !model.ValidImpact(t.Impact):
			return fmt.Errorf("technology %q: unknown impact level %q", t.Name, t.Impact)
		case !model.ValidEffort(t.Effort):
			return fmt.Errorf("technology %q: unknown effort level %q", t.Name, t.Effort)
		case t.RiskScore != nil && (*t.RiskScore < 1 || *t.RiskScore > 10):
			return fmt.Errorf("technology %q: risk score %d outside [1, 10]", t.Name, *t.RiskScore)
		}
		for _, r := range t.Risks {
			if r.Severity != "" && !model.ValidSeverity(r.Severity) {
				return fmt.Errorf("technology %q: unknown risk severity %q", t.Name, r.Severity)
			}
		}
		for _, w := range t.Workflows {
			if w.Complexity != "" && !model.ValidComplexity(w.Complexity) {
				return fmt.Errorf("technology %q: unknown workflow complexity %q", t.Name, w.Complexity)
			}
		}
	}
	return nil
}

// Run replaces the radar tables with d in a single transaction
func Run(ctx context.Context, db *gorm.DB, d *Data, log *zap.Logger) (*Result, error) {
	res := &Result{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}
		log.Info("Cleared existing data")

		domainIDs := make(map[string]uint, len(d.Domains))
		for _, dom := range d.Domains {
			row := model.Domain{Name: dom.Name, Description: dom.Description, Color: dom.Color, Icon: dom.Icon}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert domain %q: %w", dom.Name, err)
			}
			domainIDs[dom.Name] = row.ID
			res.Domains++
		}

		tagIDs := make(map[string]uint, len(d.Tags))
		for _, tag := range d.Tags {
			row := model.Tag{Name: tag.Name, Color: tag.Color, Description: tag.Description, OrderIndex: tag.OrderIndex}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert tag %q: %w", tag.Name, err)
			}
			tagIDs[tag.Name] = row.ID
			res.Tags++
		}

		for _, t := range d.Technologies {
			row, err := technologyRow(t, domainIDs, tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("insert technology %q: %w", t.Name, err)
			}
			res.Technologies++
			res.Benefits += len(row.Benefits)
			res.Risks += len(row.Risks)
			res.Workflows += len(row.Workflows)
			res.Metrics += len(row.Metrics)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Database seeding completed",
		zap.Int("domains", res.Domains),
		zap.Int("tags", res.Tags),
		zap.Int("technologies", res.Technologies),
		zap.Int("benefits", res.Benefits),
		zap.Int("risks", res.Risks))
	return res, nil
}

// clearTables empties the tables children first
func clearTables(tx *gorm.DB) error {
	if query.DialectOf(tx) == query.Postgres {
		stmt := "TRUNCATE technology_workflows, technology_metrics, technology_risks, technology_benefits, " +
			"technologies, tags, domains RESTART IDENTITY CASCADE"
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
		return nil
	}

	for _, m := range []interface{}{
		&model.TechnologyWorkflow{},
		&model.TechnologyMetric{},
		&model.TechnologyRisk{},
		&model.TechnologyBenefit{},
		&model.Technology{},
		&model.Tag{},
		&model.Domain{},
	} {
		if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}
	return nil
}

func technologyRow(t Technology, domainIDs, tagIDs map[string]uint) (*model.Technology, error) {
	row := &model.Technology{
		Name:               t.Name,
		Description:        t.Description,
		DomainID:           domainIDs[t.Domain],
		Angle:              t.Angle,
		Radius:             t.Radius,
		ImpactLevel:        t.Impact,
		EffortLevel:        t.Effort,
		ImpactDescription:  t.ImpactDescription,
		EffortDescription:  t.EffortDescription,
		TimeToMarket:       t.TimeToMarket,
		RiskScore:          t.RiskScore,
		UseCaseTitle:       t.UseCase.Title,
		UseCaseDescription: t.UseCase.Description,
		SourceURL:          t.SourceURL,
		DocumentationURL:   t.DocumentationURL,
		IsActive:           true,
		IsFeatured:         t.IsFeatured,
		CreatedBy:          "seed",
	}
	if t.Tag != "" {
		id := tagIDs[t.Tag]
		row.TagID = &id
	}

	for i, b := range t.Benefits {
		row.Benefits = append(row.Benefits, model.TechnologyBenefit{Benefit: b.Benefit, Category: b.Category, OrderIndex: i + 1})
	}
	for i, r := range t.Risks {
		severity := r.Severity
		if severity == "" {
			severity = model.SeverityMedium
		}
		row.Risks = append(row.Risks, model.TechnologyRisk{Risk: r.Risk, Severity: severity, Category: r.Category, OrderIndex: i + 1})
	}
	for i, w := range t.Workflows {
		steps, err := json.Marshal(w.Steps)
		if err != nil {
			return nil, fmt.Errorf("technology %q: encode workflow steps: %w", t.Name, err)
		}
		row.Workflows = append(row.Workflows, model.TechnologyWorkflow{
			WorkflowName:        w.Name,
			WorkflowDescription: w.Description,
			Steps:               datatypes.JSON(steps),
			EstimatedDuration:   w.EstimatedDuration,
			ComplexityLevel:     w.Complexity,
			OrderIndex:          i + 1,
		})
		if row.Workflows[i].ComplexityLevel == "" {
			row.Workflows[i].ComplexityLevel = model.ComplexityModerate
		}
	}
	for i, m := range t.Metrics {
		row.Metrics = append(row.Metrics, model.TechnologyMetric{
			MetricName:   m.Name,
			MetricValue:  m.Value,
			MetricUnit:   m.Unit,
			MetricType:   m.Type,
			DisplayOrder: i + 1,
		})
	}
	return row, nil
}
