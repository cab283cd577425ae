package query

import (
	"strings"

	"gorm.io/gorm"
)

// Dialect selects SQL that differs between the supported databases.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DialectOf returns the dialect of an open gorm handle.
func DialectOf(db *gorm.DB) Dialect {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == string(SQLite) {
		return SQLite
	}
	return Postgres
}

// Predicate is one parameterized WHERE condition. User supplied values only
// ever travel in Args.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Predicates turns a filter into the list of conditions that are ANDed
// together by Apply.
func Predicates(f Filter, dialect Dialect) []Predicate {
	preds := []Predicate{
		{SQL: "technologies.is_active = ?", Args: []interface{}{f.ActiveOnly()}},
	}

	if term := f.SearchTerm(); term != "" {
		preds = append(preds, searchPredicate(term, dialect))
	}
	if len(f.DomainIDs) > 0 {
		preds = append(preds, Predicate{SQL: "technologies.domain_id IN ?", Args: []interface{}{f.DomainIDs}})
	}
	if len(f.TagIDs) > 0 {
		preds = append(preds, Predicate{SQL: "technologies.tag_id IN ?", Args: []interface{}{f.TagIDs}})
	}
	if len(f.Impact) > 0 {
		preds = append(preds, Predicate{SQL: "technologies.impact_level IN ?", Args: []interface{}{f.Impact}})
	}
	if len(f.Effort) > 0 {
		preds = append(preds, Predicate{SQL: "technologies.effort_level IN ?", Args: []interface{}{f.Effort}})
	}
	if len(f.TechnologyIDs) > 0 {
		preds = append(preds, Predicate{SQL: "technologies.id IN ?", Args: []interface{}{f.TechnologyIDs}})
	}
	if f.TimeToMarket != nil {
		preds = append(preds, Predicate{SQL: "technologies.time_to_market <= ?", Args: []interface{}{*f.TimeToMarket}})
	}
	if f.RiskScoreMin != nil {
		preds = append(preds, Predicate{SQL: "technologies.risk_score >= ?", Args: []interface{}{*f.RiskScoreMin}})
	}
	if f.RiskScoreMax != nil {
		preds = append(preds, Predicate{SQL: "technologies.risk_score <= ?", Args: []interface{}{*f.RiskScoreMax}})
	}

	return preds
}

func searchPredicate(term string, dialect Dialect) Predicate {
	if dialect == SQLite {
		pattern := "%" + strings.ToLower(term) + "%"
		return Predicate{
			SQL:  "(LOWER(technologies.name) LIKE ? OR LOWER(technologies.description) LIKE ?)",
			Args: []interface{}{pattern, pattern},
		}
	}
	pattern := "%" + term + "%"
	return Predicate{
		SQL: "(technologies.name ILIKE ? OR technologies.description ILIKE ? OR " +
			"to_tsvector('english', technologies.name || ' ' || technologies.description) @@ plainto_tsquery('english', ?))",
		Args: []interface{}{pattern, pattern, term},
	}
}

// Apply adds every predicate to the query.
func Apply(db *gorm.DB, preds []Predicate) *gorm.DB {
	for _, p := range preds {
		db = db.Where(p.SQL, p.Args...)
	}
	return db
}

// ContainsFold is the match rule used by the search predicate, exposed for
// callers that filter in memory.
func ContainsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}
