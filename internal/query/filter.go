package query

import "strings"

const (
	DefaultLimit    = 100
	MinLimit        = 1
	MaxLimit        = 200
	MaxSearchLength = 100
)

// Filter holds the optional criteria of a technology listing. Every
// dimension that is set narrows the result; unset dimensions are ignored.
type Filter struct {
	Search        string
	DomainIDs     []uint
	TagIDs        []uint
	TechnologyIDs []uint
	Impact        []string
	Effort        []string
	TimeToMarket  *int
	RiskScoreMin  *int
	RiskScoreMax  *int
	IsActive      *bool

	// Limit is nil when the caller did not ask for a page size.
	Limit  *int
	Offset int
}

// Window returns the clamped page size and offset.
func (f Filter) Window() (limit, offset int) {
	limit = DefaultLimit
	if f.Limit != nil {
		limit = *f.Limit
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ActiveOnly reports the is_active value the listing is restricted to.
func (f Filter) ActiveOnly() bool {
	if f.IsActive == nil {
		return true
	}
	return *f.IsActive
}

// SearchTerm returns the trimmed search text.
func (f Filter) SearchTerm() string {
	return strings.TrimSpace(f.Search)
}

// Empty reports whether no narrowing criteria besides is_active are set.
func (f Filter) Empty() bool {
	return f.SearchTerm() == "" &&
		len(f.DomainIDs) == 0 &&
		len(f.TagIDs) == 0 &&
		len(f.TechnologyIDs) == 0 &&
		len(f.Impact) == 0 &&
		len(f.Effort) == 0 &&
		f.TimeToMarket == nil &&
		f.RiskScoreMin == nil &&
		f.RiskScoreMax == nil
}
