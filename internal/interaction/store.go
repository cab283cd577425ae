// Package interaction holds the client side radar state: loaded data,
// filters, view mode and the category/item selection machine.
package interaction

import (
	"sync"

	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/internal/service"
)

type ViewMode string

const (
	ViewScatter ViewMode = "scatter"
	ViewRadial  ViewMode = "radial"
)

type Phase int

const (
	Idle Phase = iota
	CategorySelected
	ItemSelected
	Transitioning
)

func (p Phase) String() string {
	switch p {
	case CategorySelected:
		return "category-selected"
	case ItemSelected:
		return "item-selected"
	case Transitioning:
		return "transitioning"
	default:
		return "idle"
	}
}

// Filters are the user chosen listing criteria
type Filters struct {
	Search        string
	DomainIDs     []uint
	TagIDs        []uint
	TechnologyIDs []uint
	Impact        []string
	Effort        []string
	TimeToMarket  *int
}

// Query converts the filters into listing criteria for the API
func (f Filters) Query() query.Filter {
	return query.Filter{
		Search:        f.Search,
		DomainIDs:     f.DomainIDs,
		TagIDs:        f.TagIDs,
		TechnologyIDs: f.TechnologyIDs,
		Impact:        f.Impact,
		Effort:        f.Effort,
		TimeToMarket:  f.TimeToMarket,
	}
}

// ActiveCount is the number of filter values currently applied
func (f Filters) ActiveCount() int {
	n := len(f.DomainIDs) + len(f.TagIDs) + len(f.Impact) + len(f.Effort) + len(f.TechnologyIDs)
	if f.Search != "" {
		n++
	}
	if f.TimeToMarket != nil {
		n++
	}
	return n
}

func (f Filters) clone() Filters {
	f.DomainIDs = append([]uint(nil), f.DomainIDs...)
	f.TagIDs = append([]uint(nil), f.TagIDs...)
	f.TechnologyIDs = append([]uint(nil), f.TechnologyIDs...)
	f.Impact = append([]string(nil), f.Impact...)
	f.Effort = append([]string(nil), f.Effort...)
	return f
}

// State is a snapshot of the store. Version increases with every change.
type State struct {
	Version uint64

	Technologies []service.TechnologySummary
	Total        int64
	ListLoading  bool
	ListErr      error

	Detail        *service.TechnologyDetail
	DetailLoading bool
	DetailErr     error

	Filters  Filters
	ViewMode ViewMode

	Phase    Phase
	Category uint
	Item     uint
	// Target is the category being transitioned to
	Target uint
	// Seq identifies the current detail request
	Seq uint64

	transition uint64
	listSeq    uint64
}

// Store is the single source of truth for the client. All mutation goes
// through its methods or a Machine wrapping it.
type Store struct {
	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

func NewStore() *Store {
	return &Store{
		state: State{ViewMode: ViewScatter},
		subs:  make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.Filters = st.Filters.clone()
	st.Technologies = append([]service.TechnologySummary(nil), st.Technologies...)
	return st
}

// Subscribe registers fn to receive a snapshot after every change. Snapshots
// from concurrent updates may arrive out of order; compare Version.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies subscribers when it reports
// a change
func (s *Store) update(fn func(st *State) bool) State {
	s.mu.Lock()
	changed := fn(&s.state)
	if changed {
		s.state.Version++
	}
	snap := s.snapshotLocked()
	subs := make([]func(State), 0, len(s.subs))
	if changed {
		for _, sub := range s.subs {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return snap
}

func (s *Store) SetListLoading(loading bool) {
	s.update(func(st *State) bool {
		st.ListLoading = loading
		return true
	})
}

func (s *Store) SetListError(err error) {
	s.update(func(st *State) bool {
		st.ListErr = err
		st.ListLoading = false
		return true
	})
}

// SetTechnologies replaces the loaded technology list
func (s *Store) SetTechnologies(techs []service.TechnologySummary, total int64) {
	s.update(func(st *State) bool {
		st.Technologies = append([]service.TechnologySummary(nil), techs...)
		st.Total = total
		st.ListLoading = false
		st.ListErr = nil
		return true
	})
}

// UpdateFilters edits the filters in place
func (s *Store) UpdateFilters(fn func(f *Filters)) {
	s.update(func(st *State) bool {
		fn(&st.Filters)
		st.listSeq++
		return true
	})
}

// ClearFilters empties every filter but keeps the selection and view mode
func (s *Store) ClearFilters() {
	s.UpdateFilters(func(f *Filters) { *f = Filters{} })
}
