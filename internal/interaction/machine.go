package interaction

import (
	"context"
	"errors"

	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/internal/radar"
	"github.com/codecat1111/radar-clone/internal/service"
	"github.com/codecat1111/radar-clone/prometheus"
	"go.uber.org/zap"
)

var (
	ErrTransitionInProgress = errors.New("a category transition is in progress")
	ErrNoChange             = errors.New("selection unchanged")
	ErrUnknownItem          = errors.New("technology is not loaded")
	ErrNotInCategory        = errors.New("technology is not in the selected category")
	ErrStaleTransition      = errors.New("transition was superseded")
)

// API is the part of the radar API the machine needs
type API interface {
	ListTechnologies(ctx context.Context, f query.Filter) (*service.Page, error)
	GetTechnology(ctx context.Context, id uint, details bool) (*service.TechnologyDetail, error)
}

// Transition is handed to the presentation layer when a category change
// needs animating. Pass it to Complete once the animation ends.
type Transition struct {
	id       uint64
	From     uint
	Category uint
}

// Machine drives selection changes on a Store
type Machine struct {
	store *Store
	api   API
	log   *zap.Logger
}

func NewMachine(store *Store, api API, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{store: store, api: api, log: log}
}

func (m *Machine) Store() *Store { return m.store }

// Refresh reloads the technology list for the current filters. A response
// for filters that changed meanwhile is dropped.
func (m *Machine) Refresh(ctx context.Context) error {
	var f query.Filter
	var seq uint64
	m.store.update(func(st *State) bool {
		f = st.Filters.clone().Query()
		limit := query.MaxLimit
		f.Limit = &limit
		seq = st.listSeq
		st.ListLoading = true
		return true
	})

	page, err := m.api.ListTechnologies(ctx, f)
	m.store.update(func(st *State) bool {
		if st.listSeq != seq {
			return false
		}
		st.ListLoading = false
		if err != nil {
			st.ListErr = err
			return true
		}
		st.Technologies = page.Technologies
		st.Total = page.Pagination.Total
		st.ListErr = nil
		return true
	})
	if err != nil {
		m.log.Warn("Failed to load technologies", zap.Error(err))
	}
	return err
}

// firstMember returns the first technology of category in name order, or 0
func firstMember(techs []service.TechnologySummary, category uint) uint {
	var items []radar.Item
	for _, t := range techs {
		if t.Domain.ID == category {
			items = append(items, radar.Item{ID: t.ID, Name: t.Name})
		}
	}
	if len(items) == 0 {
		return 0
	}
	radar.SortItems(items)
	return items[0].ID
}

func findTechnology(techs []service.TechnologySummary, id uint) (service.TechnologySummary, bool) {
	for _, t := range techs {
		if t.ID == id {
			return t, true
		}
	}
	return service.TechnologySummary{}, false
}

// selectItem points the state at category and item and starts a new detail request
func selectItem(st *State, category, item uint) {
	st.Category = category
	st.Item = item
	st.Seq++
	st.Detail = nil
	st.DetailErr = nil
	st.DetailLoading = item != 0
	if item == 0 {
		st.Phase = CategorySelected
	} else {
		st.Phase = ItemSelected
	}
}

// SelectCategory selects category. From Idle the first member is selected
// immediately and a nil Transition is returned; a category with no members
// stays in CategorySelected. Changing an existing selection enters
// Transitioning and returns the token to pass to Complete.
func (m *Machine) SelectCategory(category uint) (*Transition, error) {
	var t *Transition
	var err error

	m.store.update(func(st *State) bool {
		switch {
		case st.Phase == Transitioning:
			err = ErrTransitionInProgress
			return false
		case st.Phase != Idle && st.Category == category:
			err = ErrNoChange
			return false
		case st.Phase == Idle:
			selectItem(st, category, firstMember(st.Technologies, category))
			return true
		default:
			st.transition++
			st.Phase = Transitioning
			st.Target = category
			t = &Transition{id: st.transition, From: st.Category, Category: category}
			return true
		}
	})

	if err == nil {
		m.log.Debug("Category selected", zap.Uint("category", category), zap.Bool("transition", t != nil))
	}
	return t, err
}

// Complete finishes a transition: it resolves the first member of the new
// category and fetches its detail. The transition lock is released on every
// return path, including a failed fetch.
func (m *Machine) Complete(ctx context.Context, t *Transition) error {
	if t == nil {
		return nil
	}

	var item uint
	var seq uint64
	stale := false
	m.store.update(func(st *State) bool {
		if st.Phase != Transitioning || st.transition != t.id {
			stale = true
			return false
		}
		item = firstMember(st.Technologies, t.Category)
		selectItem(st, t.Category, item)
		// keep the lock until the detail is in
		st.Phase = Transitioning
		seq = st.Seq
		return true
	})
	if stale {
		return ErrStaleTransition
	}

	defer m.store.update(func(st *State) bool {
		if st.Phase != Transitioning || st.transition != t.id {
			return false
		}
		st.Target = 0
		if st.Item == 0 {
			st.Phase = CategorySelected
		} else {
			st.Phase = ItemSelected
		}
		return true
	})

	if item == 0 {
		return nil
	}
	return m.fetch(ctx, item, seq)
}

// SelectItem selects a loaded technology. In the radial view the item has to
// belong to the selected category; the scatter view selects its category too.
func (m *Machine) SelectItem(item uint) error {
	var err error
	m.store.update(func(st *State) bool {
		if st.Phase == Transitioning {
			err = ErrTransitionInProgress
			return false
		}
		if st.Phase == ItemSelected && st.Item == item {
			err = ErrNoChange
			return false
		}
		tech, ok := findTechnology(st.Technologies, item)
		if !ok {
			err = ErrUnknownItem
			return false
		}
		if st.ViewMode == ViewRadial && st.Phase != Idle && tech.Domain.ID != st.Category {
			err = ErrNotInCategory
			return false
		}
		selectItem(st, tech.Domain.ID, item)
		return true
	})
	return err
}

// ClearSelection returns to Idle and drops the detail
func (m *Machine) ClearSelection() error {
	var err error
	m.store.update(func(st *State) bool {
		if st.Phase == Transitioning {
			err = ErrTransitionInProgress
			return false
		}
		if st.Phase == Idle {
			err = ErrNoChange
			return false
		}
		st.Phase = Idle
		st.Category, st.Item = 0, 0
		st.Detail = nil
		st.DetailLoading = false
		st.DetailErr = nil
		st.Seq++
		return true
	})
	return err
}

// SetViewMode switches the visualization. A different mode resets filters
// and selection to their initial empty form; in-flight detail responses and
// pending transitions become stale.
func (m *Machine) SetViewMode(mode ViewMode) error {
	var err error
	m.store.update(func(st *State) bool {
		if st.ViewMode == mode {
			err = ErrNoChange
			return false
		}
		st.ViewMode = mode
		st.Filters = Filters{}
		st.listSeq++
		st.Phase = Idle
		st.Category, st.Item, st.Target = 0, 0, 0
		st.transition++
		st.Seq++
		st.Detail = nil
		st.DetailLoading = false
		st.DetailErr = nil
		st.ListErr = nil
		return true
	})
	if err == nil {
		m.log.Debug("View mode changed", zap.String("mode", string(mode)))
	}
	return err
}

// FetchDetail loads the detail of the selected item
func (m *Machine) FetchDetail(ctx context.Context) error {
	st := m.store.Snapshot()
	if st.Item == 0 {
		return nil
	}
	return m.fetch(ctx, st.Item, st.Seq)
}

func (m *Machine) fetch(ctx context.Context, item uint, seq uint64) error {
	detail, err := m.api.GetTechnology(ctx, item, true)
	if err != nil {
		m.log.Warn("Failed to load technology detail", zap.Uint("technology_id", item), zap.Error(err))
	}
	m.ApplyDetail(seq, detail, err)
	return err
}

// ApplyDetail stores a detail response if seq still identifies the current
// request. It reports whether the response was applied.
func (m *Machine) ApplyDetail(seq uint64, detail *service.TechnologyDetail, err error) bool {
	applied := false
	m.store.update(func(st *State) bool {
		if seq != st.Seq {
			return false
		}
		applied = true
		st.DetailLoading = false
		st.Detail = detail
		st.DetailErr = err
		return true
	})
	if !applied {
		prometheus.RecordStaleDetailResponse()
		m.log.Debug("Dropped stale detail response", zap.Uint64("seq", seq))
	}
	return applied
}
