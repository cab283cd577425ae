package interaction

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/internal/service"
	"pgregory.net/rapid"
)

type fakeAPI struct {
	mu      sync.Mutex
	techs   []service.TechnologySummary
	failGet error
	gets    []uint
	filters []query.Filter
	// block, when set, holds GetTechnology until it is closed
	block chan struct{}
}

func (f *fakeAPI) ListTechnologies(_ context.Context, flt query.Filter) (*service.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, flt)
	return &service.Page{Technologies: f.techs, Pagination: service.Pagination{Total: int64(len(f.techs))}}, nil
}

func (f *fakeAPI) GetTechnology(_ context.Context, id uint, _ bool) (*service.TechnologyDetail, error) {
	f.mu.Lock()
	block, fail := f.block, f.failGet
	f.gets = append(f.gets, id)
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if fail != nil {
		return nil, fail
	}
	for _, t := range f.techs {
		if t.ID == id {
			return &service.TechnologyDetail{TechnologySummary: t}, nil
		}
	}
	return nil, errors.New("not found")
}

func tech(id, domain uint, name string) service.TechnologySummary {
	return service.TechnologySummary{ID: id, Name: name, Domain: service.DomainSummary{ID: domain}}
}

// domain 1 has three members, domain 2 one, domain 3 none
func fixture() []service.TechnologySummary {
	return []service.TechnologySummary{
		tech(1, 1, "Swarm Intelligence"),
		tech(2, 1, "MLOps"),
		tech(3, 1, "Computer Vision APIs"),
		tech(4, 2, "Zero Trust Architecture"),
	}
}

func newMachine(t *testing.T) (*Machine, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{techs: fixture()}
	m := NewMachine(NewStore(), api, nil)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	return m, api
}

func TestSelectCategoryFromIdle(t *testing.T) {
	m, api := newMachine(t)

	tr, err := m.SelectCategory(1)
	if err != nil || tr != nil {
		t.Fatalf("SelectCategory() = %v, %v", tr, err)
	}
	st := m.Store().Snapshot()
	if st.Phase != ItemSelected || st.Category != 1 || st.Item != 3 {
		t.Fatalf("state = %v category %d item %d, want first member by name (3)", st.Phase, st.Category, st.Item)
	}
	if !st.DetailLoading {
		t.Error("detail request should be pending")
	}

	if err := m.FetchDetail(context.Background()); err != nil {
		t.Fatal(err)
	}
	st = m.Store().Snapshot()
	if st.Detail == nil || st.Detail.ID != 3 || st.DetailLoading {
		t.Errorf("detail = %+v loading = %v", st.Detail, st.DetailLoading)
	}
	if !reflect.DeepEqual(api.gets, []uint{3}) {
		t.Errorf("gets = %v", api.gets)
	}
}

func TestSelectEmptyCategory(t *testing.T) {
	m, api := newMachine(t)

	tr, err := m.SelectCategory(3)
	if err != nil || tr != nil {
		t.Fatalf("SelectCategory() = %v, %v", tr, err)
	}
	st := m.Store().Snapshot()
	if st.Phase != CategorySelected || st.Item != 0 || st.DetailLoading {
		t.Errorf("state = %v item %d loading %v", st.Phase, st.Item, st.DetailLoading)
	}
	if err := m.FetchDetail(context.Background()); err != nil || len(api.gets) != 0 {
		t.Errorf("nothing should be fetched: %v %v", err, api.gets)
	}
}

func TestCategoryTransition(t *testing.T) {
	m, _ := newMachine(t)
	ctx := context.Background()

	if _, err := m.SelectCategory(1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SelectCategory(1); !errors.Is(err, ErrNoChange) {
		t.Errorf("reselect error = %v, want ErrNoChange", err)
	}

	tr, err := m.SelectCategory(2)
	if err != nil || tr == nil {
		t.Fatalf("SelectCategory(2) = %v, %v", tr, err)
	}
	if tr.From != 1 || tr.Category != 2 {
		t.Errorf("transition = %+v", tr)
	}

	st := m.Store().Snapshot()
	if st.Phase != Transitioning || st.Category != 1 || st.Target != 2 {
		t.Errorf("during transition: %v category %d target %d", st.Phase, st.Category, st.Target)
	}

	// inputs are dropped, not queued
	if _, err := m.SelectCategory(3); !errors.Is(err, ErrTransitionInProgress) {
		t.Errorf("SelectCategory during transition = %v", err)
	}
	if err := m.SelectItem(2); !errors.Is(err, ErrTransitionInProgress) {
		t.Errorf("SelectItem during transition = %v", err)
	}

	if err := m.Complete(ctx, tr); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	st = m.Store().Snapshot()
	if st.Phase != ItemSelected || st.Category != 2 || st.Item != 4 || st.Target != 0 {
		t.Errorf("after transition: %v category %d item %d", st.Phase, st.Category, st.Item)
	}
	if st.Detail == nil || st.Detail.ID != 4 {
		t.Errorf("detail = %+v", st.Detail)
	}

	if err := m.Complete(ctx, tr); !errors.Is(err, ErrStaleTransition) {
		t.Errorf("second Complete() = %v", err)
	}
}

func TestTransitionToEmptyCategory(t *testing.T) {
	m, _ := newMachine(t)

	m.SelectCategory(1)
	tr, _ := m.SelectCategory(3)
	if err := m.Complete(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	st := m.Store().Snapshot()
	if st.Phase != CategorySelected || st.Category != 3 || st.Item != 0 {
		t.Errorf("state = %v category %d item %d", st.Phase, st.Category, st.Item)
	}
}

func TestCompleteReleasesLockOnFetchFailure(t *testing.T) {
	m, api := newMachine(t)

	m.SelectCategory(1)
	tr, _ := m.SelectCategory(2)

	api.failGet = errors.New("connection refused")
	if err := m.Complete(context.Background(), tr); err == nil {
		t.Fatal("expected fetch error")
	}

	st := m.Store().Snapshot()
	if st.Phase == Transitioning {
		t.Fatal("transition lock still held")
	}
	if st.DetailErr == nil || st.DetailLoading {
		t.Errorf("err = %v loading = %v", st.DetailErr, st.DetailLoading)
	}
	if _, err := m.SelectCategory(1); err != nil {
		t.Errorf("machine stuck: %v", err)
	}
}

func TestSelectItem(t *testing.T) {
	m, _ := newMachine(t)

	m.SelectCategory(1)
	if err := m.SelectItem(2); err != nil {
		t.Fatal(err)
	}
	st := m.Store().Snapshot()
	if st.Phase != ItemSelected || st.Item != 2 || st.Category != 1 {
		t.Errorf("state = %v item %d", st.Phase, st.Item)
	}
	if err := m.SelectItem(2); !errors.Is(err, ErrNoChange) {
		t.Errorf("reselect = %v", err)
	}
	if err := m.SelectItem(42); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("unknown = %v", err)
	}

	// scatter view: picking an item of another domain moves the category
	if err := m.SelectItem(4); err != nil {
		t.Fatal(err)
	}
	if st := m.Store().Snapshot(); st.Category != 2 {
		t.Errorf("category = %d, want 2", st.Category)
	}

	m.SetViewMode(ViewRadial)
	m.SelectCategory(1)
	if err := m.SelectItem(4); !errors.Is(err, ErrNotInCategory) {
		t.Errorf("radial cross-category = %v", err)
	}
}

func TestSetViewModeResets(t *testing.T) {
	m, _ := newMachine(t)

	m.Store().UpdateFilters(func(f *Filters) {
		f.TechnologyIDs = []uint{5, 9}
		f.Search = "agents"
		f.DomainIDs = []uint{1}
	})
	m.SelectCategory(1)
	before := m.Store().Snapshot()

	if err := m.SetViewMode(ViewRadial); err != nil {
		t.Fatal(err)
	}
	st := m.Store().Snapshot()
	if st.Filters.TechnologyIDs != nil || st.Filters.ActiveCount() != 0 {
		t.Errorf("filters not reset: %+v", st.Filters)
	}
	if st.Phase != Idle || st.Category != 0 || st.Item != 0 || st.Detail != nil {
		t.Errorf("selection not reset: %+v", st)
	}
	if st.Seq <= before.Seq {
		t.Error("sequence not bumped")
	}
	if err := m.SetViewMode(ViewRadial); !errors.Is(err, ErrNoChange) {
		t.Errorf("same mode = %v", err)
	}
}

func TestViewSwitchMakesTransitionStale(t *testing.T) {
	m, _ := newMachine(t)

	m.SelectCategory(1)
	tr, _ := m.SelectCategory(2)
	m.SetViewMode(ViewRadial)

	if err := m.Complete(context.Background(), tr); !errors.Is(err, ErrStaleTransition) {
		t.Errorf("Complete() = %v, want ErrStaleTransition", err)
	}
	if st := m.Store().Snapshot(); st.Phase != Idle {
		t.Errorf("phase = %v", st.Phase)
	}
}

func TestStaleDetailDropped(t *testing.T) {
	m, api := newMachine(t)
	ctx := context.Background()

	m.SelectCategory(1)
	release := make(chan struct{})
	api.block = release

	done := make(chan error)
	go func() { done <- m.FetchDetail(ctx) }()

	// wait until the fetch for item 3 is in flight, then move on
	for {
		api.mu.Lock()
		n := len(api.gets)
		if n == 1 {
			api.block = nil
		}
		api.mu.Unlock()
		if n == 1 {
			break
		}
		runtime.Gosched()
	}

	if err := m.SelectItem(2); err != nil {
		t.Fatal(err)
	}
	if err := m.FetchDetail(ctx); err != nil {
		t.Fatal(err)
	}

	close(release)
	<-done

	st := m.Store().Snapshot()
	if st.Item != 2 || st.Detail == nil || st.Detail.ID != 2 {
		t.Errorf("late response overwrote newer selection: item %d detail %+v", st.Item, st.Detail)
	}
}

func TestRefreshDuringDetailFetch(t *testing.T) {
	m, api := newMachine(t)
	ctx := context.Background()

	m.SelectCategory(1)
	release := make(chan struct{})
	api.mu.Lock()
	api.block = release
	api.mu.Unlock()

	done := make(chan error)
	go func() { done <- m.FetchDetail(ctx) }()
	for {
		api.mu.Lock()
		n := len(api.gets)
		api.mu.Unlock()
		if n == 1 {
			break
		}
		runtime.Gosched()
	}

	// the list answers while the detail is still outstanding
	if err := m.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	st := m.Store().Snapshot()
	if st.ListLoading || !st.DetailLoading || st.Detail != nil {
		t.Fatalf("list loading %v detail loading %v detail %+v", st.ListLoading, st.DetailLoading, st.Detail)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if st = m.Store().Snapshot(); st.DetailLoading || st.Detail == nil || st.Detail.ID != 3 {
		t.Errorf("detail loading %v detail %+v", st.DetailLoading, st.Detail)
	}
}

func TestRefreshKeepsDetailError(t *testing.T) {
	m, api := newMachine(t)
	ctx := context.Background()

	m.SelectCategory(1)
	api.mu.Lock()
	api.failGet = errors.New("connection refused")
	api.mu.Unlock()
	if err := m.FetchDetail(ctx); err == nil {
		t.Fatal("expected detail error")
	}

	if err := m.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	st := m.Store().Snapshot()
	if st.DetailErr == nil || st.ListErr != nil {
		t.Errorf("detail err %v list err %v", st.DetailErr, st.ListErr)
	}
}

func TestApplyDetail(t *testing.T) {
	m, _ := newMachine(t)
	m.SelectCategory(1)
	seq := m.Store().Snapshot().Seq

	if m.ApplyDetail(seq-1, &service.TechnologyDetail{}, nil) {
		t.Error("stale response applied")
	}
	if !m.ApplyDetail(seq, &service.TechnologyDetail{TechnologySummary: tech(3, 1, "Computer Vision APIs")}, nil) {
		t.Error("current response dropped")
	}
}

func TestSubscribe(t *testing.T) {
	store := NewStore()
	var got []State
	unsubscribe := store.Subscribe(func(s State) { got = append(got, s) })

	store.SetListLoading(true)
	store.SetTechnologies(fixture(), 4)
	unsubscribe()
	store.SetListLoading(true)

	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if got[1].Version <= got[0].Version || len(got[1].Technologies) != 4 || got[1].ListLoading {
		t.Errorf("snapshots = %+v", got)
	}

	// snapshots are copies
	got[1].Technologies[0].Name = "changed"
	if store.Snapshot().Technologies[0].Name == "changed" {
		t.Error("snapshot aliases store state")
	}
}

func TestRefreshUsesFilters(t *testing.T) {
	m, api := newMachine(t)

	m.Store().UpdateFilters(func(f *Filters) { f.Impact = []string{"High Impact"} })
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	last := api.filters[len(api.filters)-1]
	if !reflect.DeepEqual(last.Impact, []string{"High Impact"}) || *last.Limit != query.MaxLimit {
		t.Errorf("filter = %+v", last)
	}
}

// The machine never holds more than one transition and an ItemSelected
// state always points at a member of the selected category.
func TestMachineProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		api := &fakeAPI{techs: fixture()}
		m := NewMachine(NewStore(), api, nil)
		m.Refresh(context.Background())

		var pending []*Transition
		rt.Repeat(map[string]func(*rapid.T){
			"selectCategory": func(rt *rapid.T) {
				before := m.Store().Snapshot()
				tr, err := m.SelectCategory(rapid.UintRange(1, 3).Draw(rt, "category"))
				if before.Phase == Transitioning && !errors.Is(err, ErrTransitionInProgress) {
					rt.Fatalf("accepted input while transitioning: %v", err)
				}
				if tr != nil {
					pending = append(pending, tr)
				}
			},
			"selectItem": func(rt *rapid.T) {
				m.SelectItem(rapid.UintRange(1, 4).Draw(rt, "item"))
			},
			"complete": func(rt *rapid.T) {
				if len(pending) == 0 {
					rt.Skip("no transition")
				}
				m.Complete(context.Background(), pending[len(pending)-1])
				pending = pending[:len(pending)-1]
			},
			"viewMode": func(rt *rapid.T) {
				m.SetViewMode(rapid.SampledFrom([]ViewMode{ViewScatter, ViewRadial}).Draw(rt, "mode"))
			},
			"": func(rt *rapid.T) {
				st := m.Store().Snapshot()
				if st.Phase == ItemSelected {
					tech, ok := findTechnology(st.Technologies, st.Item)
					if !ok || tech.Domain.ID != st.Category {
						rt.Fatalf("item %d not in category %d", st.Item, st.Category)
					}
				}
				if st.Phase != Transitioning && st.Target != 0 {
					rt.Fatalf("target %d outside a transition", st.Target)
				}
			},
		})
	})
}
