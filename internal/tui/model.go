// Package tui is the radarctl terminal client: a bubbletea program over the
// interaction store and machine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/codecat1111/radar-clone/internal/interaction"
	"github.com/codecat1111/radar-clone/internal/service"
	"go.uber.org/zap"
)

const (
	transitionFrames  = 6
	defaultFrameDelay = 45 * time.Millisecond
	requestTimeout    = 10 * time.Second
)

// Source is the radar API as seen by the terminal client
type Source interface {
	interaction.API
	FilterOptions(ctx context.Context) (*service.FilterOptions, error)
}

type optionsMsg struct {
	opts *service.FilterOptions
	err  error
}

type listMsg struct{ err error }

type detailMsg struct{ err error }

// frameMsg advances the transition animation
type frameMsg struct{ t *interaction.Transition }

type transitionDoneMsg struct{ err error }

// Model is the root bubbletea model
type Model struct {
	machine *interaction.Machine
	src     Source
	log     *zap.Logger

	domains []service.DomainOption
	optsErr error

	filterItems  []filterItem
	filtering    bool
	filterCursor int

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	transition *interaction.Transition
	frame      int
	frameDelay time.Duration

	width  int
	height int
}

// New creates the model. log must not write to the terminal.
func New(src Source, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "search technologies..."
	ti.CharLimit = 100
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	return Model{
		machine:    interaction.NewMachine(interaction.NewStore(), src, log),
		src:        src,
		log:        log,
		search:     ti,
		spinner:    sp,
		frameDelay: defaultFrameDelay,
		width:      100,
		height:     30,
	}
}

// Machine exposes the selection machine driving the view
func (m Model) Machine() *interaction.Machine { return m.machine }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadOptions(), m.refresh(), m.spinner.Tick)
}

func (m Model) loadOptions() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		opts, err := src.FilterOptions(ctx)
		return optionsMsg{opts: opts, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return listMsg{err: machine.Refresh(ctx)}
	}
}

func (m Model) fetchDetail() tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return detailMsg{err: machine.FetchDetail(ctx)}
	}
}

func (m Model) tick(t *interaction.Transition) tea.Cmd {
	return tea.Tick(m.frameDelay, func(time.Time) tea.Msg { return frameMsg{t: t} })
}

func (m Model) complete(t *interaction.Transition) tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return transitionDoneMsg{err: machine.Complete(ctx, t)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case optionsMsg:
		if msg.err != nil {
			m.optsErr = msg.err
			m.log.Warn("Failed to load filter options", zap.Error(msg.err))
			return m, nil
		}
		m.optsErr = nil
		m.domains = append([]service.DomainOption(nil), msg.opts.Domains...)
		sort.SliceStable(m.domains, func(i, j int) bool {
			if m.domains[i].Name != m.domains[j].Name {
				return m.domains[i].Name < m.domains[j].Name
			}
			return m.domains[i].ID < m.domains[j].ID
		})
		m.filterItems = buildFilterItems(m.domains, msg.opts)
		if m.filterCursor >= len(m.filterItems) {
			m.filterCursor = 0
		}
		return m, nil

	case listMsg, detailMsg:
		// results are already in the store
		return m, nil

	case frameMsg:
		if msg.t != m.transition {
			return m, nil
		}
		m.frame++
		if m.frame >= transitionFrames {
			return m, m.complete(msg.t)
		}
		return m, m.tick(msg.t)

	case transitionDoneMsg:
		m.transition = nil
		m.frame = 0
		if msg.err != nil && !errors.Is(msg.err, interaction.ErrStaleTransition) {
			m.log.Warn("Transition finished with error", zap.Error(msg.err))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case m.searching:
			return m.updateSearch(msg)
		case m.filtering:
			return m.updateFilterPanel(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		term := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		m.machine.Store().UpdateFilters(func(f *interaction.Filters) { f.Search = term })
		return m, m.refresh()
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.machine.Store().Snapshot().Filters.Search)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "v":
		st := m.machine.Store().Snapshot()
		mode := interaction.ViewRadial
		if st.ViewMode == interaction.ViewRadial {
			mode = interaction.ViewScatter
		}
		if err := m.machine.SetViewMode(mode); err != nil {
			return m, nil
		}
		m.transition, m.frame = nil, 0
		m.search.SetValue("")
		m.filtering = false
		return m, m.refresh()

	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "f":
		m.filtering = true
		return m, nil

	case "p":
		return m.togglePin()

	case "tab", "right", "l":
		return m.stepCategory(1)
	case "shift+tab", "left", "h":
		return m.stepCategory(-1)

	case "down", "j":
		return m.stepItem(1)
	case "up", "k":
		return m.stepItem(-1)

	case "esc":
		m.machine.ClearSelection()
		return m, nil

	case "c":
		m.machine.Store().ClearFilters()
		m.search.SetValue("")
		return m, m.refresh()

	case "r":
		return m, m.refresh()
	}
	return m, nil
}

// stepCategory moves the category selection by delta in name order
func (m Model) stepCategory(delta int) (tea.Model, tea.Cmd) {
	if len(m.domains) == 0 {
		return m, nil
	}
	st := m.machine.Store().Snapshot()

	idx := -1
	for i, d := range m.domains {
		if st.Phase != interaction.Idle && d.ID == st.Category {
			idx = i
		}
	}
	switch {
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + len(m.domains)) % len(m.domains)
	}

	t, err := m.machine.SelectCategory(m.domains[idx].ID)
	switch {
	case errors.Is(err, interaction.ErrTransitionInProgress), errors.Is(err, interaction.ErrNoChange):
		return m, nil
	case err != nil:
		m.log.Warn("Category selection failed", zap.Error(err))
		return m, nil
	case t != nil:
		m.transition, m.frame = t, 0
		return m, m.tick(t)
	}
	return m, m.fetchDetail()
}

// visible lists the technologies the item cursor moves over, in name order
func visible(st interaction.State) []service.TechnologySummary {
	var out []service.TechnologySummary
	for _, t := range st.Technologies {
		if st.ViewMode == interaction.ViewRadial && t.Domain.ID != st.Category {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m Model) stepItem(delta int) (tea.Model, tea.Cmd) {
	st := m.machine.Store().Snapshot()
	if st.ViewMode == interaction.ViewRadial && st.Phase == interaction.Idle {
		return m, nil
	}
	items := visible(st)
	if len(items) == 0 {
		return m, nil
	}

	idx := -1
	for i, t := range items {
		if t.ID == st.Item {
			idx = i
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(items)) % len(items)
	}

	if err := m.machine.SelectItem(items[idx].ID); err != nil {
		return m, nil
	}
	return m, m.fetchDetail()
}

func (m Model) domainName(id uint) string {
	for _, d := range m.domains {
		if d.ID == id {
			return d.Name
		}
	}
	return fmt.Sprintf("domain %d", id)
}

func (m Model) View() string {
	st := m.machine.Store().Snapshot()

	header := titleStyle.Render("Technology Radar") + "  " +
		infoStyle.Render("["+string(st.ViewMode)+"]") + "  " +
		mutedStyle.Render(fmt.Sprintf("%d technologies  filters: %d", st.Total, st.Filters.ActiveCount()))

	searchLine := mutedStyle.Render("search: ") + st.Filters.Search
	if m.searching {
		searchLine = m.search.View()
	}

	leftWidth := m.width/2 - 2
	if leftWidth < 30 {
		leftWidth = 30
	}

	var left string
	switch {
	case m.filtering:
		left = m.viewFilterPanel(st)
	case st.ViewMode == interaction.ViewRadial:
		left = m.viewRadial(st)
	default:
		left = m.viewScatter(st, leftWidth)
	}

	rightWidth := m.width - leftWidth - 6
	if rightWidth < 30 {
		rightWidth = 30
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(leftWidth).Render(left),
		panelStyle.Width(rightWidth).Render(m.viewDetail(st)),
	)

	return strings.Join([]string{header, searchLine, body, m.viewStatus(st), m.viewHelp()}, "\n")
}

func (m Model) viewScatter(st interaction.State, width int) string {
	height := width / 2
	if height > 21 {
		height = 21
	}
	var b strings.Builder
	b.WriteString(plotScatter(st.Technologies, st.Item, width-2, height))
	b.WriteString("\n")
	for _, t := range visible(st) {
		b.WriteString(m.itemLine(t, st.Item))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewRadial(st interaction.State) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Domains"))
	b.WriteString("\n")
	for _, d := range m.domains {
		marker := "  "
		line := fmt.Sprintf("%s (%d)", d.Name, d.Count)
		switch {
		case st.Phase == interaction.Transitioning && d.ID == st.Target:
			marker = "→ "
		case st.Phase != interaction.Idle && d.ID == st.Category:
			marker = "▸ "
			line = selectedStyle.Render(line)
		}
		b.WriteString(marker + dotStyle(d.Color).Render("●") + " " + line + "\n")
	}

	if st.Phase == interaction.Idle {
		return b.String() + mutedStyle.Render("tab to pick a domain")
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render(m.domainName(st.Category)))
	b.WriteString("\n")
	members := visible(st)
	if len(members) == 0 {
		b.WriteString(mutedStyle.Render("no technologies in this domain"))
	}
	for _, t := range members {
		b.WriteString(m.itemLine(t, st.Item))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) itemLine(t service.TechnologySummary, selected uint) string {
	line := fmt.Sprintf("%s  %s", t.Name, mutedStyle.Render(t.ImpactLevel+" / "+t.EffortLevel))
	if t.ID == selected {
		return "▸ " + selectedStyle.Render(t.Name) + "  " + mutedStyle.Render(t.ImpactLevel+" / "+t.EffortLevel)
	}
	return "  " + dotStyle(t.Domain.Color).Render("●") + " " + line
}

func (m Model) viewDetail(st interaction.State) string {
	d := st.Detail
	if d == nil {
		switch {
		case st.DetailLoading:
			return m.spinner.View() + " loading detail"
		case st.DetailErr != nil:
			return errorStyle.Render("detail unavailable: " + st.DetailErr.Error())
		}
		return mutedStyle.Render("select a technology")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name) + "\n")
	tag := "untagged"
	if d.Tag != nil {
		tag = d.Tag.Name
	}
	b.WriteString(mutedStyle.Render(d.Domain.Name+" · "+tag) + "\n\n")
	b.WriteString(fmt.Sprintf("%s · %s", d.ImpactLevel, d.EffortLevel))
	if d.TimeToMarket != nil {
		b.WriteString(fmt.Sprintf(" · %d months", *d.TimeToMarket))
	}
	if d.RiskScore != nil {
		b.WriteString(fmt.Sprintf(" · risk %d/10", *d.RiskScore))
	}
	b.WriteString("\n\n" + d.Description + "\n")

	if d.UseCase.Title != "" {
		b.WriteString("\n" + headingStyle.Render("Use case") + "\n")
		b.WriteString(d.UseCase.Title + ": " + d.UseCase.Description + "\n")
	}
	if d.Details != nil {
		if len(d.Benefits) > 0 {
			b.WriteString("\n" + headingStyle.Render("Benefits") + "\n")
			for _, x := range d.Benefits {
				b.WriteString("+ " + x.Benefit + "\n")
			}
		}
		if len(d.Risks) > 0 {
			b.WriteString("\n" + headingStyle.Render("Risks") + "\n")
			for _, x := range d.Risks {
				b.WriteString(fmt.Sprintf("- [%s] %s\n", x.Severity, x.Risk))
			}
		}
		if len(d.Workflows) > 0 {
			b.WriteString("\n" + headingStyle.Render("Workflows") + "\n")
			for _, x := range d.Workflows {
				b.WriteString(fmt.Sprintf("* %s (%s, %s)\n", x.WorkflowName, x.ComplexityLevel, x.EstimatedDuration))
			}
		}
		if len(d.Metrics) > 0 {
			b.WriteString("\n" + headingStyle.Render("Metrics") + "\n")
			for _, x := range d.Metrics {
				b.WriteString(fmt.Sprintf("%s: %s %s\n", x.MetricName, x.MetricValue, x.MetricUnit))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewStatus(st interaction.State) string {
	switch {
	case st.Phase == interaction.Transitioning:
		bar := strings.Repeat("▸", m.frame) + strings.Repeat("·", transitionFrames-m.frame)
		return infoStyle.Render("→ "+m.domainName(st.Target)) + " " + bar
	case st.ListErr != nil:
		return errorStyle.Render("error: " + st.ListErr.Error())
	case m.optsErr != nil:
		return errorStyle.Render("filters unavailable: " + m.optsErr.Error())
	case st.ListLoading:
		return m.spinner.View() + " loading"
	}
	return ""
}

func (m Model) viewHelp() string {
	return mutedStyle.Render("tab/shift+tab domain · j/k technology · / search · f filters · p pin · c clear · v view · esc deselect · q quit")
}
