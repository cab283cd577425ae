package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/codecat1111/radar-clone/internal/interaction"
	"github.com/codecat1111/radar-clone/internal/service"
)

// filterItem is one toggleable row of the filter panel
type filterItem struct {
	group  string
	label  string
	count  int64
	active func(f interaction.Filters) bool
	toggle func(f *interaction.Filters)
}

func toggleUint(list []uint, v uint) []uint {
	for i, x := range list {
		if x == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, v)
}

func toggleString(list []string, v string) []string {
	for i, x := range list {
		if x == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, v)
}

func containsUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// buildFilterItems flattens the filter options into panel rows: domains in
// the given order, then tags, impact, effort and the bounded time to market
// ranges.
func buildFilterItems(domains []service.DomainOption, opts *service.FilterOptions) []filterItem {
	var items []filterItem
	for _, d := range domains {
		id := d.ID
		items = append(items, filterItem{
			group:  "Domain",
			label:  d.Name,
			count:  d.Count,
			active: func(f interaction.Filters) bool { return containsUint(f.DomainIDs, id) },
			toggle: func(f *interaction.Filters) { f.DomainIDs = toggleUint(f.DomainIDs, id) },
		})
	}
	for _, t := range opts.Tags {
		id := t.ID
		items = append(items, filterItem{
			group:  "Tag",
			label:  t.Name,
			count:  t.Count,
			active: func(f interaction.Filters) bool { return containsUint(f.TagIDs, id) },
			toggle: func(f *interaction.Filters) { f.TagIDs = toggleUint(f.TagIDs, id) },
		})
	}
	for _, l := range opts.ImpactLevels {
		v := l.Value
		items = append(items, filterItem{
			group:  "Impact",
			label:  v,
			count:  l.Count,
			active: func(f interaction.Filters) bool { return containsString(f.Impact, v) },
			toggle: func(f *interaction.Filters) { f.Impact = toggleString(f.Impact, v) },
		})
	}
	for _, l := range opts.EffortLevels {
		v := l.Value
		items = append(items, filterItem{
			group:  "Effort",
			label:  v,
			count:  l.Count,
			active: func(f interaction.Filters) bool { return containsString(f.Effort, v) },
			toggle: func(f *interaction.Filters) { f.Effort = toggleString(f.Effort, v) },
		})
	}
	// the open ended range has no ceiling to filter by
	for _, r := range opts.TimeToMarketRanges {
		if r.Max == nil {
			continue
		}
		ceiling := *r.Max
		items = append(items, filterItem{
			group: "Time to market",
			label: "up to " + r.Label,
			count: r.Count,
			active: func(f interaction.Filters) bool {
				return f.TimeToMarket != nil && *f.TimeToMarket == ceiling
			},
			toggle: func(f *interaction.Filters) {
				if f.TimeToMarket != nil && *f.TimeToMarket == ceiling {
					f.TimeToMarket = nil
					return
				}
				v := ceiling
				f.TimeToMarket = &v
			},
		})
	}
	return items
}

func (m Model) updateFilterPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "f":
		m.filtering = false
		return m, nil
	case "down", "j":
		if len(m.filterItems) > 0 {
			m.filterCursor = (m.filterCursor + 1) % len(m.filterItems)
		}
		return m, nil
	case "up", "k":
		if len(m.filterItems) > 0 {
			m.filterCursor = (m.filterCursor - 1 + len(m.filterItems)) % len(m.filterItems)
		}
		return m, nil
	case " ", "enter", "x":
		if m.filterCursor >= len(m.filterItems) {
			return m, nil
		}
		item := m.filterItems[m.filterCursor]
		m.machine.Store().UpdateFilters(item.toggle)
		return m, m.refresh()
	case "c":
		m.machine.Store().ClearFilters()
		m.search.SetValue("")
		return m, m.refresh()
	}
	return m, nil
}

// togglePin adds or removes the selected technology from the pinned set
func (m Model) togglePin() (tea.Model, tea.Cmd) {
	st := m.machine.Store().Snapshot()
	if st.Item == 0 {
		return m, nil
	}
	item := st.Item
	m.machine.Store().UpdateFilters(func(f *interaction.Filters) {
		f.TechnologyIDs = toggleUint(f.TechnologyIDs, item)
	})
	return m, m.refresh()
}

func (m Model) viewFilterPanel(st interaction.State) string {
	if len(m.filterItems) == 0 {
		return mutedStyle.Render("filters unavailable")
	}
	var b strings.Builder
	group := ""
	for i, item := range m.filterItems {
		if item.group != group {
			if group != "" {
				b.WriteString("\n")
			}
			group = item.group
			b.WriteString(headingStyle.Render(group) + "\n")
		}
		box := "[ ]"
		if item.active(st.Filters) {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s (%d)", box, item.label, item.count)
		if i == m.filterCursor {
			b.WriteString("▸ " + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if n := len(st.Filters.TechnologyIDs); n > 0 {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d pinned technologies", n)))
	}
	return strings.TrimRight(b.String(), "\n")
}
