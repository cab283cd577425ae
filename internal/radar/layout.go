package radar

import "sort"

const (
	DefaultMaxRadius = 250
	DefaultArcSpan   = 60
)

// Config holds the geometry shared by both views.
type Config struct {
	// MaxRadius is the scatter radius that a normalized radius of 1 maps to.
	MaxRadius float64
	// ArcSpan is the width in degrees of the arc that holds the members of
	// the selected domain in the radial view.
	ArcSpan float64

	InnerRing  float64
	MiddleRing float64
	OuterRing  float64

	Width  int
	Height int
}

// DefaultConfig returns the standard chart geometry
func DefaultConfig() Config {
	return Config{
		MaxRadius:  DefaultMaxRadius,
		ArcSpan:    DefaultArcSpan,
		InnerRing:  60,
		MiddleRing: 140,
		OuterRing:  280,
		Width:      640,
		Height:     640,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxRadius <= 0 {
		c.MaxRadius = d.MaxRadius
	}
	if c.ArcSpan <= 0 || c.ArcSpan > 360 {
		c.ArcSpan = d.ArcSpan
	}
	if c.InnerRing <= 0 {
		c.InnerRing = d.InnerRing
	}
	if c.MiddleRing <= 0 {
		c.MiddleRing = d.MiddleRing
	}
	if c.OuterRing <= 0 {
		c.OuterRing = d.OuterRing
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	return c
}

// Item is the subset of a technology the layouts need.
type Item struct {
	ID       uint
	Name     string
	DomainID uint
	Angle    float64
	Radius   float64
	Color    string
	Tag      string
}

// Domain is the subset of a domain the radial view needs.
type Domain struct {
	ID    uint
	Name  string
	Color string
}

// SortItems orders items by name, then id.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}

// SortDomains orders domains by name, then id. This is the order used by
// every listing of domains.
func SortDomains(domains []Domain) {
	sort.SliceStable(domains, func(i, j int) bool {
		if domains[i].Name != domains[j].Name {
			return domains[i].Name < domains[j].Name
		}
		return domains[i].ID < domains[j].ID
	})
}

type Point struct {
	Item Item
	X, Y float64
}

// ScatterLayout is the positioned radar view
type ScatterLayout struct {
	Config Config
	Rings  []float64
	Points []Point
}

// Scatter positions every item from its stored angle and radius.
func Scatter(items []Item, cfg Config) ScatterLayout {
	cfg = cfg.withDefaults()

	sorted := append([]Item(nil), items...)
	SortItems(sorted)

	layout := ScatterLayout{
		Config: cfg,
		Rings:  []float64{0.25 * cfg.MaxRadius, 0.5 * cfg.MaxRadius, 0.75 * cfg.MaxRadius, cfg.MaxRadius},
		Points: make([]Point, 0, len(sorted)),
	}
	for _, it := range sorted {
		x, y := Cartesian(it.Angle, it.Radius, cfg.MaxRadius)
		layout.Points = append(layout.Points, Point{Item: it, X: x, Y: y})
	}
	return layout
}

type DomainSlot struct {
	Domain   Domain
	Angle    float64
	X, Y     float64
	Selected bool
}

type MemberSlot struct {
	Item  Item
	Angle float64
	X, Y  float64
}

// RadialLayout is the positioned radial view
type RadialLayout struct {
	Config  Config
	Domains []DomainSlot
	Members []MemberSlot
}

// SelectedDomain returns the selected slot, if any.
func (l RadialLayout) SelectedDomain() (DomainSlot, bool) {
	for _, d := range l.Domains {
		if d.Selected {
			return d, true
		}
	}
	return DomainSlot{}, false
}

// Radial spreads the domains evenly over the middle ring and fans the members
// of the selected domain over an arc of the outer ring centred on that
// domain. Items of other domains are not placed. selected == 0 selects
// nothing.
func Radial(domains []Domain, items []Item, selected uint, cfg Config) RadialLayout {
	cfg = cfg.withDefaults()

	sorted := append([]Domain(nil), domains...)
	SortDomains(sorted)

	layout := RadialLayout{Config: cfg, Domains: make([]DomainSlot, 0, len(sorted))}
	var selectedAngle float64
	found := false
	for i, d := range sorted {
		angle := DomainAngle(i, len(sorted))
		x, y := polar(angle, cfg.MiddleRing)
		slot := DomainSlot{Domain: d, Angle: angle, X: x, Y: y, Selected: d.ID == selected && selected != 0}
		if slot.Selected {
			selectedAngle = angle
			found = true
		}
		layout.Domains = append(layout.Domains, slot)
	}
	if !found {
		return layout
	}

	var members []Item
	for _, it := range items {
		if it.DomainID == selected {
			members = append(members, it)
		}
	}
	SortItems(members)

	for j, it := range members {
		angle := MemberAngle(selectedAngle, j, len(members), cfg.ArcSpan)
		x, y := polar(angle, cfg.OuterRing)
		layout.Members = append(layout.Members, MemberSlot{Item: it, Angle: angle, X: x, Y: y})
	}
	return layout
}

// DomainAngle returns the angle of slot i out of n evenly spaced slots.
func DomainAngle(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return NormalizeAngle(float64(i) * 360 / float64(n))
}

// MemberAngle returns the angle of member j out of count, spread evenly over
// span degrees centred on center. A single member sits on center.
func MemberAngle(center float64, j, count int, span float64) float64 {
	if count <= 1 {
		return NormalizeAngle(center)
	}
	step := span / float64(count-1)
	return NormalizeAngle(center - span/2 + float64(j)*step)
}
