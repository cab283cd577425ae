package tui

import (
	"math"
	"strings"

	"github.com/codecat1111/radar-clone/internal/radar"
	"github.com/codecat1111/radar-clone/internal/service"
)

const (
	plotRMax    = 1.0
	ringSamples = 72
)

// plotScatter draws the technologies on a character grid using the same
// polar convention as the rendered radar. A width of about twice the height
// keeps the rings round in a terminal.
func plotScatter(techs []service.TechnologySummary, selected uint, width, height int) string {
	if width < 5 || height < 3 {
		return ""
	}
	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	cell := func(x, y float64) (int, int, bool) {
		col := int(math.Round((x/plotRMax + 1) / 2 * float64(width-1)))
		row := int(math.Round((y/plotRMax + 1) / 2 * float64(height-1)))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	for _, ring := range []float64{1.0 / 3, 2.0 / 3, 1} {
		for i := 0; i < ringSamples; i++ {
			x, y := radar.Cartesian(float64(i)*360/ringSamples, ring, plotRMax)
			if r, c, ok := cell(x, y); ok {
				grid[r][c] = mutedStyle.Render("·")
			}
		}
	}
	if r, c, ok := cell(0, 0); ok {
		grid[r][c] = mutedStyle.Render("+")
	}

	for _, t := range techs {
		x, y := radar.Cartesian(t.Angle, t.Radius, plotRMax)
		r, c, ok := cell(x, y)
		if !ok {
			continue
		}
		if t.ID == selected {
			grid[r][c] = selectedStyle.Render("◉")
		} else {
			grid[r][c] = dotStyle(t.Domain.Color).Render("●")
		}
	}

	lines := make([]string, height)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}
