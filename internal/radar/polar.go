// Package radar maps technologies to screen positions for the scatter and
// radial views and renders those layouts to SVG or PNG.
//
// Angles are in degrees, measured clockwise from the top of the chart. The
// y axis points down, as on screen.
package radar

import "math"

// NormalizeAngle folds any angle into [0, 360). NaN and infinities map to 0.
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// ClampRadius limits a normalized radius to [0, 1]. NaN maps to 0.
func ClampRadius(r float64) float64 {
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// Cartesian converts a stored (angle, radius) pair into chart coordinates
// centred on the origin, with radius 1 landing on rMax.
func Cartesian(angle, radius, rMax float64) (x, y float64) {
	return polar(NormalizeAngle(angle), ClampRadius(radius)*rMax)
}

// polar places a point at distance dist along angle. Multiples of 90
// degrees use exact unit vectors so axis-aligned points carry no rounding
// noise.
func polar(angle, dist float64) (x, y float64) {
	theta := NormalizeAngle(angle - 90)
	var cos, sin float64
	switch theta {
	case 0:
		cos, sin = 1, 0
	case 90:
		cos, sin = 0, 1
	case 180:
		cos, sin = -1, 0
	case 270:
		cos, sin = 0, -1
	default:
		rad := theta * math.Pi / 180
		cos, sin = math.Cos(rad), math.Sin(rad)
	}
	return cos * dist, sin * dist
}
