package radar

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorRing     = color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
	colorAxis     = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorText     = color.RGBA{0x11, 0x18, 0x27, 0xff}
	colorSubtle   = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorPoint    = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	colorStroke   = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const (
	pointRadius        = 6
	domainCircleRadius = 14
	labelMaxLen        = 18
)

// ParseHexColor parses #RRGGBB, falling back to the default point color.
func ParseHexColor(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return colorPoint
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return colorPoint
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// chart space to image space
func project(cfg Config, x, y, extent float64) (float64, float64) {
	scale := (float64(minInt(cfg.Width, cfg.Height))/2 - 40) / extent
	return float64(cfg.Width)/2 + x*scale, float64(cfg.Height)/2 + y*scale
}

func scaleOf(cfg Config, extent float64) float64 {
	return (float64(minInt(cfg.Width, cfg.Height))/2 - 40) / extent
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RenderScatterSVG writes the scatter layout as SVG
func RenderScatterSVG(w io.Writer, l ScatterLayout) error {
	cfg := l.Config
	extent := cfg.MaxRadius
	scale := scaleOf(cfg, extent)
	cx, cy := project(cfg, 0, 0, extent)

	canvas := svg.New(w)
	canvas.Start(cfg.Width, cfg.Height)
	canvas.Title("Technology Radar")
	canvas.Rect(0, 0, cfg.Width, cfg.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	for _, r := range l.Rings {
		canvas.Circle(int(cx), int(cy), int(r*scale), fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(colorRing)))
	}
	for _, angle := range []float64{0, 90, 180, 270} {
		x, y := polar(angle, extent)
		px, py := project(cfg, x, y, extent)
		canvas.Line(int(cx), int(cy), int(px), int(py), fmt.Sprintf("stroke:%s;stroke-width:1", css(colorAxis)))
	}

	for _, p := range l.Points {
		px, py := project(cfg, p.X, p.Y, extent)
		canvas.Circle(int(px), int(py), pointRadius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", css(ParseHexColor(p.Item.Color)), css(colorStroke)))
		canvas.Text(int(px)+pointRadius+3, int(py)+4, truncate(p.Item.Name, labelMaxLen),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif", css(colorText)))
	}

	canvas.End()
	return nil
}

// RenderRadialSVG writes the radial layout as SVG
func RenderRadialSVG(w io.Writer, l RadialLayout) error {
	cfg := l.Config
	extent := cfg.OuterRing
	scale := scaleOf(cfg, extent)
	cx, cy := project(cfg, 0, 0, extent)

	canvas := svg.New(w)
	canvas.Start(cfg.Width, cfg.Height)
	canvas.Title("Technology Radar")
	canvas.Rect(0, 0, cfg.Width, cfg.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	for _, r := range []float64{cfg.InnerRing, cfg.MiddleRing, cfg.OuterRing} {
		canvas.Circle(int(cx), int(cy), int(r*scale), fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(colorRing)))
	}

	selected, hasSelection := l.SelectedDomain()
	if hasSelection {
		sx, sy := project(cfg, selected.X, selected.Y, extent)
		for _, m := range l.Members {
			mx, my := project(cfg, m.X, m.Y, extent)
			canvas.Line(int(sx), int(sy), int(mx), int(my), fmt.Sprintf("stroke:%s;stroke-width:1", css(colorAxis)))
		}
	}

	for _, d := range l.Domains {
		px, py := project(cfg, d.X, d.Y, extent)
		stroke := css(colorStroke)
		if d.Selected {
			stroke = css(colorText)
		}
		canvas.Circle(int(px), int(py), domainCircleRadius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", css(ParseHexColor(d.Domain.Color)), stroke))
		canvas.Text(int(px), int(py)+domainCircleRadius+14, truncate(d.Domain.Name, labelMaxLen),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif;text-anchor:middle", css(colorSubtle)))
	}

	for _, m := range l.Members {
		px, py := project(cfg, m.X, m.Y, extent)
		canvas.Circle(int(px), int(py), pointRadius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", css(ParseHexColor(selected.Domain.Color)), css(colorStroke)))
		canvas.Text(int(px), int(py)-pointRadius-4, truncate(m.Item.Name, labelMaxLen),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif;text-anchor:middle", css(colorText)))
	}

	canvas.End()
	return nil
}

// RenderScatterPNG writes the scatter layout as PNG
func RenderScatterPNG(w io.Writer, l ScatterLayout) error {
	cfg := l.Config
	extent := cfg.MaxRadius
	scale := scaleOf(cfg, extent)
	cx, cy := project(cfg, 0, 0, extent)

	dc := newContext(cfg)
	dc.SetColor(colorRing)
	dc.SetLineWidth(1)
	for _, r := range l.Rings {
		dc.DrawCircle(cx, cy, r*scale)
		dc.Stroke()
	}
	dc.SetColor(colorAxis)
	for _, angle := range []float64{0, 90, 180, 270} {
		x, y := polar(angle, extent)
		px, py := project(cfg, x, y, extent)
		dc.DrawLine(cx, cy, px, py)
		dc.Stroke()
	}

	for _, p := range l.Points {
		px, py := project(cfg, p.X, p.Y, extent)
		drawDot(dc, px, py, pointRadius, ParseHexColor(p.Item.Color))
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(p.Item.Name, labelMaxLen), px+pointRadius+3, py, 0, 0.5)
	}

	return png.Encode(w, dc.Image())
}

// RenderRadialPNG writes the radial layout as PNG
func RenderRadialPNG(w io.Writer, l RadialLayout) error {
	cfg := l.Config
	extent := cfg.OuterRing
	scale := scaleOf(cfg, extent)
	cx, cy := project(cfg, 0, 0, extent)

	dc := newContext(cfg)
	dc.SetColor(colorRing)
	dc.SetLineWidth(1)
	for _, r := range []float64{cfg.InnerRing, cfg.MiddleRing, cfg.OuterRing} {
		dc.DrawCircle(cx, cy, r*scale)
		dc.Stroke()
	}

	selected, hasSelection := l.SelectedDomain()
	if hasSelection {
		sx, sy := project(cfg, selected.X, selected.Y, extent)
		dc.SetColor(colorAxis)
		for _, m := range l.Members {
			mx, my := project(cfg, m.X, m.Y, extent)
			dc.DrawLine(sx, sy, mx, my)
			dc.Stroke()
		}
	}

	for _, d := range l.Domains {
		px, py := project(cfg, d.X, d.Y, extent)
		drawDot(dc, px, py, domainCircleRadius, ParseHexColor(d.Domain.Color))
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(truncate(d.Domain.Name, labelMaxLen), px, py+domainCircleRadius+10, 0.5, 0.5)
	}
	for _, m := range l.Members {
		px, py := project(cfg, m.X, m.Y, extent)
		drawDot(dc, px, py, pointRadius, ParseHexColor(selected.Domain.Color))
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(m.Item.Name, labelMaxLen), px, py-pointRadius-8, 0.5, 0.5)
	}

	return png.Encode(w, dc.Image())
}

func newContext(cfg Config) *gg.Context {
	dc := gg.NewContext(cfg.Width, cfg.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

func drawDot(dc *gg.Context, x, y, r float64, fill color.RGBA) {
	dc.SetColor(fill)
	dc.DrawCircle(x, y, r)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.5)
	dc.DrawCircle(x, y, r)
	dc.Stroke()
}
