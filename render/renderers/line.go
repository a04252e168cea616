package renderers

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/efield/field"
	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/vmath"
)

// LineRenderer rasterizes the traced field line with a supercover walk per segment
type LineRenderer struct{}

// NewLineRenderer creates a field line renderer
func NewLineRenderer() *LineRenderer {
	return &LineRenderer{}
}

// IsVisible implements render.VisibilityToggle
func (l *LineRenderer) IsVisible(ctx render.RenderContext) bool {
	return ctx.Frame != nil && ctx.Frame.Flags.ShowLine && ctx.Frame.Line.Len() > 0
}

// Render implements render.SystemRenderer
func (l *LineRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	pts := ctx.Frame.Line.Points
	w, h := ctx.View.Size()

	plot := func(x, y int) bool {
		if ctx.View.Contains(x, y) {
			buf.Set(x, y, '•', render.RgbFieldLine, render.BlendMax, 1, tcell.AttrNone)
		}
		return true
	}

	prev := ctx.View.ToScreen(pts[0])
	if len(pts) == 1 {
		x, y := ctx.View.ToCell(pts[0])
		plot(x, y)
	}
	for _, p := range pts[1:] {
		next := ctx.View.ToScreen(p)
		if a, b, ok := clipSegment(prev, next, float64(w), float64(h)); ok {
			vmath.Traverse(a, b, plot)
		}
		prev = next
	}

	if ctx.Frame.Line.Reason == field.StoppedByCollision {
		last, _ := ctx.Frame.Line.Last()
		x, y := ctx.View.ToCell(last)
		if ctx.View.Contains(x, y) {
			buf.SetFgOnly(x, y, '◆', render.RgbLineHit, tcell.AttrBold)
		}
	}
}

// clipSegment clips a→b to [0, w) × [0, h) (Liang-Barsky)
func clipSegment(a, b vmath.Vec2, w, h float64) (vmath.Vec2, vmath.Vec2, bool) {
	if !a.IsFinite() || !b.IsFinite() {
		return a, b, false
	}
	// Keep endpoints strictly inside so floor() stays in range
	const eps = 1e-9
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, a.X},
		{d.X, w - eps - a.X},
		{-d.Y, a.Y},
		{d.Y, h - eps - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = min(t1, r)
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}
