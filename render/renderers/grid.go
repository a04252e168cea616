package renderers

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/vmath"
)

// GridRenderer draws a dot at every lattice point
type GridRenderer struct{}

// NewGridRenderer creates a lattice renderer
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{}
}

// IsVisible implements render.VisibilityToggle
func (g *GridRenderer) IsVisible(ctx render.RenderContext) bool {
	return ctx.Frame != nil && ctx.Frame.Grid != nil && ctx.Frame.Flags.ShowGrid
}

// Render implements render.SystemRenderer
func (g *GridRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	ctx.Frame.Grid.Each(func(_, _ int, pos, _ vmath.Vec2) {
		x, y := ctx.View.ToCell(pos)
		if ctx.View.Contains(x, y) {
			buf.SetFgOnly(x, y, '·', render.RgbGridDot, tcell.AttrNone)
		}
	})
}
