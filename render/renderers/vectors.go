package renderers

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/vmath"
)

// VectorsRenderer draws one direction glyph per lattice point, colored by magnitude
type VectorsRenderer struct{}

// NewVectorsRenderer creates a field arrow renderer
func NewVectorsRenderer() *VectorsRenderer {
	return &VectorsRenderer{}
}

// IsVisible implements render.VisibilityToggle
func (v *VectorsRenderer) IsVisible(ctx render.RenderContext) bool {
	return ctx.Frame != nil && ctx.Frame.Grid != nil && ctx.Frame.Flags.ShowVectors
}

// Render implements render.SystemRenderer
func (v *VectorsRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	m := ctx.View.Transform()
	ctx.Frame.Grid.Each(func(_, _ int, pos, sample vmath.Vec2) {
		x, y := ctx.View.ToCell(pos)
		if !ctx.View.Contains(x, y) {
			return
		}
		glyph := render.ArrowGlyph(m.MapDirection(sample))
		buf.Set(x, y, glyph, render.FieldColor(sample.Length()), render.BlendReplace, 1, tcell.AttrNone)
	})
}
