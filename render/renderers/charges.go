package renderers

import (
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/vmath"
)

// ChargesRenderer draws each charge as a signed glyph over everything but the UI
type ChargesRenderer struct{}

// NewChargesRenderer creates a charge renderer
func NewChargesRenderer() *ChargesRenderer {
	return &ChargesRenderer{}
}

// Render implements render.SystemRenderer
func (c *ChargesRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	if ctx.Frame == nil {
		return
	}
	hover := hovered(ctx)
	for _, ch := range ctx.Frame.Charges {
		x, y := ctx.View.ToCell(ch.Pos)
		if !ctx.View.Contains(x, y) {
			continue
		}

		glyph, fg := '-', render.RgbNegative
		if ch.Positive() {
			glyph, fg = '+', render.RgbPositive
		}
		if ch.ID == ctx.Selected {
			buf.SetWithBg(x, y, glyph, render.RGBBlack, render.RgbSelected)
			continue
		}
		buf.Set(x, y, glyph, fg, render.BlendReplace, 1, tcell.AttrBold)
		if ch.ID == hover {
			buf.SetBgOnly(x, y, render.Blend(render.RgbBackground, render.RgbSelected, parameter.HoverAlpha))
		}
	}
}

// hovered returns the charge a click at the pointer would pick, uuid.Nil when none
func hovered(ctx render.RenderContext) uuid.UUID {
	if !ctx.PointerValid {
		return uuid.Nil
	}
	r2 := parameter.PickRadius * parameter.PickRadius
	for _, ch := range ctx.Frame.Charges {
		if vmath.Dist2(ch.Pos, ctx.Pointer) <= r2 {
			return ch.ID
		}
	}
	return uuid.Nil
}
