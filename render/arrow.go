package render

import (
	"math"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

// arrowGlyphs are indexed by octant, counter-clockwise from +X on screen
var arrowGlyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// ArrowNone is drawn where the field has no direction
const ArrowNone = '·'

// ArrowGlyph picks the 8-direction glyph for a screen-space direction (Y down)
func ArrowGlyph(dir vmath.Vec2) rune {
	if dir.LengthSq() == 0 || !dir.IsFinite() {
		return ArrowNone
	}
	angle := math.Atan2(-dir.Y, dir.X)
	octant := int(math.Round(angle/(math.Pi/4))) & 7
	return arrowGlyphs[octant]
}

// arrowShape is the unit arrow in (along, normal) coordinates, tip first
var arrowShape = [3]vmath.Vec2{{X: 0.3, Y: 0}, {X: -0.2, Y: -0.1}, {X: -0.2, Y: 0.1}}

// ArrowTriangle returns the filled arrow for sample at pos, in simulation units
// The arrow length follows the scaled magnitude, clamped to the arrow length bounds
func ArrowTriangle(pos, sample vmath.Vec2) [3]vmath.Vec2 {
	scaled := sample.Scale(parameter.ArrowMagnitudeScale)
	length := math.Max(parameter.ArrowMinLength, math.Min(parameter.ArrowMaxLength, scaled.Length()))
	along := scaled.Normalize().Scale(length)
	normal := along.LeftNormal()

	var tri [3]vmath.Vec2
	for i, p := range arrowShape {
		tri[i] = pos.Add(along.Scale(p.X)).Add(normal.Scale(p.Y))
	}
	return tri
}
