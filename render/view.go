package render

import (
	"math"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

// View owns the simulation to screen transform for the field area
// Simulation +Y points up, the origin sits at the centre of the area,
// and rows are scaled by 1/CellAspect so a unit looks square on a typical terminal
type View struct {
	scale  float64
	width  int
	height int

	toScreen vmath.Transform
	toSim    vmath.Transform
}

// NewView creates a view of width×height cells at scale columns per unit
func NewView(scale float64, width, height int) *View {
	v := &View{
		scale:  clampScale(scale),
		width:  max(width, 0),
		height: max(height, 0),
	}
	v.rebuild()
	return v
}

func clampScale(s float64) float64 {
	if !vmath.IsFinite(s) || s <= 0 {
		return parameter.DefaultViewScale
	}
	return math.Max(parameter.MinViewScale, math.Min(parameter.MaxViewScale, s))
}

func (v *View) rebuild() {
	v.toScreen = vmath.NewViewTransform(
		v.scale,
		-v.scale/parameter.CellAspect,
		float64(v.width)/2,
		float64(v.height)/2,
	)
	// Scale is clamped positive, so the transform is always invertible
	if inv, err := v.toScreen.Invert(); err == nil {
		v.toSim = inv
	}
}

// Resize re-centres the view on a new field area
func (v *View) Resize(width, height int) {
	v.width, v.height = max(width, 0), max(height, 0)
	v.rebuild()
}

// Zoom multiplies the scale by factor within the zoom bounds; returns false when nothing changed
func (v *View) Zoom(factor float64) bool {
	next := clampScale(v.scale * factor)
	if next == v.scale {
		return false
	}
	v.scale = next
	v.rebuild()
	return true
}

// ZoomIn and ZoomOut apply one wheel notch
func (v *View) ZoomIn() bool  { return v.Zoom(1 + parameter.ZoomStep) }
func (v *View) ZoomOut() bool { return v.Zoom(1 - parameter.ZoomStep) }

// Accessors
func (v *View) Scale() float64             { return v.scale }
func (v *View) Size() (int, int)           { return v.width, v.height }
func (v *View) Transform() vmath.Transform { return v.toScreen }

// ToScreen maps p to fractional screen coordinates
func (v *View) ToScreen(p vmath.Vec2) vmath.Vec2 {
	return v.toScreen.MapPoint(p)
}

// ToCell returns the cell containing simulation point p
func (v *View) ToCell(p vmath.Vec2) (x, y int) {
	s := v.toScreen.MapPoint(p)
	return int(math.Floor(s.X)), int(math.Floor(s.Y))
}

// ToSim maps the centre of cell (x, y) to simulation space
func (v *View) ToSim(x, y int) vmath.Vec2 {
	return v.toSim.MapPoint(vmath.V2(float64(x)+0.5, float64(y)+0.5))
}

// DeltaToSim maps a pointer movement in cells to a simulation displacement
func (v *View) DeltaToSim(dx, dy int) vmath.Vec2 {
	return v.toSim.MapDirection(vmath.V2(float64(dx), float64(dy)))
}

// Contains reports whether cell (x, y) is inside the field area
func (v *View) Contains(x, y int) bool {
	return x >= 0 && x < v.width && y >= 0 && y < v.height
}
