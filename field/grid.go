package field

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/efield/vmath"
)

// Grid is a regular lattice of field samples centred at the simulation origin
//
// Sample (i, j) sits at (-W/2 + i*spacing, -H/2 + j*spacing) with
// W = width*spacing - spacing and H = height*spacing - spacing, so the outermost
// samples are symmetric about the origin. Storage is row-major: j*width + i.
type Grid struct {
	width, height int
	spacing       float64
	samples       []vmath.Vec2
}

// NewGrid allocates a lattice; zero sizes are valid and yield an empty grid
func NewGrid(width, height int, spacing float64) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(ErrInvalidGrid, "size %dx%d", width, height)
	}
	if !vmath.IsFinite(spacing) || spacing <= 0 {
		return nil, errors.Wrapf(ErrInvalidGrid, "spacing %g", spacing)
	}
	return &Grid{
		width:   width,
		height:  height,
		spacing: spacing,
		samples: make([]vmath.Vec2, width*height),
	}, nil
}

func (g *Grid) Width() int       { return g.width }
func (g *Grid) Height() int      { return g.height }
func (g *Grid) Spacing() float64 { return g.spacing }
func (g *Grid) Len() int         { return len(g.samples) }

// Extent returns the span (W, H) between the outermost samples
func (g *Grid) Extent() (w, h float64) {
	return float64(g.width)*g.spacing - g.spacing, float64(g.height)*g.spacing - g.spacing
}

// Position returns the simulation-space location of lattice point (i, j)
func (g *Grid) Position(i, j int) (vmath.Vec2, error) {
	if !g.inRange(i, j) {
		return vmath.Vec2{}, errors.Wrapf(ErrOutOfRange, "(%d, %d) in %dx%d", i, j, g.width, g.height)
	}
	return g.position(i, j), nil
}

func (g *Grid) position(i, j int) vmath.Vec2 {
	w, h := g.Extent()
	return vmath.Vec2{
		X: -w/2 + float64(i)*g.spacing,
		Y: -h/2 + float64(j)*g.spacing,
	}
}

// Resample recomputes every sample from ev; there is no incremental update
func (g *Grid) Resample(ev Evaluator) {
	for j := 0; j < g.height; j++ {
		row := j * g.width
		for i := 0; i < g.width; i++ {
			g.samples[row+i] = ev.FieldAt(g.position(i, j))
		}
	}
}

// Sample returns the stored field vector at (i, j)
func (g *Grid) Sample(i, j int) (vmath.Vec2, error) {
	if !g.inRange(i, j) {
		return vmath.Vec2{}, errors.Wrapf(ErrOutOfRange, "(%d, %d) in %dx%d", i, j, g.width, g.height)
	}
	return g.samples[j*g.width+i], nil
}

// Samples returns the backing slice in storage order; callers must not modify it
func (g *Grid) Samples() []vmath.Vec2 {
	return g.samples
}

// Each calls fn for every lattice point in storage order
func (g *Grid) Each(fn func(i, j int, pos, sample vmath.Vec2)) {
	for j := 0; j < g.height; j++ {
		for i := 0; i < g.width; i++ {
			fn(i, j, g.position(i, j), g.samples[j*g.width+i])
		}
	}
}

// MaxMagnitude returns the largest finite sample length
func (g *Grid) MaxMagnitude() float64 {
	var m float64
	for _, s := range g.samples {
		if l := s.Length(); vmath.IsFinite(l) && l > m {
			m = l
		}
	}
	return m
}

// Clone returns an independent copy including samples
func (g *Grid) Clone() *Grid {
	c := *g
	c.samples = make([]vmath.Vec2, len(g.samples))
	copy(c.samples, g.samples)
	return &c
}

// CopyFrom copies samples from a grid of the same shape
func (g *Grid) CopyFrom(src *Grid) error {
	if g.width != src.width || g.height != src.height || g.spacing != src.spacing {
		return errors.Wrapf(ErrInvalidGrid, "shape %dx%d@%g vs %dx%d@%g",
			g.width, g.height, g.spacing, src.width, src.height, src.spacing)
	}
	copy(g.samples, src.samples)
	return nil
}

func (g *Grid) inRange(i, j int) bool {
	return i >= 0 && i < g.width && j >= 0 && j < g.height
}
