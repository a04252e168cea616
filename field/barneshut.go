package field

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

// source is a same-sign charge aggregate stored in a quadtree
// mass is |q|; the sign lives on the plane it belongs to
type source struct {
	pos  r2.Vec
	mass float64
}

func (s *source) Coord2() r2.Vec { return s.pos }
func (s *source) Mass() float64  { return s.mass }

// probe is the unit test charge placed at the query point
type probe struct {
	pos r2.Vec
}

func (p *probe) Coord2() r2.Vec { return p.pos }
func (p *probe) Mass() float64  { return 1 }

// BarnesHut approximates Coulomb superposition with two quadtrees
//
// Positive and negative charges are split so every aggregate node has a
// well-defined centre of charge. Theta is the opening angle; 0 visits every
// leaf and reproduces the direct sum.
type BarnesHut struct {
	positive *barneshut.Plane
	negative *barneshut.Plane
	theta    float64
	factor   float64
}

var _ Evaluator = (*BarnesHut)(nil)

// NewBarnesHut builds the quadtrees from a charge snapshot
// Coincident same-sign charges are merged before insertion
func NewBarnesHut(charges []Charge, permittivity, theta float64) (*BarnesHut, error) {
	if err := ValidatePermittivity(permittivity); err != nil {
		return nil, err
	}
	if !vmath.IsFinite(theta) || theta < 0 {
		return nil, errors.Errorf("field: invalid theta %g", theta)
	}

	pos, neg := splitBySign(charges)

	bh := &BarnesHut{
		theta:  theta,
		factor: parameter.CoulombConstant / permittivity,
	}

	var err error
	if bh.positive, err = newPlane(pos); err != nil {
		return nil, errors.Wrap(err, "positive plane")
	}
	if bh.negative, err = newPlane(neg); err != nil {
		return nil, errors.Wrap(err, "negative plane")
	}
	return bh, nil
}

// FieldAt returns the approximate field at p
func (b *BarnesHut) FieldAt(p vmath.Vec2) vmath.Vec2 {
	pr := &probe{pos: p.R2()}

	var e r2.Vec
	if b.positive != nil {
		e = r2.Add(e, b.positive.ForceOn(pr, b.theta, coulombForce))
	}
	if b.negative != nil {
		e = r2.Sub(e, b.negative.ForceOn(pr, b.theta, coulombForce))
	}
	return vmath.FromR2(r2.Scale(b.factor, e))
}

// coulombForce is the barneshut.Force2 for a unit probe p1 and source p2
// v points from the probe to the source, a positive source pushes the probe away
func coulombForce(_, _ barneshut.Particle2, m1, m2 float64, v r2.Vec) r2.Vec {
	d2 := r2.Norm2(v)
	if d2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(-m1*m2/(d2*math.Sqrt(d2)), v)
}

func newPlane(sources []barneshut.Particle2) (*barneshut.Plane, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	return barneshut.NewPlane(sources)
}

func splitBySign(charges []Charge) (pos, neg []barneshut.Particle2) {
	posIdx := make(map[vmath.Vec2]*source)
	negIdx := make(map[vmath.Vec2]*source)

	for _, c := range charges {
		if c.Magnitude == 0 {
			continue
		}
		idx, list := posIdx, &pos
		if c.Magnitude < 0 {
			idx, list = negIdx, &neg
		}
		if s, ok := idx[c.Pos]; ok {
			s.mass += math.Abs(c.Magnitude)
			continue
		}
		s := &source{pos: c.Pos.R2(), mass: math.Abs(c.Magnitude)}
		idx[c.Pos] = s
		*list = append(*list, s)
	}
	return pos, neg
}
