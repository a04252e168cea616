package field

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

// Evaluator returns the electric field vector at a point
// The grid sampler and the line tracer only depend on this capability
type Evaluator interface {
	FieldAt(p vmath.Vec2) vmath.Vec2
}

// EvaluatorFunc adapts a plain function to Evaluator
type EvaluatorFunc func(p vmath.Vec2) vmath.Vec2

func (f EvaluatorFunc) FieldAt(p vmath.Vec2) vmath.Vec2 { return f(p) }

// Coulomb is the direct superposition of point-charge fields
//
// Each charge contributes (k/εr)·q/|r|² along r̂, r = p - charge position.
// A query point exactly on a charge skips that charge (self-field is zero),
// so the result stays finite for any finite input.
type Coulomb struct {
	charges []Charge
	factor  float64 // k / εr
}

var _ Evaluator = (*Coulomb)(nil)

// NewCoulomb builds an evaluator over a charge snapshot; the slice is not copied
func NewCoulomb(charges []Charge, permittivity float64) (*Coulomb, error) {
	if err := ValidatePermittivity(permittivity); err != nil {
		return nil, err
	}
	return &Coulomb{
		charges: charges,
		factor:  parameter.CoulombConstant / permittivity,
	}, nil
}

// FieldAt sums every charge's contribution at p
func (c *Coulomb) FieldAt(p vmath.Vec2) vmath.Vec2 {
	var e vmath.Vec2
	for i := range c.charges {
		e = e.Add(c.contribution(&c.charges[i], p))
	}
	return e
}

func (c *Coulomb) contribution(q *Charge, p vmath.Vec2) vmath.Vec2 {
	r := p.Sub(q.Pos)
	d2 := r.LengthSq()
	if d2 == 0 {
		return vmath.Vec2{}
	}
	mag := c.factor * q.Magnitude / d2
	return r.Normalize().Scale(mag)
}

// ValidatePermittivity rejects εr that is not a finite positive number
func ValidatePermittivity(er float64) error {
	if !vmath.IsFinite(er) || er <= 0 {
		return errors.Wrapf(ErrInvalidPermittivity, "εr=%g", er)
	}
	return nil
}
