package field

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lixenwraith/efield/vmath"
)

// Charge is a point source with a signed magnitude in coulombs
type Charge struct {
	ID        uuid.UUID
	Pos       vmath.Vec2
	Magnitude float64
}

// Positive reports whether the charge is a field source (magnitude > 0)
func (c Charge) Positive() bool {
	return c.Magnitude > 0
}

// ChargeSet is an ordered collection of charges
// Order is the tie-break for FirstPositive and FindNear; the zero value is ready to use
// Not safe for concurrent use, callers serialize access
type ChargeSet struct {
	charges []Charge
}

// NewChargeSet returns an empty set
func NewChargeSet() *ChargeSet {
	return &ChargeSet{}
}

// Add appends a charge at pos, rejecting non-finite input
func (s *ChargeSet) Add(pos vmath.Vec2, magnitude float64) (Charge, error) {
	if !pos.IsFinite() || !vmath.IsFinite(magnitude) {
		return Charge{}, errors.Wrapf(ErrInvalidCharge, "pos=(%g, %g) q=%g", pos.X, pos.Y, magnitude)
	}
	c := Charge{
		ID:        uuid.New(),
		Pos:       pos,
		Magnitude: magnitude,
	}
	s.charges = append(s.charges, c)
	return c, nil
}

// Move translates the charge by delta in place
func (s *ChargeSet) Move(id uuid.UUID, delta vmath.Vec2) error {
	i := s.index(id)
	if i < 0 {
		return errors.Wrapf(ErrChargeNotFound, "id=%s", id)
	}
	next := s.charges[i].Pos.Add(delta)
	if !next.IsFinite() {
		return errors.Wrapf(ErrInvalidCharge, "move by (%g, %g)", delta.X, delta.Y)
	}
	s.charges[i].Pos = next
	return nil
}

// Remove deletes the charge, preserving the order of the rest
func (s *ChargeSet) Remove(id uuid.UUID) error {
	i := s.index(id)
	if i < 0 {
		return errors.Wrapf(ErrChargeNotFound, "id=%s", id)
	}
	s.charges = append(s.charges[:i], s.charges[i+1:]...)
	return nil
}

// Get returns the charge with the given ID
func (s *ChargeSet) Get(id uuid.UUID) (Charge, bool) {
	i := s.index(id)
	if i < 0 {
		return Charge{}, false
	}
	return s.charges[i], true
}

// FindNear returns the first charge in set order within radius of p
func (s *ChargeSet) FindNear(p vmath.Vec2, radius float64) (Charge, bool) {
	for _, c := range s.charges {
		if vmath.PointInCircle(p, c.Pos, radius) {
			return c, true
		}
	}
	return Charge{}, false
}

// FirstPositive returns the first positive charge in set order
func (s *ChargeSet) FirstPositive() (Charge, bool) {
	return FirstPositive(s.charges)
}

// Len returns the number of charges
func (s *ChargeSet) Len() int {
	return len(s.charges)
}

// Snapshot returns a copy safe to hand to evaluators and the tracer
func (s *ChargeSet) Snapshot() []Charge {
	out := make([]Charge, len(s.charges))
	copy(out, s.charges)
	return out
}

// AppendTo appends the charges in set order to dst
func (s *ChargeSet) AppendTo(dst []Charge) []Charge {
	return append(dst, s.charges...)
}

// Clear removes every charge
func (s *ChargeSet) Clear() {
	s.charges = s.charges[:0]
}

func (s *ChargeSet) index(id uuid.UUID) int {
	for i := range s.charges {
		if s.charges[i].ID == id {
			return i
		}
	}
	return -1
}

// FirstPositive returns the first positive charge of a snapshot
func FirstPositive(charges []Charge) (Charge, bool) {
	for _, c := range charges {
		if c.Positive() {
			return c, true
		}
	}
	return Charge{}, false
}
