package field

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/physics"
	"github.com/lixenwraith/efield/vmath"
)

// StopReason is the terminal state of a trace
type StopReason uint8

const (
	// NoStart means the set holds no positive charge; the line is empty
	NoStart StopReason = iota
	// StoppedByDivergence means a step jumped too far or the field was degenerate
	StoppedByDivergence
	// StoppedByCollision means the line ran into a charge and ends on its centre
	StoppedByCollision
	// StoppedByBudget means the point cap was reached
	StoppedByBudget
)

func (r StopReason) String() string {
	switch r {
	case NoStart:
		return "no-start"
	case StoppedByDivergence:
		return "divergence"
	case StoppedByCollision:
		return "collision"
	case StoppedByBudget:
		return "budget"
	default:
		return "unknown"
	}
}

// Line is one traced field line
// Points holds the valid prefix only; its capacity is reused across traces
type Line struct {
	Points []vmath.Vec2
	Reason StopReason
	Hit    uuid.UUID // charge hit on collision, uuid.Nil otherwise
}

// Len returns the number of valid points
func (l *Line) Len() int {
	return len(l.Points)
}

// Last returns the final point, false for an empty line
func (l *Line) Last() (vmath.Vec2, bool) {
	if len(l.Points) == 0 {
		return vmath.Vec2{}, false
	}
	return l.Points[len(l.Points)-1], true
}

// Clone returns a copy with its own backing array
func (l *Line) Clone() Line {
	c := *l
	c.Points = append([]vmath.Vec2(nil), l.Points...)
	return c
}

// Tracer marches along the field direction from the first positive charge
type Tracer struct {
	MaxPoints       int
	SeedOffset      float64
	BaseStep        float64
	DivergenceSq    float64
	CollisionRadius float64
}

// NewTracer returns a tracer with the standard geometry
func NewTracer() Tracer {
	return Tracer{
		MaxPoints:       parameter.MaxLinePoints,
		SeedOffset:      parameter.LineSeedOffset,
		BaseStep:        parameter.LineBaseStep,
		DivergenceSq:    parameter.LineDivergenceSq,
		CollisionRadius: parameter.LineCollisionRadius,
	}
}

// Trace returns a freshly allocated line
func (t Tracer) Trace(ev Evaluator, charges []Charge, startAngle float64) Line {
	var l Line
	t.TraceInto(&l, ev, charges, startAngle)
	return l
}

// TraceInto regenerates dst in place
//
// The seed sits SeedOffset away from the first positive charge along startAngle.
// Each step advances one RK4 step with h = BaseStep/|E(prev)|, so the geometric
// step stays near BaseStep regardless of field strength. Per step, a jump longer
// than sqrt(DivergenceSq) stops without recording; otherwise the first charge
// (in slice order) whose collision disk the segment touches ends the line on
// that charge's centre.
func (t Tracer) TraceInto(dst *Line, ev Evaluator, charges []Charge, startAngle float64) {
	dst.Points = dst.Points[:0]
	dst.Hit = uuid.Nil

	src, ok := FirstPositive(charges)
	if !ok || t.MaxPoints <= 0 {
		dst.Reason = NoStart
		return
	}
	if cap(dst.Points) < t.MaxPoints {
		dst.Points = make([]vmath.Vec2, 0, t.MaxPoints)
	}

	prev := src.Pos.Add(vmath.FromPolar(startAngle, t.SeedOffset))
	dst.Points = append(dst.Points, prev)

	// Time is unused by the field but kept for the generic stepper
	f := func(_ float64, y vmath.Vec2) vmath.Vec2 {
		return ev.FieldAt(y)
	}

	for i := 1; i < t.MaxPoints; i++ {
		strength := ev.FieldAt(prev).Length()
		if strength == 0 || !vmath.IsFinite(strength) {
			dst.Reason = StoppedByDivergence
			return
		}

		next := physics.RK4(f, t.BaseStep*float64(i), t.BaseStep/strength, prev)

		if !next.IsFinite() || vmath.Dist2(next, prev) > t.DivergenceSq {
			dst.Reason = StoppedByDivergence
			return
		}

		for j := range charges {
			c := &charges[j]
			if vmath.SegmentIntersectsCircle(prev, next, c.Pos, t.CollisionRadius) {
				dst.Points = append(dst.Points, c.Pos)
				dst.Reason = StoppedByCollision
				dst.Hit = c.ID
				return
			}
		}

		dst.Points = append(dst.Points, next)
		prev = next
	}

	dst.Reason = StoppedByBudget
}
