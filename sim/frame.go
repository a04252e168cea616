package sim

import (
	"github.com/lixenwraith/efield/field"
)

// Frame is a consistent copy of everything one render pass reads
type Frame struct {
	Charges      []field.Charge
	Grid         *field.Grid
	Line         field.Line
	Flags        Flags
	StartAngle   float64
	Permittivity float64
	Evaluator    string
	Tick         uint64
}

// Frame copies the current state under the lock
func (s *Simulation) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Frame{
		Charges:      s.charges.Snapshot(),
		Grid:         s.grid.Clone(),
		Line:         s.line.Clone(),
		Flags:        s.flags,
		StartAngle:   s.angle,
		Permittivity: s.permittivity,
		Evaluator:    s.evaluator,
		Tick:         s.ticks,
	}
}

// FrameInto refreshes dst in place, reusing its buffers
func (s *Simulation) FrameInto(dst *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst.Charges = s.charges.AppendTo(dst.Charges[:0])
	if dst.Grid == nil || dst.Grid.CopyFrom(s.grid) != nil {
		dst.Grid = s.grid.Clone()
	}
	dst.Line.Points = append(dst.Line.Points[:0], s.line.Points...)
	dst.Line.Reason = s.line.Reason
	dst.Line.Hit = s.line.Hit
	dst.Flags = s.flags
	dst.StartAngle = s.angle
	dst.Permittivity = s.permittivity
	dst.Evaluator = s.evaluator
	dst.Tick = s.ticks
}
