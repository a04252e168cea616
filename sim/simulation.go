// Package sim owns one viewing session: the charge set, the sampled grid and
// the traced line, behind a single mutex so every tick sees a consistent set
package sim

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/efield/config"
	"github.com/lixenwraith/efield/field"
	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

// ErrInvalidAngle rejects a non-finite start angle
var ErrInvalidAngle = errors.New("sim: invalid angle")

// ErrInvalidEvaluator rejects an unknown evaluator name or a bad opening angle
var ErrInvalidEvaluator = errors.New("sim: invalid evaluator")

// Flags are the draw toggles stored for the rendering layer
type Flags struct {
	ShowGrid    bool
	ShowVectors bool
	ShowLine    bool
}

// Options configure a new Simulation
type Options struct {
	GridWidth    int
	GridHeight   int
	GridSpacing  float64
	Permittivity float64
	Evaluator    string
	Theta        float64
	StartAngle   float64
	Flags        Flags
	Charges      []config.ChargeSeed
	Logger       zerolog.Logger
}

// DefaultOptions returns the built-in session settings with no charges
func DefaultOptions() Options {
	return Options{
		GridWidth:    parameter.DefaultGridWidth,
		GridHeight:   parameter.DefaultGridHeight,
		GridSpacing:  parameter.DefaultGridSpacing,
		Permittivity: parameter.DefaultPermittivity,
		Evaluator:    config.EvaluatorDirect,
		Theta:        parameter.DefaultBarnesHutTheta,
		Flags:        Flags{ShowGrid: true, ShowVectors: true},
		Logger:       zerolog.Nop(),
	}
}

// OptionsFromConfig maps resolved configuration onto session options
func OptionsFromConfig(cfg *config.Config, log zerolog.Logger) Options {
	return Options{
		GridWidth:    cfg.Grid.Width,
		GridHeight:   cfg.Grid.Height,
		GridSpacing:  cfg.Grid.Spacing,
		Permittivity: cfg.Field.Permittivity,
		Evaluator:    cfg.Field.Evaluator,
		Theta:        cfg.Field.Theta,
		StartAngle:   cfg.Line.Angle,
		Flags: Flags{
			ShowGrid:    cfg.View.ShowGrid,
			ShowVectors: cfg.View.ShowVectors,
			ShowLine:    cfg.View.ShowLine,
		},
		Charges: cfg.Charges,
		Logger:  log,
	}
}

// TickReport summarizes the line produced by one tick
type TickReport struct {
	Reason field.StopReason
	Hit    uuid.UUID
	Points int
	// Changed is set when the stop reason or hit charge differs from the previous tick
	Changed bool
}

// Simulation is the session aggregate; all methods are safe for concurrent use
type Simulation struct {
	mu sync.Mutex

	charges *field.ChargeSet
	grid    *field.Grid
	tracer  field.Tracer
	line    field.Line

	permittivity float64
	evaluator    string
	theta        float64
	angle        float64
	flags        Flags

	ticks      uint64
	lastReason field.StopReason
	lastHit    uuid.UUID

	log zerolog.Logger
}

// New validates opts, seeds the configured charges and computes the first frame
func New(opts Options) (*Simulation, error) {
	grid, err := field.NewGrid(opts.GridWidth, opts.GridHeight, opts.GridSpacing)
	if err != nil {
		return nil, err
	}
	if err := field.ValidatePermittivity(opts.Permittivity); err != nil {
		return nil, err
	}
	if err := validateEvaluator(opts.Evaluator, opts.Theta); err != nil {
		return nil, err
	}
	if !vmath.IsFinite(opts.StartAngle) {
		return nil, errors.Wrapf(ErrInvalidAngle, "%g", opts.StartAngle)
	}

	s := &Simulation{
		charges:      field.NewChargeSet(),
		grid:         grid,
		tracer:       field.NewTracer(),
		permittivity: opts.Permittivity,
		evaluator:    opts.Evaluator,
		theta:        opts.Theta,
		angle:        opts.StartAngle,
		flags:        opts.Flags,
		log:          opts.Logger,
	}

	for i, seed := range opts.Charges {
		if _, err := s.charges.Add(vmath.V2(seed.X, seed.Y), seed.Q*parameter.MicroCoulomb); err != nil {
			return nil, errors.Wrapf(err, "seed charge %d", i)
		}
	}

	s.log.Info().
		Int("grid_width", opts.GridWidth).
		Int("grid_height", opts.GridHeight).
		Float64("spacing", opts.GridSpacing).
		Float64("permittivity", opts.Permittivity).
		Str("evaluator", opts.Evaluator).
		Int("charges", s.charges.Len()).
		Msg("simulation created")

	s.Tick()
	return s, nil
}

func validateEvaluator(name string, theta float64) error {
	switch name {
	case config.EvaluatorDirect:
		return nil
	case config.EvaluatorBarnesHut:
		if !vmath.IsFinite(theta) || theta < 0 {
			return errors.Wrapf(ErrInvalidEvaluator, "theta %g", theta)
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidEvaluator, "%q", name)
	}
}

// buildEvaluator returns the configured evaluator over a charge snapshot
// Caller holds s.mu
func (s *Simulation) buildEvaluator(charges []field.Charge) field.Evaluator {
	var (
		ev  field.Evaluator
		err error
	)
	if s.evaluator == config.EvaluatorBarnesHut {
		ev, err = field.NewBarnesHut(charges, s.permittivity, s.theta)
	} else {
		ev, err = field.NewCoulomb(charges, s.permittivity)
	}
	if err != nil {
		// Unreachable: every setter validates
		panic(errors.Wrap(err, "sim: evaluator"))
	}
	return ev
}

// Tick resamples the grid and retraces the line from the stored angle
func (s *Simulation) Tick() TickReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	charges := s.charges.Snapshot()
	ev := s.buildEvaluator(charges)

	s.grid.Resample(ev)
	s.tracer.TraceInto(&s.line, ev, charges, s.angle)
	s.ticks++

	r := TickReport{
		Reason: s.line.Reason,
		Hit:    s.line.Hit,
		Points: s.line.Len(),
	}
	if r.Reason != s.lastReason || r.Hit != s.lastHit {
		r.Changed = true
		s.lastReason, s.lastHit = r.Reason, r.Hit
		s.log.Debug().
			Stringer("reason", r.Reason).
			Int("points", r.Points).
			Str("hit", r.Hit.String()).
			Msg("line stop changed")
	}
	return r
}

// ResampleField recomputes every grid sample from the current charges
func (s *Simulation) ResampleField() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grid.Resample(s.buildEvaluator(s.charges.Snapshot()))
}

// FieldSample returns the stored field vector at lattice point (i, j)
func (s *Simulation) FieldSample(i, j int) (vmath.Vec2, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.grid.Sample(i, j)
}

// RetraceLine traces a fresh line from startAngle
// The stored angle and the line handed to renderers are not changed
func (s *Simulation) RetraceLine(startAngle float64) field.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	charges := s.charges.Snapshot()
	var line field.Line
	s.tracer.TraceInto(&line, s.buildEvaluator(charges), charges, startAngle)
	return line
}

// AddCharge appends a charge of magnitude coulombs at (x, y)
func (s *Simulation) AddCharge(x, y, magnitude float64) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.charges.Add(vmath.V2(x, y), magnitude)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Debug().Str("id", c.ID.String()).Float64("x", x).Float64("y", y).Float64("q", magnitude).Msg("charge added")
	return c.ID, nil
}

// MoveCharge translates a charge by delta in simulation units
func (s *Simulation) MoveCharge(id uuid.UUID, delta vmath.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.charges.Move(id, delta); err != nil {
		return err
	}
	s.log.Debug().Str("id", id.String()).Float64("dx", delta.X).Float64("dy", delta.Y).Msg("charge moved")
	return nil
}

// RemoveCharge deletes a charge
func (s *Simulation) RemoveCharge(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.charges.Remove(id); err != nil {
		return err
	}
	s.log.Debug().Str("id", id.String()).Msg("charge removed")
	return nil
}

// ClearCharges removes every charge and returns how many there were
func (s *Simulation) ClearCharges() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.charges.Len()
	s.charges.Clear()
	s.log.Debug().Int("count", n).Msg("charges cleared")
	return n
}

// FindChargeNear returns the first charge in set order within radius of p
func (s *Simulation) FindChargeNear(p vmath.Vec2, radius float64) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.charges.FindNear(p, radius)
	return c.ID, ok
}

// FindChargeAt is FindChargeNear with the standard pick radius
func (s *Simulation) FindChargeAt(p vmath.Vec2) (uuid.UUID, bool) {
	return s.FindChargeNear(p, parameter.PickRadius)
}

// Charge returns a copy of one charge
func (s *Simulation) Charge(id uuid.UUID) (field.Charge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.charges.Get(id)
}

// Charges returns a snapshot in set order
func (s *Simulation) Charges() []field.Charge {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.charges.Snapshot()
}

// SetPermittivity changes εr for subsequent ticks
func (s *Simulation) SetPermittivity(er float64) error {
	if err := field.ValidatePermittivity(er); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.permittivity = er
	return nil
}

// SetEvaluator switches between the direct sum and Barnes-Hut
func (s *Simulation) SetEvaluator(name string, theta float64) error {
	if err := validateEvaluator(name, theta); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evaluator, s.theta = name, theta
	s.log.Info().Str("evaluator", name).Float64("theta", theta).Msg("evaluator changed")
	return nil
}

// SetStartAngle stores the angle used by Tick
func (s *Simulation) SetStartAngle(angle float64) error {
	if !vmath.IsFinite(angle) {
		return errors.Wrapf(ErrInvalidAngle, "%g", angle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.angle = angle
	return nil
}

// StartAngle returns the stored line angle
func (s *Simulation) StartAngle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.angle
}

// SetFlags replaces the draw toggles
func (s *Simulation) SetFlags(f Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags = f
}

// Flags returns the draw toggles
func (s *Simulation) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flags
}
