package sim

import (
	"bytes"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/efield/config"
	"github.com/lixenwraith/efield/field"
	"github.com/lixenwraith/efield/logging"
	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

func newSim(t *testing.T) *Simulation {
	t.Helper()
	s, err := New(DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadOptions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"spacing", func(o *Options) { o.GridSpacing = 0 }, field.ErrInvalidGrid},
		{"width", func(o *Options) { o.GridWidth = -1 }, field.ErrInvalidGrid},
		{"permittivity", func(o *Options) { o.Permittivity = -2 }, field.ErrInvalidPermittivity},
		{"evaluator", func(o *Options) { o.Evaluator = "multipole" }, ErrInvalidEvaluator},
		{"theta", func(o *Options) { o.Evaluator = config.EvaluatorBarnesHut; o.Theta = math.NaN() }, ErrInvalidEvaluator},
		{"angle", func(o *Options) { o.StartAngle = math.Inf(1) }, ErrInvalidAngle},
		{"charge", func(o *Options) { o.Charges = []config.ChargeSeed{{X: math.NaN(), Q: 1}} }, field.ErrInvalidCharge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			tc.mutate(&opts)
			_, err := New(opts)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewSeedsChargesInMicrocoulombs(t *testing.T) {
	opts := DefaultOptions()
	opts.Charges = []config.ChargeSeed{{X: -1, Y: 0, Q: 2}, {X: 1, Y: 0, Q: -1}}

	s, err := New(opts)
	require.NoError(t, err)

	charges := s.Charges()
	require.Len(t, charges, 2)
	assert.InDelta(t, 2e-6, charges[0].Magnitude, 1e-18)
	assert.InDelta(t, -1e-6, charges[1].Magnitude, 1e-18)

	// New runs a first tick so the frame is ready to draw
	f := s.Frame()
	assert.Equal(t, uint64(1), f.Tick)
	assert.Greater(t, f.Line.Len(), 0)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.View.ShowLine = true
	cfg.Line.Angle = 1.25

	opts := OptionsFromConfig(cfg, logging.New(nil, ""))
	assert.Equal(t, cfg.Grid.Width, opts.GridWidth)
	assert.Equal(t, cfg.Field.Evaluator, opts.Evaluator)
	assert.Equal(t, 1.25, opts.StartAngle)
	assert.Equal(t, Flags{ShowGrid: true, ShowVectors: true, ShowLine: true}, opts.Flags)
}

func TestFieldSampleMatchesEvaluator(t *testing.T) {
	s := newSim(t)
	_, err := s.AddCharge(0.3, -0.2, 1e-6)
	require.NoError(t, err)
	s.ResampleField()

	ev, err := field.NewCoulomb(s.Charges(), 1)
	require.NoError(t, err)

	g := s.Frame().Grid
	for _, ij := range [][2]int{{0, 0}, {10, 37}, {49, 49}} {
		got, err := s.FieldSample(ij[0], ij[1])
		require.NoError(t, err)
		pos, err := g.Position(ij[0], ij[1])
		require.NoError(t, err)
		assert.Equal(t, ev.FieldAt(pos), got)
	}

	_, err = s.FieldSample(50, 0)
	assert.ErrorIs(t, err, field.ErrOutOfRange)
}

func TestRetraceLineNoPositive(t *testing.T) {
	s := newSim(t)
	_, err := s.AddCharge(0, 0, -1.0)
	require.NoError(t, err)

	line := s.RetraceLine(0)
	assert.Equal(t, 0, line.Len())
	assert.Equal(t, field.NoStart, line.Reason)
}

func TestRetraceLineReturnsCopy(t *testing.T) {
	s := newSim(t)
	_, err := s.AddCharge(0, 0, 1e-6)
	require.NoError(t, err)

	line := s.RetraceLine(0.5)
	require.Greater(t, line.Len(), 0)
	line.Points[0] = vmath.V2(100, 100)

	again := s.RetraceLine(0.5)
	assert.NotEqual(t, vmath.V2(100, 100), again.Points[0])

	// RetraceLine does not touch the stored angle
	assert.Equal(t, 0.0, s.StartAngle())
}

func TestRetraceLineLeavesFrameLine(t *testing.T) {
	s := newSim(t)
	_, err := s.AddCharge(-1, 0, 1e-6)
	require.NoError(t, err)
	_, err = s.AddCharge(1, 0, -1e-6)
	require.NoError(t, err)

	s.Tick()
	before := s.Frame().Line

	// Off the axis the line reaches the sink, unlike the stored angle's line
	other := s.RetraceLine(0.3)
	require.Equal(t, field.StoppedByCollision, other.Reason)
	require.NotEqual(t, before.Reason, other.Reason)

	after := s.Frame().Line
	assert.Equal(t, before.Reason, after.Reason)
	assert.Equal(t, before.Points, after.Points)
	assert.False(t, s.Tick().Changed)
}

func TestChargeLifecycle(t *testing.T) {
	s := newSim(t)

	id, err := s.AddCharge(1, 1, 1e-6)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	_, err = s.AddCharge(math.NaN(), 0, 1)
	assert.ErrorIs(t, err, field.ErrInvalidCharge)

	got, ok := s.FindChargeAt(vmath.V2(1.2, 1.1))
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = s.FindChargeAt(vmath.V2(1.5, 1))
	assert.False(t, ok, "outside the pick radius")

	_, ok = s.FindChargeNear(vmath.V2(1.5, 1), 0.6)
	assert.True(t, ok)

	require.NoError(t, s.MoveCharge(id, vmath.V2(-2, 0.5)))
	c, ok := s.Charge(id)
	require.True(t, ok)
	assert.Equal(t, vmath.V2(-1, 1.5), c.Pos)

	require.NoError(t, s.RemoveCharge(id))
	assert.ErrorIs(t, s.RemoveCharge(id), field.ErrChargeNotFound)
	assert.ErrorIs(t, s.MoveCharge(id, vmath.V2(1, 0)), field.ErrChargeNotFound)
	assert.Empty(t, s.Charges())
}

func TestTickReportsCollision(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = logging.New(&buf, "debug")
	s, err := New(opts)
	require.NoError(t, err)

	// Dipole along the x axis: the line from the positive charge heads for the sink
	_, err = s.AddCharge(-1, 0, 1e-6)
	require.NoError(t, err)
	sink, err := s.AddCharge(1, 0, -1e-6)
	require.NoError(t, err)

	r := s.Tick()
	assert.True(t, r.Changed)
	assert.Contains(t, []field.StopReason{field.StoppedByCollision, field.StoppedByDivergence}, r.Reason)
	if r.Reason == field.StoppedByCollision {
		assert.Equal(t, sink, r.Hit)
	}

	// Same scene, same outcome
	assert.False(t, s.Tick().Changed)
	assert.Contains(t, buf.String(), "line stop changed")
	assert.Contains(t, buf.String(), "charge added")
}

func TestSettersValidate(t *testing.T) {
	s := newSim(t)

	assert.ErrorIs(t, s.SetPermittivity(0), field.ErrInvalidPermittivity)
	require.NoError(t, s.SetPermittivity(2))
	assert.Equal(t, 2.0, s.Frame().Permittivity)

	assert.ErrorIs(t, s.SetStartAngle(math.NaN()), ErrInvalidAngle)
	require.NoError(t, s.SetStartAngle(0.02*math.Pi))
	assert.Equal(t, 0.02*math.Pi, s.StartAngle())

	assert.ErrorIs(t, s.SetEvaluator("fmm", 0.5), ErrInvalidEvaluator)
	assert.ErrorIs(t, s.SetEvaluator(config.EvaluatorBarnesHut, -1), ErrInvalidEvaluator)
	require.NoError(t, s.SetEvaluator(config.EvaluatorBarnesHut, 0.3))
	assert.Equal(t, config.EvaluatorBarnesHut, s.Frame().Evaluator)

	s.SetFlags(Flags{ShowLine: true})
	assert.Equal(t, Flags{ShowLine: true}, s.Flags())
}

func TestPermittivityScalesSamples(t *testing.T) {
	s := newSim(t)
	_, err := s.AddCharge(0.1, 0.1, 1e-6)
	require.NoError(t, err)
	s.ResampleField()
	vac, err := s.FieldSample(3, 4)
	require.NoError(t, err)

	require.NoError(t, s.SetPermittivity(4))
	s.ResampleField()
	diel, err := s.FieldSample(3, 4)
	require.NoError(t, err)

	assert.InDelta(t, vac.X/4, diel.X, math.Abs(vac.X)*1e-12)
	assert.InDelta(t, vac.Y/4, diel.Y, math.Abs(vac.Y)*1e-12)
}

func TestBarnesHutSessionMatchesDirect(t *testing.T) {
	opts := DefaultOptions()
	opts.Charges = []config.ChargeSeed{{X: -2, Y: 1, Q: 1}, {X: 2, Y: -1, Q: -2}, {X: 0, Y: 3, Q: 0.5}}

	direct, err := New(opts)
	require.NoError(t, err)

	opts.Evaluator = config.EvaluatorBarnesHut
	opts.Theta = 0
	bh, err := New(opts)
	require.NoError(t, err)

	a, err := direct.FieldSample(7, 21)
	require.NoError(t, err)
	b, err := bh.FieldSample(7, 21)
	require.NoError(t, err)

	tol := a.Length() * 1e-9
	assert.InDelta(t, a.X, b.X, tol)
	assert.InDelta(t, a.Y, b.Y, tol)
}

func TestFrameIsIndependent(t *testing.T) {
	s := newSim(t)
	id, err := s.AddCharge(0, 0, 1e-6)
	require.NoError(t, err)
	s.Tick()

	f := s.Frame()
	require.NoError(t, s.MoveCharge(id, vmath.V2(1, 0)))
	s.Tick()

	assert.Equal(t, vmath.V2(0, 0), f.Charges[0].Pos)
	assert.Equal(t, uint64(2), f.Tick)

	var reuse Frame
	s.FrameInto(&reuse)
	assert.Equal(t, vmath.V2(1, 0), reuse.Charges[0].Pos)
	grid := reuse.Grid
	s.FrameInto(&reuse)
	assert.Same(t, grid, reuse.Grid, "grid buffer is reused")
	assert.Equal(t, s.Frame().Line.Points, reuse.Line.Points)
}

func TestClearCharges(t *testing.T) {
	s := newSim(t)
	assert.Equal(t, 0, s.ClearCharges())

	_, err := s.AddCharge(0, 0, 1e-6)
	require.NoError(t, err)
	_, err = s.AddCharge(1, 1, -1e-6)
	require.NoError(t, err)
	s.Tick()

	assert.Equal(t, 2, s.ClearCharges())
	assert.Empty(t, s.Charges())

	r := s.Tick()
	assert.Equal(t, field.NoStart, r.Reason)
	sample, err := s.FieldSample(0, 0)
	require.NoError(t, err)
	assert.Equal(t, vmath.Vec2{}, sample)
}

func TestConcurrentAccess(t *testing.T) {
	s := newSim(t)
	_, err := s.AddCharge(0, 0, 1e-6)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			s.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			id, err := s.AddCharge(float64(i)*0.1, 1, -1e-7)
			if assert.NoError(t, err) {
				assert.NoError(t, s.MoveCharge(id, vmath.V2(0, 0.5)))
			}
		}
	}()
	go func() {
		defer wg.Done()
		var f Frame
		for i := 0; i < 20; i++ {
			s.FrameInto(&f)
			assert.Equal(t, parameter.DefaultGridWidth*parameter.DefaultGridHeight, f.Grid.Len())
		}
	}()
	wg.Wait()

	assert.Len(t, s.Charges(), 21)
	frame := s.Frame()
	assert.LessOrEqual(t, frame.Line.Len(), parameter.MaxLinePoints)
}
