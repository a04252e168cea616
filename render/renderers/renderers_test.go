package renderers

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/efield/field"
	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/sim"
	"github.com/lixenwraith/efield/vmath"
)

const (
	screenW = 100
	screenH = 24
)

type harness struct {
	screen tcell.SimulationScreen
	orch   *render.RenderOrchestrator
	view   *render.View
	sim    *sim.Simulation
}

func newHarness(t *testing.T, flags sim.Flags) *harness {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(screenW, screenH)

	opts := sim.DefaultOptions()
	opts.GridWidth, opts.GridHeight, opts.GridSpacing = 9, 9, 1
	opts.Flags = flags
	s, err := sim.New(opts)
	require.NoError(t, err)

	orch := render.NewRenderOrchestrator(screen, screenW, screenH)
	orch.Register(NewGridRenderer(), render.PriorityGrid)
	orch.Register(NewVectorsRenderer(), render.PriorityVectors)
	orch.Register(NewLineRenderer(), render.PriorityFieldLine)
	orch.Register(NewChargesRenderer(), render.PriorityCharges)
	orch.Register(NewStatusBarRenderer(), render.PriorityUI)

	return &harness{
		screen: screen,
		orch:   orch,
		view:   render.NewView(4, screenW, screenH-1),
		sim:    s,
	}
}

func (h *harness) render(status render.StatusInfo, selected uuid.UUID) *sim.Frame {
	h.sim.Tick()
	f := h.sim.Frame()
	h.orch.RenderFrame(render.RenderContext{
		Frame:        &f,
		View:         h.view,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
		Selected:     selected,
		Status:       status,
	})
	return &f
}

func (h *harness) runeAt(x, y int) rune {
	r, _, _, _ := h.screen.GetContent(x, y)
	return r
}

func (h *harness) row(y int) string {
	var sb strings.Builder
	for x := 0; x < screenW; x++ {
		sb.WriteRune(h.runeAt(x, y))
	}
	return sb.String()
}

func TestChargesDrawnWithSign(t *testing.T) {
	h := newHarness(t, sim.Flags{})
	pos, err := h.sim.AddCharge(0, 0, 1e-6)
	require.NoError(t, err)
	_, err = h.sim.AddCharge(2, 1, -1e-6)
	require.NoError(t, err)

	h.render(render.StatusInfo{}, uuid.Nil)

	x, y := h.view.ToCell(vmath.V2(0, 0))
	assert.Equal(t, '+', h.runeAt(x, y))
	_, style, _ := styleAt(h, x, y)
	fg, _, attrs := style.Decompose()
	assert.Equal(t, render.RgbPositive.Tcell(), fg)
	assert.NotZero(t, attrs&tcell.AttrBold)

	x, y = h.view.ToCell(vmath.V2(2, 1))
	assert.Equal(t, '-', h.runeAt(x, y))

	// Dragged charge is highlighted
	h.render(render.StatusInfo{}, pos)
	x, y = h.view.ToCell(vmath.V2(0, 0))
	_, style, _ = styleAt(h, x, y)
	_, bg, _ := style.Decompose()
	assert.Equal(t, render.RgbSelected.Tcell(), bg)
}

func TestHoveredChargeTinted(t *testing.T) {
	h := newHarness(t, sim.Flags{})
	_, err := h.sim.AddCharge(0, 0, 1e-6)
	require.NoError(t, err)
	_, err = h.sim.AddCharge(3, 0, -1e-6)
	require.NoError(t, err)

	h.sim.Tick()
	f := h.sim.Frame()
	h.orch.RenderFrame(render.RenderContext{
		Frame:        &f,
		View:         h.view,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
		Pointer:      vmath.V2(0.1, 0.1),
		PointerValid: true,
	})

	x, y := h.view.ToCell(vmath.V2(0, 0))
	_, style, _ := styleAt(h, x, y)
	_, bg, _ := style.Decompose()
	assert.Equal(t, render.Blend(render.RgbBackground, render.RgbSelected, parameter.HoverAlpha).Tcell(), bg)

	x, y = h.view.ToCell(vmath.V2(3, 0))
	assert.Equal(t, '-', h.runeAt(x, y))
	_, style, _ = styleAt(h, x, y)
	_, bg, _ = style.Decompose()
	assert.Equal(t, render.RgbBackground.Tcell(), bg)
}

func styleAt(h *harness, x, y int) (rune, tcell.Style, int) {
	r, _, style, w := h.screen.GetContent(x, y)
	return r, style, w
}

func TestGridAndVectorsToggle(t *testing.T) {
	h := newHarness(t, sim.Flags{ShowGrid: true})
	_, err := h.sim.AddCharge(0.3, 0.3, 1e-6)
	require.NoError(t, err)

	f := h.render(render.StatusInfo{}, uuid.Nil)
	corner, err := f.Grid.Position(0, 0)
	require.NoError(t, err)
	x, y := h.view.ToCell(corner)
	assert.Equal(t, '·', h.runeAt(x, y))

	h.sim.SetFlags(sim.Flags{ShowGrid: true, ShowVectors: true})
	h.render(render.StatusInfo{}, uuid.Nil)

	// Lattice point (-4, 0) lies on the axis to the left of a positive charge: field points left
	left, err := f.Grid.Position(0, 4)
	require.NoError(t, err)
	x, y = h.view.ToCell(left)
	assert.Equal(t, '←', h.runeAt(x, y))

	// Lattice point (4, 4) is up and to the right
	upRight, err := f.Grid.Position(8, 8)
	require.NoError(t, err)
	x, y = h.view.ToCell(upRight)
	assert.Equal(t, '↗', h.runeAt(x, y))

	h.sim.SetFlags(sim.Flags{})
	h.render(render.StatusInfo{}, uuid.Nil)
	assert.Equal(t, ' ', h.runeAt(x, y))
}

func TestLineDrawnWhenEnabled(t *testing.T) {
	h := newHarness(t, sim.Flags{})
	_, err := h.sim.AddCharge(-2, 0, 1e-6)
	require.NoError(t, err)
	_, err = h.sim.AddCharge(2, 0, -1e-6)
	require.NoError(t, err)

	h.render(render.StatusInfo{}, uuid.Nil)
	midX, midY := h.view.ToCell(vmath.V2(0, 0))
	assert.Equal(t, ' ', h.runeAt(midX, midY))

	h.sim.SetFlags(sim.Flags{ShowLine: true})
	f := h.render(render.StatusInfo{}, uuid.Nil)
	require.Greater(t, f.Line.Len(), 2)

	// The dipole axis line passes through the origin cell
	assert.Equal(t, '•', h.runeAt(midX, midY))

	if f.Line.Reason == field.StoppedByCollision {
		last, _ := f.Line.Last()
		x, y := h.view.ToCell(last)
		assert.Equal(t, '-', h.runeAt(x, y), "charges draw over the hit marker")
	}
}

func TestStatusBar(t *testing.T) {
	h := newHarness(t, sim.Flags{ShowGrid: true})
	_, err := h.sim.AddCharge(0, 0, 1e-6)
	require.NoError(t, err)

	h.render(render.StatusInfo{Audio: true, Message: "saved"}, uuid.Nil)
	bar := h.row(screenH - 1)
	assert.Contains(t, bar, "♪")
	assert.Contains(t, bar, "VIEW")
	assert.Contains(t, bar, "q:1")
	assert.Contains(t, bar, "g:on v:off l:off")
	assert.True(t, strings.HasSuffix(strings.TrimRight(bar, " "), "saved"))

	// An expiring message fades toward the bar background
	h.render(render.StatusInfo{Message: "saved", Fade: 0.5}, uuid.Nil)
	_, style, _ := styleAt(h, screenW-1, screenH-1)
	fg, _, _ := style.Decompose()
	assert.Equal(t, render.Lerp(render.RgbLineHit, render.RgbStatusBg, 0.5).Tcell(), fg)

	h.render(render.StatusInfo{Mode: render.ModePrompt, Input: "-2.5"}, uuid.Nil)
	bar = h.row(screenH - 1)
	assert.Contains(t, bar, "µC:")
	assert.Contains(t, bar, "-2.5_")
	assert.NotContains(t, bar, "VIEW")
}

func TestSummary(t *testing.T) {
	f := &sim.Frame{
		Charges:      make([]field.Charge, 3),
		StartAngle:   0.5 * math.Pi,
		Permittivity: 2,
		Evaluator:    "direct",
		Line:         field.Line{Points: make([]vmath.Vec2, 7), Reason: field.StoppedByBudget},
		Flags:        sim.Flags{ShowLine: true},
	}
	got := Summary(render.RenderContext{Frame: f, View: render.NewView(4, 10, 10)})
	assert.Equal(t, "q:3 │ θ:0.50π │ line:budget/7 │ εr:2 direct │ g:off v:off l:on │ ×4.00", got)

	grid, err := field.NewGrid(2, 1, 1)
	require.NoError(t, err)
	grid.Resample(field.EvaluatorFunc(func(p vmath.Vec2) vmath.Vec2 { return vmath.V2(3, 4).Scale(p.X + 1.5) }))
	f.Grid = grid
	assert.Contains(t, Summary(render.RenderContext{Frame: f}), "|E|max:10")

	f.Line = field.Line{}
	assert.Contains(t, Summary(render.RenderContext{Frame: f}), "line:no-start")
	assert.Empty(t, Summary(render.RenderContext{}))
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name string
		a, b vmath.Vec2
		ok   bool
	}{
		{"inside", vmath.V2(1, 1), vmath.V2(5, 3), true},
		{"crossing", vmath.V2(-5, 2), vmath.V2(15, 2), true},
		{"outside left", vmath.V2(-5, 1), vmath.V2(-1, 8), false},
		{"outside below", vmath.V2(1, 20), vmath.V2(8, 12), false},
		{"nan", vmath.V2(1, 1), vmath.V2(math.NaN(), 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := clipSegment(tt.a, tt.b, 10, 10)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			for _, p := range []vmath.Vec2{a, b} {
				assert.GreaterOrEqual(t, p.X, 0.0)
				assert.Less(t, p.X, 10.0)
				assert.GreaterOrEqual(t, p.Y, 0.0)
				assert.Less(t, p.Y, 10.0)
			}
		})
	}
}
