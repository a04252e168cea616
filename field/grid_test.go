package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/efield/vmath"
)

func TestGridPositions(t *testing.T) {
	g, err := NewGrid(50, 50, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2500, g.Len())

	p, err := g.Position(0, 0)
	require.NoError(t, err)
	assert.Equal(t, vmath.V2(-12.25, -12.25), p)

	p, err = g.Position(49, 49)
	require.NoError(t, err)
	assert.Equal(t, vmath.V2(12.25, 12.25), p)

	w, h := g.Extent()
	assert.Equal(t, 24.5, w)
	assert.Equal(t, 24.5, h)
}

func TestGridNonSquare(t *testing.T) {
	g, err := NewGrid(3, 2, 1)
	require.NoError(t, err)

	p, err := g.Position(0, 0)
	require.NoError(t, err)
	assert.Equal(t, vmath.V2(-1, -0.5), p)

	p, err = g.Position(2, 1)
	require.NoError(t, err)
	assert.Equal(t, vmath.V2(1, 0.5), p)
}

func TestGridValidation(t *testing.T) {
	for _, sp := range []float64{0, -0.5, math.NaN(), math.Inf(1)} {
		_, err := NewGrid(10, 10, sp)
		assert.ErrorIs(t, err, ErrInvalidGrid, "spacing=%g", sp)
	}
	_, err := NewGrid(-1, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	g, err := NewGrid(0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	g.Resample(EvaluatorFunc(func(vmath.Vec2) vmath.Vec2 { panic("no samples") }))
}

func TestGridOutOfRange(t *testing.T) {
	g, err := NewGrid(4, 4, 1)
	require.NoError(t, err)

	for _, ij := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		_, err := g.Position(ij[0], ij[1])
		assert.ErrorIs(t, err, ErrOutOfRange)
		_, err = g.Sample(ij[0], ij[1])
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestGridResample(t *testing.T) {
	g, err := NewGrid(5, 4, 0.5)
	require.NoError(t, err)

	// Identity evaluator stores each sample's own position
	g.Resample(EvaluatorFunc(func(p vmath.Vec2) vmath.Vec2 { return p }))

	var visited int
	g.Each(func(i, j int, pos, sample vmath.Vec2) {
		assert.Equal(t, visited, j*g.Width()+i, "storage order")
		assert.Equal(t, pos, sample)
		s, err := g.Sample(i, j)
		require.NoError(t, err)
		assert.Equal(t, pos, s)
		visited++
	})
	assert.Equal(t, 20, visited)

	wantMax := vmath.V2(1, 0.75).Length()
	assert.InDelta(t, wantMax, g.MaxMagnitude(), 1e-12)
}

func TestGridClone(t *testing.T) {
	g, err := NewGrid(2, 2, 1)
	require.NoError(t, err)
	g.Resample(EvaluatorFunc(func(vmath.Vec2) vmath.Vec2 { return vmath.V2(1, 1) }))

	c := g.Clone()
	g.Resample(EvaluatorFunc(func(vmath.Vec2) vmath.Vec2 { return vmath.V2(2, 2) }))

	s, err := c.Sample(1, 1)
	require.NoError(t, err)
	assert.Equal(t, vmath.V2(1, 1), s)
}

func TestGridMaxMagnitudeSkipsNonFinite(t *testing.T) {
	g, err := NewGrid(2, 1, 1)
	require.NoError(t, err)
	g.Resample(EvaluatorFunc(func(p vmath.Vec2) vmath.Vec2 {
		if p.X < 0 {
			return vmath.V2(math.Inf(1), 0)
		}
		return vmath.V2(3, 4)
	}))
	assert.Equal(t, 5.0, g.MaxMagnitude())
}

func BenchmarkGridResample(b *testing.B) {
	s := NewChargeSet()
	_, _ = s.Add(vmath.V2(-2, 0), 1e-6)
	_, _ = s.Add(vmath.V2(2, 0), -1e-6)
	_, _ = s.Add(vmath.V2(0, 3), 2e-6)

	ev, _ := NewCoulomb(s.Snapshot(), 1)
	g, _ := NewGrid(50, 50, 0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Resample(ev)
	}
}
