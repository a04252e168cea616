package field

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

func randomCharges(rng *rand.Rand, n int, signed bool) []Charge {
	out := make([]Charge, n)
	for i := range out {
		q := (0.5 + rng.Float64()) * 1e-6
		if signed && rng.Intn(2) == 0 {
			q = -q
		}
		out[i] = Charge{
			Pos:       vmath.V2(rng.Float64()*4-2, rng.Float64()*4-2),
			Magnitude: q,
		}
	}
	return out
}

func assertVecRel(t *testing.T, want, got vmath.Vec2, rel float64) {
	t.Helper()
	tol := rel * math.Max(want.Length(), 1e-30)
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
}

func TestCoulombSingleCharge(t *testing.T) {
	charges := []Charge{{Pos: vmath.V2(0, 0), Magnitude: 1e-6}}

	ev, err := NewCoulomb(charges, 1)
	require.NoError(t, err)

	e := ev.FieldAt(vmath.V2(1, 0))
	assert.InDelta(t, parameter.CoulombConstant*1e-6, e.X, 1e-9)
	assert.InDelta(t, 0, e.Y, 1e-12)

	// Inverse square along the diagonal, pointing away
	e = ev.FieldAt(vmath.V2(0, -2))
	assert.InDelta(t, 0, e.X, 1e-12)
	assert.InDelta(t, -parameter.CoulombConstant*1e-6/4, e.Y, 1e-9)
}

func TestCoulombNegativeChargeAttracts(t *testing.T) {
	ev, err := NewCoulomb([]Charge{{Pos: vmath.V2(1, 1), Magnitude: -2e-6}}, 1)
	require.NoError(t, err)

	e := ev.FieldAt(vmath.V2(3, 1))
	assert.Less(t, e.X, 0.0)
	assert.InDelta(t, 0, e.Y, 1e-12)
}

func TestCoulombPermittivityScales(t *testing.T) {
	charges := []Charge{{Pos: vmath.V2(0, 0), Magnitude: 1e-6}}
	vac, err := NewCoulomb(charges, 1)
	require.NoError(t, err)
	water, err := NewCoulomb(charges, 80)
	require.NoError(t, err)

	p := vmath.V2(0.3, -0.7)
	assertVecRel(t, vac.FieldAt(p).Scale(1.0/80), water.FieldAt(p), 1e-12)
}

func TestCoulombRejectsPermittivity(t *testing.T) {
	for _, er := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewCoulomb(nil, er)
		assert.ErrorIs(t, err, ErrInvalidPermittivity, "εr=%g", er)
	}
}

func TestCoulombOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	charges := randomCharges(rng, 12, true)

	base, err := NewCoulomb(charges, 1)
	require.NoError(t, err)

	points := []vmath.Vec2{vmath.V2(0.05, 0.1), vmath.V2(3, -3), vmath.V2(-7.5, 2)}
	for trial := 0; trial < 20; trial++ {
		perm := make([]Charge, len(charges))
		for i, j := range rng.Perm(len(charges)) {
			perm[i] = charges[j]
		}
		shuffled, err := NewCoulomb(perm, 1)
		require.NoError(t, err)

		for _, p := range points {
			assertVecRel(t, base.FieldAt(p), shuffled.FieldAt(p), 1e-9)
		}
	}
}

func TestCoulombQueryOnCharge(t *testing.T) {
	charges := []Charge{
		{Pos: vmath.V2(0, 0), Magnitude: 1e-6},
		{Pos: vmath.V2(2, 0), Magnitude: 1e-6},
	}
	ev, err := NewCoulomb(charges, 1)
	require.NoError(t, err)

	// The coincident charge contributes nothing, the other one still does
	e := ev.FieldAt(vmath.V2(0, 0))
	require.True(t, e.IsFinite())
	assert.InDelta(t, -parameter.CoulombConstant*1e-6/4, e.X, 1e-9)
	assert.InDelta(t, 0, e.Y, 1e-12)

	lone, err := NewCoulomb(charges[:1], 1)
	require.NoError(t, err)
	assert.Equal(t, vmath.Vec2{}, lone.FieldAt(vmath.V2(0, 0)))
}

func TestCoulombEmpty(t *testing.T) {
	ev, err := NewCoulomb(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, vmath.Vec2{}, ev.FieldAt(vmath.V2(1, 1)))
}

func TestEvaluatorFunc(t *testing.T) {
	var ev Evaluator = EvaluatorFunc(func(p vmath.Vec2) vmath.Vec2 { return p.Scale(2) })
	assert.Equal(t, vmath.V2(2, -4), ev.FieldAt(vmath.V2(1, -2)))
}
