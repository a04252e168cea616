package parameter

// Physical constants
const (
	// CoulombConstant is k = 1/(4πε0) in N·m²/C²
	CoulombConstant = 8.987e9

	// DefaultPermittivity is the relative permittivity of vacuum
	DefaultPermittivity = 1.0
)

// Field-line tracer geometry, in simulation units
// These values fix how the traced line looks and must not be tuned per scene
const (
	// MaxLinePoints caps the traced polyline, seed point included
	MaxLinePoints = 200

	// LineSeedOffset is the distance from the source charge to the first point
	LineSeedOffset = 0.1

	// LineBaseStep is the geometric step length before field-strength scaling
	LineBaseStep = 0.2

	// LineDivergenceSq is the squared step length above which tracing stops
	LineDivergenceSq = 4.0

	// LineCollisionRadius is the disk radius each charge presents to the tracer
	LineCollisionRadius = 0.09
)

// Charge picking
const (
	// PickRadius is the pointer selection radius around a charge
	PickRadius = 0.3

	// MicroCoulomb converts prompt input (µC) to coulombs
	MicroCoulomb = 1e-6
)

// Grid defaults
const (
	DefaultGridWidth   = 50
	DefaultGridHeight  = 50
	DefaultGridSpacing = 0.5
)

// Barnes-Hut opening angle; 0 degenerates to the exact sum
const DefaultBarnesHutTheta = 0.5
