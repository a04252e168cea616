package field

import "github.com/pkg/errors"

var (
	// ErrInvalidCharge rejects non-finite positions or magnitudes
	ErrInvalidCharge = errors.New("field: invalid charge")

	// ErrChargeNotFound is returned when a charge ID is not in the set
	ErrChargeNotFound = errors.New("field: charge not found")

	// ErrInvalidGrid rejects negative sizes or non-positive spacing
	ErrInvalidGrid = errors.New("field: invalid grid")

	// ErrOutOfRange is returned for lattice indices outside the grid
	ErrOutOfRange = errors.New("field: index out of range")

	// ErrInvalidPermittivity rejects non-positive or non-finite εr
	ErrInvalidPermittivity = errors.New("field: invalid permittivity")
)
