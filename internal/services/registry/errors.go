package registry

import "errors"

var (
	ErrRateOutOfBounds = errors.New("commission rate must be between 10 and 30")
	ErrHasActiveCases  = errors.New("practitioner has active cases")
	ErrInvalidStatus   = errors.New("verification status does not allow this action")
	ErrStaleState      = errors.New("practitioner changed under a concurrent writer")
)
