package cases

import "errors"

var (
	ErrInvalidStatus             = errors.New("case status does not allow this action")
	ErrStaleState                = errors.New("case changed under a concurrent writer")
	ErrNotAssigned               = errors.New("case is not assigned to this practitioner")
	ErrReasonRequired            = errors.New("decline reason is required")
	ErrFeeOutOfBounds            = errors.New("case fee is out of bounds")
	ErrInvalidPriority           = errors.New("unknown case priority")
	ErrPractitionerNotAssignable = errors.New("practitioner is not verified for new cases")
)
