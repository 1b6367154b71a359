package opinions

import "errors"

var (
	ErrOpinionExists   = errors.New("an opinion already exists for this case")
	ErrAlreadyReviewed = errors.New("opinion has already been reviewed")
	ErrNotApproved     = errors.New("opinion has not been approved")
	ErrInvalidStatus   = errors.New("case status does not allow this action")
	ErrStaleState      = errors.New("case changed under a concurrent writer")
	ErrNotAssigned     = errors.New("case is not assigned to this practitioner")
	ErrSummaryRequired = errors.New("opinion summary is required")
)
