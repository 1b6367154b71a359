package payouts

import "errors"

// Service errors
var (
	ErrPayoutExists     = errors.New("payout already exists for case")
	ErrCaseNotCompleted = errors.New("case is not completed")
	ErrNoBankAccount    = errors.New("practitioner has no default bank account")
	ErrNotVerified      = errors.New("practitioner is not verified")
	ErrNotExecutable    = errors.New("payout is not in an executable status")
	ErrStaleState       = errors.New("payout changed under a concurrent writer")
	ErrNothingToSettle  = errors.New("no confirmed payouts awaiting settlement")
)
