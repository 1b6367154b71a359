package handlers

import (
	"errors"

	"legalconnect/internal/repositories"
	"legalconnect/internal/services/cases"
	"legalconnect/internal/services/opinions"
	"legalconnect/internal/services/payouts"
	"legalconnect/internal/services/registry"
	"legalconnect/internal/services/reputation"
	"legalconnect/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// serviceError translates the sentinel errors the services surface into HTTP
// responses. Lost races and guard refusals are conflicts, not server faults;
// anything unrecognized stays a 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrCaseNotFound),
		errors.Is(err, repositories.ErrPractitionerNotFound),
		errors.Is(err, repositories.ErrOpinionNotFound),
		errors.Is(err, repositories.ErrPayoutNotFound),
		errors.Is(err, repositories.ErrRatingNotFound),
		errors.Is(err, repositories.ErrBatchNotFound),
		errors.Is(err, repositories.ErrBankAccountNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, cases.ErrNotAssigned),
		errors.Is(err, opinions.ErrNotAssigned):
		return response.Forbidden(c, err.Error())

	case errors.Is(err, cases.ErrInvalidStatus),
		errors.Is(err, cases.ErrStaleState),
		errors.Is(err, cases.ErrPractitionerNotAssignable),
		errors.Is(err, opinions.ErrInvalidStatus),
		errors.Is(err, opinions.ErrStaleState),
		errors.Is(err, opinions.ErrOpinionExists),
		errors.Is(err, opinions.ErrAlreadyReviewed),
		errors.Is(err, opinions.ErrNotApproved),
		errors.Is(err, reputation.ErrAlreadyRated),
		errors.Is(err, reputation.ErrCaseNotRatable),
		errors.Is(err, registry.ErrInvalidStatus),
		errors.Is(err, registry.ErrStaleState),
		errors.Is(err, registry.ErrHasActiveCases),
		errors.Is(err, payouts.ErrPayoutExists),
		errors.Is(err, payouts.ErrCaseNotCompleted),
		errors.Is(err, payouts.ErrNotExecutable),
		errors.Is(err, payouts.ErrStaleState),
		errors.Is(err, repositories.ErrDuplicatePractitioner):
		return response.Conflict(c, err.Error())

	case errors.Is(err, cases.ErrFeeOutOfBounds),
		errors.Is(err, cases.ErrInvalidPriority),
		errors.Is(err, cases.ErrReasonRequired),
		errors.Is(err, opinions.ErrSummaryRequired),
		errors.Is(err, registry.ErrRateOutOfBounds),
		errors.Is(err, reputation.ErrInvalidScore):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, payouts.ErrNotVerified),
		errors.Is(err, payouts.ErrNoBankAccount):
		return response.UnprocessableEntity(c, err.Error())
	}

	return response.ServerError(c, err.Error())
}
