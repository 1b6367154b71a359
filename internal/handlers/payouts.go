package handlers

import (
	"errors"

	"legalconnect/internal/services/payouts"
	"legalconnect/internal/utils"
	"legalconnect/internal/utils/pagination"
	"legalconnect/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PayoutHandler struct {
	payoutService payouts.Service
}

func NewPayoutHandler(payoutService payouts.Service) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

func (h *PayoutHandler) GetPayout(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payout ID")
	}

	p, err := h.payoutService.Get(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payout retrieved successfully", p)
}

func (h *PayoutHandler) GetCasePayout(c *fiber.Ctx) error {
	p, err := h.payoutService.GetByCaseNumber(c.Context(), c.Params("number"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payout retrieved successfully", p)
}

// CreateCasePayout backfills the settlement record for a completed case that
// is missing one, normally only needed after manual intervention.
func (h *PayoutHandler) CreateCasePayout(c *fiber.Ctx) error {
	p, err := h.payoutService.CreateForCase(c.Context(), c.Params("number"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payout created", p)
}

func (h *PayoutHandler) ExecutePayout(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payout ID")
	}

	p, err := h.payoutService.Execute(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payout dispatched", p)
}

// RunSettlementBatch claims a batch of confirmed payouts and pushes it
// through the gateway in one operator action.
func (h *PayoutHandler) RunSettlementBatch(c *fiber.Ctx) error {
	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	batch, err := h.payoutService.CreateSettlementBatch(c.Context(), claims.ActorID)
	if err != nil {
		if errors.Is(err, payouts.ErrNothingToSettle) {
			return response.Success(c, "No payouts awaiting settlement", payouts.BatchResult{})
		}
		return serviceError(c, err)
	}

	result, err := h.payoutService.ProcessBatch(c.Context(), batch.BatchID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Settlement batch processed", result)
}

func (h *PayoutHandler) ListPractitionerPayouts(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if claims.Role == "practitioner" && claims.ActorID != uint(id) {
		return response.Forbidden(c, "cannot view another practitioner's payouts")
	}

	p := pagination.ParseFromRequest(c)
	list, total, err := h.payoutService.ListByPractitioner(c.Context(), uint(id), p.Limit, p.Offset)
	if err != nil {
		return serviceError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, list))
}
