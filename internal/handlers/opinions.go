package handlers

import (
	"strings"

	"legalconnect/internal/services/opinions"
	"legalconnect/internal/utils"
	"legalconnect/internal/utils/response"
	"legalconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type OpinionHandler struct {
	opinionService opinions.Service
}

func NewOpinionHandler(opinionService opinions.Service) *OpinionHandler {
	return &OpinionHandler{opinionService: opinionService}
}

func (h *OpinionHandler) SubmitOpinion(c *fiber.Ctx) error {
	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Summary     string `json:"summary" validate:"required,max=20000"`
		DocumentRef string `json:"document_ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	opinion, err := h.opinionService.Submit(c.Context(), c.Params("number"), claims.ActorID, input.Summary, input.DocumentRef)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Opinion submitted for review", opinion)
}

func (h *OpinionHandler) ReviewOpinion(c *fiber.Ctx) error {
	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Decision string `json:"decision" validate:"required,oneof=approve reject"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	reviewed, err := h.opinionService.Review(c.Context(), c.Params("number"), claims.ActorID, input.Decision == "approve")
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Opinion reviewed", reviewed)
}

func (h *OpinionHandler) DeliverOpinion(c *fiber.Ctx) error {
	delivered, err := h.opinionService.Deliver(c.Context(), c.Params("number"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Opinion delivered", delivered)
}

func (h *OpinionHandler) GetOpinion(c *fiber.Ctx) error {
	opinion, err := h.opinionService.GetByCase(c.Context(), c.Params("number"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Opinion retrieved successfully", opinion)
}
