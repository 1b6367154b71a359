package handlers

import (
	"strings"

	"legalconnect/internal/models"
	"legalconnect/internal/repositories"
	"legalconnect/internal/services/cases"
	"legalconnect/internal/utils"
	"legalconnect/internal/utils/pagination"
	"legalconnect/internal/utils/response"
	"legalconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CaseHandler struct {
	caseService cases.Service
}

func NewCaseHandler(caseService cases.Service) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

func (h *CaseHandler) CreateCase(c *fiber.Ctx) error {
	var input struct {
		ExpertiseTag   string `json:"expertise_tag" validate:"required,expertise_tag"`
		PractitionerID uint   `json:"practitioner_id" validate:"required"`
		FeePaise       int64  `json:"fee_paise" validate:"required,gt=0"`
		Priority       string `json:"priority" validate:"required,oneof=normal urgent"`
	}

	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	created, err := h.caseService.Create(c.Context(), cases.CreateRequest{
		ExpertiseTag:   input.ExpertiseTag,
		PractitionerID: input.PractitionerID,
		FeePaise:       input.FeePaise,
		Priority:       models.CasePriority(input.Priority),
	})
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Case created successfully", created)
}

func (h *CaseHandler) GetCase(c *fiber.Ctx) error {
	found, err := h.caseService.Get(c.Context(), c.Params("number"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Case retrieved successfully", found)
}

func (h *CaseHandler) ListCases(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	var filter repositories.CaseFilter
	if v := c.QueryInt("practitioner_id"); v > 0 {
		id := uint(v)
		filter.PractitionerID = &id
	}
	if v := c.Query("status"); v != "" {
		status := models.CaseStatus(v)
		filter.Status = &status
	}

	list, total, err := h.caseService.List(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return serviceError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

func (h *CaseHandler) AcceptCase(c *fiber.Ctx) error {
	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	accepted, err := h.caseService.Accept(c.Context(), c.Params("number"), claims.ActorID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Case accepted successfully", accepted)
}

func (h *CaseHandler) DeclineCase(c *fiber.Ctx) error {
	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	result, err := h.caseService.Decline(c.Context(), c.Params("number"), claims.ActorID, input.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Case declined", fiber.Map{
		"case":         result.Case,
		"decline_rate": result.DeclineRate,
		"flagged":      result.Flagged,
	})
}

func (h *CaseHandler) ReassignCase(c *fiber.Ctx) error {
	var input struct {
		PractitionerID uint `json:"practitioner_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	reassigned, err := h.caseService.Reassign(c.Context(), c.Params("number"), input.PractitionerID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Case reassigned successfully", reassigned)
}

func (h *CaseHandler) CompleteCase(c *fiber.Ctx) error {
	result, err := h.caseService.Complete(c.Context(), c.Params("number"))
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Case completed", fiber.Map{
		"case":   result.Case,
		"payout": result.Payout,
	})
}
