package handlers

import (
	"strings"

	"legalconnect/internal/services/reputation"
	"legalconnect/internal/utils"
	"legalconnect/internal/utils/pagination"
	"legalconnect/internal/utils/response"
	"legalconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type RatingHandler struct {
	reputationService reputation.Service
}

func NewRatingHandler(reputationService reputation.Service) *RatingHandler {
	return &RatingHandler{reputationService: reputationService}
}

func (h *RatingHandler) SubmitRating(c *fiber.Ctx) error {
	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Score    int    `json:"score" validate:"required,min=1,max=5"`
		Feedback string `json:"feedback" validate:"max=2000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	result, err := h.reputationService.SubmitRating(c.Context(), c.Params("number"), claims.ActorID, input.Score, input.Feedback)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Rating submitted", fiber.Map{
		"rating":         result.Rating,
		"average_rating": result.AverageRating,
		"rating_count":   result.RatingCount,
		"flagged":        result.Flagged,
	})
}

func (h *RatingHandler) ListPractitionerRatings(c *fiber.Ctx) error {
	practitionerID, err := c.ParamsInt("id")
	if err != nil || practitionerID < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	p := pagination.ParseFromRequest(c)
	ratings, total, err := h.reputationService.ListByPractitioner(c.Context(), uint(practitionerID), p.Limit, p.Offset)
	if err != nil {
		return serviceError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, ratings))
}
