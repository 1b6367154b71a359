package utils

import (
	"errors"

	"legalconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetActorClaims extracts the authenticated actor's claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetActorClaims(c *fiber.Ctx) (*models.ActorClaims, error) {
	v := c.Locals("claims")
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.ActorClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
