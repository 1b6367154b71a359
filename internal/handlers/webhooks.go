package handlers

import (
	"log"

	"legalconnect/internal/gateway"
	"legalconnect/internal/services/payouts"
	"legalconnect/internal/utils/response"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives payout status notifications from the gateway. The
// endpoint is unauthenticated; trust comes from the HMAC signature over the
// raw body.
type WebhookHandler struct {
	payoutService payouts.Service
	secret        string
}

func NewWebhookHandler(payoutService payouts.Service, secret string) *WebhookHandler {
	if secret == "" {
		log.Println("warning: payout webhook secret is empty, webhook signatures cannot verify")
	}
	return &WebhookHandler{
		payoutService: payoutService,
		secret:        secret,
	}
}

// HandlePayoutEvent verifies and applies one gateway notification. Events for
// unknown payouts and replays are acknowledged with 200 so the provider stops
// redelivering them; only signature failures and local faults are errors.
func (h *WebhookHandler) HandlePayoutEvent(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Payout-Signature")
	if !gateway.VerifyWebhookSignature(body, signature, h.secret) {
		return response.Error(c, fiber.StatusUnauthorized, "invalid webhook signature")
	}

	var event gateway.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return response.BadRequest(c, "Invalid webhook payload")
	}
	if event.PayoutID == "" || event.Status == "" {
		return response.BadRequest(c, "Invalid webhook payload")
	}

	applied, err := h.payoutService.HandleWebhook(c.Context(), event)
	if err != nil {
		return response.ServerError(c, "failed to apply webhook")
	}

	return response.Success(c, "Webhook processed", fiber.Map{
		"applied": applied,
	})
}
