package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// WebhookEvent is the inbound status notification. The provider delivers the
// payout id it issued and its native status string.
type WebhookEvent struct {
	PayoutID string `json:"payout_id"`
	Status   string `json:"status"`
	UTR      string `json:"utr,omitempty"`
	Reason   string `json:"failure_reason,omitempty"`
}

// VerifyWebhookSignature checks the provider's HMAC-SHA256 signature over the
// raw body. Comparison is constant time.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
