// Package gateway defines the narrow contract with the external payout
// provider. The engine only ever creates contacts, fund accounts and payouts,
// and consumes status webhooks; everything else is the provider's business.
package gateway

import (
	"context"
	"fmt"
)

// Contact identifies a payee on the provider side.
type Contact struct {
	Name        string
	Email       string
	ReferenceID string
}

// FundAccountDetails describes the bank destination attached to a contact.
type FundAccountDetails struct {
	ContactID     string
	AccountHolder string
	IFSC          string
	AccountNumber string
}

// PayoutRequest carries one transfer. ReferenceID doubles as the idempotency
// key, so replaying the same request cannot move money twice.
type PayoutRequest struct {
	FundAccountID string
	AmountPaise   int64
	Mode          string
	ReferenceID   string
	Narration     string
}

// PayoutResult is the provider's synchronous answer. Status is the
// provider-native string, mapped to the local enum by the caller.
type PayoutResult struct {
	PayoutID string
	Status   string
}

// PayoutGateway is the provider contract consumed by the payout engine.
type PayoutGateway interface {
	CreateContact(ctx context.Context, contact Contact) (string, error)
	CreateFundAccount(ctx context.Context, details FundAccountDetails) (string, error)
	CreatePayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
}

// Error is a failure reported by the provider's API.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}
