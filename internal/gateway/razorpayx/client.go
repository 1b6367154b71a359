// Package razorpayx implements the payout gateway contract against the
// RazorpayX payouts API.
package razorpayx

import (
	"context"
	"fmt"
	"time"

	"legalconnect/internal/gateway"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	// AccountNumber is the business ledger account payouts are debited from.
	AccountNumber string
	Timeout       time.Duration
}

type Client struct {
	http          *resty.Client
	accountNumber string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:          http,
		accountNumber: cfg.AccountNumber,
	}
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type contactResponse struct {
	ID string `json:"id"`
}

type fundAccountResponse struct {
	ID string `json:"id"`
}

type payoutResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) CreateContact(ctx context.Context, contact gateway.Contact) (string, error) {
	body := map[string]interface{}{
		"name":         contact.Name,
		"email":        contact.Email,
		"type":         "vendor",
		"reference_id": contact.ReferenceID,
	}

	var out contactResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/contacts")
	if err != nil {
		return "", fmt.Errorf("create contact: %w", err)
	}
	if resp.IsError() {
		return "", toGatewayError(resp, apiErr)
	}
	return out.ID, nil
}

func (c *Client) CreateFundAccount(ctx context.Context, details gateway.FundAccountDetails) (string, error) {
	body := map[string]interface{}{
		"contact_id":   details.ContactID,
		"account_type": "bank_account",
		"bank_account": map[string]string{
			"name":           details.AccountHolder,
			"ifsc":           details.IFSC,
			"account_number": details.AccountNumber,
		},
	}

	var out fundAccountResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/fund_accounts")
	if err != nil {
		return "", fmt.Errorf("create fund account: %w", err)
	}
	if resp.IsError() {
		return "", toGatewayError(resp, apiErr)
	}
	return out.ID, nil
}

func (c *Client) CreatePayout(ctx context.Context, req gateway.PayoutRequest) (*gateway.PayoutResult, error) {
	body := map[string]interface{}{
		"account_number":  c.accountNumber,
		"fund_account_id": req.FundAccountID,
		"amount":          req.AmountPaise,
		"currency":        "INR",
		"mode":            req.Mode,
		"purpose":         "payout",
		"reference_id":    req.ReferenceID,
		"narration":       req.Narration,
	}

	var out payoutResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Payout-Idempotency", req.ReferenceID).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/payouts")
	if err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}
	if resp.IsError() {
		return nil, toGatewayError(resp, apiErr)
	}
	return &gateway.PayoutResult{PayoutID: out.ID, Status: out.Status}, nil
}

func toGatewayError(resp *resty.Response, apiErr apiError) error {
	code := apiErr.Error.Code
	if code == "" {
		code = "UNKNOWN"
	}
	msg := apiErr.Error.Description
	if msg == "" {
		msg = resp.Status()
	}
	return &gateway.Error{
		StatusCode: resp.StatusCode(),
		Code:       code,
		Message:    msg,
	}
}
