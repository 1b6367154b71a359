package repositories

import (
	"errors"
	"time"

	"legalconnect/internal/models"
)

var (
	ErrPayoutNotFound = errors.New("payout not found")
	ErrBatchNotFound  = errors.New("settlement batch not found")
)

// PayoutRepository defines the interface for settlement database operations
type PayoutRepository interface {
	// Core payout operations
	Create(p *models.Payout) error
	GetByID(id uint) (*models.Payout, error)
	GetByCaseID(caseID uint) (*models.Payout, error)
	GetByGatewayID(gatewayPayoutID string) (*models.Payout, error)
	ListByPractitioner(practitionerID uint, limit, offset int) ([]*models.Payout, int64, error)

	// UpdateStatusIf writes the transition only while the row still holds
	// from. Zero rows affected means another writer applied it already.
	UpdateStatusIf(payoutID uint, from, to models.PayoutStatus, updates map[string]interface{}) (bool, error)

	// Background sweeps. Both are set-based single statements, safe to run
	// repeatedly or concurrently with the request path.
	ConfirmStalePending(before time.Time) (int64, error)
	RequeueFailed(before time.Time) (int64, error)

	// Batch settlement
	CreateBatch(b *models.SettlementBatch) error
	GetBatch(id string) (*models.SettlementBatch, error)
	ClaimForBatch(batchID string, limit int) ([]*models.Payout, error)
	ListByBatch(batchID string) ([]*models.Payout, error)
	UpdateBatchTotals(batchID string, count int, totalNetPaise int64) error

	ExecuteInTransaction(fn func(PayoutRepository) error) error
}
