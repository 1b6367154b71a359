package repositories

import (
	"fmt"
	"time"

	"legalconnect/internal/models"

	"gorm.io/gorm"
)

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{
		db: db,
	}
}

func (r *payoutRepository) Create(p *models.Payout) error {
	result := r.db.Create(p)
	if result.Error != nil {
		return fmt.Errorf("failed to create payout: %w", result.Error)
	}
	return nil
}

func (r *payoutRepository) GetByID(id uint) (*models.Payout, error) {
	var p models.Payout
	if err := r.db.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return &p, nil
}

func (r *payoutRepository) GetByCaseID(caseID uint) (*models.Payout, error) {
	var p models.Payout
	if err := r.db.Where("case_id = ?", caseID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return &p, nil
}

func (r *payoutRepository) GetByGatewayID(gatewayPayoutID string) (*models.Payout, error) {
	var p models.Payout
	err := r.db.Where("gateway_payout_id = ?", gatewayPayoutID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return &p, nil
}

func (r *payoutRepository) ListByPractitioner(practitionerID uint, limit, offset int) ([]*models.Payout, int64, error) {
	query := r.db.Model(&models.Payout{}).Where("practitioner_id = ?", practitionerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	var payouts []*models.Payout
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payouts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payouts: %w", err)
	}
	return payouts, total, nil
}

func (r *payoutRepository) UpdateStatusIf(payoutID uint, from, to models.PayoutStatus, updates map[string]interface{}) (bool, error) {
	merged := map[string]interface{}{"status": to}
	for k, v := range updates {
		merged[k] = v
	}

	result := r.db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", payoutID, from).
		Updates(merged)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update payout status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *payoutRepository) ConfirmStalePending(before time.Time) (int64, error) {
	result := r.db.Model(&models.Payout{}).
		Where("status = ? AND created_at <= ?", models.PayoutPending, before).
		Update("status", models.PayoutConfirmed)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to confirm stale payouts: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *payoutRepository) RequeueFailed(before time.Time) (int64, error) {
	result := r.db.Model(&models.Payout{}).
		Where("status = ? AND updated_at <= ?", models.PayoutFailed, before).
		Updates(map[string]interface{}{
			"status":   models.PayoutConfirmed,
			"batch_id": nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue failed payouts: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *payoutRepository) CreateBatch(b *models.SettlementBatch) error {
	result := r.db.Create(b)
	if result.Error != nil {
		return fmt.Errorf("failed to create settlement batch: %w", result.Error)
	}
	return nil
}

func (r *payoutRepository) GetBatch(id string) (*models.SettlementBatch, error) {
	var b models.SettlementBatch
	if err := r.db.Where("id = ?", id).First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get settlement batch: %w", err)
	}
	return &b, nil
}

// ClaimForBatch stamps up to limit confirmed, unbatched payouts with the
// batch id. The guarded second write keeps a payout from landing in two
// batches when claims race.
func (r *payoutRepository) ClaimForBatch(batchID string, limit int) ([]*models.Payout, error) {
	var ids []uint
	err := r.db.Model(&models.Payout{}).
		Where("status = ? AND batch_id IS NULL", models.PayoutConfirmed).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find claimable payouts: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	err = r.db.Model(&models.Payout{}).
		Where("id IN ? AND status = ? AND batch_id IS NULL", ids, models.PayoutConfirmed).
		Update("batch_id", batchID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to claim payouts for batch: %w", err)
	}

	return r.ListByBatch(batchID)
}

func (r *payoutRepository) ListByBatch(batchID string) ([]*models.Payout, error) {
	var payouts []*models.Payout
	err := r.db.Where("batch_id = ?", batchID).Order("id ASC").Find(&payouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list batch payouts: %w", err)
	}
	return payouts, nil
}

func (r *payoutRepository) UpdateBatchTotals(batchID string, count int, totalNetPaise int64) error {
	result := r.db.Model(&models.SettlementBatch{}).
		Where("id = ?", batchID).
		Updates(map[string]interface{}{
			"payout_count":    count,
			"total_net_paise": totalNetPaise,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update batch totals: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (r *payoutRepository) ExecuteInTransaction(fn func(PayoutRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &payoutRepository{db: tx}
		return fn(txRepo)
	})
}
