package repositories

import (
	"fmt"
	"time"

	"legalconnect/internal/models"

	"gorm.io/gorm"
)

type caseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{
		db: db,
	}
}

func (r *caseRepository) Create(c *models.LegalCase) error {
	result := r.db.Create(c)
	if result.Error != nil {
		return fmt.Errorf("failed to create case: %w", result.Error)
	}
	return nil
}

func (r *caseRepository) GetByID(id uint) (*models.LegalCase, error) {
	var c models.LegalCase
	if err := r.db.First(&c, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &c, nil
}

func (r *caseRepository) GetByCaseNumber(number string) (*models.LegalCase, error) {
	var c models.LegalCase
	if err := r.db.Where("case_number = ?", number).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &c, nil
}

func (r *caseRepository) List(filter CaseFilter, limit, offset int) ([]*models.LegalCase, int64, error) {
	query := r.db.Model(&models.LegalCase{})
	if filter.PractitionerID != nil {
		query = query.Where("practitioner_id = ?", *filter.PractitionerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cases: %w", err)
	}

	var cases []*models.LegalCase
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, total, nil
}

func (r *caseRepository) UpdateStatusIf(caseID uint, from, to models.CaseStatus, updates map[string]interface{}) (bool, error) {
	merged := map[string]interface{}{"status": to}
	for k, v := range updates {
		merged[k] = v
	}

	result := r.db.Model(&models.LegalCase{}).
		Where("id = ? AND status = ?", caseID, from).
		Updates(merged)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update case status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *caseRepository) CountActiveByPractitioner(practitionerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.LegalCase{}).
		Where("practitioner_id = ? AND status IN ?", practitionerID, models.ActiveCaseStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active cases: %w", err)
	}
	return count, nil
}

func (r *caseRepository) ActiveCaseCounts(practitionerIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(practitionerIDs))
	if len(practitionerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PractitionerID uint
		Total          int64
	}
	err := r.db.Model(&models.LegalCase{}).
		Select("practitioner_id, COUNT(*) as total").
		Where("practitioner_id IN ? AND status IN ?", practitionerIDs, models.ActiveCaseStatuses).
		Group("practitioner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active cases: %w", err)
	}

	for _, row := range rows {
		counts[row.PractitionerID] = row.Total
	}
	return counts, nil
}

func (r *caseRepository) CreateOpinion(o *models.Opinion) error {
	result := r.db.Create(o)
	if result.Error != nil {
		return fmt.Errorf("failed to create opinion: %w", result.Error)
	}
	return nil
}

func (r *caseRepository) GetOpinionByCaseID(caseID uint) (*models.Opinion, error) {
	var o models.Opinion
	if err := r.db.Where("case_id = ?", caseID).First(&o).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOpinionNotFound
		}
		return nil, fmt.Errorf("failed to get opinion: %w", err)
	}
	return &o, nil
}

func (r *caseRepository) DeleteOpinion(id uint) error {
	result := r.db.Delete(&models.Opinion{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete opinion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOpinionNotFound
	}
	return nil
}

func (r *caseRepository) UpdateOpinionReviewIf(opinionID uint, from, to string, reviewedBy uint) (bool, error) {
	result := r.db.Model(&models.Opinion{}).
		Where("id = ? AND review_status = ?", opinionID, from).
		Updates(map[string]interface{}{
			"review_status": to,
			"reviewed_by":   reviewedBy,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update opinion review: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *caseRepository) SetOpinionDelivered(opinionID uint, at time.Time) error {
	result := r.db.Model(&models.Opinion{}).
		Where("id = ?", opinionID).
		Update("delivered_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to set opinion delivery time: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOpinionNotFound
	}
	return nil
}

func (r *caseRepository) GetPractitioner(id uint) (*models.Practitioner, error) {
	var p models.Practitioner
	if err := r.db.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &p, nil
}

func (r *caseRepository) BumpPractitionerAssigned(practitionerID uint) error {
	return r.bumpCounter(practitionerID, "assigned_cases")
}

func (r *caseRepository) BumpPractitionerDeclined(practitionerID uint) error {
	return r.bumpCounter(practitionerID, "declined_cases")
}

func (r *caseRepository) BumpPractitionerCompleted(practitionerID uint) error {
	return r.bumpCounter(practitionerID, "completed_cases")
}

func (r *caseRepository) bumpCounter(practitionerID uint, column string) error {
	result := r.db.Model(&models.Practitioner{}).
		Where("id = ?", practitionerID).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPractitionerNotFound
	}
	return nil
}

func (r *caseRepository) CreatePayout(p *models.Payout) error {
	result := r.db.Create(p)
	if result.Error != nil {
		return fmt.Errorf("failed to create payout: %w", result.Error)
	}
	return nil
}

func (r *caseRepository) ExecuteInTransaction(fn func(CaseRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &caseRepository{db: tx}
		return fn(txRepo)
	})
}
