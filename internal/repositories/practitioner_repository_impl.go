package repositories

import (
	"fmt"

	"legalconnect/internal/models"

	"gorm.io/gorm"
)

type practitionerRepository struct {
	db *gorm.DB
}

func NewPractitionerRepository(db *gorm.DB) PractitionerRepository {
	return &practitionerRepository{
		db: db,
	}
}

func (r *practitionerRepository) Create(p *models.Practitioner) error {
	result := r.db.Create(p)
	if result.Error != nil {
		return fmt.Errorf("failed to create practitioner: %w", result.Error)
	}
	return nil
}

func (r *practitionerRepository) GetByID(id uint) (*models.Practitioner, error) {
	var p models.Practitioner
	if err := r.db.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &p, nil
}

func (r *practitionerRepository) GetByEmail(email string) (*models.Practitioner, error) {
	var p models.Practitioner
	if err := r.db.Where("email = ?", email).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &p, nil
}

func (r *practitionerRepository) Update(p *models.Practitioner) error {
	result := r.db.Save(p)
	if result.Error != nil {
		return fmt.Errorf("failed to update practitioner: %w", result.Error)
	}
	return nil
}

func (r *practitionerRepository) List(status string, limit, offset int) ([]*models.Practitioner, int64, error) {
	query := r.db.Model(&models.Practitioner{})
	if status != "" {
		query = query.Where("verification_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count practitioners: %w", err)
	}

	var out []*models.Practitioner
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list practitioners: %w", err)
	}
	return out, total, nil
}

func (r *practitionerRepository) FindEligible(tag, city string) ([]*models.Practitioner, error) {
	var out []*models.Practitioner
	err := r.db.
		Where("verification_status = ?", models.VerificationVerified).
		Where("do_not_disturb = ?", false).
		Where("city = ?", city).
		Where("? = ANY(expertise_tags)", tag).
		Order("average_rating DESC, completed_cases DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find eligible practitioners: %w", err)
	}
	return out, nil
}

func (r *practitionerRepository) UpdateVerification(id uint, status string) error {
	result := r.db.Model(&models.Practitioner{}).Where("id = ?", id).
		Update("verification_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update verification status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPractitionerNotFound
	}
	return nil
}

func (r *practitionerRepository) UpdateCommissionRate(id uint, rate int, tier string) error {
	result := r.db.Model(&models.Practitioner{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"commission_rate": rate,
			"tier":            tier,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update commission rate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPractitionerNotFound
	}
	return nil
}

func (r *practitionerRepository) SetDoNotDisturb(id uint, enabled bool) error {
	result := r.db.Model(&models.Practitioner{}).Where("id = ?", id).
		Update("do_not_disturb", enabled)
	if result.Error != nil {
		return fmt.Errorf("failed to update do-not-disturb: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPractitionerNotFound
	}
	return nil
}

func (r *practitionerRepository) UpdateStatusIf(id uint, from, to string) (bool, error) {
	result := r.db.Model(&models.Practitioner{}).
		Where("id = ? AND verification_status = ?", id, from).
		Update("verification_status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update practitioner status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *practitionerRepository) CreateBankAccount(acct *models.BankAccount) error {
	result := r.db.Create(acct)
	if result.Error != nil {
		return fmt.Errorf("failed to create bank account: %w", result.Error)
	}
	return nil
}

func (r *practitionerRepository) GetBankAccountByID(id uint) (*models.BankAccount, error) {
	var acct models.BankAccount
	if err := r.db.First(&acct, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBankAccountNotFound
		}
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return &acct, nil
}

func (r *practitionerRepository) GetDefaultBankAccount(practitionerID uint) (*models.BankAccount, error) {
	var acct models.BankAccount
	err := r.db.Where("practitioner_id = ? AND is_default = ?", practitionerID, true).
		First(&acct).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBankAccountNotFound
		}
		return nil, fmt.Errorf("failed to get default bank account: %w", err)
	}
	return &acct, nil
}

func (r *practitionerRepository) ListBankAccounts(practitionerID uint) ([]*models.BankAccount, error) {
	var accts []*models.BankAccount
	err := r.db.Where("practitioner_id = ?", practitionerID).
		Order("is_default DESC, id ASC").
		Find(&accts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	return accts, nil
}

func (r *practitionerRepository) SetDefaultBankAccount(practitionerID, accountID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.BankAccount{}).
			Where("practitioner_id = ?", practitionerID).
			Update("is_default", false).Error
		if err != nil {
			return fmt.Errorf("failed to clear default bank account: %w", err)
		}

		result := tx.Model(&models.BankAccount{}).
			Where("id = ? AND practitioner_id = ?", accountID, practitionerID).
			Update("is_default", true)
		if result.Error != nil {
			return fmt.Errorf("failed to set default bank account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBankAccountNotFound
		}
		return nil
	})
}

func (r *practitionerRepository) SetGatewayContactIf(accountID uint, contactID string) (bool, error) {
	result := r.db.Model(&models.BankAccount{}).
		Where("id = ? AND gateway_contact_id = ''", accountID).
		Update("gateway_contact_id", contactID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to store gateway contact id: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *practitionerRepository) SetGatewayFundAccountIf(accountID uint, fundAccountID string) (bool, error) {
	result := r.db.Model(&models.BankAccount{}).
		Where("id = ? AND gateway_fund_account_id = ''", accountID).
		Update("gateway_fund_account_id", fundAccountID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to store gateway fund account id: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *practitionerRepository) ExecuteInTransaction(fn func(PractitionerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &practitionerRepository{db: tx}
		return fn(txRepo)
	})
}
