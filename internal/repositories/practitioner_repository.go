package repositories

import (
	"errors"

	"legalconnect/internal/models"
)

var (
	ErrPractitionerNotFound  = errors.New("practitioner not found")
	ErrDuplicatePractitioner = errors.New("practitioner already exists")
	ErrBankAccountNotFound   = errors.New("bank account not found")
)

// PractitionerRepository defines the interface for registry database operations
type PractitionerRepository interface {
	// Core practitioner operations
	Create(p *models.Practitioner) error
	GetByID(id uint) (*models.Practitioner, error)
	GetByEmail(email string) (*models.Practitioner, error)
	Update(p *models.Practitioner) error

	// List pages the roster, newest first. Empty status matches everything.
	List(status string, limit, offset int) ([]*models.Practitioner, int64, error)

	// Routing query. Returns verified, reachable practitioners carrying the
	// expertise tag in the given city, ordered by rating then completions.
	FindEligible(tag, city string) ([]*models.Practitioner, error)

	// Registry mutations
	UpdateVerification(id uint, status string) error
	UpdateCommissionRate(id uint, rate int, tier string) error
	SetDoNotDisturb(id uint, enabled bool) error
	UpdateStatusIf(id uint, from, to string) (bool, error)

	// Bank accounts
	CreateBankAccount(acct *models.BankAccount) error
	GetBankAccountByID(id uint) (*models.BankAccount, error)
	GetDefaultBankAccount(practitionerID uint) (*models.BankAccount, error)
	ListBankAccounts(practitionerID uint) ([]*models.BankAccount, error)
	SetDefaultBankAccount(practitionerID, accountID uint) error

	// Gateway id persistence. Guarded writes: the id is stored only when the
	// column is still empty, so concurrent first payouts converge on one id.
	SetGatewayContactIf(accountID uint, contactID string) (bool, error)
	SetGatewayFundAccountIf(accountID uint, fundAccountID string) (bool, error)

	ExecuteInTransaction(fn func(PractitionerRepository) error) error
}
