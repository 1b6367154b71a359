package repositories

import (
	"errors"
	"time"

	"legalconnect/internal/models"
)

var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrOpinionNotFound = errors.New("opinion not found")
)

// CaseFilter narrows List queries. Nil fields match everything.
type CaseFilter struct {
	PractitionerID *uint
	Status         *models.CaseStatus
}

// CaseRepository defines the interface for case lifecycle database operations.
// It also carries the opinion rows, the practitioner reliability counters and
// the payout insert, because those mutations must share a transaction with
// case status changes.
type CaseRepository interface {
	// Core case operations
	Create(c *models.LegalCase) error
	GetByID(id uint) (*models.LegalCase, error)
	GetByCaseNumber(number string) (*models.LegalCase, error)
	List(filter CaseFilter, limit, offset int) ([]*models.LegalCase, int64, error)

	// UpdateStatusIf performs the guarded transition write. It touches the row
	// only while the status still equals from; zero rows affected reports that
	// another writer got there first.
	UpdateStatusIf(caseID uint, from, to models.CaseStatus, updates map[string]interface{}) (bool, error)

	// Active-load queries
	CountActiveByPractitioner(practitionerID uint) (int64, error)
	ActiveCaseCounts(practitionerIDs []uint) (map[uint]int64, error)

	// Opinion operations (one opinion per case)
	CreateOpinion(o *models.Opinion) error
	GetOpinionByCaseID(caseID uint) (*models.Opinion, error)
	DeleteOpinion(id uint) error
	UpdateOpinionReviewIf(opinionID uint, from, to string, reviewedBy uint) (bool, error)
	SetOpinionDelivered(opinionID uint, at time.Time) error

	// Practitioner reliability counters
	GetPractitioner(id uint) (*models.Practitioner, error)
	BumpPractitionerAssigned(practitionerID uint) error
	BumpPractitionerDeclined(practitionerID uint) error
	BumpPractitionerCompleted(practitionerID uint) error

	// Settlement record created when a case completes
	CreatePayout(p *models.Payout) error

	ExecuteInTransaction(fn func(CaseRepository) error) error
}
