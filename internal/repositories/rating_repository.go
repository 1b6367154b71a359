package repositories

import (
	"errors"

	"legalconnect/internal/models"
)

var ErrRatingNotFound = errors.New("rating not found")

// RatingRepository defines the interface for rating database operations.
// The practitioner aggregate update is carried here so insertion and
// recomputation share one transaction.
type RatingRepository interface {
	Create(rating *models.Rating) error
	GetByCaseID(caseID uint) (*models.Rating, error)
	ListByPractitioner(practitionerID uint, limit, offset int) ([]*models.Rating, int64, error)

	// Aggregation over the full rating history, never a window
	AggregateForPractitioner(practitionerID uint) (avg float64, count int64, err error)
	UpdatePractitionerRating(practitionerID uint, avg float64, count int64) error

	// Reads for precondition checks and cache invalidation
	GetCaseByNumber(number string) (*models.LegalCase, error)
	GetPractitioner(id uint) (*models.Practitioner, error)

	ExecuteInTransaction(fn func(RatingRepository) error) error
}
