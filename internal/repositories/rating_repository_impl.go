package repositories

import (
	"fmt"

	"legalconnect/internal/models"

	"gorm.io/gorm"
)

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{
		db: db,
	}
}

func (r *ratingRepository) Create(rating *models.Rating) error {
	result := r.db.Create(rating)
	if result.Error != nil {
		return fmt.Errorf("failed to create rating: %w", result.Error)
	}
	return nil
}

func (r *ratingRepository) GetByCaseID(caseID uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.Where("case_id = ?", caseID).First(&rating).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

func (r *ratingRepository) ListByPractitioner(practitionerID uint, limit, offset int) ([]*models.Rating, int64, error) {
	query := r.db.Model(&models.Rating{}).Where("practitioner_id = ?", practitionerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	var ratings []*models.Rating
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, total, nil
}

func (r *ratingRepository) AggregateForPractitioner(practitionerID uint) (float64, int64, error) {
	var agg struct {
		Avg   float64
		Total int64
	}
	err := r.db.Model(&models.Rating{}).
		Where("practitioner_id = ?", practitionerID).
		Select("COALESCE(AVG(score), 0) as avg, COUNT(*) as total").
		Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return agg.Avg, agg.Total, nil
}

func (r *ratingRepository) UpdatePractitionerRating(practitionerID uint, avg float64, count int64) error {
	result := r.db.Model(&models.Practitioner{}).
		Where("id = ?", practitionerID).
		Updates(map[string]interface{}{
			"average_rating": avg,
			"rating_count":   count,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update practitioner rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPractitionerNotFound
	}
	return nil
}

func (r *ratingRepository) GetCaseByNumber(number string) (*models.LegalCase, error) {
	var c models.LegalCase
	if err := r.db.Where("case_number = ?", number).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &c, nil
}

func (r *ratingRepository) GetPractitioner(id uint) (*models.Practitioner, error) {
	var p models.Practitioner
	if err := r.db.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &p, nil
}

func (r *ratingRepository) ExecuteInTransaction(fn func(RatingRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &ratingRepository{db: tx}
		return fn(txRepo)
	})
}
