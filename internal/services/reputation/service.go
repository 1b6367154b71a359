// Package reputation folds customer ratings into the practitioner's lifetime
// reputation. Ratings are immutable and one per case; every accepted rating
// recomputes the average over the full history inside the insert transaction,
// so concurrent submissions cannot leave a stale aggregate behind.
package reputation

import (
	"context"
	"errors"
	"log"

	"legalconnect/internal/models"
	"legalconnect/internal/repositories"
)

// Flag thresholds. A practitioner with a meaningful sample and a low average
// is surfaced for operator review; nothing is blocked automatically.
const (
	LowRatingMinCount = 10
	LowRatingAverage  = 3.5
)

var (
	ErrInvalidScore   = errors.New("score must be between 1 and 5")
	ErrAlreadyRated   = errors.New("a rating already exists for this case")
	ErrCaseNotRatable = errors.New("case has not reached delivery")
)

// RatingResult carries the stored rating and the recomputed aggregate.
type RatingResult struct {
	Rating        *models.Rating
	AverageRating float64
	RatingCount   int64
	Flagged       bool
}

// CacheOperator is the slice of the cache service the reputation engine
// needs: aggregates ride on cached practitioner and roster entries, which go
// stale the moment a rating lands.
type CacheOperator interface {
	InvalidatePractitioner(ctx context.Context, p *models.Practitioner) error
	InvalidateRosters(ctx context.Context) error
}

// Service accepts ratings for delivered cases.
type Service interface {
	SubmitRating(ctx context.Context, caseNumber string, ratedBy uint, score int, feedback string) (*RatingResult, error)
	ListByPractitioner(ctx context.Context, practitionerID uint, limit, offset int) ([]*models.Rating, int64, error)
}

type service struct {
	repo  repositories.RatingRepository
	cache CacheOperator
}

// NewService creates a new reputation service. Cache is optional.
func NewService(repo repositories.RatingRepository, cache CacheOperator) Service {
	if repo == nil {
		panic("rating repository is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) ListByPractitioner(ctx context.Context, practitionerID uint, limit, offset int) ([]*models.Rating, int64, error) {
	return s.repo.ListByPractitioner(practitionerID, limit, offset)
}

func (s *service) SubmitRating(ctx context.Context, caseNumber string, ratedBy uint, score int, feedback string) (*RatingResult, error) {
	if score < models.MinRatingScore || score > models.MaxRatingScore {
		return nil, ErrInvalidScore
	}

	c, err := s.repo.GetCaseByNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	if c.PractitionerID == nil {
		return nil, ErrCaseNotRatable
	}
	switch c.Status {
	case models.CaseOpinionDelivered, models.CaseCompleted:
	default:
		return nil, ErrCaseNotRatable
	}

	if _, err := s.repo.GetByCaseID(c.ID); err == nil {
		return nil, ErrAlreadyRated
	} else if !errors.Is(err, repositories.ErrRatingNotFound) {
		return nil, err
	}

	pr, err := s.repo.GetPractitioner(*c.PractitionerID)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		CaseID:         c.ID,
		PractitionerID: pr.ID,
		RatedBy:        ratedBy,
		Score:          score,
		Feedback:       feedback,
	}

	result := &RatingResult{Rating: rating}
	err = s.repo.ExecuteInTransaction(func(tx repositories.RatingRepository) error {
		// The unique index on case_id backs the exists check under races.
		if err := tx.Create(rating); err != nil {
			return err
		}
		avg, count, err := tx.AggregateForPractitioner(rating.PractitionerID)
		if err != nil {
			return err
		}
		if err := tx.UpdatePractitionerRating(rating.PractitionerID, avg, count); err != nil {
			return err
		}
		result.AverageRating = avg
		result.RatingCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Flagged = result.RatingCount >= LowRatingMinCount && result.AverageRating < LowRatingAverage

	if s.cache != nil {
		// Cached entries still carry the old aggregate; so do any rosters
		// ranked on it.
		if err := s.cache.InvalidatePractitioner(ctx, pr); err != nil {
			log.Printf("failed to invalidate practitioner cache: %v", err)
		}
		if err := s.cache.InvalidateRosters(ctx); err != nil {
			log.Printf("failed to invalidate roster cache: %v", err)
		}
	}

	return result, nil
}
