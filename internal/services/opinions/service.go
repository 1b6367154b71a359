// Package opinions runs the review workflow for submitted work product. An
// opinion is one-to-one with its case; rejection deletes the record outright
// and sends the case back to in progress, so resubmission is just a fresh
// submit. Review decisions and the matching case transition commit together.
package opinions

import (
	"context"
	"errors"
	"strings"
	"time"

	"legalconnect/internal/models"
	"legalconnect/internal/notifier"
	"legalconnect/internal/repositories"
)

// Service drives an opinion from submission through review to delivery.
type Service interface {
	// Submit files the practitioner's opinion and moves the case to
	// opinion submitted. One opinion per case.
	Submit(ctx context.Context, caseNumber string, practitionerID uint, summary, documentRef string) (*models.Opinion, error)

	// Review finalizes a pending opinion. Approval locks the opinion and
	// advances the case; rejection deletes it and returns the case to in
	// progress. Operator action.
	Review(ctx context.Context, caseNumber string, reviewerID uint, approve bool) (*models.LegalCase, error)

	// Deliver marks an approved opinion as handed to the client.
	Deliver(ctx context.Context, caseNumber string) (*models.LegalCase, error)

	GetByCase(ctx context.Context, caseNumber string) (*models.Opinion, error)
}

type service struct {
	repo    repositories.CaseRepository
	notify  notifier.Notifier
	metrics MetricsCollector
}

// NewService creates a new opinion review service. Notifier and metrics are
// optional.
func NewService(repo repositories.CaseRepository, notify notifier.Notifier, metrics MetricsCollector) Service {
	if repo == nil {
		panic("case repository is required")
	}
	if notify == nil {
		notify = notifier.NoopNotifier{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{repo: repo, notify: notify, metrics: metrics}
}

func (s *service) GetByCase(ctx context.Context, caseNumber string) (*models.Opinion, error) {
	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOpinionByCaseID(c.ID)
}

func (s *service) Submit(ctx context.Context, caseNumber string, practitionerID uint, summary, documentRef string) (*models.Opinion, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, ErrSummaryRequired
	}

	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	if !c.AssignedTo(practitionerID) {
		return nil, ErrNotAssigned
	}
	if c.Status != models.CaseInProgress {
		return nil, ErrInvalidStatus
	}
	if _, err := s.repo.GetOpinionByCaseID(c.ID); err == nil {
		return nil, ErrOpinionExists
	} else if !errors.Is(err, repositories.ErrOpinionNotFound) {
		return nil, err
	}

	opinion := &models.Opinion{
		CaseID:         c.ID,
		PractitionerID: practitionerID,
		Summary:        summary,
		DocumentRef:    documentRef,
		ReviewStatus:   models.OpinionPendingReview,
	}
	err = s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
		// The unique index on case_id backs the exists check under races.
		if err := tx.CreateOpinion(opinion); err != nil {
			return err
		}
		ok, err := tx.UpdateStatusIf(c.ID, models.CaseInProgress, models.CaseOpinionSubmitted, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleState
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(models.CaseInProgress), string(models.CaseOpinionSubmitted))
	return opinion, nil
}

func (s *service) Review(ctx context.Context, caseNumber string, reviewerID uint, approve bool) (*models.LegalCase, error) {
	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	opinion, err := s.repo.GetOpinionByCaseID(c.ID)
	if err != nil {
		return nil, err
	}
	if opinion.ReviewStatus != models.OpinionPendingReview {
		return nil, ErrAlreadyReviewed
	}
	if c.Status != models.CaseOpinionSubmitted {
		return nil, ErrInvalidStatus
	}

	if approve {
		err = s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
			ok, err := tx.UpdateOpinionReviewIf(opinion.ID, models.OpinionPendingReview, models.OpinionApproved, reviewerID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrAlreadyReviewed
			}
			ok, err = tx.UpdateStatusIf(c.ID, models.CaseOpinionSubmitted, models.CaseOpinionApproved, nil)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStaleState
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		c.Status = models.CaseOpinionApproved
		s.metrics.RecordTransition(string(models.CaseOpinionSubmitted), string(models.CaseOpinionApproved))
		s.notify.OpinionReviewed(opinion.PractitionerID, c.CaseNumber, true)
		return c, nil
	}

	err = s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
		// Deleting zero rows means a concurrent review got there first.
		if err := tx.DeleteOpinion(opinion.ID); err != nil {
			if errors.Is(err, repositories.ErrOpinionNotFound) {
				return ErrAlreadyReviewed
			}
			return err
		}
		ok, err := tx.UpdateStatusIf(c.ID, models.CaseOpinionSubmitted, models.CaseInProgress, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleState
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.Status = models.CaseInProgress
	s.metrics.RecordTransition(string(models.CaseOpinionSubmitted), string(models.CaseInProgress))
	s.notify.OpinionReviewed(opinion.PractitionerID, c.CaseNumber, false)
	return c, nil
}

func (s *service) Deliver(ctx context.Context, caseNumber string) (*models.LegalCase, error) {
	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case models.CaseOpinionApproved:
	case models.CaseOpinionDelivered, models.CaseCompleted:
		return nil, ErrInvalidStatus
	default:
		return nil, ErrNotApproved
	}

	opinion, err := s.repo.GetOpinionByCaseID(c.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
		ok, err := tx.UpdateStatusIf(c.ID, models.CaseOpinionApproved, models.CaseOpinionDelivered, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleState
		}
		return tx.SetOpinionDelivered(opinion.ID, now)
	})
	if err != nil {
		return nil, err
	}

	c.Status = models.CaseOpinionDelivered
	s.metrics.RecordTransition(string(models.CaseOpinionApproved), string(models.CaseOpinionDelivered))
	return c, nil
}
