// Package cases owns the case lifecycle state machine. Every mutation checks
// the transition table and writes through a guarded update, so the only
// outcomes of two writers racing on one case are "first write wins" and a
// stale-state error for the loser. Counter bumps and the completion payout
// share the transaction with the status change that causes them.
package cases

import (
	"context"
	"strings"
	"time"

	"legalconnect/internal/models"
	"legalconnect/internal/notifier"
	"legalconnect/internal/repositories"
	"legalconnect/internal/services"
	"legalconnect/internal/services/payouts"
	"legalconnect/internal/validation"
)

// Service drives a case from intake to completion.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.LegalCase, error)
	Get(ctx context.Context, caseNumber string) (*models.LegalCase, error)
	List(ctx context.Context, filter repositories.CaseFilter, limit, offset int) ([]*models.LegalCase, int64, error)

	// Accept moves an assigned case to in progress. Practitioner action.
	Accept(ctx context.Context, caseNumber string, practitionerID uint) (*models.LegalCase, error)

	// Decline hands an assigned case back with a reason and updates the
	// practitioner's reliability counters in the same transaction.
	Decline(ctx context.Context, caseNumber string, practitionerID uint, reason string) (*DeclineResult, error)

	// Reassign hands the case to a new practitioner and clears the previous
	// assignment's markers. Operator action.
	Reassign(ctx context.Context, caseNumber string, practitionerID uint) (*models.LegalCase, error)

	// Complete closes a delivered case and creates its settlement record.
	Complete(ctx context.Context, caseNumber string) (*CompleteResult, error)
}

type service struct {
	repo    repositories.CaseRepository
	notify  notifier.Notifier
	metrics MetricsCollector
	config  Config
}

// NewService creates a new case lifecycle service. Notifier and metrics are
// optional.
func NewService(repo repositories.CaseRepository, notify notifier.Notifier, metrics MetricsCollector, config Config) Service {
	if repo == nil {
		panic("case repository is required")
	}
	if notify == nil {
		notify = notifier.NoopNotifier{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if config.UrgentDeadline == 0 {
		config.UrgentDeadline = DefaultUrgentDeadline
	}
	if config.NormalDeadline == 0 {
		config.NormalDeadline = DefaultNormalDeadline
	}
	if config.DeclineRateFlag == 0 {
		config.DeclineRateFlag = DefaultDeclineRateFlag
	}

	return &service{
		repo:    repo,
		notify:  notify,
		metrics: metrics,
		config:  config,
	}
}

func (s *service) Get(ctx context.Context, caseNumber string) (*models.LegalCase, error) {
	return s.repo.GetByCaseNumber(caseNumber)
}

func (s *service) List(ctx context.Context, filter repositories.CaseFilter, limit, offset int) ([]*models.LegalCase, int64, error) {
	return s.repo.List(filter, limit, offset)
}

// Create opens a case against a chosen practitioner. The commission rate is
// copied from the practitioner at this moment and never re-read; rate changes
// after this point do not touch cases already in flight.
func (s *service) Create(ctx context.Context, req CreateRequest) (*models.LegalCase, error) {
	if req.FeePaise < validation.MinCaseFeePaise || req.FeePaise > validation.MaxCaseFeePaise {
		return nil, ErrFeeOutOfBounds
	}
	if !req.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	var created *models.LegalCase
	err := s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
		pr, err := tx.GetPractitioner(req.PractitionerID)
		if err != nil {
			return err
		}
		if pr.VerificationStatus != models.VerificationVerified {
			return ErrPractitionerNotAssignable
		}

		pid := req.PractitionerID
		c := &models.LegalCase{
			CaseNumber:     services.NewCaseNumber(),
			ExpertiseTag:   req.ExpertiseTag,
			PractitionerID: &pid,
			Priority:       req.Priority,
			Status:         models.CaseAssigned,
			FeePaise:       req.FeePaise,
			CommissionPct:  pr.CommissionRate,
			Deadline:       time.Now().Add(s.deadlineFor(req.Priority)),
		}
		if err := tx.Create(c); err != nil {
			return err
		}
		if err := tx.BumpPractitionerAssigned(req.PractitionerID); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("", string(models.CaseAssigned))
	s.notify.CaseAssigned(req.PractitionerID, created.CaseNumber)
	return created, nil
}

func (s *service) Accept(ctx context.Context, caseNumber string, practitionerID uint) (*models.LegalCase, error) {
	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	if !c.AssignedTo(practitionerID) {
		return nil, ErrNotAssigned
	}
	if c.Status != models.CaseAssigned {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	ok, err := s.repo.UpdateStatusIf(c.ID, models.CaseAssigned, models.CaseInProgress, map[string]interface{}{
		"accepted_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}

	c.Status = models.CaseInProgress
	c.AcceptedAt = &now
	s.metrics.RecordTransition(string(models.CaseAssigned), string(models.CaseInProgress))
	return c, nil
}

// Decline hands the case back and charges the practitioner's decline counter
// in the same transaction, so a concurrent reassignment can never leave the
// counter charged for a decline that did not land.
func (s *service) Decline(ctx context.Context, caseNumber string, practitionerID uint, reason string) (*DeclineResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	if !c.AssignedTo(practitionerID) {
		return nil, ErrNotAssigned
	}
	if c.Status != models.CaseAssigned {
		return nil, ErrInvalidStatus
	}

	result := &DeclineResult{}
	err = s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
		ok, err := tx.UpdateStatusIf(c.ID, models.CaseAssigned, models.CaseReassigned, map[string]interface{}{
			"practitioner_id": nil,
			"decline_reason":  reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleState
		}
		if err := tx.BumpPractitionerDeclined(practitionerID); err != nil {
			return err
		}
		pr, err := tx.GetPractitioner(practitionerID)
		if err != nil {
			return err
		}
		result.DeclineRate = pr.DeclineRate()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.Status = models.CaseReassigned
	c.PractitionerID = nil
	c.DeclineReason = &reason
	result.Case = c
	result.Flagged = result.DeclineRate > s.config.DeclineRateFlag
	s.metrics.RecordTransition(string(models.CaseAssigned), string(models.CaseReassigned))
	return result, nil
}

func (s *service) Reassign(ctx context.Context, caseNumber string, practitionerID uint) (*models.LegalCase, error) {
	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case models.CaseAssigned, models.CaseInProgress, models.CaseReassigned:
	default:
		return nil, ErrInvalidStatus
	}

	previous := c.PractitionerID
	err = s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
		pr, err := tx.GetPractitioner(practitionerID)
		if err != nil {
			return err
		}
		if pr.VerificationStatus != models.VerificationVerified {
			return ErrPractitionerNotAssignable
		}
		ok, err := tx.UpdateStatusIf(c.ID, c.Status, models.CaseAssigned, map[string]interface{}{
			"practitioner_id": practitionerID,
			"accepted_at":     nil,
			"decline_reason":  nil,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleState
		}
		return tx.BumpPractitionerAssigned(practitionerID)
	})
	if err != nil {
		return nil, err
	}

	from := c.Status
	pid := practitionerID
	c.Status = models.CaseAssigned
	c.PractitionerID = &pid
	c.AcceptedAt = nil
	c.DeclineReason = nil
	s.metrics.RecordTransition(string(from), string(models.CaseAssigned))
	if previous != nil && *previous != practitionerID {
		s.notify.CaseReassigned(*previous, c.CaseNumber)
	}
	s.notify.CaseAssigned(practitionerID, c.CaseNumber)
	return c, nil
}

// Complete closes a delivered case. The status change, the completion counter
// and the settlement record are one transaction; no case can end up completed
// without its payout.
func (s *service) Complete(ctx context.Context, caseNumber string) (*CompleteResult, error) {
	c, err := s.repo.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CaseOpinionDelivered || c.PractitionerID == nil {
		return nil, ErrInvalidStatus
	}

	payout := payouts.NewForCase(c)
	err = s.repo.ExecuteInTransaction(func(tx repositories.CaseRepository) error {
		ok, err := tx.UpdateStatusIf(c.ID, models.CaseOpinionDelivered, models.CaseCompleted, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleState
		}
		if err := tx.CreatePayout(payout); err != nil {
			return err
		}
		return tx.BumpPractitionerCompleted(*c.PractitionerID)
	})
	if err != nil {
		return nil, err
	}

	c.Status = models.CaseCompleted
	s.metrics.RecordTransition(string(models.CaseOpinionDelivered), string(models.CaseCompleted))
	return &CompleteResult{Case: c, Payout: payout}, nil
}

func (s *service) deadlineFor(p models.CasePriority) time.Duration {
	if p == models.PriorityUrgent {
		return s.config.UrgentDeadline
	}
	return s.config.NormalDeadline
}
