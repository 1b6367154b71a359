// Package registry owns the practitioner roster: registration, verification
// review, commission tiering, availability and settlement destinations. Every
// mutation drops the practitioner's cache entries and the rosters built from
// them, so routing never ranks on withdrawn facts beyond the roster TTL.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"legalconnect/internal/models"
	"legalconnect/internal/repositories"
	"legalconnect/internal/utils"

	"github.com/lib/pq"
)

// Service manages the practitioner roster.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*models.Practitioner, error)
	Get(ctx context.Context, id uint) (*models.Practitioner, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Practitioner, int64, error)

	// ReviewVerification settles a pending registration. Operator action.
	ReviewVerification(ctx context.Context, id uint, approve bool) (*models.Practitioner, error)

	// UpdateCommissionRate changes the practitioner's rate and re-derives
	// their tier. Cases already in flight keep their snapshotted rate.
	UpdateCommissionRate(ctx context.Context, id uint, rate int) (*models.Practitioner, error)

	// Suspend takes a practitioner off the platform. Refused while they
	// still hold active cases.
	Suspend(ctx context.Context, id uint) (*models.Practitioner, error)

	SetDoNotDisturb(ctx context.Context, id uint, enabled bool) (*models.Practitioner, error)

	AddBankAccount(ctx context.Context, practitionerID uint, req BankAccountRequest) (*models.BankAccount, error)
	ListBankAccounts(ctx context.Context, practitionerID uint) ([]*models.BankAccount, error)
}

type service struct {
	repo    repositories.PractitionerRepository
	cases   ActiveCaseCounter
	cache   CacheOperator
	metrics MetricsCollector
}

// NewService creates a new registry service. Cache and metrics are optional.
func NewService(repo repositories.PractitionerRepository, cases ActiveCaseCounter, cache CacheOperator, metrics MetricsCollector) Service {
	if repo == nil {
		panic("practitioner repository is required")
	}
	if cases == nil {
		panic("active case counter is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		repo:    repo,
		cases:   cases,
		cache:   cache,
		metrics: metrics,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.Practitioner, error) {
	if req.CommissionRate < models.MinCommissionRate || req.CommissionRate > models.MaxCommissionRate {
		return nil, ErrRateOutOfBounds
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, repositories.ErrDuplicatePractitioner
	} else if !errors.Is(err, repositories.ErrPractitionerNotFound) {
		return nil, err
	}

	p := &models.Practitioner{
		Name:               strings.TrimSpace(req.Name),
		Email:              email,
		Phone:              strings.TrimSpace(req.Phone),
		City:               strings.TrimSpace(req.City),
		VerificationStatus: models.VerificationPending,
		ExpertiseTags:      pq.StringArray(req.ExpertiseTags),
		CommissionRate:     req.CommissionRate,
		Tier:               models.TierForRate(req.CommissionRate),
	}
	// The unique index on email backs the exists check under races.
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Practitioner, error) {
	if s.cache != nil {
		if p, found, err := s.cache.GetPractitioner(ctx, id); err == nil && found {
			s.metrics.RecordCacheHit("practitioner")
			return p, nil
		}
		s.metrics.RecordCacheMiss("practitioner")
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.CachePractitioner(ctx, p); err != nil {
			log.Printf("failed to cache practitioner %d: %v", id, err)
		}
	}
	return p, nil
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]*models.Practitioner, int64, error) {
	return s.repo.List(status, limit, offset)
}

func (s *service) ReviewVerification(ctx context.Context, id uint, approve bool) (*models.Practitioner, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.VerificationStatus != models.VerificationPending {
		return nil, ErrInvalidStatus
	}

	next := models.VerificationRejected
	if approve {
		next = models.VerificationVerified
	}
	ok, err := s.repo.UpdateStatusIf(id, models.VerificationPending, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}

	p.VerificationStatus = next
	s.invalidate(ctx, p)
	return p, nil
}

func (s *service) UpdateCommissionRate(ctx context.Context, id uint, rate int) (*models.Practitioner, error) {
	if rate < models.MinCommissionRate || rate > models.MaxCommissionRate {
		return nil, ErrRateOutOfBounds
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	tier := models.TierForRate(rate)
	if err := s.repo.UpdateCommissionRate(id, rate, tier); err != nil {
		return nil, err
	}

	p.CommissionRate = rate
	p.Tier = tier
	s.invalidate(ctx, p)
	return p, nil
}

func (s *service) Suspend(ctx context.Context, id uint) (*models.Practitioner, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.VerificationStatus == models.VerificationSuspended {
		return nil, ErrInvalidStatus
	}

	active, err := s.cases.CountActiveByPractitioner(id)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrHasActiveCases
	}

	ok, err := s.repo.UpdateStatusIf(id, p.VerificationStatus, models.VerificationSuspended)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}

	p.VerificationStatus = models.VerificationSuspended
	s.invalidate(ctx, p)
	return p, nil
}

func (s *service) SetDoNotDisturb(ctx context.Context, id uint, enabled bool) (*models.Practitioner, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetDoNotDisturb(id, enabled); err != nil {
		return nil, err
	}

	p.DoNotDisturb = enabled
	s.invalidate(ctx, p)
	return p, nil
}

func (s *service) AddBankAccount(ctx context.Context, practitionerID uint, req BankAccountRequest) (*models.BankAccount, error) {
	if _, err := s.repo.GetByID(practitionerID); err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.AccountNumber)
	sealed, err := utils.SealAccountNumber(number)
	if err != nil {
		return nil, fmt.Errorf("failed to seal account number: %w", err)
	}
	lastFour := number
	if len(lastFour) > 4 {
		lastFour = lastFour[len(lastFour)-4:]
	}

	existing, err := s.repo.ListBankAccounts(practitionerID)
	if err != nil {
		return nil, err
	}

	acct := &models.BankAccount{
		PractitionerID:      practitionerID,
		BankName:            strings.TrimSpace(req.BankName),
		IFSC:                strings.ToUpper(strings.TrimSpace(req.IFSC)),
		AccountHolder:       strings.TrimSpace(req.AccountHolder),
		AccountNumberSealed: sealed,
		LastFour:            lastFour,
		IsDefault:           len(existing) == 0,
	}
	if err := s.repo.CreateBankAccount(acct); err != nil {
		return nil, err
	}

	if req.MakeDefault && !acct.IsDefault {
		if err := s.repo.SetDefaultBankAccount(practitionerID, acct.ID); err != nil {
			return nil, err
		}
		acct.IsDefault = true
	}
	return acct, nil
}

func (s *service) ListBankAccounts(ctx context.Context, practitionerID uint) ([]*models.BankAccount, error) {
	return s.repo.ListBankAccounts(practitionerID)
}

// invalidate drops the practitioner's cache entries and every cached roster;
// both were built from facts this mutation just changed.
func (s *service) invalidate(ctx context.Context, p *models.Practitioner) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePractitioner(ctx, p); err != nil {
		log.Printf("failed to invalidate practitioner %d: %v", p.ID, err)
	}
	if err := s.cache.InvalidateRosters(ctx); err != nil {
		log.Printf("failed to invalidate rosters: %v", err)
	}
}
