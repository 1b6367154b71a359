package registry

import (
	"context"

	"legalconnect/internal/models"
)

// RegisterRequest is the intake form for a new practitioner.
type RegisterRequest struct {
	Name           string
	Email          string
	Phone          string
	City           string
	ExpertiseTags  []string
	CommissionRate int
}

// BankAccountRequest carries a settlement destination. The account number is
// sealed before it reaches the database; only the last four digits stay
// readable.
type BankAccountRequest struct {
	BankName      string
	IFSC          string
	AccountHolder string
	AccountNumber string
	MakeDefault   bool
}

// ActiveCaseCounter reports a practitioner's open workload. Satisfied by the
// case repository.
type ActiveCaseCounter interface {
	CountActiveByPractitioner(practitionerID uint) (int64, error)
}

// CacheOperator is the slice of the cache service the registry needs.
type CacheOperator interface {
	CachePractitioner(ctx context.Context, p *models.Practitioner) error
	GetPractitioner(ctx context.Context, id uint) (*models.Practitioner, bool, error)
	InvalidatePractitioner(ctx context.Context, p *models.Practitioner) error
	InvalidateRosters(ctx context.Context) error
}

// MetricsCollector defines the interface for recording registry cache metrics
type MetricsCollector interface {
	RecordCacheHit(entity string)
	RecordCacheMiss(entity string)
}

// NoopMetricsCollector is used when no metrics backend is wired.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordCacheHit(entity string)  {}
func (n *NoopMetricsCollector) RecordCacheMiss(entity string) {}
