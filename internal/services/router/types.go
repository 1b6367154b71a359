package router

import (
	"context"
	"time"
)

// Candidate is one ranked match for a case, carrying everything an operator
// needs to pick an assignee.
type Candidate struct {
	PractitionerID uint    `json:"practitioner_id"`
	Name           string  `json:"name"`
	City           string  `json:"city"`
	Tier           string  `json:"tier"`
	CommissionRate int     `json:"commission_rate"`
	AverageRating  float64 `json:"average_rating"`
	CompletedCases int     `json:"completed_cases"`
	ActiveCases    int64   `json:"active_cases"`
}

// CacheOperator is the slice of the cache service the router needs.
type CacheOperator interface {
	GetRoster(ctx context.Context, tag, city string, dest interface{}) (bool, error)
	CacheRoster(ctx context.Context, tag, city string, roster interface{}) error
}

// MetricsCollector records routing outcomes.
type MetricsCollector interface {
	RecordRouteResult(outcome string)
	RecordRouteDuration(d time.Duration)
	RecordCacheHit(entity string)
	RecordCacheMiss(entity string)
}
