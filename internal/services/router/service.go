// Package router matches incoming cases to eligible practitioners. Matching
// is a pure query: it never mutates state, and an empty roster is a valid
// answer, not an error.
package router

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"legalconnect/internal/models"
	"legalconnect/internal/repositories"
)

// Routing outcomes
const (
	OutcomeMatched      = "matched"
	OutcomeNoCandidates = "no_candidates"
)

// Service ranks eligible practitioners for a case.
type Service interface {
	Match(ctx context.Context, expertise, city string) ([]Candidate, error)
}

type service struct {
	practitioners repositories.PractitionerRepository
	cases         repositories.CaseRepository
	cache         CacheOperator
	metrics       MetricsCollector
}

// NewService creates a new router service. Cache is optional.
func NewService(
	practitioners repositories.PractitionerRepository,
	cases repositories.CaseRepository,
	cache CacheOperator,
	metrics MetricsCollector,
) Service {
	if practitioners == nil {
		panic("practitioner repository is required")
	}
	if cases == nil {
		panic("case repository is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		practitioners: practitioners,
		cases:         cases,
		cache:         cache,
		metrics:       metrics,
	}
}

// Match returns practitioners who are verified, reachable, in the right city
// and carrying the expertise tag, ordered by average rating then lifetime
// completions. Each candidate also reports its current active-case load.
func (s *service) Match(ctx context.Context, expertise, city string) ([]Candidate, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRouteDuration(time.Since(start)) }()

	if s.cache != nil {
		var cached []Candidate
		if found, err := s.cache.GetRoster(ctx, expertise, city, &cached); err == nil && found {
			s.metrics.RecordCacheHit("roster")
			return cached, nil
		}
		s.metrics.RecordCacheMiss("roster")
	}

	eligible, err := s.practitioners.FindEligible(expertise, city)
	if err != nil {
		return nil, fmt.Errorf("failed to find eligible practitioners: %w", err)
	}
	if len(eligible) == 0 {
		s.metrics.RecordRouteResult(OutcomeNoCandidates)
		return []Candidate{}, nil
	}

	ids := make([]uint, 0, len(eligible))
	for _, p := range eligible {
		ids = append(ids, p.ID)
	}
	active, err := s.cases.ActiveCaseCounts(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load active case counts: %w", err)
	}

	candidates := make([]Candidate, 0, len(eligible))
	for _, p := range eligible {
		candidates = append(candidates, toCandidate(p, active[p.ID]))
	}
	rank(candidates)

	if s.cache != nil {
		if err := s.cache.CacheRoster(ctx, expertise, city, candidates); err != nil {
			log.Printf("failed to cache roster for %s/%s: %v", expertise, city, err)
		}
	}

	s.metrics.RecordRouteResult(OutcomeMatched)
	return candidates, nil
}

func toCandidate(p *models.Practitioner, activeCases int64) Candidate {
	return Candidate{
		PractitionerID: p.ID,
		Name:           p.Name,
		City:           p.City,
		Tier:           p.Tier,
		CommissionRate: p.CommissionRate,
		AverageRating:  p.AverageRating,
		CompletedCases: p.CompletedCases,
		ActiveCases:    activeCases,
	}
}

// rank orders candidates by rating, breaking ties on completed-case count.
// The sort is stable so equally ranked practitioners keep their query order.
func rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].AverageRating != candidates[j].AverageRating {
			return candidates[i].AverageRating > candidates[j].AverageRating
		}
		return candidates[i].CompletedCases > candidates[j].CompletedCases
	})
}
