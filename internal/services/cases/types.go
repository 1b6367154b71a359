package cases

import (
	"time"

	"legalconnect/internal/models"
)

// Default lifecycle policy. Deadlines are calendar time from creation.
const (
	DefaultUrgentDeadline  = 72 * time.Hour
	DefaultNormalDeadline  = 120 * time.Hour
	DefaultDeclineRateFlag = 0.30
)

// Config carries the lifecycle policy knobs. Zero values fall back to the
// defaults above.
type Config struct {
	UrgentDeadline  time.Duration
	NormalDeadline  time.Duration
	DeclineRateFlag float64
}

// CreateRequest is the operator's intake for a new case. The practitioner is
// chosen up front, typically from the router's ranked candidates.
type CreateRequest struct {
	ExpertiseTag   string
	PractitionerID uint
	FeePaise       int64
	Priority       models.CasePriority
}

// DeclineResult reports the practitioner's reliability after a decline.
// Flagged is advisory only; it never blocks future assignment.
type DeclineResult struct {
	Case        *models.LegalCase
	DeclineRate float64
	Flagged     bool
}

// CompleteResult carries the completed case together with the settlement
// record created for it.
type CompleteResult struct {
	Case   *models.LegalCase
	Payout *models.Payout
}

// MetricsCollector defines the interface for recording lifecycle metrics
type MetricsCollector interface {
	RecordTransition(from, to string)
}
