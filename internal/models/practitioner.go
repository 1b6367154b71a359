package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Verification statuses
const (
	VerificationPending   = "pending"
	VerificationVerified  = "verified"
	VerificationRejected  = "rejected"
	VerificationSuspended = "suspended"
)

// Practitioner tiers
const (
	TierPreferred = "preferred"
	TierStandard  = "standard"
)

// Commission rate bounds (percent of case fee retained by the platform).
const (
	MinCommissionRate = 10
	MaxCommissionRate = 30

	// Rates at or below this mark the practitioner as preferred tier.
	PreferredTierMaxRate = 15
)

// Practitioner is a verified legal professional who takes on opinion cases.
// Records are never deleted, only suspended.
type Practitioner struct {
	ID                 uint           `gorm:"primarykey"`
	Name               string         `gorm:"not null"`
	Email              string         `gorm:"uniqueIndex;not null"`
	Phone              string         `gorm:"uniqueIndex;not null"`
	City               string         `gorm:"index;not null"`
	VerificationStatus string         `gorm:"default:'pending'"`
	ExpertiseTags      pq.StringArray `gorm:"type:text[]"`
	CommissionRate     int            `gorm:"not null"`
	Tier               string         `gorm:"default:'standard'"`
	AssignedCases      int            `gorm:"default:0"`
	CompletedCases     int            `gorm:"default:0"`
	DeclinedCases      int            `gorm:"default:0"`
	AverageRating      float64        `gorm:"default:0"`
	RatingCount        int            `gorm:"default:0"`
	DoNotDisturb       bool           `gorm:"default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TierForRate derives the tier from a commission rate. Lower rates are the
// platform's way of rewarding reliable practitioners, hence preferred.
func TierForRate(rate int) string {
	if rate <= PreferredTierMaxRate {
		return TierPreferred
	}
	return TierStandard
}

// HasExpertise reports whether the practitioner carries the given tag.
func (p *Practitioner) HasExpertise(tag string) bool {
	for _, t := range p.ExpertiseTags {
		if t == tag {
			return true
		}
	}
	return false
}

// DeclineRate is the lifetime ratio of declined to assigned cases.
// The denominator is clamped to 1 so fresh practitioners report 0, not NaN.
func (p *Practitioner) DeclineRate() float64 {
	total := p.AssignedCases
	if total < 1 {
		total = 1
	}
	return float64(p.DeclinedCases) / float64(total)
}

// BankAccount holds a practitioner's settlement destination. The account
// number is sealed at rest; only the last four digits are kept readable.
// Gateway identifiers are filled lazily on first payout and reused after.
type BankAccount struct {
	gorm.Model
	PractitionerID       uint   `gorm:"index;not null"`
	BankName             string `gorm:"not null"`
	IFSC                 string `gorm:"not null"`
	AccountHolder        string `gorm:"not null"`
	AccountNumberSealed  string `gorm:"not null"`
	LastFour             string `gorm:"not null"`
	IsDefault            bool   `gorm:"default:false"`
	GatewayContactID     string `gorm:"default:''"`
	GatewayFundAccountID string `gorm:"default:''"`
}
