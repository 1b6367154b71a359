package models

import "time"

// Opinion review statuses
const (
	OpinionPendingReview = "pending_review"
	OpinionApproved      = "approved"
)

// Opinion is the work product for a case, one per case at most. Rejection
// during review deletes the record entirely so the practitioner can resubmit;
// there is no rejected state to get stuck in.
type Opinion struct {
	ID             uint   `gorm:"primarykey"`
	CaseID         uint   `gorm:"uniqueIndex;not null"`
	PractitionerID uint   `gorm:"index;not null"`
	Summary        string `gorm:"type:text;not null"`
	DocumentRef    string
	ReviewStatus   string `gorm:"default:'pending_review'"`
	ReviewedBy     *uint
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
