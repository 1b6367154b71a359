package models

import "time"

// Rating bounds
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is a customer's score for a delivered case. One per case, immutable
// once written. PractitionerID is denormalized from the case at submission so
// reputation aggregates survive later case mutations.
type Rating struct {
	ID             uint   `gorm:"primarykey"`
	CaseID         uint   `gorm:"uniqueIndex;not null"`
	PractitionerID uint   `gorm:"index;not null"`
	RatedBy        uint   `gorm:"not null"`
	Score          int    `gorm:"not null"`
	Feedback       string `gorm:"type:text"`
	CreatedAt      time.Time
}
