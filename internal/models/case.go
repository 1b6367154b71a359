package models

import (
	"time"
)

// CaseStatus is the closed set of lifecycle states for a legal case.
type CaseStatus string

const (
	CaseAssigned         CaseStatus = "assigned"
	CaseInProgress       CaseStatus = "in_progress"
	CaseOpinionSubmitted CaseStatus = "opinion_submitted"
	CaseOpinionApproved  CaseStatus = "opinion_approved"
	CaseOpinionDelivered CaseStatus = "opinion_delivered"
	CaseCompleted        CaseStatus = "completed"
	CaseReassigned       CaseStatus = "reassigned"
)

// caseTransitions is the full transition table for the case state machine.
// Every mutation checks it; nothing moves a case between states any other way.
// assigned -> assigned covers an operator reassignment before acceptance.
var caseTransitions = map[CaseStatus][]CaseStatus{
	CaseAssigned:         {CaseInProgress, CaseReassigned, CaseAssigned},
	CaseInProgress:       {CaseOpinionSubmitted, CaseAssigned},
	CaseOpinionSubmitted: {CaseOpinionApproved, CaseInProgress},
	CaseOpinionApproved:  {CaseOpinionDelivered},
	CaseOpinionDelivered: {CaseCompleted},
	CaseReassigned:       {CaseAssigned},
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s CaseStatus) CanTransition(next CaseStatus) bool {
	for _, allowed := range caseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions leave this state.
func (s CaseStatus) Terminal() bool {
	return len(caseTransitions[s]) == 0
}

// ActiveCaseStatuses are the states counted as a practitioner's open workload:
// the case has been handed to them and the opinion is not yet submitted.
var ActiveCaseStatuses = []CaseStatus{CaseAssigned, CaseInProgress}

// CasePriority drives the delivery deadline.
type CasePriority string

const (
	PriorityNormal CasePriority = "normal"
	PriorityUrgent CasePriority = "urgent"
)

// Valid reports whether the priority is one of the known values.
func (p CasePriority) Valid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// LegalCase is a single opinion request moving through the marketplace.
// CommissionPct is copied from the practitioner's rate when the case is
// created and never re-read afterwards; later rate changes do not affect
// settlement of cases already in flight.
type LegalCase struct {
	ID             uint         `gorm:"primarykey"`
	CaseNumber     string       `gorm:"uniqueIndex;not null"`
	ExpertiseTag   string       `gorm:"index;not null"`
	PractitionerID *uint        `gorm:"index"`
	Priority       CasePriority `gorm:"not null;default:'normal'"`
	Status         CaseStatus   `gorm:"index;not null;default:'assigned'"`
	FeePaise       int64        `gorm:"not null"`
	CommissionPct  int          `gorm:"not null"`
	Deadline       time.Time    `gorm:"not null"`
	AcceptedAt     *time.Time
	DeclineReason  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AssignedTo reports whether the case is currently held by the given
// practitioner.
func (c *LegalCase) AssignedTo(practitionerID uint) bool {
	return c.PractitionerID != nil && *c.PractitionerID == practitionerID
}
