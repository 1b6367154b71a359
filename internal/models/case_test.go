package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    CaseStatus
		to      CaseStatus
		allowed bool
	}{
		{"accept", CaseAssigned, CaseInProgress, true},
		{"decline", CaseAssigned, CaseReassigned, true},
		{"reassign before acceptance", CaseAssigned, CaseAssigned, true},
		{"submit opinion", CaseInProgress, CaseOpinionSubmitted, true},
		{"reassign in progress", CaseInProgress, CaseAssigned, true},
		{"approve opinion", CaseOpinionSubmitted, CaseOpinionApproved, true},
		{"reject opinion", CaseOpinionSubmitted, CaseInProgress, true},
		{"deliver", CaseOpinionApproved, CaseOpinionDelivered, true},
		{"complete", CaseOpinionDelivered, CaseCompleted, true},
		{"reassign after decline", CaseReassigned, CaseAssigned, true},

		{"no skipping to completed", CaseAssigned, CaseCompleted, false},
		{"no submitting from assigned", CaseAssigned, CaseOpinionSubmitted, false},
		{"no declining after acceptance", CaseInProgress, CaseReassigned, false},
		{"no approving twice", CaseOpinionApproved, CaseOpinionApproved, false},
		{"no regressing delivered", CaseOpinionDelivered, CaseInProgress, false},
		{"completed is final", CaseCompleted, CaseAssigned, false},
		{"completed cannot reopen", CaseCompleted, CaseInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestCaseStatus_Terminal(t *testing.T) {
	assert.True(t, CaseCompleted.Terminal())

	for _, s := range []CaseStatus{
		CaseAssigned, CaseInProgress, CaseOpinionSubmitted,
		CaseOpinionApproved, CaseOpinionDelivered, CaseReassigned,
	} {
		assert.False(t, s.Terminal(), "status %s should not be terminal", s)
	}
}

func TestCasePriority_Valid(t *testing.T) {
	assert.True(t, PriorityNormal.Valid())
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, CasePriority("asap").Valid())
	assert.False(t, CasePriority("").Valid())
}

func TestLegalCase_AssignedTo(t *testing.T) {
	pid := uint(7)
	c := &LegalCase{PractitionerID: &pid}

	assert.True(t, c.AssignedTo(7))
	assert.False(t, c.AssignedTo(8))

	c.PractitionerID = nil
	assert.False(t, c.AssignedTo(7))
}
