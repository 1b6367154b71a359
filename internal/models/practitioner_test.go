package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTierForRate(t *testing.T) {
	assert.Equal(t, TierPreferred, TierForRate(10))
	assert.Equal(t, TierPreferred, TierForRate(15))
	assert.Equal(t, TierStandard, TierForRate(16))
	assert.Equal(t, TierStandard, TierForRate(30))
}

func TestPractitioner_DeclineRate(t *testing.T) {
	tests := []struct {
		name     string
		assigned int
		declined int
		want     float64
	}{
		{"no history", 0, 0, 0},
		{"clean record", 10, 0, 0},
		{"above threshold", 10, 4, 0.4},
		{"exactly threshold", 10, 3, 0.3},
		{"declined without assignments counted", 0, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Practitioner{AssignedCases: tt.assigned, DeclinedCases: tt.declined}
			assert.InDelta(t, tt.want, p.DeclineRate(), 1e-9)
		})
	}
}

func TestPractitioner_HasExpertise(t *testing.T) {
	p := &Practitioner{ExpertiseTags: pq.StringArray{"property", "contract"}}

	assert.True(t, p.HasExpertise("property"))
	assert.True(t, p.HasExpertise("contract"))
	assert.False(t, p.HasExpertise("tax"))
	assert.False(t, p.HasExpertise(""))
}
