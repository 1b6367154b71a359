package models

import (
	"strings"
	"time"
)

// PayoutStatus is the closed set of settlement states.
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutConfirmed  PayoutStatus = "confirmed"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

// payoutTransitions is the transition table for the payout machine.
// failed -> confirmed is the requeue path taken by the scheduled batch pass.
var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutPending:    {PayoutConfirmed, PayoutFailed},
	PayoutConfirmed:  {PayoutProcessing, PayoutFailed},
	PayoutProcessing: {PayoutCompleted, PayoutFailed},
	PayoutFailed:     {PayoutConfirmed},
}

// payoutStatusRank orders the happy path so webhook reconciliation can refuse
// to move a payout backwards. Failed sits outside the ranking.
var payoutStatusRank = map[PayoutStatus]int{
	PayoutPending:    1,
	PayoutConfirmed:  2,
	PayoutProcessing: 3,
	PayoutCompleted:  4,
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s PayoutStatus) CanTransition(next PayoutStatus) bool {
	for _, allowed := range payoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s PayoutStatus) Terminal() bool {
	return len(payoutTransitions[s]) == 0
}

// Behind reports whether next sits earlier on the happy path than s, meaning
// a reconciliation carrying it is stale and must be ignored.
func (s PayoutStatus) Behind(next PayoutStatus) bool {
	sr, ok1 := payoutStatusRank[s]
	nr, ok2 := payoutStatusRank[next]
	if !ok1 || !ok2 {
		return false
	}
	return nr < sr
}

// gatewayStatusMap fixes how provider-native statuses land in the local
// machine. Unknown strings are dropped by the caller, not guessed at.
var gatewayStatusMap = map[string]PayoutStatus{
	"queued":     PayoutPending,
	"pending":    PayoutPending,
	"processing": PayoutProcessing,
	"processed":  PayoutCompleted,
	"reversed":   PayoutFailed,
	"cancelled":  PayoutFailed,
	"rejected":   PayoutFailed,
	"failed":     PayoutFailed,
}

// PayoutStatusFromGateway maps a provider status string to the local enum.
func PayoutStatusFromGateway(s string) (PayoutStatus, bool) {
	status, ok := gatewayStatusMap[strings.ToLower(s)]
	return status, ok
}

// Payout is the settlement record for a completed case. Amounts are integer
// paise; CommissionPaise is floor-rounded so CommissionPaise + NetPaise always
// equals GrossFeePaise exactly. ReferenceID doubles as the idempotency key
// sent to the gateway, so retried executions cannot double-pay.
type Payout struct {
	ID              uint         `gorm:"primarykey"`
	CaseID          uint         `gorm:"uniqueIndex;not null"`
	PractitionerID  uint         `gorm:"index;not null"`
	GrossFeePaise   int64        `gorm:"not null"`
	CommissionPaise int64        `gorm:"not null"`
	NetPaise        int64        `gorm:"not null"`
	CommissionPct   int          `gorm:"not null"`
	Status          PayoutStatus `gorm:"index;not null;default:'pending'"`
	ReferenceID     string       `gorm:"uniqueIndex;not null"`
	GatewayPayoutID string       `gorm:"index;default:''"`
	BatchID         *string      `gorm:"index"`
	FailureReason   string
	Metadata        JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SettlementBatch groups confirmed payouts dispatched together. The ID is a
// ULID so batches sort by creation time.
type SettlementBatch struct {
	ID            string `gorm:"primarykey"`
	PayoutCount   int    `gorm:"not null"`
	TotalNetPaise int64  `gorm:"not null"`
	CreatedBy     uint
	CreatedAt     time.Time
}
