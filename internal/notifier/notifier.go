// Package notifier abstracts outbound practitioner notifications. Delivery
// itself (WhatsApp, email) is another system's job; the engine only emits
// events, and must emit each at most once per state change.
package notifier

import "log"

type Notifier interface {
	CaseAssigned(practitionerID uint, caseNumber string)
	CaseReassigned(practitionerID uint, caseNumber string)
	OpinionReviewed(practitionerID uint, caseNumber string, approved bool)
	PayoutCompleted(practitionerID uint, referenceID string, netPaise int64)
	PayoutFailed(practitionerID uint, referenceID string, reason string)
}

// LogNotifier writes events to the process log. Stands in for the real
// delivery pipeline in development and tests.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) CaseAssigned(practitionerID uint, caseNumber string) {
	log.Printf("notify practitioner %d: case %s assigned", practitionerID, caseNumber)
}

func (n *LogNotifier) CaseReassigned(practitionerID uint, caseNumber string) {
	log.Printf("notify practitioner %d: case %s reassigned away", practitionerID, caseNumber)
}

func (n *LogNotifier) OpinionReviewed(practitionerID uint, caseNumber string, approved bool) {
	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	log.Printf("notify practitioner %d: opinion for case %s %s", practitionerID, caseNumber, verdict)
}

func (n *LogNotifier) PayoutCompleted(practitionerID uint, referenceID string, netPaise int64) {
	log.Printf("notify practitioner %d: payout %s completed, %d paise", practitionerID, referenceID, netPaise)
}

func (n *LogNotifier) PayoutFailed(practitionerID uint, referenceID string, reason string) {
	log.Printf("notify practitioner %d: payout %s failed: %s", practitionerID, referenceID, reason)
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) CaseAssigned(uint, string)           {}
func (NoopNotifier) CaseReassigned(uint, string)         {}
func (NoopNotifier) OpinionReviewed(uint, string, bool)  {}
func (NoopNotifier) PayoutCompleted(uint, string, int64) {}
func (NoopNotifier) PayoutFailed(uint, string, string)   {}
