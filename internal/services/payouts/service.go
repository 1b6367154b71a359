// Package payouts computes commission splits for completed cases and drives
// the resulting settlements through the external payout gateway. Every status
// write is a compare-and-swap so webhook reconciliation, background sweeps
// and operator actions can race safely; a lost write means another writer
// already handled the transition.
package payouts

import (
	"context"
	"errors"
	"fmt"
	"log"

	"legalconnect/internal/gateway"
	"legalconnect/internal/models"
	"legalconnect/internal/notifier"
	"legalconnect/internal/repositories"
	"legalconnect/internal/utils"

	"golang.org/x/time/rate"
)

// Service drives settlement for completed cases.
type Service interface {
	Get(ctx context.Context, payoutID uint) (*models.Payout, error)
	GetByCaseNumber(ctx context.Context, caseNumber string) (*models.Payout, error)
	ListByPractitioner(ctx context.Context, practitionerID uint, limit, offset int) ([]*models.Payout, int64, error)

	// CreateForCase backfills the settlement record for a completed case
	// that has none, from the case's snapshotted commission rate.
	CreateForCase(ctx context.Context, caseNumber string) (*models.Payout, error)

	// Execute pushes one payout through the gateway.
	Execute(ctx context.Context, payoutID uint) (*models.Payout, error)

	// HandleWebhook applies a provider status notification and reports
	// whether it changed local state. Replayed events report false.
	HandleWebhook(ctx context.Context, event gateway.WebhookEvent) (bool, error)

	// Background sweeps
	AutoConfirmStale(ctx context.Context) (int64, error)
	RequeueFailed(ctx context.Context) (int64, error)

	// Batch settlement
	CreateSettlementBatch(ctx context.Context, createdBy uint) (*BatchResult, error)
	ProcessBatch(ctx context.Context, batchID string) (*BatchResult, error)
	RunSettlementPass(ctx context.Context) (*BatchResult, error)
}

type service struct {
	repo          repositories.PayoutRepository
	practitioners repositories.PractitionerRepository
	cases         repositories.CaseRepository
	gw            gateway.PayoutGateway
	notify        notifier.Notifier
	metrics       MetricsCollector
	limiter       *rate.Limiter
	config        Config
}

// NewService creates a new payout service. Notifier and metrics are optional.
func NewService(
	repo repositories.PayoutRepository,
	practitioners repositories.PractitionerRepository,
	cases repositories.CaseRepository,
	gw gateway.PayoutGateway,
	notify notifier.Notifier,
	metrics MetricsCollector,
	config Config,
) Service {
	if repo == nil {
		panic("payout repository is required")
	}
	if practitioners == nil {
		panic("practitioner repository is required")
	}
	if cases == nil {
		panic("case repository is required")
	}
	if gw == nil {
		panic("payout gateway is required")
	}
	if notify == nil {
		notify = notifier.NoopNotifier{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if config.AutoConfirmAfter == 0 {
		config.AutoConfirmAfter = DefaultAutoConfirmAfter
	}
	if config.RequeueFailedAfter == 0 {
		config.RequeueFailedAfter = DefaultRequeueFailedAfter
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.GatewayRPS == 0 {
		config.GatewayRPS = DefaultGatewayRPS
	}

	return &service{
		repo:          repo,
		practitioners: practitioners,
		cases:         cases,
		gw:            gw,
		notify:        notify,
		metrics:       metrics,
		limiter:       rate.NewLimiter(rate.Limit(config.GatewayRPS), config.GatewayRPS),
		config:        config,
	}
}

// NewForCase builds the pending settlement record for a completed case from
// the commission rate snapshotted at case creation. The case number doubles
// as the gateway idempotency reference, so retried executions cannot
// double-pay.
func NewForCase(c *models.LegalCase) *models.Payout {
	commission, net := Split(c.FeePaise, c.CommissionPct)
	return &models.Payout{
		CaseID:          c.ID,
		PractitionerID:  *c.PractitionerID,
		GrossFeePaise:   c.FeePaise,
		CommissionPaise: commission,
		NetPaise:        net,
		CommissionPct:   c.CommissionPct,
		Status:          models.PayoutPending,
		ReferenceID:     "payout-" + c.CaseNumber,
	}
}

func (s *service) Get(ctx context.Context, payoutID uint) (*models.Payout, error) {
	return s.repo.GetByID(payoutID)
}

func (s *service) GetByCaseNumber(ctx context.Context, caseNumber string) (*models.Payout, error) {
	c, err := s.cases.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByCaseID(c.ID)
}

func (s *service) ListByPractitioner(ctx context.Context, practitionerID uint, limit, offset int) ([]*models.Payout, int64, error) {
	return s.repo.ListByPractitioner(practitionerID, limit, offset)
}

func (s *service) CreateForCase(ctx context.Context, caseNumber string) (*models.Payout, error) {
	c, err := s.cases.GetByCaseNumber(caseNumber)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CaseCompleted || c.PractitionerID == nil {
		return nil, ErrCaseNotCompleted
	}

	if _, err := s.repo.GetByCaseID(c.ID); err == nil {
		return nil, ErrPayoutExists
	} else if !errors.Is(err, repositories.ErrPayoutNotFound) {
		return nil, err
	}

	p := NewForCase(c)
	// The unique index on case_id backs the exists check under races.
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	s.metrics.RecordPayoutStatus(string(models.PayoutPending))
	return p, nil
}

// Execute walks one payout to processing and hands it to the gateway. The
// reference id it sends is stable across retries, so a replayed execution
// cannot move money twice. Any failure past the validation stage marks the
// payout failed and surfaces the error for operator remediation.
func (s *service) Execute(ctx context.Context, payoutID uint) (*models.Payout, error) {
	p, err := s.repo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}

	switch p.Status {
	case models.PayoutProcessing, models.PayoutCompleted:
		return nil, ErrNotExecutable
	}

	pr, err := s.practitioners.GetByID(p.PractitionerID)
	if err != nil {
		return nil, err
	}
	if pr.VerificationStatus != models.VerificationVerified {
		return nil, ErrNotVerified
	}

	acct, err := s.practitioners.GetDefaultBankAccount(p.PractitionerID)
	if err != nil {
		if errors.Is(err, repositories.ErrBankAccountNotFound) {
			return nil, ErrNoBankAccount
		}
		return nil, err
	}

	// Walk the payout to confirmed. Failed payouts are requeued in place so
	// an operator retry does not have to wait for the sweep.
	if p.Status == models.PayoutPending || p.Status == models.PayoutFailed {
		ok, err := s.repo.UpdateStatusIf(p.ID, p.Status, models.PayoutConfirmed, map[string]interface{}{
			"failure_reason": "",
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrStaleState
		}
		p.Status = models.PayoutConfirmed
		s.metrics.RecordPayoutStatus(string(models.PayoutConfirmed))
	}

	// Provision gateway identifiers before any money moves.
	if err := s.ensureGatewayIDs(ctx, pr, acct); err != nil {
		s.markFailed(p, models.PayoutConfirmed, err.Error())
		return nil, fmt.Errorf("failed to provision gateway account: %w", err)
	}

	ok, err := s.repo.UpdateStatusIf(p.ID, models.PayoutConfirmed, models.PayoutProcessing, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}
	p.Status = models.PayoutProcessing
	s.metrics.RecordPayoutStatus(string(models.PayoutProcessing))

	result, err := s.gw.CreatePayout(ctx, gateway.PayoutRequest{
		FundAccountID: acct.GatewayFundAccountID,
		AmountPaise:   p.NetPaise,
		Mode:          transferMode(p.NetPaise),
		ReferenceID:   p.ReferenceID,
		Narration:     "Legal opinion settlement",
	})
	if err != nil {
		s.markFailed(p, models.PayoutProcessing, err.Error())
		return nil, fmt.Errorf("gateway payout failed: %w", err)
	}

	s.applyGatewayStatus(p, result)
	return p, nil
}

// ensureGatewayIDs lazily provisions the provider contact and fund account
// for a bank account. Each id is stored only while the column is still empty;
// losing that write means a concurrent execution provisioned first, and its
// id is re-read so repeated payouts always reuse one contact.
func (s *service) ensureGatewayIDs(ctx context.Context, pr *models.Practitioner, acct *models.BankAccount) error {
	if acct.GatewayContactID == "" {
		contactID, err := s.gw.CreateContact(ctx, gateway.Contact{
			Name:        pr.Name,
			Email:       pr.Email,
			ReferenceID: fmt.Sprintf("prac-%d", pr.ID),
		})
		if err != nil {
			return fmt.Errorf("create contact: %w", err)
		}
		stored, err := s.practitioners.SetGatewayContactIf(acct.ID, contactID)
		if err != nil {
			return err
		}
		if stored {
			acct.GatewayContactID = contactID
		} else {
			fresh, err := s.practitioners.GetBankAccountByID(acct.ID)
			if err != nil {
				return err
			}
			acct.GatewayContactID = fresh.GatewayContactID
		}
	}

	if acct.GatewayFundAccountID == "" {
		number, err := utils.OpenAccountNumber(acct.AccountNumberSealed)
		if err != nil {
			return fmt.Errorf("unseal account number: %w", err)
		}
		fundID, err := s.gw.CreateFundAccount(ctx, gateway.FundAccountDetails{
			ContactID:     acct.GatewayContactID,
			AccountHolder: acct.AccountHolder,
			IFSC:          acct.IFSC,
			AccountNumber: number,
		})
		if err != nil {
			return fmt.Errorf("create fund account: %w", err)
		}
		stored, err := s.practitioners.SetGatewayFundAccountIf(acct.ID, fundID)
		if err != nil {
			return err
		}
		if stored {
			acct.GatewayFundAccountID = fundID
		} else {
			fresh, err := s.practitioners.GetBankAccountByID(acct.ID)
			if err != nil {
				return err
			}
			acct.GatewayFundAccountID = fresh.GatewayFundAccountID
		}
	}

	return nil
}

// applyGatewayStatus folds the provider's synchronous answer into the local
// machine. Statuses behind processing leave the payout where it is; the
// webhook moves it later.
func (s *service) applyGatewayStatus(p *models.Payout, result *gateway.PayoutResult) {
	next, known := models.PayoutStatusFromGateway(result.Status)
	if !known || next == p.Status || p.Status.Behind(next) || !p.Status.CanTransition(next) {
		next = p.Status
	}

	updates := map[string]interface{}{"gateway_payout_id": result.PayoutID}
	reason := ""
	if next == models.PayoutFailed {
		reason = "gateway returned " + result.Status
		updates["failure_reason"] = reason
	}

	ok, err := s.repo.UpdateStatusIf(p.ID, p.Status, next, updates)
	if err != nil {
		log.Printf("failed to record gateway result for payout %d: %v", p.ID, err)
		return
	}
	if !ok {
		// A webhook raced ahead of the synchronous answer and already
		// carries the newer status.
		if fresh, err := s.repo.GetByID(p.ID); err == nil {
			*p = *fresh
		}
		return
	}

	p.GatewayPayoutID = result.PayoutID
	if next == p.Status {
		return
	}
	p.Status = next
	p.FailureReason = reason
	s.metrics.RecordPayoutStatus(string(next))
	switch next {
	case models.PayoutCompleted:
		s.metrics.RecordPayoutVolume(p.NetPaise)
		s.notify.PayoutCompleted(p.PractitionerID, p.ReferenceID, p.NetPaise)
	case models.PayoutFailed:
		s.notify.PayoutFailed(p.PractitionerID, p.ReferenceID, reason)
	}
}

// markFailed transitions a payout to failed if it still holds from. A lost
// write means another path already moved it, which is fine.
func (s *service) markFailed(p *models.Payout, from models.PayoutStatus, reason string) {
	ok, err := s.repo.UpdateStatusIf(p.ID, from, models.PayoutFailed, map[string]interface{}{
		"failure_reason": reason,
	})
	if err != nil {
		log.Printf("failed to mark payout %d failed: %v", p.ID, err)
		return
	}
	if ok {
		p.Status = models.PayoutFailed
		p.FailureReason = reason
		s.metrics.RecordPayoutStatus(string(models.PayoutFailed))
		s.notify.PayoutFailed(p.PractitionerID, p.ReferenceID, reason)
	}
}

func (s *service) HandleWebhook(ctx context.Context, event gateway.WebhookEvent) (bool, error) {
	next, known := models.PayoutStatusFromGateway(event.Status)
	if !known {
		log.Printf("ignoring webhook with unknown status %q for %s", event.Status, event.PayoutID)
		s.metrics.RecordWebhookEvent(event.Status, false)
		return false, nil
	}

	p, err := s.repo.GetByGatewayID(event.PayoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			// Not a case settlement; some other ledger's transfer.
			s.metrics.RecordWebhookEvent(event.Status, false)
			return false, nil
		}
		return false, err
	}

	// Replays and stale notifications land here: same status, an earlier
	// status, or an edge the machine does not allow. All no-ops.
	if next == p.Status || p.Status.Behind(next) || !p.Status.CanTransition(next) {
		s.metrics.RecordWebhookEvent(event.Status, false)
		return false, nil
	}

	updates := map[string]interface{}{}
	if event.UTR != "" {
		updates["metadata"] = models.JSON{"utr": event.UTR}
	}
	reason := ""
	if next == models.PayoutFailed {
		reason = event.Reason
		if reason == "" {
			reason = "gateway reported " + event.Status
		}
		updates["failure_reason"] = reason
	}

	ok, err := s.repo.UpdateStatusIf(p.ID, p.Status, next, updates)
	if err != nil {
		return false, err
	}
	s.metrics.RecordWebhookEvent(event.Status, ok)
	if !ok {
		return false, nil
	}

	s.metrics.RecordPayoutStatus(string(next))
	switch next {
	case models.PayoutCompleted:
		s.metrics.RecordPayoutVolume(p.NetPaise)
		s.notify.PayoutCompleted(p.PractitionerID, p.ReferenceID, p.NetPaise)
	case models.PayoutFailed:
		s.notify.PayoutFailed(p.PractitionerID, p.ReferenceID, reason)
	}
	return true, nil
}
