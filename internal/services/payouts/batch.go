package payouts

import (
	"context"
	"errors"
	"log"
	"time"

	"legalconnect/internal/models"
	"legalconnect/internal/repositories"

	"github.com/oklog/ulid/v2"
)

// AutoConfirmStale promotes pending payouts past the confirmation window so
// unacknowledged settlements cannot sit forever.
func (s *service) AutoConfirmStale(ctx context.Context) (int64, error) {
	n, err := s.repo.ConfirmStalePending(time.Now().Add(-s.config.AutoConfirmAfter))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.metrics.RecordSweep("auto_confirm", int(n))
	}
	return n, nil
}

// RequeueFailed returns cooled-down failed payouts to confirmed so the next
// batch picks them up again.
func (s *service) RequeueFailed(ctx context.Context) (int64, error) {
	n, err := s.repo.RequeueFailed(time.Now().Add(-s.config.RequeueFailedAfter))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.metrics.RecordSweep("requeue_failed", int(n))
	}
	return n, nil
}

// CreateSettlementBatch claims up to BatchSize confirmed, unbatched payouts
// under a fresh batch id. Claiming happens inside one transaction, so two
// concurrent batch runs split the backlog instead of double-claiming it.
func (s *service) CreateSettlementBatch(ctx context.Context, createdBy uint) (*BatchResult, error) {
	batch := &models.SettlementBatch{
		ID:        ulid.Make().String(),
		CreatedBy: createdBy,
	}

	var claimed []*models.Payout
	err := s.repo.ExecuteInTransaction(func(tx repositories.PayoutRepository) error {
		if err := tx.CreateBatch(batch); err != nil {
			return err
		}
		var err error
		claimed, err = tx.ClaimForBatch(batch.ID, s.config.BatchSize)
		if err != nil {
			return err
		}
		if len(claimed) == 0 {
			return ErrNothingToSettle
		}
		var total int64
		for _, p := range claimed {
			total += p.NetPaise
		}
		batch.PayoutCount = len(claimed)
		batch.TotalNetPaise = total
		return tx.UpdateBatchTotals(batch.ID, batch.PayoutCount, batch.TotalNetPaise)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSweep("batch_claim", len(claimed))
	return &BatchResult{
		BatchID:       batch.ID,
		Claimed:       len(claimed),
		TotalNetPaise: batch.TotalNetPaise,
	}, nil
}

// ProcessBatch executes every confirmed member of a batch against the
// gateway, pacing dispatches with the rate limiter. Individual failures are
// recorded on the payout and counted; they never abort the batch.
func (s *service) ProcessBatch(ctx context.Context, batchID string) (*BatchResult, error) {
	if _, err := s.repo.GetBatch(batchID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}

	out := &BatchResult{BatchID: batchID, Claimed: len(members)}
	for _, p := range members {
		if p.Status != models.PayoutConfirmed {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return out, err
		}
		out.Dispatched++
		done, err := s.Execute(ctx, p.ID)
		if err != nil {
			log.Printf("payout %d failed in batch %s: %v", p.ID, batchID, err)
			out.Failed++
			continue
		}
		out.TotalNetPaise += done.NetPaise
		if done.Status == models.PayoutCompleted {
			out.Completed++
		}
	}
	return out, nil
}

// RunSettlementPass is the scheduled settlement sweep: requeue cooled-down
// failures, claim a fresh batch and push it through the gateway. An empty
// backlog is a normal outcome, not an error.
func (s *service) RunSettlementPass(ctx context.Context) (*BatchResult, error) {
	if _, err := s.RequeueFailed(ctx); err != nil {
		log.Printf("failed to requeue failed payouts: %v", err)
	}
	batch, err := s.CreateSettlementBatch(ctx, 0)
	if err != nil {
		if errors.Is(err, ErrNothingToSettle) {
			return &BatchResult{}, nil
		}
		return nil, err
	}
	return s.ProcessBatch(ctx, batch.BatchID)
}
