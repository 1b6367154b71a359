package payouts

import "time"

// Config holds the knobs for the settlement engine. Zero values fall back to
// the defaults in NewService.
type Config struct {
	// AutoConfirmAfter is how long a payout may sit in pending before the
	// sweep confirms it without operator action.
	AutoConfirmAfter time.Duration
	// RequeueFailedAfter is the cooldown before a failed payout is handed
	// back to the batch pass.
	RequeueFailedAfter time.Duration
	// BatchSize caps how many payouts one settlement batch claims.
	BatchSize int
	// GatewayRPS rate-limits batch dispatch against the provider.
	GatewayRPS int
}

// Default configuration values
const (
	DefaultAutoConfirmAfter   = 7 * 24 * time.Hour
	DefaultRequeueFailedAfter = time.Hour
	DefaultBatchSize          = 100
	DefaultGatewayRPS         = 5

	// IMPS transfers are capped by the provider; larger nets go out as NEFT.
	impsLimitPaise = int64(50_000_000)
)

// BatchResult summarizes one settlement pass over a batch.
type BatchResult struct {
	BatchID       string `json:"batch_id"`
	Claimed       int    `json:"claimed"`
	Dispatched    int    `json:"dispatched"`
	Completed     int    `json:"completed"`
	Failed        int    `json:"failed"`
	TotalNetPaise int64  `json:"total_net_paise"`
}

// MetricsCollector records settlement outcomes.
type MetricsCollector interface {
	RecordPayoutStatus(status string)
	RecordPayoutVolume(netPaise int64)
	RecordWebhookEvent(event string, applied bool)
	RecordSweep(sweep string, rows int)
}
