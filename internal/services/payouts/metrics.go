package payouts

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordPayoutStatus(string)       {}
func (n *NoopMetricsCollector) RecordPayoutVolume(int64)        {}
func (n *NoopMetricsCollector) RecordWebhookEvent(string, bool) {}
func (n *NoopMetricsCollector) RecordSweep(string, int)         {}
