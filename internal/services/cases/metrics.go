package cases

// NoopMetricsCollector is used when no metrics backend is wired.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransition(from, to string) {}
