package opinions

// MetricsCollector defines the interface for recording lifecycle metrics
type MetricsCollector interface {
	RecordTransition(from, to string)
}

// NoopMetricsCollector is used when no metrics backend is wired.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransition(from, to string) {}
