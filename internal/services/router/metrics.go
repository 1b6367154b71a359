package router

import "time"

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordRouteResult(string)          {}
func (n *NoopMetricsCollector) RecordRouteDuration(time.Duration) {}
func (n *NoopMetricsCollector) RecordCacheHit(string)             {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)            {}
