package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEntryOpened is a no-op.
func (n *NoopRecorder) IncEntryOpened() {}

// IncEntryClosed is a no-op.
func (n *NoopRecorder) IncEntryClosed() {}

// IncEntryManual is a no-op.
func (n *NoopRecorder) IncEntryManual() {}

// IncEntryDeleted is a no-op.
func (n *NoopRecorder) IncEntryDeleted() {}

// IncSummaryCacheHit is a no-op.
func (n *NoopRecorder) IncSummaryCacheHit() {}

// IncSummaryCacheMiss is a no-op.
func (n *NoopRecorder) IncSummaryCacheMiss() {}

// ObserveSummaryDuration is a no-op.
func (n *NoopRecorder) ObserveSummaryDuration(duration time.Duration) {}

// IncReportGenerated is a no-op.
func (n *NoopRecorder) IncReportGenerated() {}
