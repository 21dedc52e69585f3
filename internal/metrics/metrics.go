// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Ledger metrics
	IncEntryOpened()
	IncEntryClosed()
	IncEntryManual()
	IncEntryDeleted()

	// Summary metrics
	IncSummaryCacheHit()
	IncSummaryCacheMiss()
	ObserveSummaryDuration(duration time.Duration)

	// Report metrics
	IncReportGenerated()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
