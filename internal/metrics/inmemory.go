package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EntriesOpened          uint64
	EntriesClosed          uint64
	EntriesManual          uint64
	EntriesDeleted         uint64
	SummaryCacheHits       uint64
	SummaryCacheMisses     uint64
	SummaryDurationCount   uint64
	SummaryDurationTotalNs int64
	ReportsGenerated       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	entriesOpened          uint64
	entriesClosed          uint64
	entriesManual          uint64
	entriesDeleted         uint64
	summaryCacheHits       uint64
	summaryCacheMisses     uint64
	summaryDurationCount   uint64
	summaryDurationTotalNs int64
	reportsGenerated       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		EntriesOpened:          atomic.LoadUint64(&m.entriesOpened),
		EntriesClosed:          atomic.LoadUint64(&m.entriesClosed),
		EntriesManual:          atomic.LoadUint64(&m.entriesManual),
		EntriesDeleted:         atomic.LoadUint64(&m.entriesDeleted),
		SummaryCacheHits:       atomic.LoadUint64(&m.summaryCacheHits),
		SummaryCacheMisses:     atomic.LoadUint64(&m.summaryCacheMisses),
		SummaryDurationCount:   atomic.LoadUint64(&m.summaryDurationCount),
		SummaryDurationTotalNs: atomic.LoadInt64(&m.summaryDurationTotalNs),
		ReportsGenerated:       atomic.LoadUint64(&m.reportsGenerated),
	}
}

// IncEntryOpened increments the opened-entry counter.
func (m *InMemoryRecorder) IncEntryOpened() {
	atomic.AddUint64(&m.entriesOpened, 1)
}

// IncEntryClosed increments the closed-entry counter.
func (m *InMemoryRecorder) IncEntryClosed() {
	atomic.AddUint64(&m.entriesClosed, 1)
}

// IncEntryManual increments the manual-entry counter.
func (m *InMemoryRecorder) IncEntryManual() {
	atomic.AddUint64(&m.entriesManual, 1)
}

// IncEntryDeleted increments the deleted-entry counter.
func (m *InMemoryRecorder) IncEntryDeleted() {
	atomic.AddUint64(&m.entriesDeleted, 1)
}

// IncSummaryCacheHit increments the summary cache hit counter.
func (m *InMemoryRecorder) IncSummaryCacheHit() {
	atomic.AddUint64(&m.summaryCacheHits, 1)
}

// IncSummaryCacheMiss increments the summary cache miss counter.
func (m *InMemoryRecorder) IncSummaryCacheMiss() {
	atomic.AddUint64(&m.summaryCacheMisses, 1)
}

// ObserveSummaryDuration records how long a summary computation took.
func (m *InMemoryRecorder) ObserveSummaryDuration(duration time.Duration) {
	atomic.AddUint64(&m.summaryDurationCount, 1)
	atomic.AddInt64(&m.summaryDurationTotalNs, duration.Nanoseconds())
}

// IncReportGenerated increments the generated-report counter.
func (m *InMemoryRecorder) IncReportGenerated() {
	atomic.AddUint64(&m.reportsGenerated, 1)
}
