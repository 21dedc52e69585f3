package handler

import (
	"fmt"
	"net/http"

	"github.com/punchclock/punchclock/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "punchclock_entries_opened_total %d\n", snap.EntriesOpened)
	writeMetric(w, "punchclock_entries_closed_total %d\n", snap.EntriesClosed)
	writeMetric(w, "punchclock_entries_manual_total %d\n", snap.EntriesManual)
	writeMetric(w, "punchclock_entries_deleted_total %d\n", snap.EntriesDeleted)

	writeMetric(w, "punchclock_summary_cache_hits_total %d\n", snap.SummaryCacheHits)
	writeMetric(w, "punchclock_summary_cache_misses_total %d\n", snap.SummaryCacheMisses)
	writeMetric(w, "punchclock_summary_duration_seconds_count %d\n", snap.SummaryDurationCount)
	writeMetric(w, "punchclock_summary_duration_seconds_sum %.6f\n", float64(snap.SummaryDurationTotalNs)/1e9)

	writeMetric(w, "punchclock_reports_generated_total %d\n", snap.ReportsGenerated)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
