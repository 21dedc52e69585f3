package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/punchclock/punchclock/internal/auth"
	"github.com/punchclock/punchclock/internal/service"
)

// ReportHandler handles summary and export endpoints.
type ReportHandler struct {
	svc    *service.ReportService
	logger *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		svc:    svc,
		logger: logger,
	}
}

// Summary handles GET /api/v1/reports/summary.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Weekly handles GET /api/v1/reports/weekly and streams the current
// week's XLSX workbook as an attachment.
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	report, err := h.svc.WeeklyReport(r.Context(), userID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("weekly_report_generated", "user_id", userID, "bytes", len(report.Data))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(report.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Data); err != nil {
		_ = err
	}
}
