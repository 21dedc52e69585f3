package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/punchclock/punchclock/internal/auth"
	"github.com/punchclock/punchclock/internal/handler/dto"
	"github.com/punchclock/punchclock/internal/service"
)

// EntryHandler handles HTTP requests for time entries.
type EntryHandler struct {
	svc    *service.EntryService
	logger *slog.Logger
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(svc *service.EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/entries. Without manual_entry it opens a
// live session; with manual_entry and a check_out it backfills one.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.CheckIn == nil {
		writeError(w, http.StatusBadRequest, "MISSING_CHECK_IN", "check_in is required")
		return
	}

	if req.ManualEntry {
		if req.CheckOut == nil {
			writeError(w, http.StatusBadRequest, "MISSING_CHECK_OUT", "check_out is required for manual entries")
			return
		}

		entry, err := h.svc.CreateManual(r.Context(), service.CreateManualInput{
			UserID:   userID,
			CheckIn:  *req.CheckIn,
			CheckOut: *req.CheckOut,
			Date:     req.Date,
			Notes:    req.Notes,
		})
		if err != nil {
			h.handleServiceError(w, err)
			return
		}

		h.logger.Info("entry_backfilled", "entry_id", entry.ID, "user_id", userID)
		writeJSON(w, http.StatusCreated, dto.ToEntryResponse(entry))
		return
	}

	entry, err := h.svc.Open(r.Context(), service.OpenInput{
		UserID:  userID,
		CheckIn: *req.CheckIn,
		Notes:   req.Notes,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("entry_opened", "entry_id", entry.ID, "user_id", userID)
	writeJSON(w, http.StatusCreated, dto.ToEntryResponse(entry))
}

// Close handles PUT /api/v1/entries/{id}.
func (h *EntryHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.CloseEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.CheckOut == nil {
		writeError(w, http.StatusBadRequest, "MISSING_CHECK_OUT", "check_out is required")
		return
	}

	entry, err := h.svc.Close(r.Context(), service.CloseInput{
		UserID:   userID,
		EntryID:  id,
		CheckOut: *req.CheckOut,
		Notes:    req.Notes,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("entry_closed", "entry_id", entry.ID, "user_id", userID)
	writeJSON(w, http.StatusOK, dto.ToEntryResponse(entry))
}

// List handles GET /api/v1/entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	query := r.URL.Query()

	limit := 0
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.svc.List(r.Context(), service.ListInput{
		UserID:   userID,
		DateFrom: query.Get("start_date"),
		DateTo:   query.Get("end_date"),
		Limit:    limit,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntryListResponse(entries))
}

// Delete handles DELETE /api/v1/entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("entry_deleted", "entry_id", id, "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps entry service errors to HTTP responses.
func (h *EntryHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "ENTRY_NOT_FOUND", "Time entry not found")
	case errors.Is(err, service.ErrMissingCheckIn):
		writeError(w, http.StatusBadRequest, "MISSING_CHECK_IN", "check_in is required")
	case errors.Is(err, service.ErrMissingCheckOut):
		writeError(w, http.StatusBadRequest, "MISSING_CHECK_OUT", "check_out is required")
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrNotesTooLong):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
