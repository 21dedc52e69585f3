// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/punchclock/punchclock/internal/metrics"
	"github.com/punchclock/punchclock/internal/middleware"
	"github.com/punchclock/punchclock/internal/model"
	"github.com/punchclock/punchclock/internal/repository"
	"github.com/punchclock/punchclock/internal/timeutil"
)

// Service errors.
var (
	ErrEntryNotFound   = errors.New("time entry not found")
	ErrMissingCheckIn  = errors.New("check_in is required")
	ErrMissingCheckOut = errors.New("check_out is required")
	ErrInvalidDate     = errors.New("date must be in YYYY-MM-DD format")
	ErrNotesTooLong    = errors.New("notes exceed maximum length")
)

// EntryStore is the persistence surface the ledger needs. Implemented
// by *repository.Repository and by the in-memory test store.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *model.TimeEntry) error
	GetEntryByID(ctx context.Context, id, userID string) (*model.TimeEntry, error)
	CloseEntry(ctx context.Context, id, userID string, checkOut time.Time, hours float64, notes *string) error
	ListEntries(ctx context.Context, filter repository.EntryFilter) ([]*model.TimeEntry, error)
	DeleteEntry(ctx context.Context, id, userID string) error
}

// SummaryInvalidator drops a user's cached summary after a ledger
// mutation. Implemented by *cache.Cache.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context, userID string) error
}

// EntryService handles time entry business logic.
type EntryService struct {
	store   EntryStore
	cache   SummaryInvalidator
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewEntryService creates a new EntryService. cache may be nil when no
// summary cache is configured.
func NewEntryService(store EntryStore, cache SummaryInvalidator, logger *slog.Logger, recorder metrics.Recorder) *EntryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EntryService{
		store:   store,
		cache:   cache,
		logger:  logger,
		metrics: recorder,
	}
}

// OpenInput defines input for opening a work session.
type OpenInput struct {
	UserID  string
	CheckIn time.Time
	Notes   string
}

// Open creates an open entry for a check-in. The server does not
// reject a second open session; enforcing a single live session is a
// client convention.
func (s *EntryService) Open(ctx context.Context, input OpenInput) (*model.TimeEntry, error) {
	if input.CheckIn.IsZero() {
		return nil, ErrMissingCheckIn
	}
	if err := middleware.ValidateNotes(input.Notes); err != nil {
		return nil, ErrNotesTooLong
	}

	now := time.Now().UTC()
	notes := input.Notes
	entry := &model.TimeEntry{
		ID:          ulid.Make().String(),
		UserID:      input.UserID,
		CheckIn:     input.CheckIn,
		Date:        timeutil.DateKey(input.CheckIn),
		Notes:       &notes,
		ManualEntry: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.IncEntryOpened()
	s.invalidateSummary(ctx, input.UserID)
	return entry, nil
}

// CloseInput defines input for closing a work session.
type CloseInput struct {
	UserID   string
	EntryID  string
	CheckOut time.Time
	Notes    *string
}

// Close records a check-out on an entry and computes worked hours.
// A repeated close overwrites the previous check-out, hours and notes.
func (s *EntryService) Close(ctx context.Context, input CloseInput) (*model.TimeEntry, error) {
	if input.CheckOut.IsZero() {
		return nil, ErrMissingCheckOut
	}
	if input.Notes != nil {
		if err := middleware.ValidateNotes(*input.Notes); err != nil {
			return nil, ErrNotesTooLong
		}
	}

	entry, err := s.store.GetEntryByID(ctx, input.EntryID, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	hours := clampHours(input.CheckOut.Sub(entry.CheckIn).Hours())

	if err := s.store.CloseEntry(ctx, input.EntryID, input.UserID, input.CheckOut, hours, input.Notes); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	out := input.CheckOut
	entry.CheckOut = &out
	entry.Hours = &hours
	entry.Notes = input.Notes
	entry.UpdatedAt = time.Now().UTC()

	s.metrics.IncEntryClosed()
	s.invalidateSummary(ctx, input.UserID)
	return entry, nil
}

// CreateManualInput defines input for a backfilled entry.
type CreateManualInput struct {
	UserID   string
	CheckIn  time.Time
	CheckOut time.Time
	Date     string
	Notes    string
}

// CreateManual persists a backfilled entry with both timestamps set.
// Hours stays unset: manual entries never go through the close path
// that computes it, and the summary treats a missing value as zero.
func (s *EntryService) CreateManual(ctx context.Context, input CreateManualInput) (*model.TimeEntry, error) {
	if input.CheckIn.IsZero() {
		return nil, ErrMissingCheckIn
	}
	if input.CheckOut.IsZero() {
		return nil, ErrMissingCheckOut
	}
	if err := middleware.ValidateDateKey(input.Date); err != nil {
		return nil, ErrInvalidDate
	}
	if err := middleware.ValidateNotes(input.Notes); err != nil {
		return nil, ErrNotesTooLong
	}

	date := input.Date
	if date == "" {
		date = timeutil.DateKey(input.CheckIn)
	}

	now := time.Now().UTC()
	out := input.CheckOut
	notes := input.Notes
	entry := &model.TimeEntry{
		ID:          ulid.Make().String(),
		UserID:      input.UserID,
		CheckIn:     input.CheckIn,
		CheckOut:    &out,
		Date:        date,
		Notes:       &notes,
		ManualEntry: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.IncEntryManual()
	s.invalidateSummary(ctx, input.UserID)
	return entry, nil
}

// ListInput defines filters for listing entries.
type ListInput struct {
	UserID   string
	DateFrom string
	DateTo   string
	Limit    int
}

// List returns a user's entries, newest first, with inclusive date
// bounds applied to the stored date field.
func (s *EntryService) List(ctx context.Context, input ListInput) ([]*model.TimeEntry, error) {
	if err := middleware.ValidateDateKey(input.DateFrom); err != nil {
		return nil, ErrInvalidDate
	}
	if err := middleware.ValidateDateKey(input.DateTo); err != nil {
		return nil, ErrInvalidDate
	}

	return s.store.ListEntries(ctx, repository.EntryFilter{
		UserID:   input.UserID,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Limit:    input.Limit,
	})
}

// Delete removes an entry owned by the user.
func (s *EntryService) Delete(ctx context.Context, userID, entryID string) error {
	if err := s.store.DeleteEntry(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	s.metrics.IncEntryDeleted()
	s.invalidateSummary(ctx, userID)
	return nil
}

// invalidateSummary drops the user's cached summary. Cache failures
// only shorten staleness guarantees, so they are logged and swallowed.
func (s *EntryService) invalidateSummary(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummary(ctx, userID); err != nil && s.logger != nil {
		s.logger.Warn("failed to invalidate summary cache",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// clampHours normalizes a raw duration in hours: negative or
// non-finite values collapse to zero.
func clampHours(hours float64) float64 {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0
	}
	return hours
}
