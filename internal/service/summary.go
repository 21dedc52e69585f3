package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/punchclock/punchclock/internal/cache"
	"github.com/punchclock/punchclock/internal/metrics"
	"github.com/punchclock/punchclock/internal/model"
	"github.com/punchclock/punchclock/internal/repository"
	"github.com/punchclock/punchclock/internal/timeutil"
)

// SummaryCache is the read/write surface of the summary cache.
// Implemented by *cache.Cache.
type SummaryCache interface {
	GetSummary(ctx context.Context, userID string) (*model.Summary, error)
	SetSummary(ctx context.Context, userID string, summary *model.Summary, ttl time.Duration) error
	InvalidateSummary(ctx context.Context, userID string) error
}

// ReportService computes summaries and weekly exports over the ledger.
type ReportService struct {
	store    EntryStore
	users    UserStore
	cache    SummaryCache
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder
	// now is swappable in tests.
	now func() time.Time
}

// NewReportService creates a new ReportService. cache may be nil.
func NewReportService(store EntryStore, users UserStore, summaryCache SummaryCache, cacheTTL time.Duration, logger *slog.Logger, recorder metrics.Recorder) *ReportService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultSummaryTTL
	}
	return &ReportService{
		store:    store,
		users:    users,
		cache:    summaryCache,
		cacheTTL: cacheTTL,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Summary returns the three activity buckets for a user, serving from
// the cache when a fresh copy exists.
func (s *ReportService) Summary(ctx context.Context, userID string) (*model.Summary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, userID)
		if err == nil {
			s.metrics.IncSummaryCacheHit()
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) && s.logger != nil {
			s.logger.Warn("summary cache read failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		s.metrics.IncSummaryCacheMiss()
	}

	start := time.Now()
	now := s.now()

	weekStart := timeutil.DateKey(timeutil.WeekStart(now))
	monthStart := timeutil.DateKey(timeutil.MonthStart(now))
	lowerBound := weekStart
	if monthStart < lowerBound {
		lowerBound = monthStart
	}

	entries, err := s.store.ListEntries(ctx, repository.EntryFilter{
		UserID:   userID,
		DateFrom: lowerBound,
	})
	if err != nil {
		return nil, err
	}

	summary := aggregate(entries, now)
	s.metrics.ObserveSummaryDuration(time.Since(start))

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, userID, summary, s.cacheTTL); err != nil && s.logger != nil {
			s.logger.Warn("summary cache write failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return summary, nil
}

// aggregate computes the three buckets over a user's entries.
//
// Bucket membership is a string comparison of stored date keys. The
// week bucket counts distinct check-in days while the month bucket
// counts distinct stored dates; the two conventions differ on manual
// entries whose date was overridden, and both are kept as-is. Both
// windows are open-ended forward, so future-dated entries count.
func aggregate(entries []*model.TimeEntry, now time.Time) *model.Summary {
	today := timeutil.DateKey(now)
	weekStart := timeutil.DateKey(timeutil.WeekStart(now))
	monthStart := timeutil.DateKey(timeutil.MonthStart(now))

	var summary model.Summary
	weekDays := make(map[string]struct{})
	monthDays := make(map[string]struct{})

	for _, e := range entries {
		hours := e.HoursOrZero()

		if e.Date == today {
			summary.Today.Count++
			summary.Today.Hours += hours
		}

		if e.Date >= weekStart {
			weekDays[timeutil.DateKey(e.CheckIn)] = struct{}{}
			summary.ThisWeek.Hours += hours
		}

		if e.Date >= monthStart {
			monthDays[e.Date] = struct{}{}
			summary.ThisMonth.Hours += hours
		}
	}

	summary.ThisWeek.Count = len(weekDays)
	summary.ThisMonth.Count = len(monthDays)
	return &summary
}
