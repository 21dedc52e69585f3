package service

import (
	"context"
	"testing"
	"time"

	"github.com/punchclock/punchclock/internal/model"
	"github.com/punchclock/punchclock/internal/testutil"
)

// fixedNow is a Wednesday; its week runs 2026-03-02 through 2026-03-08.
var fixedNow = time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)

func entryOn(userID, date string, checkIn time.Time, hours *float64) *model.TimeEntry {
	return &model.TimeEntry{
		ID:      "e-" + date + checkIn.Format("150405"),
		UserID:  userID,
		CheckIn: checkIn,
		Date:    date,
		Hours:   hours,
	}
}

func hoursPtr(h float64) *float64 { return &h }

func TestAggregate_TodayBucket(t *testing.T) {
	entries := []*model.TimeEntry{
		entryOn("u", "2026-03-04", time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), hoursPtr(1.0)),
		entryOn("u", "2026-03-04", time.Date(2026, 3, 4, 13, 0, 0, 0, time.UTC), hoursPtr(0.5)),
		entryOn("u", "2026-03-03", time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), hoursPtr(8)),
	}

	summary := aggregate(entries, fixedNow)

	if summary.Today.Count != 2 {
		t.Errorf("today count = %d, want 2 (sessions, not days)", summary.Today.Count)
	}
	if summary.Today.Hours != 1.5 {
		t.Errorf("today hours = %v, want 1.5", summary.Today.Hours)
	}
}

func TestAggregate_WeekCountsDistinctCheckInDays(t *testing.T) {
	// Two sessions on the same check-in day count as one week day.
	entries := []*model.TimeEntry{
		entryOn("u", "2026-03-02", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), hoursPtr(4)),
		entryOn("u", "2026-03-02", time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), hoursPtr(3)),
		entryOn("u", "2026-03-03", time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), hoursPtr(8)),
	}

	summary := aggregate(entries, fixedNow)

	if summary.ThisWeek.Count != 2 {
		t.Errorf("week count = %d, want 2 distinct check-in days", summary.ThisWeek.Count)
	}
	if summary.ThisWeek.Hours != 15 {
		t.Errorf("week hours = %v, want 15", summary.ThisWeek.Hours)
	}
}

func TestAggregate_WeekAndMonthConventionsDiverge(t *testing.T) {
	// A manual entry whose stored date was overridden to a different
	// day than its check-in. The week bucket keys on the check-in day,
	// the month bucket on the stored date; the divergence is kept.
	entries := []*model.TimeEntry{
		entryOn("u", "2026-03-03", time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC), hoursPtr(2)),
		entryOn("u", "2026-03-02", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), hoursPtr(4)),
	}

	summary := aggregate(entries, fixedNow)

	if summary.ThisWeek.Count != 1 {
		t.Errorf("week count = %d, want 1 (both check-ins on 03-02)", summary.ThisWeek.Count)
	}
	if summary.ThisMonth.Count != 2 {
		t.Errorf("month count = %d, want 2 (distinct stored dates)", summary.ThisMonth.Count)
	}
}

func TestAggregate_OpenAndManualEntriesContributeZeroHours(t *testing.T) {
	entries := []*model.TimeEntry{
		// Open session: no hours yet.
		entryOn("u", "2026-03-04", time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), nil),
		// Manual entry: hours never computed.
		func() *model.TimeEntry {
			e := entryOn("u", "2026-03-03", time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), nil)
			out := time.Date(2026, 3, 3, 17, 0, 0, 0, time.UTC)
			e.CheckOut = &out
			e.ManualEntry = true
			return e
		}(),
	}

	summary := aggregate(entries, fixedNow)

	if summary.Today.Hours != 0 || summary.ThisWeek.Hours != 0 {
		t.Errorf("entries without computed hours must contribute 0, got today=%v week=%v",
			summary.Today.Hours, summary.ThisWeek.Hours)
	}
	if summary.Today.Count != 1 {
		t.Errorf("open session still counts as a today session, got %d", summary.Today.Count)
	}
	if summary.ThisWeek.Count != 2 {
		t.Errorf("week count = %d, want 2", summary.ThisWeek.Count)
	}
}

func TestAggregate_FutureDatedEntriesCount(t *testing.T) {
	// Both windows are open-ended forward.
	entries := []*model.TimeEntry{
		entryOn("u", "2026-03-07", time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC), hoursPtr(6)),
		entryOn("u", "2026-03-28", time.Date(2026, 3, 28, 9, 0, 0, 0, time.UTC), hoursPtr(2)),
	}

	summary := aggregate(entries, fixedNow)

	if summary.ThisWeek.Count != 2 {
		t.Errorf("week count = %d, want 2 (2026-03-28 is >= week start)", summary.ThisWeek.Count)
	}
	if summary.ThisMonth.Hours != 8 {
		t.Errorf("month hours = %v, want 8", summary.ThisMonth.Hours)
	}
	if summary.Today.Count != 0 {
		t.Errorf("today count = %d, want 0", summary.Today.Count)
	}
}

func TestAggregate_EntriesBeforeWindowsExcluded(t *testing.T) {
	entries := []*model.TimeEntry{
		entryOn("u", "2026-02-27", time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC), hoursPtr(8)),
	}

	summary := aggregate(entries, fixedNow)

	if summary.ThisWeek.Count != 0 || summary.ThisMonth.Count != 0 {
		t.Errorf("February entry must not count in March buckets, got week=%d month=%d",
			summary.ThisWeek.Count, summary.ThisMonth.Count)
	}
}

func TestReportService_Summary_FetchesAndAggregates(t *testing.T) {
	store := testutil.NewMemStore()
	ctx := context.Background()

	seed := []*model.TimeEntry{
		entryOn("u", "2026-03-04", time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), hoursPtr(2)),
		entryOn("u", "2026-03-01", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), hoursPtr(5)),
		// Another user's entry must not leak in.
		entryOn("other", "2026-03-04", time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC), hoursPtr(9)),
	}
	for _, e := range seed {
		if err := store.CreateEntry(ctx, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewReportService(store, store, nil, 0, nil, nil)
	svc.now = func() time.Time { return fixedNow }

	summary, err := svc.Summary(ctx, "u")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.Today.Count != 1 || summary.Today.Hours != 2 {
		t.Errorf("today = %+v, want 1 session / 2 hours", summary.Today)
	}
	// 2026-03-01 is a Sunday: inside the month window, before the week.
	if summary.ThisWeek.Hours != 2 {
		t.Errorf("week hours = %v, want 2", summary.ThisWeek.Hours)
	}
	if summary.ThisMonth.Count != 2 || summary.ThisMonth.Hours != 7 {
		t.Errorf("month = %+v, want 2 days / 7 hours", summary.ThisMonth)
	}
}
