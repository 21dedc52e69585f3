package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/punchclock/punchclock/internal/model"
	"github.com/punchclock/punchclock/internal/testutil"
)

func TestReportService_WeeklyReport(t *testing.T) {
	store := testutil.NewMemStore()
	ctx := context.Background()

	user := &model.User{ID: "u", Name: "Alice", Email: "alice@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	open := entryOn("u", "2026-03-04", time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), nil)
	closed := entryOn("u", "2026-03-03", time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), hoursPtr(7.25))
	out := time.Date(2026, 3, 3, 16, 15, 0, 0, time.UTC)
	closed.CheckOut = &out
	outsideWeek := entryOn("u", "2026-02-27", time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC), hoursPtr(8))

	for _, e := range []*model.TimeEntry{open, closed, outsideWeek} {
		if err := store.CreateEntry(ctx, e); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	svc := NewReportService(store, store, nil, 0, nil, nil)
	svc.now = func() time.Time { return fixedNow }

	report, err := svc.WeeklyReport(ctx, "u")
	if err != nil {
		t.Fatalf("weekly report: %v", err)
	}

	if report.Filename != "TimeTracker_Week_2026-03-02_to_2026-03-08.xlsx" {
		t.Errorf("unexpected filename %q", report.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(report.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Summary" || sheets[1] != "Alice" {
		t.Fatalf("expected [Summary Alice] sheets, got %v", sheets)
	}

	// Entries are newest-first, so row 2 is the open Wednesday session.
	checkOut, err := f.GetCellValue("Summary", "D2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if checkOut != "Working..." {
		t.Errorf("open session check-out = %q, want Working...", checkOut)
	}

	hours, err := f.GetCellValue("Summary", "E3")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if hours != "7.25" {
		t.Errorf("closed session hours = %q, want 7.25", hours)
	}

	// Row 4 is the weekly total; the February entry is excluded.
	total, err := f.GetCellValue("Summary", "E4")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if total != "7.25" {
		t.Errorf("weekly total = %q, want 7.25", total)
	}

	userHours, err := f.GetCellValue("Alice", "D3")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if userHours != "7.25" {
		t.Errorf("user sheet hours = %q, want 7.25", userHours)
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Alice", "Alice"},
		{"forbidden characters", "a/b:c*d", "a_b_c_d"},
		{"empty", "  ", "Entries"},
		{"collides with summary sheet", "Summary", "Entries"},
		{"too long", "abcdefghijklmnopqrstuvwxyz0123456789", "abcdefghijklmnopqrstuvwxyz01234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeSheetName(tt.input); got != tt.want {
				t.Errorf("sanitizeSheetName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
