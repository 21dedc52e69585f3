package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/punchclock/punchclock/internal/metrics"
	"github.com/punchclock/punchclock/internal/middleware"
	"github.com/punchclock/punchclock/internal/testutil"
)

func newEntryService(t *testing.T) (*EntryService, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	return NewEntryService(store, nil, nil, nil), store
}

func TestEntryService_OpenAndClose(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	entry, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: checkIn, Notes: "morning shift"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if entry.ID == "" {
		t.Error("expected generated entry ID")
	}
	if entry.Date != "2026-03-04" {
		t.Errorf("expected date 2026-03-04, got %q", entry.Date)
	}
	if entry.Hours != nil {
		t.Error("open entry must not have hours")
	}
	if !entry.IsOpen() {
		t.Error("expected entry to be open")
	}
	if entry.Notes == nil || *entry.Notes != "morning shift" {
		t.Error("expected notes to be stored")
	}

	checkOut := checkIn.Add(90 * time.Minute)
	closed, err := svc.Close(ctx, CloseInput{UserID: "user-1", EntryID: entry.ID, CheckOut: checkOut})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Hours == nil || *closed.Hours != 1.5 {
		t.Errorf("expected 1.5 hours, got %v", closed.Hours)
	}
	if closed.Notes != nil {
		t.Error("close without notes must store nil notes")
	}
}

func TestEntryService_Open_EmptyNotesStoredAsEmptyString(t *testing.T) {
	svc, store := newEntryService(t)
	ctx := context.Background()

	entry, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: time.Now()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	stored, err := store.GetEntryByID(ctx, entry.ID, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Notes == nil || *stored.Notes != "" {
		t.Error("open without notes must store an empty string, not NULL")
	}
}

func TestEntryService_Open_MissingCheckIn(t *testing.T) {
	svc, _ := newEntryService(t)

	_, err := svc.Open(context.Background(), OpenInput{UserID: "user-1"})
	if !errors.Is(err, ErrMissingCheckIn) {
		t.Errorf("expected ErrMissingCheckIn, got %v", err)
	}
}

func TestEntryService_Open_AllowsSecondOpenSession(t *testing.T) {
	svc, store := newEntryService(t)
	ctx := context.Background()
	checkIn := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: checkIn}); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: checkIn.Add(time.Hour)}); err != nil {
		t.Fatalf("second open must be allowed: %v", err)
	}
	if store.EntryCount() != 2 {
		t.Errorf("expected 2 stored entries, got %d", store.EntryCount())
	}
}

func TestEntryService_Close_NegativeDurationClampsToZero(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	entry, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: checkIn})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Check-out before check-in.
	closed, err := svc.Close(ctx, CloseInput{UserID: "user-1", EntryID: entry.ID, CheckOut: checkIn.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Hours == nil || *closed.Hours != 0 {
		t.Errorf("expected clamped 0 hours, got %v", closed.Hours)
	}
}

func TestEntryService_Close_RepeatedCloseOverwrites(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	entry, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: checkIn})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := svc.Close(ctx, CloseInput{UserID: "user-1", EntryID: entry.ID, CheckOut: checkIn.Add(time.Hour)}); err != nil {
		t.Fatalf("first close: %v", err)
	}
	closed, err := svc.Close(ctx, CloseInput{UserID: "user-1", EntryID: entry.ID, CheckOut: checkIn.Add(3 * time.Hour)})
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if closed.Hours == nil || *closed.Hours != 3 {
		t.Errorf("expected re-closed hours 3, got %v", closed.Hours)
	}
}

func TestEntryService_Close_MissingCheckOut(t *testing.T) {
	svc, _ := newEntryService(t)

	_, err := svc.Close(context.Background(), CloseInput{UserID: "user-1", EntryID: "x"})
	if !errors.Is(err, ErrMissingCheckOut) {
		t.Errorf("expected ErrMissingCheckOut, got %v", err)
	}
}

func TestEntryService_Close_NotOwned(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	entry, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: time.Now()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err = svc.Close(ctx, CloseInput{UserID: "user-2", EntryID: entry.ID, CheckOut: time.Now()})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("non-owned close must report not found, got %v", err)
	}
}

func TestEntryService_CreateManual_HoursStayUnset(t *testing.T) {
	svc, store := newEntryService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	entry, err := svc.CreateManual(ctx, CreateManualInput{
		UserID:   "user-1",
		CheckIn:  checkIn,
		CheckOut: checkIn.Add(8 * time.Hour),
		Notes:    "backfilled",
	})
	if err != nil {
		t.Fatalf("create manual: %v", err)
	}
	if !entry.ManualEntry {
		t.Error("expected manual_entry flag")
	}
	if entry.CheckOut == nil {
		t.Fatal("manual entry must persist check-out")
	}

	// Hours is never computed for backfilled entries even though both
	// timestamps are present; the summary treats it as zero.
	stored, err := store.GetEntryByID(ctx, entry.ID, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Hours != nil {
		t.Errorf("manual entry hours must stay unset, got %v", *stored.Hours)
	}
}

func TestEntryService_CreateManual_DateOverride(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

	entry, err := svc.CreateManual(ctx, CreateManualInput{
		UserID:   "user-1",
		CheckIn:  checkIn,
		CheckOut: checkIn.Add(time.Hour),
		Date:     "2026-02-09",
	})
	if err != nil {
		t.Fatalf("create manual: %v", err)
	}
	if entry.Date != "2026-02-09" {
		t.Errorf("expected overridden date, got %q", entry.Date)
	}

	_, err = svc.CreateManual(ctx, CreateManualInput{
		UserID:   "user-1",
		CheckIn:  checkIn,
		CheckOut: checkIn.Add(time.Hour),
		Date:     "Feb 9, 2026",
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for malformed date, got %v", err)
	}
}

func TestEntryService_CreateManual_MissingTimestamps(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()
	now := time.Now()

	_, err := svc.CreateManual(ctx, CreateManualInput{UserID: "user-1", CheckOut: now})
	if !errors.Is(err, ErrMissingCheckIn) {
		t.Errorf("expected ErrMissingCheckIn, got %v", err)
	}

	_, err = svc.CreateManual(ctx, CreateManualInput{UserID: "user-1", CheckIn: now})
	if !errors.Is(err, ErrMissingCheckOut) {
		t.Errorf("expected ErrMissingCheckOut, got %v", err)
	}
}

func TestEntryService_List_FilterAndOrder(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	days := []string{"2026-03-02", "2026-03-03", "2026-03-04"}
	for _, day := range days {
		checkIn, _ := time.Parse("2006-01-02", day)
		checkIn = checkIn.Add(9 * time.Hour)
		if _, err := svc.CreateManual(ctx, CreateManualInput{
			UserID:   "user-1",
			CheckIn:  checkIn,
			CheckOut: checkIn.Add(8 * time.Hour),
		}); err != nil {
			t.Fatalf("seed %s: %v", day, err)
		}
	}

	entries, err := svc.List(ctx, ListInput{UserID: "user-1", DateFrom: "2026-03-03", DateTo: "2026-03-04"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(entries))
	}
	if entries[0].Date != "2026-03-04" || entries[1].Date != "2026-03-03" {
		t.Errorf("expected newest-first order, got %s then %s", entries[0].Date, entries[1].Date)
	}

	limited, err := svc.List(ctx, ListInput{UserID: "user-1", Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Date != "2026-03-04" {
		t.Error("limit must truncate after ordering")
	}

	if _, err := svc.List(ctx, ListInput{UserID: "user-1", DateFrom: "03/03/2026"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for malformed bound, got %v", err)
	}
}

func TestEntryService_Delete(t *testing.T) {
	svc, store := newEntryService(t)
	ctx := context.Background()

	entry, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: time.Now()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := svc.Delete(ctx, "user-2", entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("non-owned delete must report not found, got %v", err)
	}
	if err := svc.Delete(ctx, "user-1", entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.EntryCount() != 0 {
		t.Error("expected entry to be removed")
	}
	if err := svc.Delete(ctx, "user-1", entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("repeated delete must report not found, got %v", err)
	}
}

func TestEntryService_NotesTooLong(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()
	long := strings.Repeat("x", middleware.MaxNotesLength+1)

	if _, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: time.Now(), Notes: long}); !errors.Is(err, ErrNotesTooLong) {
		t.Errorf("expected ErrNotesTooLong on open, got %v", err)
	}
}

func TestEntryService_RecordsMetrics(t *testing.T) {
	store := testutil.NewMemStore()
	recorder := metrics.NewInMemory()
	svc := NewEntryService(store, nil, nil, recorder)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	entry, err := svc.Open(ctx, OpenInput{UserID: "user-1", CheckIn: checkIn})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Close(ctx, CloseInput{UserID: "user-1", EntryID: entry.ID, CheckOut: checkIn.Add(time.Hour)}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.CreateManual(ctx, CreateManualInput{UserID: "user-1", CheckIn: checkIn, CheckOut: checkIn.Add(time.Hour)}); err != nil {
		t.Fatalf("manual: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap := recorder.Snapshot()
	if snap.EntriesOpened != 1 || snap.EntriesClosed != 1 || snap.EntriesManual != 1 || snap.EntriesDeleted != 1 {
		t.Errorf("unexpected counters: %+v", snap)
	}
}

func TestClampHours(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"positive", 7.5, 7.5},
		{"zero", 0, 0},
		{"negative", -2, 0},
		{"nan", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampHours(tt.input); got != tt.want {
				t.Errorf("clampHours(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
