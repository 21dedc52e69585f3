package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/punchclock/punchclock/internal/model"
	"github.com/punchclock/punchclock/internal/repository"
	"github.com/punchclock/punchclock/internal/timeutil"
)

const (
	summarySheet = "Summary"

	// openCheckOutLabel is rendered for sessions without a check-out.
	openCheckOutLabel = "Working..."

	timestampLayout = "2006-01-02 15:04"

	// maxSheetNameLength is the XLSX limit on sheet names.
	maxSheetNameLength = 31
)

// WeeklyReportOutput carries a generated XLSX workbook.
type WeeklyReportOutput struct {
	Filename string
	Data     []byte
}

// WeeklyReport builds the current week's two-sheet XLSX export: a
// Summary sheet with every entry plus a weekly total, and a second
// sheet named after the user with the same rows. The week runs Monday
// through Sunday over stored dates, inclusive.
func (s *ReportService) WeeklyReport(ctx context.Context, userID string) (*WeeklyReportOutput, error) {
	now := s.now()
	startKey := timeutil.DateKey(timeutil.WeekStart(now))
	endKey := timeutil.DateKey(timeutil.WeekEnd(now))

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntries(ctx, repository.EntryFilter{
		UserID:   userID,
		DateFrom: startKey,
		DateTo:   endKey,
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	if err := writeEntrySheet(f, summarySheet, user.Name, entries, true); err != nil {
		return nil, err
	}

	userSheet := sanitizeSheetName(user.Name)
	if _, err := f.NewSheet(userSheet); err != nil {
		return nil, fmt.Errorf("create user sheet: %w", err)
	}
	if err := writeEntrySheet(f, userSheet, user.Name, entries, false); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}

	s.metrics.IncReportGenerated()

	return &WeeklyReportOutput{
		Filename: fmt.Sprintf("TimeTracker_Week_%s_to_%s.xlsx", startKey, endKey),
		Data:     buf.Bytes(),
	}, nil
}

// writeEntrySheet fills a sheet with one row per entry and a weekly
// total. The summary variant carries a leading User column.
func writeEntrySheet(f *excelize.File, sheet, userName string, entries []*model.TimeEntry, withUser bool) error {
	header := []any{"Date", "Check In", "Check Out", "Hours", "Notes"}
	if withUser {
		header = append([]any{"User"}, header...)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	var totalHours float64
	row := 2
	for _, e := range entries {
		checkOut := openCheckOutLabel
		if e.CheckOut != nil {
			checkOut = e.CheckOut.Format(timestampLayout)
		}
		hours := roundHours(e.HoursOrZero())
		totalHours += e.HoursOrZero()

		values := []any{
			e.Date,
			e.CheckIn.Format(timestampLayout),
			checkOut,
			hours,
			notesOrEmpty(e.Notes),
		}
		if withUser {
			values = append([]any{userName}, values...)
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write entry row: %w", err)
		}
		row++
	}

	total := []any{"Weekly Total", "", "", roundHours(totalHours), ""}
	if withUser {
		total = append([]any{""}, total...)
	}
	totalCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("total row coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, totalCell, &total); err != nil {
		return fmt.Errorf("write total row: %w", err)
	}

	lastCol := "E"
	if withUser {
		lastCol = "F"
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	return nil
}

// sanitizeSheetName strips characters XLSX forbids in sheet names and
// truncates to the format limit.
func sanitizeSheetName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))

	if cleaned == "" || cleaned == summarySheet {
		cleaned = "Entries"
	}
	if len(cleaned) > maxSheetNameLength {
		cleaned = cleaned[:maxSheetNameLength]
	}
	return cleaned
}

func roundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}

func notesOrEmpty(notes *string) string {
	if notes == nil {
		return ""
	}
	return *notes
}
