package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/punchclock/punchclock/internal/model"
)

// Common errors for time entry repository operations.
var (
	// ErrEntryNotFound covers both an absent entry and an entry owned by
	// another user; the two cases are deliberately indistinguishable.
	ErrEntryNotFound = errors.New("time entry not found")
)

// EntryFilter defines filters for listing time entries.
// DateFrom and DateTo are inclusive bounds on the stored date field
// (YYYY-MM-DD, compared lexicographically), not on the check-in instant.
type EntryFilter struct {
	UserID   string
	DateFrom string
	DateTo   string
	Limit    int
}

// CreateEntry inserts a new time entry into the database.
func (r *Repository) CreateEntry(ctx context.Context, entry *model.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, user_id, check_in, check_out, hours, date, notes, manual_entry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.CheckIn,
		entry.CheckOut,
		entry.Hours,
		entry.Date,
		entry.Notes,
		entry.ManualEntry,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	return nil
}

// GetEntryByID retrieves a time entry by ID, scoped to its owner.
func (r *Repository) GetEntryByID(ctx context.Context, id, userID string) (*model.TimeEntry, error) {
	query := `
		SELECT id, user_id, check_in, check_out, hours, date, notes, manual_entry, created_at, updated_at
		FROM time_entries
		WHERE id = $1 AND user_id = $2
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}

	return entry, nil
}

// CloseEntry records a check-out on an entry, overwriting any previous
// check-out, hours and notes. A nil notes pointer stores NULL.
func (r *Repository) CloseEntry(ctx context.Context, id, userID string, checkOut time.Time, hours float64, notes *string) error {
	query := `
		UPDATE time_entries
		SET check_out = $3, hours = $4, notes = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, userID, checkOut, hours, notes)
	if err != nil {
		return fmt.Errorf("failed to close time entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// ListEntries retrieves a user's entries ordered by date descending,
// then check-in descending. Limit truncates after ordering; zero means
// no limit.
func (r *Repository) ListEntries(ctx context.Context, filter EntryFilter) ([]*model.TimeEntry, error) {
	query := `
		SELECT id, user_id, check_in, check_out, hours, date, notes, manual_entry, created_at, updated_at
		FROM time_entries
		WHERE user_id = $1
	`
	args := []any{filter.UserID}
	argIndex := 2

	if filter.DateFrom != "" {
		query += fmt.Sprintf(" AND date >= $%d", argIndex)
		args = append(args, filter.DateFrom)
		argIndex++
	}

	if filter.DateTo != "" {
		query += fmt.Sprintf(" AND date <= $%d", argIndex)
		args = append(args, filter.DateTo)
		argIndex++
	}

	query += " ORDER BY date DESC, check_in DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.TimeEntry
	for rows.Next() {
		entry, err := scanEntryFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entries: %w", err)
	}

	return entries, nil
}

// DeleteEntry removes an entry if it belongs to the given user.
func (r *Repository) DeleteEntry(ctx context.Context, id, userID string) error {
	query := `DELETE FROM time_entries WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// scanEntry scans a single row into a TimeEntry model.
func scanEntry(row pgx.Row) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.CheckIn,
		&entry.CheckOut,
		&entry.Hours,
		&entry.Date,
		&entry.Notes,
		&entry.ManualEntry,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// scanEntryFromRows scans a row from pgx.Rows into a TimeEntry model.
func scanEntryFromRows(rows pgx.Rows) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := rows.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.CheckIn,
		&entry.CheckOut,
		&entry.Hours,
		&entry.Date,
		&entry.Notes,
		&entry.ManualEntry,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
