package model

import "time"

// TimeEntry represents one work session.
//
// CheckOut and Hours are nil while the session is open. Hours is set only
// by the close path; a manual entry keeps Hours nil even though both
// timestamps are known (reports read missing hours as 0).
//
// Date is the calendar day of CheckIn in the fixed YYYY-MM-DD form. It is
// assigned once at creation and never recomputed, including on close.
type TimeEntry struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    *time.Time `json:"check_out"`
	Hours       *float64   `json:"hours"`
	Date        string     `json:"date"`
	Notes       *string    `json:"notes"`
	ManualEntry bool       `json:"manual_entry"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsOpen reports whether the session has no check-out recorded yet.
func (e *TimeEntry) IsOpen() bool {
	return e.CheckOut == nil
}

// HoursOrZero returns the computed duration, or 0 when none is stored.
// Open sessions and manual entries without a computed duration count as 0.
func (e *TimeEntry) HoursOrZero() float64 {
	if e.Hours == nil {
		return 0
	}
	return *e.Hours
}
