// Package timeutil provides calendar helpers for date bucketing.
package timeutil

import "time"

// DateKey formats t as the fixed-width YYYY-MM-DD key used for bucketing.
// The representation is zero-padded so lexicographic string order matches
// chronological order; every comparison on stored dates relies on that.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekStart returns midnight on the Monday of the calendar week
// containing t. Monday is the week start regardless of locale; Sunday
// belongs to the preceding week.
func WeekStart(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, ..., Saturday=6.
	offset := (int(t.Weekday()) + 6) % 7 // Mon=0 .. Sun=6
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// WeekEnd returns midnight on the Sunday of the calendar week containing t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// MonthStart returns midnight on the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
