// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/punchclock/punchclock/internal/model"
)

// CreateEntryRequest represents the request body for POST /entries.
// Without ManualEntry it opens a live session and CheckOut is ignored;
// with ManualEntry it backfills a completed one.
type CreateEntryRequest struct {
	CheckIn     *time.Time `json:"check_in"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Date        string     `json:"date,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ManualEntry bool       `json:"manual_entry,omitempty"`
}

// CloseEntryRequest represents the request body for PUT /entries/{id}.
type CloseEntryRequest struct {
	CheckOut *time.Time `json:"check_out"`
	Notes    *string    `json:"notes,omitempty"`
}

// EntryResponse represents a time entry in API responses.
type EntryResponse struct {
	ID          string     `json:"id"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    *time.Time `json:"check_out"`
	Hours       *float64   `json:"hours"`
	Date        string     `json:"date"`
	Notes       *string    `json:"notes"`
	ManualEntry bool       `json:"manual_entry"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EntryListResponse represents a list of time entries.
type EntryListResponse struct {
	Data  []EntryResponse `json:"data"`
	Count int             `json:"count"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToEntryResponse converts a TimeEntry model to its response DTO.
func ToEntryResponse(entry *model.TimeEntry) *EntryResponse {
	return &EntryResponse{
		ID:          entry.ID,
		CheckIn:     entry.CheckIn,
		CheckOut:    entry.CheckOut,
		Hours:       entry.Hours,
		Date:        entry.Date,
		Notes:       entry.Notes,
		ManualEntry: entry.ManualEntry,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

// ToEntryListResponse converts a slice of entries to a list response.
func ToEntryListResponse(entries []*model.TimeEntry) *EntryListResponse {
	data := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, *ToEntryResponse(e))
	}
	return &EntryListResponse{
		Data:  data,
		Count: len(data),
	}
}
