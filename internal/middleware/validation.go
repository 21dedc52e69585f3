package middleware

import (
	"errors"
	"regexp"
)

// Validation limits.
const (
	// MaxNotesLength is the maximum length for entry notes.
	MaxNotesLength = 2000

	// MaxNameLength is the maximum length for a display name.
	MaxNameLength = 120

	// MaxEmailLength is the maximum length for an email address.
	MaxEmailLength = 254
)

// Validation errors.
var (
	ErrInvalidDateKey = errors.New("date must be in YYYY-MM-DD format")
	ErrNotesTooLong   = errors.New("notes exceed maximum length")
	ErrNameTooLong    = errors.New("name exceeds maximum length")
	ErrEmailTooLong   = errors.New("email exceeds maximum length")
	ErrEmailInvalid   = errors.New("email address is invalid")
)

// dateKeyPattern matches the fixed-width zero-padded date form used for
// all stored dates. Anything else would break lexicographic range scans.
var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// emailPattern is a loose shape check; real validation happens when mail
// would be sent, which this system never does.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateDateKey validates a YYYY-MM-DD date string.
// Empty is valid (filters are optional).
func ValidateDateKey(date string) error {
	if date == "" {
		return nil
	}
	if !dateKeyPattern.MatchString(date) {
		return ErrInvalidDateKey
	}
	return nil
}

// ValidateNotes bounds free-text notes.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// ValidateName bounds a display name.
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ValidateEmail checks an email address shape and length.
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}
