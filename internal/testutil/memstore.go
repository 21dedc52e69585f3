package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/punchclock/punchclock/internal/model"
	"github.com/punchclock/punchclock/internal/repository"
)

// MemStore is an in-memory store used by unit tests in place of the
// Postgres repository. It mirrors the repository's ordering and
// ownership semantics, including the collapsed not-found behavior.
type MemStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	entries map[string]*model.TimeEntry
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:   make(map[string]*model.User),
		entries: make(map[string]*model.TimeEntry),
	}
}

// CreateUser stores a user, enforcing email uniqueness.
func (s *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// GetUserByID returns a user by ID.
func (s *MemStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// GetUserByEmail returns a user by exact email match.
func (s *MemStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// CreateEntry stores a time entry.
func (s *MemStore) CreateEntry(ctx context.Context, entry *model.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := cloneEntry(entry)
	s.entries[entry.ID] = clone
	return nil
}

// GetEntryByID returns an entry scoped to its owner.
func (s *MemStore) GetEntryByID(ctx context.Context, id, userID string) (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

// CloseEntry overwrites check-out, hours and notes on an owned entry.
func (s *MemStore) CloseEntry(ctx context.Context, id, userID string, checkOut time.Time, hours float64, notes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return repository.ErrEntryNotFound
	}

	out := checkOut
	e.CheckOut = &out
	h := hours
	e.Hours = &h
	if notes != nil {
		n := *notes
		e.Notes = &n
	} else {
		e.Notes = nil
	}
	e.UpdatedAt = time.Now()
	return nil
}

// ListEntries returns a user's entries ordered by date descending, then
// check-in descending, with inclusive date bounds and optional limit.
func (s *MemStore) ListEntries(ctx context.Context, filter repository.EntryFilter) ([]*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*model.TimeEntry
	for _, e := range s.entries {
		if e.UserID != filter.UserID {
			continue
		}
		if filter.DateFrom != "" && e.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && e.Date > filter.DateTo {
			continue
		}
		entries = append(entries, cloneEntry(e))
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].CheckIn.After(entries[j].CheckIn)
	})

	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}

	return entries, nil
}

// DeleteEntry removes an owned entry.
func (s *MemStore) DeleteEntry(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return repository.ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

// EntryCount reports the number of stored entries.
func (s *MemStore) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func cloneEntry(e *model.TimeEntry) *model.TimeEntry {
	clone := *e
	if e.CheckOut != nil {
		out := *e.CheckOut
		clone.CheckOut = &out
	}
	if e.Hours != nil {
		h := *e.Hours
		clone.Hours = &h
	}
	if e.Notes != nil {
		n := *e.Notes
		clone.Notes = &n
	}
	return &clone
}
