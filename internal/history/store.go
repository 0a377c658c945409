// Package history keeps the audit records generated during one session.
//
// The store is append-only: there is no Update or Remove. Insertion order is
// the ground truth; the most-recent-first view is produced at read time.
//
// Dependency rule: history imports audit only.
package history

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nyashahama/audit-planner/internal/audit"
)

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("history: record not found")

// Store is an in-memory, append-only list of records. It is safe for
// concurrent use; readers always receive copies.
type Store struct {
	mu      sync.RWMutex
	records []audit.Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Append adds rec to the end of the history.
func (s *Store) Append(rec audit.Record) {
	rec = rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// List returns every record in insertion order.
func (s *Store) List() []audit.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// ListForDisplay returns every record, most recently appended first.
func (s *Store) ListForDisplay() []audit.Record {
	out := s.List()
	slices.Reverse(out)
	return out
}

// Get returns the record with the given ID.
func (s *Store) Get(id uuid.UUID) (audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}
	return audit.Record{}, ErrNotFound
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneAll(records []audit.Record) []audit.Record {
	out := make([]audit.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}
