package activity

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds activity records newest first. It is owned by a single view
// instance; the mutex only makes it safe to reach from HTTP handlers.
type Store struct {
	mu      sync.RWMutex
	records []Record
	newID   func() string
}

// NewStore returns an empty store that assigns UUIDs to new records.
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// NewSeededStore returns a store holding the sample records for now.
func NewSeededStore(now time.Time) *Store {
	s := NewStore()
	s.records = Seed(now)
	return s
}

// Add inserts r at the head of the store and reports whether it did.
// Records missing a type, description or field are dropped, as are records
// whose caller-supplied ID is already present.
func (s *Store) Add(r Record) bool {
	if blank(string(r.Type)) || blank(r.Description) || blank(r.Field) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.newID()
	} else if s.indexLocked(r.ID) >= 0 {
		return false
	}
	if r.Date.IsZero() {
		r.Date = time.Now()
	}

	s.records = append([]Record{r}, s.records...)
	return true
}

// Remove deletes the record with the given id and reports whether one existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	return true
}

// List returns a copy of all records, newest first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Dates returns the distinct calendar days that have at least one record,
// in listing order.
func (s *Store) Dates() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var days []time.Time
	for _, r := range s.records {
		seen := false
		for _, d := range days {
			if SameDay(d, r.Date) {
				seen = true
				break
			}
		}
		if !seen {
			y, m, d := r.Date.Date()
			days = append(days, time.Date(y, m, d, 0, 0, 0, 0, r.Date.Location()))
		}
	}
	return days
}

func (s *Store) indexLocked(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
