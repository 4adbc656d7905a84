package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps records in a mutex-guarded map. Contents are lost on
// restart, which suits tests and ephemeral deployments.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
	closed  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Create persists a new record.
func (s *MemoryStore) Create(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.records[rec.ID]; ok {
		return ErrDuplicateID
	}
	s.records[rec.ID] = cloneRecord(rec)
	return nil
}

// Get returns the record with the given id, expired or not.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

// Claim atomically removes and returns an unexpired record. The mutex makes
// the check-and-delete a single step, so exactly one concurrent caller wins.
func (s *MemoryStore) Claim(ctx context.Context, id string, now time.Time) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	rec, ok := s.records[id]
	if !ok || !rec.ExpiresAt.After(now) {
		return nil, ErrNotFound
	}
	delete(s.records, id)
	return rec, nil
}

// MarkViewed records that a secret has been opened.
func (s *MemoryStore) MarkViewed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.Viewed = true
	return nil
}

// Delete removes a record if present.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.records, id)
	return nil
}

// DeleteExpired removes every record past its expiry.
func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int64
	for id, rec := range s.records {
		if !rec.ExpiresAt.After(now) {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

// Close marks the store closed and drops its contents.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

// cloneRecord copies a record so callers cannot mutate stored state through
// the returned pointer.
func cloneRecord(rec *Record) *Record {
	out := *rec
	if rec.Files != nil {
		out.Files = make([]FileRecord, len(rec.Files))
		copy(out.Files, rec.Files)
	}
	return &out
}
