package ledger

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit records in memory. Used by tests and as the
// default sink when no database is configured.
type InMemoryStore struct {
	mu      sync.Mutex
	records []AuditRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, rec AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

// Records returns a copy of everything appended so far.
func (s *InMemoryStore) Records() []AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditRecord, len(s.records))
	copy(out, s.records)
	return out
}
