package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit records in insertion order, which doubles as the
// deterministic ordering contract for export pagination.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later caller mutation cannot rewrite history.
	stored := *record
	if record.Detail != nil {
		stored.Detail = make(map[string]any, len(record.Detail))
		for k, v := range record.Detail {
			stored.Detail[k] = v
		}
	}
	s.records = append(s.records, &stored)
	return nil
}

func (s *InMemoryStore) Query(_ context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*Record, 0)
	for _, r := range s.records {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}

	// Offset/limit apply after filtering so the same filter pages consistently.
	if filter.Offset >= len(matched) {
		return []*Record{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	out := make([]*Record, len(matched))
	copy(out, matched)
	return out, nil
}

// Len reports the total number of records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
