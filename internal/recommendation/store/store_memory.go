// Package store persists recommendation records. The in-memory
// implementation backs tests and local development; PostgreSQL backs
// production. Both return sentinel errors for infrastructure facts.
package store

import (
	"context"
	"sort"
	"sync"

	"covera/internal/recommendation"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// InMemoryStore keeps records in a map guarded by a RWMutex. It intentionally
// favors clarity over performance.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.RecommendationID]recommendation.Record
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.RecommendationID]recommendation.Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record recommendation.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, recID id.RecommendationID) (recommendation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[recID]; ok {
		return record, nil
	}
	return recommendation.Record{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, limit, offset int) ([]recommendation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.byUserNewestFirst(userID)
	if offset >= len(records) {
		return []recommendation.Record{}, nil
	}
	records = records[offset:]
	if limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

func (s *InMemoryStore) CountByUser(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, record := range s.records {
		if record.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) FindLatestByUser(_ context.Context, userID id.UserID) (recommendation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.byUserNewestFirst(userID)
	if len(records) == 0 {
		return recommendation.Record{}, sentinel.ErrNotFound
	}
	return records[0], nil
}

// byUserNewestFirst must be called with the lock held. Ties on CreatedAt are
// broken by ID so pagination is stable.
func (s *InMemoryStore) byUserNewestFirst(userID id.UserID) []recommendation.Record {
	var records []recommendation.Record
	for _, record := range s.records {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID.String() > records[j].ID.String()
	})
	return records
}
