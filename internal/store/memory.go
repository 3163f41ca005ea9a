package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/domain"
)

// MemoryStore is an in-process CompletionStore for tests and for
// running the trainer without any backing service.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]map[string]domain.CompletionRecord // user → variation id → record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]map[string]domain.CompletionRecord)}
}

func (s *MemoryStore) SaveCompletion(_ context.Context, rec domain.CompletionRecord) error {
	if strings.TrimSpace(rec.UserID) == "" || strings.TrimSpace(rec.VariationID) == "" {
		return fmt.Errorf("store: completion needs user and variation ids")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byVar, ok := s.recs[rec.UserID]
	if !ok {
		byVar = make(map[string]domain.CompletionRecord)
		s.recs[rec.UserID] = byVar
	}
	byVar[rec.VariationID] = rec
	return nil
}

func (s *MemoryStore) CompletedVariationIDs(_ context.Context, userID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.recs[userID]))
	for id := range s.recs[userID] {
		out[id] = true
	}
	return out, nil
}

func (s *MemoryStore) Completion(_ context.Context, userID, variationID string) (*domain.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[userID][variationID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}
