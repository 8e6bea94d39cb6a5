package archive

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	champions   map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.champions = make(map[string][]Record)
	return nil
}

func (s *MemoryStore) SaveChampion(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	rec.Network = append([]byte(nil), rec.Network...)
	records := s.champions[rec.RunID]
	for i, existing := range records {
		if existing.Generation == rec.Generation {
			records[i] = rec
			return nil
		}
	}
	records = append(records, rec)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Generation < records[j].Generation
	})
	s.champions[rec.RunID] = records
	return nil
}

func (s *MemoryStore) Champions(_ context.Context, runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errors.New("store is not initialized")
	}
	return append([]Record(nil), s.champions[runID]...), nil
}

func (s *MemoryStore) Best(_ context.Context, runID string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Record{}, false, errors.New("store is not initialized")
	}
	records := s.champions[runID]
	if len(records) == 0 {
		return Record{}, false, nil
	}
	best := records[0]
	for _, rec := range records[1:] {
		if rec.Fitness > best.Fitness {
			best = rec
		}
	}
	return best, true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
