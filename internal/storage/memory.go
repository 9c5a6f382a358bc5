package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store. Data is lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) Read(_ context.Context, collection, id string) (map[string]any, bool, error) {
	if err := checkPath(collection, id); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, false, nil
	}
	out, err := deepCopy(doc)
	return out, err == nil, err
}

func (s *MemoryStore) Write(_ context.Context, collection, id string, fields map[string]any) error {
	if err := checkPath(collection, id); err != nil {
		return err
	}
	copied, err := deepCopy(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.docs[collection]
	if !ok {
		coll = make(map[string]map[string]any)
		s.docs[collection] = coll
	}
	doc, ok := coll[id]
	if !ok {
		doc = make(map[string]any, len(copied))
		coll[id] = doc
	}
	for k, v := range copied {
		doc[k] = v
	}
	return nil
}

// Len reports how many documents are stored across all collections.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, coll := range s.docs {
		n += len(coll)
	}
	return n
}

func (s *MemoryStore) Close() error { return nil }

func deepCopy(doc map[string]any) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("document is not JSON-serializable: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
