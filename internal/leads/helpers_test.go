package leads

import (
	"context"
	"errors"
	"sync"
)

// memStore is an in-memory Store with insert-or-ignore semantics.
type memStore struct {
	mu        sync.Mutex
	rows      map[string]Lead
	inserts   []string
	listErr   error
	insertErr error
}

func newMemStore(existing ...string) *memStore {
	s := &memStore{rows: make(map[string]Lead)}
	for _, id := range existing {
		s.rows[id] = Lead{PlaceID: id}
	}
	return s
}

func (s *memStore) ListPlaceIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	ids := make([]string, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) InsertLead(_ context.Context, lead Lead) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts = append(s.inserts, lead.PlaceID)
	if s.insertErr != nil {
		return false, s.insertErr
	}
	if _, ok := s.rows[lead.PlaceID]; ok {
		return false, nil
	}
	s.rows[lead.PlaceID] = lead
	return true, nil
}

var errStoreDown = errors.New("store down")
