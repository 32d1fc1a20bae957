package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Totarae/ArrearsLetters/internal/model"
)

// MemoryLinkStore provides a thread-safe in-memory link registry
type MemoryLinkStore struct {
	data  map[string]model.ShortLink
	mutex sync.RWMutex
}

// NewMemoryLinkStore initializes a new MemoryLinkStore
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{data: make(map[string]model.ShortLink)}
}

func (s *MemoryLinkStore) Has(_ context.Context, id string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.data[id]
	return ok, nil
}

func (s *MemoryLinkStore) Save(_ context.Context, link *model.ShortLink) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.data[link.ID]; ok {
		return ErrDuplicate
	}
	s.data[link.ID] = *link
	return nil
}

func (s *MemoryLinkStore) Get(_ context.Context, id string) (*model.ShortLink, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	link, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

func (s *MemoryLinkStore) IncrementClicks(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if link, ok := s.data[id]; ok {
		link.Clicks++
		s.data[id] = link
	}
	return nil
}

func (s *MemoryLinkStore) DeleteScope(_ context.Context, scope string) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for id, link := range s.data {
		if link.Scope == scope {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}

// MemoryLetterStore provides a thread-safe in-memory letter store
type MemoryLetterStore struct {
	data  map[string]model.LetterRecord
	mutex sync.RWMutex
}

// NewMemoryLetterStore initializes a new MemoryLetterStore
func NewMemoryLetterStore() *MemoryLetterStore {
	return &MemoryLetterStore{data: make(map[string]model.LetterRecord)}
}

func (s *MemoryLetterStore) Has(_ context.Context, id string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.data[id]
	return ok, nil
}

func (s *MemoryLetterStore) Save(_ context.Context, rec *model.LetterRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.data[rec.ID]; ok {
		return ErrDuplicate
	}
	s.data[rec.ID] = *rec
	return nil
}

func (s *MemoryLetterStore) Get(_ context.Context, id string) (*model.LetterRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rec, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryLetterStore) ConsumeAccess(_ context.Context, id string, now time.Time) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	rec, ok := s.data[id]
	if !ok || rec.Expired(now) || rec.Exhausted() {
		return false, nil
	}
	rec.AccessCount++
	s.data[id] = rec
	return true, nil
}

func (s *MemoryLetterStore) DeleteScope(_ context.Context, scope string) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for id, rec := range s.data {
		if rec.Scope == scope {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}
