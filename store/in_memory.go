package store

import (
	"errors"
	"sync"
	"time"

	"github.com/lessonforge/lessonforge/core"
)

// ErrNotFound is returned when no lesson exists for the requested id.
var ErrNotFound = errors.New("lesson not found")

// InMemoryStore is a volatile Store implementation keeping lessons in a
// process local map. It is safe for concurrent access and best suited for
// tests or single-instance deployments. Each returned lesson is cloned to
// prevent external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	lessons map[string]*core.Lesson
	order   []string
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory lesson store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lessons: make(map[string]*core.Lesson)}
}

// List implements Store.
func (s *InMemoryStore) List() ([]*core.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Lesson, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.lessons[id].Clone())
	}
	return out, nil
}

// Get implements Store.
func (s *InMemoryStore) Get(id string) (*core.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return lesson.Clone(), nil
}

// Create implements Store.
func (s *InMemoryStore) Create(lesson *core.Lesson) (*core.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := lesson.Clone()
	stored.ID = core.NewID()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.lessons[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return stored.Clone(), nil
}

// Update implements Store.
func (s *InMemoryStore) Update(lesson *core.Lesson) (*core.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.lessons[lesson.ID]
	if !ok {
		return nil, ErrNotFound
	}

	updated := lesson.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.lessons[updated.ID] = updated
	return updated.Clone(), nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lessons[id]; !ok {
		return ErrNotFound
	}
	delete(s.lessons, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
