package memory

import (
	"fmt"
	"sync"

	"github.com/vitistack/authproxy/pkg/persistence"
)

// Store keeps entities in a map for the lifetime of the process.
type Store[T any] struct {
	lock sync.RWMutex
	data map[string]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[string]T),
	}
}

func (s *Store[T]) Save(key string, data T) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data[key] = data
	return nil
}

func (s *Store[T]) Load(key string) (T, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	val, exist := s.data[key]
	if !exist {
		var zero T
		return zero, fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	return val, nil
}

func (s *Store[T]) LoadAll() ([]T, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	result := make([]T, 0, len(s.data))
	for _, val := range s.data {
		result = append(result, val)
	}

	return result, nil
}

// Delete removes key. Deleting a missing key reports ErrNotFound so callers can detect a lost race.
func (s *Store[T]) Delete(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, exist := s.data[key]; !exist {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	delete(s.data, key)
	return nil
}
