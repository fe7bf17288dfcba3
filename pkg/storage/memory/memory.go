// Package memory keeps animals in process memory. Nothing survives a
// restart. A positive size bound turns the store into an LRU cache.
package memory

import (
	"cmp"
	"container/list"
	"context"
	"slices"
	"sync"

	"github.com/rhuss/restapp/pkg/debug"
	"github.com/rhuss/restapp/pkg/storage"
	"github.com/rhuss/restapp/pkg/zoo"
)

// Store is an in-memory zoo.Store. The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	byName map[string]*list.Element // values are zoo.Animal
	recent *list.List               // most recently used first
	limit  int
}

var _ zoo.Store = (*Store)(nil)

// New returns an empty store holding at most limit animals. When full,
// Save drops the least recently saved or fetched animal. A limit of 0
// means unbounded.
func New(limit int) *Store {
	return &Store{
		byName: map[string]*list.Element{},
		recent: list.New(),
		limit:  limit,
	}
}

// Save adds a, or reports storage.ErrConflict if the name is taken.
func (s *Store) Save(_ context.Context, a zoo.Animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[a.Name]; taken {
		return storage.ErrConflict
	}
	for s.limit > 0 && s.recent.Len() >= s.limit {
		victim := s.recent.Remove(s.recent.Back()).(zoo.Animal)
		delete(s.byName, victim.Name)
		debug.Log(debug.Storage, "evicted animal", "name", victim.Name)
	}
	s.byName[a.Name] = s.recent.PushFront(a)
	return nil
}

// Get returns the animal called name and marks it recently used.
func (s *Store) Get(_ context.Context, name string) (zoo.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byName[name]
	if !ok {
		return zoo.Animal{}, storage.ErrNotFound
	}
	s.recent.MoveToFront(el)
	return el.Value.(zoo.Animal), nil
}

// List returns animals sorted by name, at most limit of them when limit
// is positive. Listing does not affect eviction order.
func (s *Store) List(_ context.Context, limit int) ([]zoo.Animal, error) {
	s.mu.RLock()
	animals := make([]zoo.Animal, 0, len(s.byName))
	for _, el := range s.byName {
		animals = append(animals, el.Value.(zoo.Animal))
	}
	s.mu.RUnlock()

	slices.SortFunc(animals, func(a, b zoo.Animal) int { return cmp.Compare(a.Name, b.Name) })
	if limit > 0 && len(animals) > limit {
		animals = animals[:limit]
	}
	return animals, nil
}

// Delete removes the animal called name, or reports storage.ErrNotFound.
func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byName[name]
	if !ok {
		return storage.ErrNotFound
	}
	s.recent.Remove(el)
	delete(s.byName, name)
	return nil
}

// Len reports how many animals are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}

// HealthCheck always succeeds.
func (*Store) HealthCheck(context.Context) error { return nil }

// Close does nothing.
func (*Store) Close() error { return nil }
