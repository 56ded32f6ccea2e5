package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
)

// MemoryStore is an in-memory EntityStore, safe for concurrent use.
// Useful for tests and for pipeline runs without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[model.Kind]map[uuid.UUID]model.Entity
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[model.Kind]map[uuid.UUID]model.Entity),
	}
}

// Load returns the entity with the given id, or ErrNotFound
func (s *MemoryStore) Load(id uuid.UUID, kind model.Kind) (model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.collections[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return entity, nil
}

// Save inserts or updates an entity, touching its timestamps
func (s *MemoryStore) Save(entity model.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := entity.EntityKind()
	if s.collections[kind] == nil {
		s.collections[kind] = make(map[uuid.UUID]model.Entity)
	}

	entity.Touch(time.Now())
	s.collections[kind][entity.EntityID()] = entity
	return nil
}

// ScanAll returns every entity of a kind in stable id order
func (s *MemoryStore) ScanAll(kind model.Kind) ([]model.Entity, error) {
	return s.FilterScan(kind, func(model.Entity) bool { return true })
}

// FilterScan returns every entity of a kind matching the predicate,
// in stable id order
func (s *MemoryStore) FilterScan(kind model.Kind, predicate func(model.Entity) bool) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entities []model.Entity
	for _, entity := range s.collections[kind] {
		if predicate(entity) {
			entities = append(entities, entity)
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].EntityID().String() < entities[j].EntityID().String()
	})

	return entities, nil
}
