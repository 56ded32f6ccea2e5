// Package store defines the typed entity persistence contract of the pipeline.
// Entities are partitioned into per-kind collections and keyed by UUID.
package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
)

// ErrNotFound is returned by Load when no entity exists under the given id
var ErrNotFound = errors.New("entity not found")

// EntityStore is the persistence collaborator of the extraction pipeline
type EntityStore interface {
	// Load returns the entity with the given id from the kind's collection,
	// or ErrNotFound
	Load(id uuid.UUID, kind model.Kind) (model.Entity, error)
	// Save inserts or updates an entity in its kind's collection
	Save(entity model.Entity) error
	// ScanAll returns every entity of a kind
	ScanAll(kind model.Kind) ([]model.Entity, error)
	// FilterScan returns every entity of a kind matching the predicate
	FilterScan(kind model.Kind, predicate func(model.Entity) bool) ([]model.Entity, error)
}
