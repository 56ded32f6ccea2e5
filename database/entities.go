// Package database provides the postgres-backed persistence handlers.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/helper"
	"github.com/siherrmann/meetgraph/model"
	"github.com/siherrmann/meetgraph/store"
	loadSql "github.com/siherrmann/meetgraph/sql"
)

// EntitiesDBHandler is the postgres implementation of store.EntityStore.
// Entities are stored as JSONB payloads in per-kind collections keyed by UUID.
type EntitiesDBHandler struct {
	db *helper.Database
}

// Compile-time check that the handler satisfies the store contract
var _ store.EntityStore = (*EntitiesDBHandler)(nil)

// NewEntitiesDBHandler creates a new entities database handler.
// It initializes the database connection and loads entity-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEntitiesDBHandler(db *helper.Database, force bool) (*EntitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	entitiesDbHandler := &EntitiesDBHandler{
		db: db,
	}

	err := loadSql.LoadEntitiesSql(entitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = entitiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntitiesDBHandler")

	return entitiesDbHandler, nil
}

// CreateTable creates the 'entities' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *EntitiesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entities();`)
	if err != nil {
		log.Panicf("error initializing entities table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table entities")

	return nil
}

// Save inserts or updates an entity in its kind's collection
func (h *EntitiesDBHandler) Save(entity model.Entity) error {
	entity.Touch(time.Now())

	payload, err := json.Marshal(entity)
	if err != nil {
		return helper.NewError("marshal entity payload", err)
	}

	_, err = h.db.Instance.Exec(
		`SELECT * FROM upsert_entity($1, $2, $3)`,
		entity.EntityID(),
		string(entity.EntityKind()),
		payload,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}

	return nil
}

// Load returns the entity with the given id, or store.ErrNotFound
func (h *EntitiesDBHandler) Load(id uuid.UUID, kind model.Kind) (model.Entity, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_entity($1, $2)`,
		id,
		string(kind),
	)

	entity, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entity, nil
}

// ScanAll returns every entity of a kind
func (h *EntitiesDBHandler) ScanAll(kind model.Kind) ([]model.Entity, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_entities_by_kind($1)`,
		string(kind),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entities []model.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

// FilterScan returns every entity of a kind matching the predicate
func (h *EntitiesDBHandler) FilterScan(kind model.Kind, predicate func(model.Entity) bool) ([]model.Entity, error) {
	all, err := h.ScanAll(kind)
	if err != nil {
		return nil, err
	}

	var filtered []model.Entity
	for _, entity := range all {
		if predicate(entity) {
			filtered = append(filtered, entity)
		}
	}
	return filtered, nil
}

// Delete removes an entity from its kind's collection. The pipeline never
// deletes entities, this exists for external administrative use.
func (h *EntitiesDBHandler) Delete(id uuid.UUID, kind model.Kind) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_entity($1, $2)`,
		id,
		string(kind),
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// rowScanner is satisfied by sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEntity decodes one entities row into the concrete variant for its kind.
// The payload JSON carries the timestamps, the table columns are only scanned
// to consume the row.
func scanEntity(row rowScanner) (model.Entity, error) {
	var (
		id        uuid.UUID
		kindStr   string
		payload   []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &kindStr, &payload, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	entity := model.NewEntityOfKind(model.Kind(kindStr))
	if entity == nil {
		return nil, fmt.Errorf("unknown entity kind %q", kindStr)
	}
	if err := json.Unmarshal(payload, entity); err != nil {
		return nil, fmt.Errorf("error decoding %s payload: %w", kindStr, err)
	}

	return entity, nil
}
