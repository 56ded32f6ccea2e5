package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/meetgraph/helper"
	"github.com/siherrmann/meetgraph/model"
	loadSql "github.com/siherrmann/meetgraph/sql"
)

// ChunksDBHandlerFunctions defines the interface for chunk database operations.
type ChunksDBHandlerFunctions interface {
	InsertChunk(chunk *model.ChunkMetadata, embedding []float32) error
	SelectChunksByMeeting(meetingID uuid.UUID) ([]*model.ChunkMetadata, error)
	SelectChunksBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.ScoredChunk, error)
	DeleteChunksByMeeting(meetingID uuid.UUID) error
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It initializes the database connection and loads chunk-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'meeting_chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_meeting_chunks($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing meeting_chunks table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table meeting_chunks")

	return nil
}

// InsertChunk inserts or updates a chunk keyed by (meeting_id, chunk_index).
// The embedding may be nil for chunks that have not been embedded yet.
func (h *ChunksDBHandler) InsertChunk(chunk *model.ChunkMetadata, embedding []float32) error {
	entitiesJSON, err := json.Marshal(chunk.Entities)
	if err != nil {
		return helper.NewError("marshal entities", err)
	}
	relationshipsJSON, err := json.Marshal(chunk.Metadata.Relationships)
	if err != nil {
		return helper.NewError("marshal relationships", err)
	}

	var embeddingParam interface{}
	if len(embedding) > 0 {
		embeddingParam = pgvector.NewVector(embedding)
	}

	_, err = h.db.Instance.Exec(
		`SELECT insert_meeting_chunk($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		chunk.Metadata.MeetingID,
		chunk.Metadata.ChunkIndex,
		chunk.Metadata.TotalChunks,
		string(chunk.Metadata.ChunkType),
		chunk.Metadata.SourceField,
		chunk.Text,
		entitiesJSON,
		relationshipsJSON,
		embeddingParam,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}

	return nil
}

// SelectChunksByMeeting retrieves all chunks for a meeting ordered by index
func (h *ChunksDBHandler) SelectChunksByMeeting(meetingID uuid.UUID) ([]*model.ChunkMetadata, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_meeting_chunks($1)`,
		meetingID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.ChunkMetadata
	for rows.Next() {
		chunk := &model.ChunkMetadata{}

		var entitiesJSON, relationshipsJSON []byte
		err := rows.Scan(
			&chunk.Metadata.MeetingID,
			&chunk.Metadata.ChunkIndex,
			&chunk.Metadata.TotalChunks,
			&chunk.Metadata.ChunkType,
			&chunk.Metadata.SourceField,
			&chunk.Text,
			&entitiesJSON,
			&relationshipsJSON,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		if err := json.Unmarshal(entitiesJSON, &chunk.Entities); err != nil {
			return nil, helper.NewError("unmarshaling entities", err)
		}
		if err := json.Unmarshal(relationshipsJSON, &chunk.Metadata.Relationships); err != nil {
			return nil, helper.NewError("unmarshaling relationships", err)
		}

		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// SelectChunksBySimilarity performs vector similarity search over all
// embedded chunks
func (h *ChunksDBHandler) SelectChunksBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.ScoredChunk, error) {
	embeddingVector := pgvector.NewVector(embedding)

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_meeting_chunks_by_similarity($1, $2, $3)`,
		embeddingVector,
		limit,
		threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.ScoredChunk
	for rows.Next() {
		chunk := &model.ScoredChunk{}

		var entitiesJSON, relationshipsJSON []byte
		err := rows.Scan(
			&chunk.Metadata.MeetingID,
			&chunk.Metadata.ChunkIndex,
			&chunk.Metadata.TotalChunks,
			&chunk.Metadata.ChunkType,
			&chunk.Metadata.SourceField,
			&chunk.Text,
			&entitiesJSON,
			&relationshipsJSON,
			&chunk.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		if err := json.Unmarshal(entitiesJSON, &chunk.Entities); err != nil {
			return nil, helper.NewError("unmarshaling entities", err)
		}
		if err := json.Unmarshal(relationshipsJSON, &chunk.Metadata.Relationships); err != nil {
			return nil, helper.NewError("unmarshaling relationships", err)
		}

		results = append(results, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// DeleteChunksByMeeting deletes all chunks of a meeting
func (h *ChunksDBHandler) DeleteChunksByMeeting(meetingID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_meeting_chunks($1)`,
		meetingID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
