package model

import "github.com/google/uuid"

// ChunkType is the semantic role of a chunk. Open set, the constants below
// cover the roles produced by the chunking service.
type ChunkType string

const (
	ChunkTypeMeetingSummary ChunkType = "meeting_summary"
	ChunkTypeActionItem     ChunkType = "action_item"
	ChunkTypeDecisionRecord ChunkType = "decision_record"
	ChunkTypeAttendance     ChunkType = "attendance"
	ChunkTypeResource       ChunkType = "resource"
)

// ChunkEntity is one entity attached to a chunk, with every textual mention
// found in the chunk text
type ChunkEntity struct {
	EntityID       uuid.UUID `json:"entity_id"`
	EntityType     Kind      `json:"entity_type"`
	NormalizedName string    `json:"normalized_name"`
	Mentions       []string  `json:"mentions"`
}

// ChunkRelationship is a relationship snapshot attached to a chunk
type ChunkRelationship struct {
	SubjectType  Kind   `json:"subject_type"`
	Relationship string `json:"relationship"`
	ObjectType   Kind   `json:"object_type,omitempty"`
}

// ChunkMetadataModel carries the positional and provenance metadata of a chunk
type ChunkMetadataModel struct {
	MeetingID     uuid.UUID           `json:"meeting_id"`
	ChunkType     ChunkType           `json:"chunk_type"`
	SourceField   string              `json:"source_field"`
	Relationships []ChunkRelationship `json:"relationships"`
	ChunkIndex    int                 `json:"chunk_index"`
	TotalChunks   int                 `json:"total_chunks"`
}

// ChunkMetadata is one semantically-bounded, entity-annotated chunk of
// meeting content, ready for downstream embedding and retrieval
type ChunkMetadata struct {
	Text     string             `json:"text"`
	Entities []ChunkEntity      `json:"entities"`
	Metadata ChunkMetadataModel `json:"metadata"`
}

// ScoredChunk is a persisted chunk returned by a similarity search
type ScoredChunk struct {
	ChunkMetadata
	Similarity float64 `json:"similarity"`
}
