package model

import "github.com/google/uuid"

// ExportEntity is one entry of the structured entity list
type ExportEntity struct {
	EntityID             uuid.UUID   `json:"entity_id"`
	EntityType           Kind        `json:"entity_type"`
	CanonicalName        string      `json:"canonical_name"`
	NormalizedVariations []string    `json:"normalized_variations"`
	SourceMeetings       []uuid.UUID `json:"source_meetings"`
}

// ClusterLabel groups all name variations resolved to one canonical entity
type ClusterLabel struct {
	CanonicalName string   `json:"canonical_name"`
	Variations    []string `json:"variations"`
	ClusterID     int      `json:"cluster_id"`
}

// ExportDocument is the combined structured-export output consumed by
// downstream indexing and analysis tools
type ExportDocument struct {
	StructuredEntityList   []ExportEntity          `json:"structured_entity_list"`
	NormalizedClusterLabel map[string]ClusterLabel `json:"normalized_cluster_labels"`
	RelationshipTriples    []RelationshipTriple    `json:"relationship_triples"`
	ChunksForEmbedding     []ChunkMetadata         `json:"chunks_for_embedding"`
}
