// Package export assembles the combined structured-export document consumed
// by downstream indexing and analysis tools.
package export

import (
	"sort"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
)

// Build assembles the four-section export document from materialized
// entities, their derived triples and the embedding-ready chunks.
// Name variations are collected from chunk mentions and person aliases.
func Build(entities []model.Entity, relationshipTriples []model.RelationshipTriple, chunks []model.ChunkMetadata) *model.ExportDocument {
	variations := collectVariations(chunks)

	exportEntities := make([]model.ExportEntity, 0, len(entities))
	for _, entity := range entities {
		exportEntity := model.ExportEntity{
			EntityID:             entity.EntityID(),
			EntityType:           entity.EntityKind(),
			CanonicalName:        entity.Label(),
			NormalizedVariations: variations[entity.EntityID()],
			SourceMeetings:       sourceMeetings(entity),
		}
		if exportEntity.NormalizedVariations == nil {
			exportEntity.NormalizedVariations = []string{}
		}
		exportEntities = append(exportEntities, exportEntity)
	}

	sort.Slice(exportEntities, func(i, j int) bool {
		if exportEntities[i].EntityType != exportEntities[j].EntityType {
			return exportEntities[i].EntityType < exportEntities[j].EntityType
		}
		return exportEntities[i].CanonicalName < exportEntities[j].CanonicalName
	})

	clusterLabels := make(map[string]model.ClusterLabel, len(exportEntities))
	for i, exportEntity := range exportEntities {
		clusterLabels[exportEntity.EntityID.String()] = model.ClusterLabel{
			CanonicalName: exportEntity.CanonicalName,
			Variations:    exportEntity.NormalizedVariations,
			ClusterID:     i,
		}
	}

	if relationshipTriples == nil {
		relationshipTriples = []model.RelationshipTriple{}
	}
	if chunks == nil {
		chunks = []model.ChunkMetadata{}
	}

	return &model.ExportDocument{
		StructuredEntityList:   exportEntities,
		NormalizedClusterLabel: clusterLabels,
		RelationshipTriples:    relationshipTriples,
		ChunksForEmbedding:     chunks,
	}
}

// collectVariations gathers every distinct textual mention per entity from
// the chunk annotations
func collectVariations(chunks []model.ChunkMetadata) map[uuid.UUID][]string {
	variations := make(map[uuid.UUID][]string)
	for _, chunk := range chunks {
		for _, chunkEntity := range chunk.Entities {
			for _, mention := range chunkEntity.Mentions {
				if !containsString(variations[chunkEntity.EntityID], mention) {
					variations[chunkEntity.EntityID] = append(variations[chunkEntity.EntityID], mention)
				}
			}
		}
	}
	return variations
}

// sourceMeetings returns the meeting provenance of shared entities
func sourceMeetings(entity model.Entity) []uuid.UUID {
	switch typed := entity.(type) {
	case *model.Person:
		if typed.SourceMeetings != nil {
			return typed.SourceMeetings
		}
	case *model.Workgroup:
		if typed.SourceMeetings != nil {
			return typed.SourceMeetings
		}
	case *model.Meeting:
		return []uuid.UUID{typed.ID}
	case *model.AgendaItem:
		return []uuid.UUID{typed.MeetingID}
	case *model.Document:
		return []uuid.UUID{typed.MeetingID}
	case *model.Tag:
		return []uuid.UUID{typed.MeetingID}
	}
	return []uuid.UUID{}
}

func containsString(list []string, s string) bool {
	for _, member := range list {
		if member == s {
			return true
		}
	}
	return false
}
