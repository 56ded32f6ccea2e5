package export

import (
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	meetingID := uuid.New()

	alice := &model.Person{
		Base:           model.Base{ID: uuid.New()},
		DisplayName:    "Alice Smith",
		SourceMeetings: []uuid.UUID{meetingID},
	}
	bob := &model.Person{
		Base:        model.Base{ID: uuid.New()},
		DisplayName: "Bob Jones",
	}
	workgroup := &model.Workgroup{
		Base: model.Base{ID: uuid.New()},
		Name: "Marketing Guild",
	}
	meeting := &model.Meeting{
		Base:        model.Base{ID: meetingID},
		WorkgroupID: workgroup.ID,
		Purpose:     "Monthly sync",
	}
	entities := []model.Entity{bob, meeting, alice, workgroup}

	triples := []model.RelationshipTriple{
		{SubjectID: workgroup.ID, Relationship: model.RelationHeld, ObjectID: meetingID},
	}

	chunks := []model.ChunkMetadata{
		{
			Text: "Alice Smith[QADAO] presented, Alice Smith agreed.",
			Entities: []model.ChunkEntity{
				{
					EntityID:       alice.ID,
					EntityType:     model.KindPerson,
					NormalizedName: "Alice Smith",
					Mentions:       []string{"Alice Smith", "Alice Smith[QADAO]"},
				},
			},
			Metadata: model.ChunkMetadataModel{MeetingID: meetingID, ChunkType: model.ChunkTypeMeetingSummary},
		},
		{
			Text: "Alice Smith, Bob Jones",
			Entities: []model.ChunkEntity{
				{EntityID: alice.ID, EntityType: model.KindPerson, NormalizedName: "Alice Smith", Mentions: []string{"Alice Smith"}},
				{EntityID: bob.ID, EntityType: model.KindPerson, NormalizedName: "Bob Jones", Mentions: []string{"Bob Jones"}},
			},
			Metadata: model.ChunkMetadataModel{MeetingID: meetingID, ChunkType: model.ChunkTypeAttendance},
		},
	}

	document := Build(entities, triples, chunks)
	require.NotNil(t, document)

	t.Run("Entity list is sorted by type then name", func(t *testing.T) {
		require.Len(t, document.StructuredEntityList, 4)
		assert.Equal(t, meeting.ID, document.StructuredEntityList[0].EntityID)
		assert.Equal(t, alice.ID, document.StructuredEntityList[1].EntityID)
		assert.Equal(t, bob.ID, document.StructuredEntityList[2].EntityID)
		assert.Equal(t, workgroup.ID, document.StructuredEntityList[3].EntityID)
	})

	t.Run("Variations are gathered from chunk mentions without duplicates", func(t *testing.T) {
		aliceEntry := document.StructuredEntityList[1]
		assert.Equal(t, "Alice Smith", aliceEntry.CanonicalName)
		assert.Equal(t, []string{"Alice Smith", "Alice Smith[QADAO]"}, aliceEntry.NormalizedVariations)
	})

	t.Run("Entities without mentions carry an empty variation list", func(t *testing.T) {
		workgroupEntry := document.StructuredEntityList[3]
		assert.NotNil(t, workgroupEntry.NormalizedVariations)
		assert.Empty(t, workgroupEntry.NormalizedVariations)
	})

	t.Run("Source meetings follow entity ownership", func(t *testing.T) {
		assert.Equal(t, []uuid.UUID{meetingID}, document.StructuredEntityList[0].SourceMeetings)
		assert.Equal(t, []uuid.UUID{meetingID}, document.StructuredEntityList[1].SourceMeetings)
		assert.Empty(t, document.StructuredEntityList[2].SourceMeetings, "Expected no provenance without source meetings")
	})

	t.Run("Cluster labels are keyed by entity id with sequential cluster ids", func(t *testing.T) {
		require.Len(t, document.NormalizedClusterLabel, 4)
		for i, entry := range document.StructuredEntityList {
			label, ok := document.NormalizedClusterLabel[entry.EntityID.String()]
			require.True(t, ok)
			assert.Equal(t, entry.CanonicalName, label.CanonicalName)
			assert.Equal(t, entry.NormalizedVariations, label.Variations)
			assert.Equal(t, i, label.ClusterID)
		}
	})

	t.Run("Triples and chunks pass through unchanged", func(t *testing.T) {
		assert.Equal(t, triples, document.RelationshipTriples)
		assert.Equal(t, chunks, document.ChunksForEmbedding)
	})
}

func TestBuildEmptyInputs(t *testing.T) {
	document := Build(nil, nil, nil)
	require.NotNil(t, document)

	assert.Empty(t, document.StructuredEntityList)
	assert.Empty(t, document.NormalizedClusterLabel)
	assert.NotNil(t, document.RelationshipTriples, "Expected empty slices instead of nil for JSON output")
	assert.NotNil(t, document.ChunksForEmbedding)
}
