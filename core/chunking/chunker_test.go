package chunking

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkRecord() *model.MeetingRecord {
	return &model.MeetingRecord{
		Workgroup: "Marketing Guild",
		MeetingInfo: &model.MeetingInfo{
			Date:          "2025-01-15",
			PeoplePresent: "Alice Smith, Bob Jones",
			Purpose:       "Review Q1 campaign performance with Alice Smith.",
			WorkingDocs: []model.WorkingDoc{
				{Title: "Campaign Report", Link: "https://docs.example.com/report"},
			},
		},
		AgendaItems: []model.AgendaItemRecord{
			{
				ActionItems: []model.ActionRecord{
					{Text: "Alice Smith drafts the revised budget proposal"},
				},
				DecisionItems: []model.DecisionRecord{
					{Decision: "Approved budget increase"},
				},
			},
		},
	}
}

func chunkEntities(meetingID uuid.UUID) (entities []model.Entity, alice *model.Person) {
	alice = &model.Person{Base: model.Base{ID: uuid.New()}, DisplayName: "Alice Smith"}
	workgroup := &model.Workgroup{Base: model.Base{ID: uuid.New()}, Name: "Marketing Guild"}
	meeting := &model.Meeting{Base: model.Base{ID: meetingID}, WorkgroupID: workgroup.ID, Purpose: "Review Q1 campaign performance with Alice Smith."}
	return []model.Entity{alice, workgroup, meeting}, alice
}

func chunksOfType(chunks []model.ChunkMetadata, chunkType model.ChunkType) []model.ChunkMetadata {
	var found []model.ChunkMetadata
	for _, chunk := range chunks {
		if chunk.Metadata.ChunkType == chunkType {
			found = append(found, chunk)
		}
	}
	return found
}

func TestChunkBySemanticUnit(t *testing.T) {
	meetingID := uuid.New()
	entities, alice := chunkEntities(meetingID)
	chunker := NewChunker(DefaultConfig(), nil)

	chunks := chunker.ChunkBySemanticUnit(chunkRecord(), entities, meetingID, nil)

	t.Run("Each semantic role produces a chunk", func(t *testing.T) {
		require.Len(t, chunks, 5)
		assert.Len(t, chunksOfType(chunks, model.ChunkTypeMeetingSummary), 1)
		assert.Len(t, chunksOfType(chunks, model.ChunkTypeAttendance), 1)
		assert.Len(t, chunksOfType(chunks, model.ChunkTypeResource), 1)
		assert.Len(t, chunksOfType(chunks, model.ChunkTypeActionItem), 1)
		assert.Len(t, chunksOfType(chunks, model.ChunkTypeDecisionRecord), 1)
	})

	t.Run("Chunk indexes are sequential with a uniform total", func(t *testing.T) {
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.Metadata.ChunkIndex)
			assert.Equal(t, len(chunks), chunk.Metadata.TotalChunks)
			assert.Equal(t, meetingID, chunk.Metadata.MeetingID)
		}
	})

	t.Run("Mentioned entities are attached", func(t *testing.T) {
		action := chunksOfType(chunks, model.ChunkTypeActionItem)[0]
		require.Len(t, action.Entities, 1)
		assert.Equal(t, alice.ID, action.Entities[0].EntityID)
		assert.Equal(t, model.KindPerson, action.Entities[0].EntityType)
		assert.Contains(t, action.Entities[0].Mentions, "Alice Smith")

		attendance := chunksOfType(chunks, model.ChunkTypeAttendance)[0]
		require.Len(t, attendance.Entities, 1)
		assert.Equal(t, "Alice Smith", attendance.Entities[0].NormalizedName)
	})

	t.Run("Unmentioned chunks carry no entities", func(t *testing.T) {
		decision := chunksOfType(chunks, model.ChunkTypeDecisionRecord)[0]
		assert.Empty(t, decision.Entities)
	})

	t.Run("Source fields follow the record paths", func(t *testing.T) {
		assert.Equal(t, "meetingInfo.purpose", chunksOfType(chunks, model.ChunkTypeMeetingSummary)[0].Metadata.SourceField)
		assert.Equal(t, "meetingInfo.peoplePresent", chunksOfType(chunks, model.ChunkTypeAttendance)[0].Metadata.SourceField)
		assert.Equal(t, "meetingInfo.workingDocs[0]", chunksOfType(chunks, model.ChunkTypeResource)[0].Metadata.SourceField)
		assert.Equal(t, "agendaItems[0].actionItems[0]", chunksOfType(chunks, model.ChunkTypeActionItem)[0].Metadata.SourceField)
		assert.Equal(t, "agendaItems[0].decisionItems[0]", chunksOfType(chunks, model.ChunkTypeDecisionRecord)[0].Metadata.SourceField)
	})

	t.Run("Empty record yields no chunks", func(t *testing.T) {
		assert.Empty(t, chunker.ChunkBySemanticUnit(&model.MeetingRecord{}, nil, meetingID, nil))
		assert.Empty(t, chunker.ChunkBySemanticUnit(nil, nil, meetingID, nil))
	})
}

func TestChunkRelationshipAttachment(t *testing.T) {
	meetingID := uuid.New()
	entities, alice := chunkEntities(meetingID)
	chunker := NewChunker(DefaultConfig(), nil)

	triples := []model.RelationshipTriple{
		{
			SubjectID:    uuid.New(),
			SubjectType:  model.KindActionItem,
			Relationship: model.RelationAssignedTo,
			ObjectID:     alice.ID,
			ObjectType:   model.KindPerson,
		},
		{
			SubjectID:    uuid.New(),
			SubjectType:  model.KindWorkgroup,
			Relationship: model.RelationHeld,
			ObjectID:     uuid.New(),
			ObjectType:   model.KindMeeting,
		},
	}

	chunks := chunker.ChunkBySemanticUnit(chunkRecord(), entities, meetingID, triples)

	t.Run("Triples touching attached entities are kept", func(t *testing.T) {
		action := chunksOfType(chunks, model.ChunkTypeActionItem)[0]
		require.Len(t, action.Metadata.Relationships, 1)
		assert.Equal(t, model.RelationAssignedTo, action.Metadata.Relationships[0].Relationship)
		assert.Equal(t, model.KindPerson, action.Metadata.Relationships[0].ObjectType)
	})

	t.Run("Triples touching no attached entity are dropped", func(t *testing.T) {
		decision := chunksOfType(chunks, model.ChunkTypeDecisionRecord)[0]
		assert.Empty(t, decision.Metadata.Relationships)
	})
}

func TestAttachEntities(t *testing.T) {
	alice := &model.Person{Base: model.Base{ID: uuid.New()}, DisplayName: "Stephen"}

	t.Run("Match is case-insensitive", func(t *testing.T) {
		attached := attachEntities("STEPHEN presented the plan.", []model.Entity{alice})
		require.Len(t, attached, 1)
		assert.Equal(t, "Stephen", attached[0].NormalizedName)
	})

	t.Run("Word-glued variants become extra mentions", func(t *testing.T) {
		attached := attachEntities("Stephen[QADAO] presented, Stephen agreed.", []model.Entity{alice})
		require.Len(t, attached, 1)
		assert.Contains(t, attached[0].Mentions, "Stephen")
		assert.Contains(t, attached[0].Mentions, "Stephen[QADAO]")
	})

	t.Run("Entities without labels are skipped", func(t *testing.T) {
		unnamed := &model.Person{Base: model.Base{ID: uuid.New()}}
		attached := attachEntities("Stephen presented.", []model.Entity{unnamed})
		assert.Empty(t, attached)
	})
}

func TestSplitOversizedChunks(t *testing.T) {
	meetingID := uuid.New()

	// ~30 tokens per sentence against a 20 token budget forces one sentence
	// per sub-chunk
	sentence := strings.Repeat("word ", 24)
	longText := strings.TrimSpace(sentence) + ". " + strings.TrimSpace(sentence) + ". " + strings.TrimSpace(sentence) + "."

	record := &model.MeetingRecord{
		MeetingInfo: &model.MeetingInfo{Date: "2025-01-15", Purpose: longText},
	}

	t.Run("Oversized chunk is split at sentence boundaries", func(t *testing.T) {
		chunker := NewChunker(Config{MaxTokensPerChunk: 20, SplitOnSentences: true, PreserveMetadata: true}, nil)
		chunks := chunker.ChunkBySemanticUnit(record, nil, meetingID, nil)
		assert.Greater(t, len(chunks), 1, "Expected the oversized purpose to be split")
		for _, chunk := range chunks {
			assert.Equal(t, model.ChunkTypeMeetingSummary, chunk.Metadata.ChunkType)
			assert.Equal(t, "meetingInfo.purpose", chunk.Metadata.SourceField)
		}
	})

	t.Run("Re-splitting preserves the full content", func(t *testing.T) {
		chunker := NewChunker(Config{MaxTokensPerChunk: 20, SplitOnSentences: true, PreserveMetadata: true}, nil)
		chunks := chunker.ChunkBySemanticUnit(record, nil, meetingID, nil)

		var joined []string
		for _, chunk := range chunks {
			joined = append(joined, chunk.Text)
		}
		original := strings.Join(strings.Fields(longText), " ")
		recombined := strings.Join(strings.Fields(strings.Join(joined, " ")), " ")
		assert.Equal(t, original, recombined, "Expected no sentence to be dropped by splitting")
	})

	t.Run("Sub-chunks inherit metadata when preservation is enabled", func(t *testing.T) {
		withAlice := &model.MeetingRecord{
			MeetingInfo: &model.MeetingInfo{Date: "2025-01-15", Purpose: "Alice Smith spoke. " + longText},
		}
		entities, alice := chunkEntities(meetingID)
		_ = alice

		chunker := NewChunker(Config{MaxTokensPerChunk: 20, SplitOnSentences: true, PreserveMetadata: true}, nil)
		chunks := chunker.ChunkBySemanticUnit(withAlice, entities, meetingID, nil)
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk.Entities, "Expected every sub-chunk to inherit the parent's entities")
		}
	})

	t.Run("Metadata preservation can be disabled", func(t *testing.T) {
		withAlice := &model.MeetingRecord{
			MeetingInfo: &model.MeetingInfo{Date: "2025-01-15", Purpose: "Alice Smith spoke. " + longText},
		}
		entities, _ := chunkEntities(meetingID)

		chunker := NewChunker(Config{MaxTokensPerChunk: 20, SplitOnSentences: true, PreserveMetadata: false}, nil)
		chunks := chunker.ChunkBySemanticUnit(withAlice, entities, meetingID, nil)
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.Empty(t, chunk.Entities)
			assert.Empty(t, chunk.Metadata.Relationships)
		}
	})

	t.Run("Splitting disabled passes oversized chunks through unchanged", func(t *testing.T) {
		chunker := NewChunker(Config{MaxTokensPerChunk: 20, SplitOnSentences: false, PreserveMetadata: true}, nil)
		chunks := chunker.ChunkBySemanticUnit(record, nil, meetingID, nil)
		require.Len(t, chunks, 1)
		assert.Equal(t, longText, chunks[0].Text)
	})

	t.Run("Split chunks are renumbered over the whole list", func(t *testing.T) {
		chunker := NewChunker(Config{MaxTokensPerChunk: 20, SplitOnSentences: true, PreserveMetadata: true}, nil)
		withAttendance := &model.MeetingRecord{
			MeetingInfo: &model.MeetingInfo{Date: "2025-01-15", Purpose: longText, PeoplePresent: "Alice Smith"},
		}
		chunks := chunker.ChunkBySemanticUnit(withAttendance, nil, meetingID, nil)
		require.Greater(t, len(chunks), 2)
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.Metadata.ChunkIndex)
			assert.Equal(t, len(chunks), chunk.Metadata.TotalChunks)
		}
	})
}

func TestSplitSentences(t *testing.T) {
	t.Run("Splits on sentence-ending punctuation", func(t *testing.T) {
		sentences := splitSentences("First one. Second one! Third one? Fourth one.")
		assert.Equal(t, []string{"First one.", "Second one!", "Third one?", "Fourth one."}, sentences)
	})

	t.Run("Text without boundaries stays whole", func(t *testing.T) {
		sentences := splitSentences("no boundaries here")
		assert.Equal(t, []string{"no boundaries here"}, sentences)
	})
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, estimateTokens("abc"))
	assert.Equal(t, 1, estimateTokens("abcd"))
	assert.Equal(t, 25, estimateTokens(strings.Repeat("a", 100)))
}
