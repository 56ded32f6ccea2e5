// Package chunking splits meeting content into semantically-typed,
// entity-annotated chunks for downstream vector retrieval.
package chunking

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
)

// charsPerToken is the characters-per-token estimation heuristic,
// not an exact tokenizer
const charsPerToken = 4

// Config holds the chunking settings
type Config struct {
	// MaxTokensPerChunk is the estimated token budget of one chunk
	MaxTokensPerChunk int
	// SplitOnSentences re-splits oversized chunks at sentence boundaries.
	// When disabled, oversized chunks pass through unchanged with a logged
	// warning, content is never silently dropped.
	SplitOnSentences bool
	// PreserveMetadata copies entity and relationship metadata onto
	// sub-chunks produced by re-splitting
	PreserveMetadata bool
}

// DefaultConfig returns the default chunking settings
func DefaultConfig() Config {
	return Config{
		MaxTokensPerChunk: 512,
		SplitOnSentences:  true,
		PreserveMetadata:  true,
	}
}

// Chunker produces semantic chunks from meeting records
type Chunker struct {
	config Config
	log    *slog.Logger
}

// NewChunker creates a chunker with the given settings
func NewChunker(config Config, logger *slog.Logger) *Chunker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if config.MaxTokensPerChunk <= 0 {
		config.MaxTokensPerChunk = DefaultConfig().MaxTokensPerChunk
	}
	return &Chunker{
		config: config,
		log:    logger,
	}
}

// rawChunk is one chunk source before entity attachment and splitting
type rawChunk struct {
	text        string
	chunkType   model.ChunkType
	sourceField string
}

// ChunkBySemanticUnit splits a meeting record into units aligned to semantic
// roles, attaches matched entities and relevant relationship triples to each
// unit, and re-splits oversized units at sentence boundaries. The final list
// carries sequential zero-based chunk indexes and a uniform total count.
func (c *Chunker) ChunkBySemanticUnit(record *model.MeetingRecord, entities []model.Entity, meetingID uuid.UUID, relationshipTriples []model.RelationshipTriple) []model.ChunkMetadata {
	var chunks []model.ChunkMetadata

	for _, raw := range c.collectRawChunks(record) {
		built, ok := c.buildChunk(raw, entities, meetingID, relationshipTriples)
		if !ok {
			continue
		}
		chunks = append(chunks, c.split(built)...)
	}

	// Final pass, sequential indexes and uniform total over the full list
	for i := range chunks {
		chunks[i].Metadata.ChunkIndex = i
		chunks[i].Metadata.TotalChunks = len(chunks)
	}

	return chunks
}

// collectRawChunks gathers the five chunk sources of a meeting record
func (c *Chunker) collectRawChunks(record *model.MeetingRecord) []rawChunk {
	var raw []rawChunk
	if record == nil {
		return raw
	}

	if info := record.MeetingInfo; info != nil {
		if strings.TrimSpace(info.Purpose) != "" {
			raw = append(raw, rawChunk{
				text:        info.Purpose,
				chunkType:   model.ChunkTypeMeetingSummary,
				sourceField: "meetingInfo.purpose",
			})
		}
		if strings.TrimSpace(info.PeoplePresent) != "" {
			raw = append(raw, rawChunk{
				text:        info.PeoplePresent,
				chunkType:   model.ChunkTypeAttendance,
				sourceField: "meetingInfo.peoplePresent",
			})
		}
		for i, doc := range info.WorkingDocs {
			if strings.TrimSpace(doc.Title) == "" {
				continue
			}
			raw = append(raw, rawChunk{
				text:        doc.Title,
				chunkType:   model.ChunkTypeResource,
				sourceField: fmt.Sprintf("meetingInfo.workingDocs[%d]", i),
			})
		}
	}

	for i, agendaItem := range record.AgendaItems {
		for j, action := range agendaItem.ActionItems {
			if strings.TrimSpace(action.Text) == "" {
				continue
			}
			raw = append(raw, rawChunk{
				text:        action.Text,
				chunkType:   model.ChunkTypeActionItem,
				sourceField: fmt.Sprintf("agendaItems[%d].actionItems[%d]", i, j),
			})
		}
		for j, decision := range agendaItem.DecisionItems {
			if strings.TrimSpace(decision.Decision) == "" {
				continue
			}
			raw = append(raw, rawChunk{
				text:        decision.Decision,
				chunkType:   model.ChunkTypeDecisionRecord,
				sourceField: fmt.Sprintf("agendaItems[%d].decisionItems[%d]", i, j),
			})
		}
	}

	return raw
}

// buildChunk attaches entities and relationships to one raw chunk.
// Attachment failures are isolated per chunk so one bad chunk never prevents
// the others from being produced.
func (c *Chunker) buildChunk(raw rawChunk, entities []model.Entity, meetingID uuid.UUID, triples []model.RelationshipTriple) (chunk model.ChunkMetadata, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("Chunk annotation failed",
				slog.String("chunk_type", string(raw.chunkType)),
				slog.String("source_field", raw.sourceField),
				slog.Any("error", r))
			ok = false
		}
	}()

	attached := attachEntities(raw.text, entities)

	attachedIDs := make(map[uuid.UUID]bool, len(attached))
	for _, entity := range attached {
		attachedIDs[entity.EntityID] = true
	}

	relationships := make([]model.ChunkRelationship, 0)
	for _, triple := range triples {
		if attachedIDs[triple.SubjectID] || attachedIDs[triple.ObjectID] {
			relationships = append(relationships, model.ChunkRelationship{
				SubjectType:  triple.SubjectType,
				Relationship: triple.Relationship,
				ObjectType:   triple.ObjectType,
			})
		}
	}

	return model.ChunkMetadata{
		Text:     raw.text,
		Entities: attached,
		Metadata: model.ChunkMetadataModel{
			MeetingID:     meetingID,
			ChunkType:     raw.chunkType,
			SourceField:   raw.sourceField,
			Relationships: relationships,
		},
	}, true
}

// attachEntities scans the chunk text for every candidate entity's label
// (case-insensitive substring) and collects all textual mentions found,
// including word-glued variants like "Stephen[QADAO]" next to "Stephen"
func attachEntities(text string, entities []model.Entity) []model.ChunkEntity {
	attached := make([]model.ChunkEntity, 0)
	loweredText := strings.ToLower(text)

	for _, entity := range entities {
		name := entity.Label()
		if strings.TrimSpace(name) == "" {
			continue
		}
		if !strings.Contains(loweredText, strings.ToLower(name)) {
			continue
		}

		mentions := []string{name}
		gluedPattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(name) + `\S+`)
		if err == nil {
			for _, glued := range gluedPattern.FindAllString(text, -1) {
				if !containsString(mentions, glued) {
					mentions = append(mentions, glued)
				}
			}
		}

		attached = append(attached, model.ChunkEntity{
			EntityID:       entity.EntityID(),
			EntityType:     entity.EntityKind(),
			NormalizedName: name,
			Mentions:       mentions,
		})
	}

	return attached
}

// split re-splits one chunk at sentence boundaries when it exceeds the token
// budget. Sub-chunks inherit the parent's metadata when preservation is
// enabled, otherwise they carry empty entity and relationship lists.
func (c *Chunker) split(chunk model.ChunkMetadata) []model.ChunkMetadata {
	if estimateTokens(chunk.Text) <= c.config.MaxTokensPerChunk {
		return []model.ChunkMetadata{chunk}
	}

	if !c.config.SplitOnSentences {
		c.log.Warn("Chunk exceeds token budget with splitting disabled, passing through unchanged",
			slog.String("chunk_type", string(chunk.Metadata.ChunkType)),
			slog.String("source_field", chunk.Metadata.SourceField),
			slog.Int("estimated_tokens", estimateTokens(chunk.Text)))
		return []model.ChunkMetadata{chunk}
	}

	sentences := splitSentences(chunk.Text)
	if len(sentences) <= 1 {
		return []model.ChunkMetadata{chunk}
	}

	var parts []string
	var buffer []string
	bufferLen := 0
	for _, sentence := range sentences {
		candidateLen := bufferLen + len(sentence)
		if bufferLen > 0 {
			candidateLen++ // joining space
		}
		if candidateLen/charsPerToken > c.config.MaxTokensPerChunk && len(buffer) > 0 {
			parts = append(parts, strings.Join(buffer, " "))
			buffer = nil
			bufferLen = 0
			candidateLen = len(sentence)
		}
		buffer = append(buffer, sentence)
		bufferLen = candidateLen
	}
	if len(buffer) > 0 {
		parts = append(parts, strings.Join(buffer, " "))
	}

	result := make([]model.ChunkMetadata, 0, len(parts))
	for _, part := range parts {
		sub := model.ChunkMetadata{
			Text:     part,
			Metadata: chunk.Metadata,
		}
		if c.config.PreserveMetadata {
			sub.Entities = chunk.Entities
		} else {
			sub.Entities = []model.ChunkEntity{}
			sub.Metadata.Relationships = []model.ChunkRelationship{}
		}
		result = append(result, sub)
	}
	return result
}

// splitSentences segments text on sentence-ending punctuation followed by
// whitespace
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "! ", "!|")
	text = strings.ReplaceAll(text, "? ", "?|")
	text = strings.ReplaceAll(text, ". ", ".|")

	var sentences []string
	for _, s := range strings.Split(text, "|") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// estimateTokens estimates the token count as text length divided by four
func estimateTokens(text string) int {
	return len(text) / charsPerToken
}

func containsString(list []string, s string) bool {
	for _, member := range list {
		if member == s {
			return true
		}
	}
	return false
}
