package meetgraph

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/core/chunking"
	"github.com/siherrmann/meetgraph/core/export"
	"github.com/siherrmann/meetgraph/core/extract"
	"github.com/siherrmann/meetgraph/core/ner"
	"github.com/siherrmann/meetgraph/core/triples"
	"github.com/siherrmann/meetgraph/database"
	"github.com/siherrmann/meetgraph/helper"
	"github.com/siherrmann/meetgraph/model"
	loadSql "github.com/siherrmann/meetgraph/sql"
	"github.com/siherrmann/meetgraph/store"
)

// Meetgraph provides a unified interface to the meeting ingestion pipeline:
// entity extraction, identity normalization, relationship triples and
// semantic chunking, with optional postgres persistence.
type Meetgraph struct {
	DB       *helper.Database          // nil when running on an in-memory store
	Chunks   *database.ChunksDBHandler // nil when running on an in-memory store
	Entities store.EntityStore

	Converter *extract.Converter
	Triples   *triples.Generator
	Chunker   *chunking.Chunker
	NER       *ner.Service
	Embedder  chunking.EmbedFunc // Optional, required for StoreChunks embeddings and SearchChunks

	// Logging
	log *slog.Logger
}

// Result is the outcome of processing one meeting record
type Result struct {
	Meeting  *model.Meeting
	Entities []model.Entity
	Triples  []model.RelationshipTriple
	Chunks   []model.ChunkMetadata
}

// NewMeetgraph creates a new Meetgraph instance backed by postgres.
// The embedding dimension fixes the vector column of the chunks table.
func NewMeetgraph(config *helper.DatabaseConfiguration, embeddingDim int) (*Meetgraph, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("meetgraph", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	entities, err := database.NewEntitiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	m := newWithStore(entities, logger)
	m.DB = db
	m.Chunks = chunks
	return m, nil
}

// NewMeetgraphWithStore creates a new Meetgraph instance on a caller-provided
// entity store, typically an in-memory store for tests and one-shot exports.
// Chunk persistence and similarity search are unavailable in this mode.
func NewMeetgraphWithStore(entityStore store.EntityStore) *Meetgraph {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return newWithStore(entityStore, logger)
}

func newWithStore(entityStore store.EntityStore, logger *slog.Logger) *Meetgraph {
	nerService := ner.NewService(nil, ner.DefaultConfig(), logger)

	return &Meetgraph{
		Entities:  entityStore,
		Converter: extract.NewConverter(entityStore, nerService, logger),
		Triples:   triples.NewGenerator(entityStore, logger),
		Chunker:   chunking.NewChunker(chunking.DefaultConfig(), logger),
		NER:       nerService,
		log:       logger,
	}
}

// Close closes the database connection
func (m *Meetgraph) Close() error {
	if m.DB != nil && m.DB.Instance != nil {
		return m.DB.Instance.Close()
	}
	return nil
}

// UseDefaultRecognizer wires the ONNX token classification model into the
// NER service. Without a recognizer, extraction works on structured fields
// only and free text is not augmented.
func (m *Meetgraph) UseDefaultRecognizer() error {
	recognizer, err := ner.DefaultRecognizer()
	if err != nil {
		return helper.NewError("create default recognizer", err)
	}

	m.NER = ner.NewService(recognizer, ner.DefaultConfig(), m.log)
	m.Converter = extract.NewConverter(m.Entities, m.NER, m.log)
	return nil
}

// UseDefaultEmbedder sets up the default embedding model,
// all-MiniLM-L6-v2 with 384 dimensions
func (m *Meetgraph) UseDefaultEmbedder() error {
	embedder, err := chunking.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	m.Embedder = embedder
	return nil
}

// ProcessMeetingRecord runs the full pipeline on one meeting record:
// 1. Extracts and normalizes entities into the entity store
// 2. Generates relationship triples for the meeting
// 3. Chunks the record content with entity and relationship annotations
// Re-processing the same record is idempotent for all derived identifiers.
func (m *Meetgraph) ProcessMeetingRecord(record *model.MeetingRecord) (*Result, error) {
	if record == nil {
		return nil, helper.NewError("process meeting record", fmt.Errorf("record is nil"))
	}

	meeting, err := m.Converter.ConvertMeetingToEntities(record)
	if err != nil {
		return nil, helper.NewError("convert meeting record", err)
	}

	entities, err := m.collectMeetingEntities(meeting)
	if err != nil {
		return nil, helper.NewError("collect meeting entities", err)
	}

	relationshipTriples, err := m.Triples.GenerateTriples(entities, meeting.ID)
	if err != nil {
		return nil, helper.NewError("generate triples", err)
	}

	chunks := m.Chunker.ChunkBySemanticUnit(record, entities, meeting.ID, relationshipTriples)

	m.log.Info("Processed meeting record",
		slog.String("meeting_id", meeting.ID.String()),
		slog.Int("num_entities", len(entities)),
		slog.Int("num_triples", len(relationshipTriples)),
		slog.Int("num_chunks", len(chunks)))

	return &Result{
		Meeting:  meeting,
		Entities: entities,
		Triples:  relationshipTriples,
		Chunks:   chunks,
	}, nil
}

// ProcessJSON decodes a raw JSON meeting record, including the legacy shape,
// and runs the full pipeline on it
func (m *Meetgraph) ProcessJSON(data []byte) (*Result, error) {
	record, err := model.DecodeMeetingRecord(data)
	if err != nil {
		return nil, helper.NewError("decode meeting record", err)
	}
	return m.ProcessMeetingRecord(record)
}

// StoreChunks persists the chunks of a processed result. When an embedder is
// set, each chunk is embedded before insertion; otherwise the embedding
// column stays empty and the chunks are excluded from similarity search.
func (m *Meetgraph) StoreChunks(result *Result) error {
	if m.Chunks == nil {
		return helper.NewError("store chunks", fmt.Errorf("chunk persistence requires a postgres-backed instance"))
	}

	for i := range result.Chunks {
		chunk := &result.Chunks[i]

		var embedding []float32
		if m.Embedder != nil {
			var err error
			embedding, err = m.Embedder(chunk.Text)
			if err != nil {
				return helper.NewError(fmt.Sprintf("embed chunk %d", i), err)
			}
		}

		if err := m.Chunks.InsertChunk(chunk, embedding); err != nil {
			return helper.NewError(fmt.Sprintf("insert chunk %d", i), err)
		}
	}

	m.log.Info("Stored chunks",
		slog.String("meeting_id", result.Meeting.ID.String()),
		slog.Int("num_chunks", len(result.Chunks)))

	return nil
}

// SearchChunks performs vector similarity search over all stored chunks
func (m *Meetgraph) SearchChunks(query string, limit int, threshold float64) ([]*model.ScoredChunk, error) {
	if m.Chunks == nil {
		return nil, helper.NewError("search chunks", fmt.Errorf("similarity search requires a postgres-backed instance"))
	}
	if m.Embedder == nil {
		return nil, helper.NewError("search chunks", fmt.Errorf("embedder not set, use UseDefaultEmbedder() first"))
	}

	embedding, err := m.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return m.Chunks.SelectChunksBySimilarity(embedding, limit, threshold)
}

// Export builds the structured export document for a processed result
func (m *Meetgraph) Export(result *Result) *model.ExportDocument {
	return export.Build(result.Entities, result.Triples, result.Chunks)
}

// collectMeetingEntities gathers the meeting itself, its workgroup, all
// named entities and every item owned by the meeting's agenda
func (m *Meetgraph) collectMeetingEntities(meeting *model.Meeting) ([]model.Entity, error) {
	entities := []model.Entity{meeting}

	workgroup, err := m.Entities.Load(meeting.WorkgroupID, model.KindWorkgroup)
	if err == nil {
		entities = append(entities, workgroup)
	}

	// Persons and workgroups are shared across meetings, the chunker needs
	// them all for mention matching
	persons, err := m.Entities.ScanAll(model.KindPerson)
	if err != nil {
		return nil, helper.NewError("scan persons", err)
	}
	entities = append(entities, persons...)

	agendaItems, err := m.Entities.FilterScan(model.KindAgendaItem, func(e model.Entity) bool {
		item, ok := e.(*model.AgendaItem)
		return ok && item.MeetingID == meeting.ID
	})
	if err != nil {
		return nil, helper.NewError("scan agenda items", err)
	}
	entities = append(entities, agendaItems...)

	agendaIndex := map[uuid.UUID]bool{}
	for _, item := range agendaItems {
		agendaIndex[item.EntityID()] = true
	}

	decisions, err := m.Entities.FilterScan(model.KindDecisionItem, func(e model.Entity) bool {
		item, ok := e.(*model.DecisionItem)
		return ok && agendaIndex[item.AgendaItemID]
	})
	if err != nil {
		return nil, helper.NewError("scan decision items", err)
	}
	entities = append(entities, decisions...)

	actions, err := m.Entities.FilterScan(model.KindActionItem, func(e model.Entity) bool {
		item, ok := e.(*model.ActionItem)
		return ok && agendaIndex[item.AgendaItemID]
	})
	if err != nil {
		return nil, helper.NewError("scan action items", err)
	}
	entities = append(entities, actions...)

	documents, err := m.Entities.FilterScan(model.KindDocument, func(e model.Entity) bool {
		doc, ok := e.(*model.Document)
		return ok && doc.MeetingID == meeting.ID
	})
	if err != nil {
		return nil, helper.NewError("scan documents", err)
	}
	entities = append(entities, documents...)

	tags, err := m.Entities.FilterScan(model.KindTag, func(e model.Entity) bool {
		tag, ok := e.(*model.Tag)
		return ok && tag.MeetingID == meeting.ID
	})
	if err != nil {
		return nil, helper.NewError("scan tags", err)
	}
	entities = append(entities, tags...)

	return entities, nil
}
