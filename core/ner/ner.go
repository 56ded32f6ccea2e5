// Package ner runs named-entity recognition over free-text meeting fields and
// merges recognized mentions into the canonical entity graph. The service
// never creates entities itself, unlinked mentions are left for the caller.
package ner

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/core/identity"
	"github.com/siherrmann/meetgraph/model"
)

// Recognition is one raw mention reported by a recognizer backend
type Recognition struct {
	Text       string
	Type       string
	Confidence float64
}

// Recognizer is the named-entity recognition backend. Initialization of a
// real model backend is slow and happens once, outside any per-record loop.
type Recognizer interface {
	Recognize(text string) ([]Recognition, error)
}

// fillerKeywords are substrings marking a mention as placeholder noise
var fillerKeywords = []string{"comment", "filler", "n/a", "none", "tbd", "todo", "tba"}

// relativeDateTokens are bare relative dates carrying no stable reference
var relativeDateTokens = map[string]bool{
	"today":     true,
	"tomorrow":  true,
	"yesterday": true,
	"now":       true,
	"next":      true,
	"last":      true,
}

// alwaysAcceptedTypes pass once the universal filters pass
var alwaysAcceptedTypes = map[string]bool{
	"PER":    true,
	"PERSON": true,
	"ORG":    true,
	"GPE":    true,
}

// Config holds the NER service settings
type Config struct {
	// AllowedTypes restricts which recognizer types are admitted
	AllowedTypes []string
}

// DefaultConfig returns the default allow-list covering the types the
// distilbert-NER model emits plus the date type
func DefaultConfig() Config {
	return Config{
		AllowedTypes: []string{"PER", "PERSON", "ORG", "LOC", "GPE", "MISC", "DATE"},
	}
}

// Service filters recognizer output and links mentions to canonical entities
type Service struct {
	recognizer Recognizer
	config     Config
	log        *slog.Logger
}

// NewService creates a NER integration service over the given recognizer
func NewService(recognizer Recognizer, config Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		recognizer: recognizer,
		config:     config,
		log:        logger,
	}
}

// ExtractFromText runs the recognizer over the text and returns the admitted
// mentions with source provenance
func (s *Service) ExtractFromText(text string, meetingID uuid.UUID, sourceField string) ([]model.NEREntity, error) {
	if s.recognizer == nil {
		return nil, fmt.Errorf("no recognizer configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	recognitions, err := s.recognizer.Recognize(text)
	if err != nil {
		return nil, fmt.Errorf("recognizer failed: %w", err)
	}

	var entities []model.NEREntity
	for _, recognition := range recognitions {
		if !s.typeAllowed(recognition.Type) {
			continue
		}
		if !admit(recognition.Text, recognition.Type) {
			s.log.Debug("Rejected NER mention",
				slog.String("text", recognition.Text),
				slog.String("type", recognition.Type),
				slog.String("source_field", sourceField))
			continue
		}

		entities = append(entities, model.NEREntity{
			Text:            strings.TrimSpace(recognition.Text),
			Type:            recognition.Type,
			SourceText:      text,
			SourceField:     sourceField,
			SourceMeetingID: meetingID,
			Confidence:      recognition.Confidence,
		})
	}

	return entities, nil
}

// MergeWithStructured links NER mentions to the supplied structured entities.
// It first attempts canonical normalization (exact-then-fuzzy), then falls
// back to a direct fuzzy-similarity scan against each entity's display label.
// Mentions with no match of either kind remain unlinked.
func (s *Service) MergeWithStructured(nerEntities []model.NEREntity, structured []model.Entity) []model.NEREntity {
	candidates := make([]identity.Candidate, 0, len(structured))
	for _, entity := range structured {
		if entity.Label() == "" {
			continue
		}
		candidates = append(candidates, identity.Candidate{ID: entity.EntityID(), Name: entity.Label()})
	}

	for i := range nerEntities {
		canonicalID, _, err := identity.NormalizeName(nerEntities[i].Text, candidates)
		if err == nil && canonicalID != uuid.Nil {
			nerEntities[i].NormalizedEntityID = canonicalID
			continue
		}

		// Direct fuzzy fallback over display labels, first candidate at or
		// above the threshold wins
		for _, candidate := range candidates {
			if identity.Ratio(nerEntities[i].Text, candidate.Name) >= identity.SimilarityThreshold {
				nerEntities[i].NormalizedEntityID = candidate.ID
				break
			}
		}
	}

	return nerEntities
}

func (s *Service) typeAllowed(entityType string) bool {
	for _, allowed := range s.config.AllowedTypes {
		if strings.EqualFold(entityType, allowed) {
			return true
		}
	}
	return false
}

// admit applies the type-aware admission filter to one mention
func admit(text string, entityType string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len([]rune(trimmed)) < 2 {
		return false
	}

	lowered := strings.ToLower(trimmed)
	for _, keyword := range fillerKeywords {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}

	if strings.EqualFold(entityType, "DATE") {
		return !relativeDateTokens[lowered]
	}

	if alwaysAcceptedTypes[strings.ToUpper(entityType)] {
		return true
	}

	if isAlphanumericWithSpaces(trimmed) {
		return true
	}
	return hasWordOfLength(trimmed, 3)
}

func isAlphanumericWithSpaces(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func hasWordOfLength(s string, n int) bool {
	for _, word := range strings.Fields(s) {
		if len([]rune(word)) >= n {
			return true
		}
	}
	return false
}
