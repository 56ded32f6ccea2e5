package model

import "github.com/google/uuid"

// NEREntity is a free-text entity mention produced by a recognizer run.
// Ephemeral, produced per extraction call. NormalizedEntityID stays uuid.Nil
// until the mention is merged with a canonical entity.
type NEREntity struct {
	Text               string    `json:"text"`
	Type               string    `json:"type"`
	SourceText         string    `json:"source_text"`
	SourceField        string    `json:"source_field"`
	SourceMeetingID    uuid.UUID `json:"source_meeting_id"`
	NormalizedEntityID uuid.UUID `json:"normalized_entity_id,omitempty"`
	Confidence         float64   `json:"confidence"`
}
