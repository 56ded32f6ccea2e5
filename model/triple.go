package model

import "github.com/google/uuid"

// Relation labels produced by the structural triple rules
const (
	RelationHeld       = "held"
	RelationAttended   = "attended"
	RelationProduced   = "produced"
	RelationAssignedTo = "assigned_to"
	RelationMade       = "made"
	RelationHas        = "has"
	RelationHasEffect  = "has_effect"
)

// RelationshipTriple is a directed (subject, relation, object) fact between
// two entities. Triples are derived data, generated on demand and not
// persisted. Subject and object carry type+name snapshots so they can be
// displayed without a follow-up store lookup.
type RelationshipTriple struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	SubjectType Kind      `json:"subject_type"`
	SubjectName string    `json:"subject_name"`

	Relationship string `json:"relationship"`

	// ObjectID is uuid.Nil when the object is a plain label (e.g. a decision
	// effect) rather than an entity
	ObjectID   uuid.UUID `json:"object_id"`
	ObjectType Kind      `json:"object_type,omitempty"`
	ObjectName string    `json:"object_name"`

	// Provenance
	SourceMeetingID uuid.UUID `json:"source_meeting_id"`
	SourceField     string    `json:"source_field"`
}

// Touches reports whether the triple has the given entity as subject or object
func (t *RelationshipTriple) Touches(entityID uuid.UUID) bool {
	return t.SubjectID == entityID || t.ObjectID == entityID
}
