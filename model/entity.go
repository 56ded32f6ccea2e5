package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies an entity variant. Entities are persisted in per-kind
// collections keyed by UUID.
type Kind string

const (
	KindWorkgroup    Kind = "workgroup"
	KindPerson       Kind = "person"
	KindMeeting      Kind = "meeting"
	KindAgendaItem   Kind = "agenda_item"
	KindDecisionItem Kind = "decision_item"
	KindActionItem   Kind = "action_item"
	KindDocument     Kind = "document"
	KindTag          Kind = "tag"
)

// AllKinds lists every entity kind in a stable order
var AllKinds = []Kind{
	KindWorkgroup,
	KindPerson,
	KindMeeting,
	KindAgendaItem,
	KindDecisionItem,
	KindActionItem,
	KindDocument,
	KindTag,
}

// Entity is the common contract of all entity variants.
// Label returns the human-readable name of the entity (display name, name,
// decision text, title, ...), resolved by static dispatch per variant instead
// of runtime attribute probing.
type Entity interface {
	EntityID() uuid.UUID
	EntityKind() Kind
	Label() string
	Touch(now time.Time)
}

// Base carries the attributes shared by all entity variants.
// The identifier is immutable once assigned; timestamps are monotonic
// non-decreasing.
type Base struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID returns the entity identifier
func (b *Base) EntityID() uuid.UUID {
	return b.ID
}

// Touch updates the timestamps, never moving them backwards
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if now.After(b.UpdatedAt) {
		b.UpdatedAt = now
	}
}

// Workgroup is a shared, independently-owned entity referenced by meetings
type Workgroup struct {
	Base
	Name string `json:"name"`
	// Meetings this workgroup was seen in, for recurrence tracking
	SourceMeetings []uuid.UUID `json:"source_meetings,omitempty"`
}

func (w *Workgroup) EntityKind() Kind { return KindWorkgroup }
func (w *Workgroup) Label() string    { return w.Name }

// Person is a shared, independently-owned entity referenced by meetings.
// Its identifier is a deterministic hash of the normalized display name.
type Person struct {
	Base
	DisplayName    string      `json:"display_name"`
	Alias          string      `json:"alias,omitempty"`
	Role           string      `json:"role,omitempty"`
	SourceMeetings []uuid.UUID `json:"source_meetings,omitempty"`
}

func (p *Person) EntityKind() Kind { return KindPerson }
func (p *Person) Label() string    { return p.DisplayName }

// MeetingType is the closed set of known meeting cadences
type MeetingType string

const (
	MeetingTypeMonthly   MeetingType = "Monthly"
	MeetingTypeWeekly    MeetingType = "Weekly"
	MeetingTypeBiweekly  MeetingType = "Biweekly"
	MeetingTypeQuarterly MeetingType = "Quarterly"
	MeetingTypeOneOff    MeetingType = "One-off"
)

// MeetingTypes lists all valid meeting types
var MeetingTypes = []MeetingType{
	MeetingTypeMonthly,
	MeetingTypeWeekly,
	MeetingTypeBiweekly,
	MeetingTypeQuarterly,
	MeetingTypeOneOff,
}

// Meeting is the root entity of one ingested meeting record.
// Its identifier is a deterministic hash of (workgroup id, meeting date).
type Meeting struct {
	Base
	WorkgroupID      uuid.UUID   `json:"workgroup_id"`
	MeetingType      MeetingType `json:"meeting_type,omitempty"`
	Date             time.Time   `json:"date"`
	HostID           *uuid.UUID  `json:"host_id,omitempty"`
	DocumenterID     *uuid.UUID  `json:"documenter_id,omitempty"`
	Purpose          string      `json:"purpose,omitempty"`
	VideoLink        string      `json:"video_link,omitempty"`
	TimestampedVideo Metadata    `json:"timestamped_video,omitempty"`
	NoSummaryGiven   bool        `json:"no_summary_given"`
	CanceledSummary  bool        `json:"canceled_summary"`
}

func (m *Meeting) EntityKind() Kind { return KindMeeting }
func (m *Meeting) Label() string    { return m.Purpose }

// AgendaStatus is the closed set of agenda item states
type AgendaStatus string

const (
	AgendaStatusCarryOver  AgendaStatus = "carry_over"
	AgendaStatusComplete   AgendaStatus = "complete"
	AgendaStatusPending    AgendaStatus = "pending"
	AgendaStatusInProgress AgendaStatus = "in_progress"
)

// AgendaStatuses lists all valid agenda item statuses
var AgendaStatuses = []AgendaStatus{
	AgendaStatusCarryOver,
	AgendaStatusComplete,
	AgendaStatusPending,
	AgendaStatusInProgress,
}

// AgendaItem is owned by its meeting. Its identifier is a deterministic hash
// of (meeting id, positional index within the agenda list).
type AgendaItem struct {
	Base
	MeetingID uuid.UUID    `json:"meeting_id"`
	Index     int          `json:"index"`
	Status    AgendaStatus `json:"status,omitempty"`
	Narrative string       `json:"narrative,omitempty"`
}

func (a *AgendaItem) EntityKind() Kind { return KindAgendaItem }
func (a *AgendaItem) Label() string    { return a.Narrative }

// DecisionEffect is the closed set of decision scopes
type DecisionEffect string

const (
	EffectOnlyThisWorkgroup    DecisionEffect = "affects_only_this_workgroup"
	EffectMayAffectOtherPeople DecisionEffect = "may_affect_other_people"
)

// DecisionEffects lists all valid decision effects
var DecisionEffects = []DecisionEffect{
	EffectOnlyThisWorkgroup,
	EffectMayAffectOtherPeople,
}

// DecisionItem is owned by its agenda item. Its identifier is a deterministic
// hash of (agenda item id, positional index).
type DecisionItem struct {
	Base
	AgendaItemID uuid.UUID      `json:"agenda_item_id"`
	Index        int            `json:"index"`
	Decision     string         `json:"decision"`
	Rationale    string         `json:"rationale,omitempty"`
	Effect       DecisionEffect `json:"effect,omitempty"`
}

func (d *DecisionItem) EntityKind() Kind { return KindDecisionItem }
func (d *DecisionItem) Label() string    { return d.Decision }

// ActionStatus is the closed set of action item states
type ActionStatus string

const (
	ActionStatusTodo       ActionStatus = "todo"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusDone       ActionStatus = "done"
	ActionStatusCancelled  ActionStatus = "cancelled"
)

// ActionStatuses lists all valid action item statuses
var ActionStatuses = []ActionStatus{
	ActionStatusTodo,
	ActionStatusInProgress,
	ActionStatusDone,
	ActionStatusCancelled,
}

// ActionItem is owned by its agenda item. Its identifier is a deterministic
// hash of (agenda item id, positional index).
type ActionItem struct {
	Base
	AgendaItemID uuid.UUID    `json:"agenda_item_id"`
	Index        int          `json:"index"`
	Text         string       `json:"text"`
	AssigneeID   *uuid.UUID   `json:"assignee_id,omitempty"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	Status       ActionStatus `json:"status,omitempty"`
}

func (a *ActionItem) EntityKind() Kind { return KindActionItem }
func (a *ActionItem) Label() string    { return a.Text }

// Document is a working document attached to a meeting. Its identifier is a
// deterministic hash of (meeting id, positional index, resolved link).
type Document struct {
	Base
	MeetingID uuid.UUID `json:"meeting_id"`
	Index     int       `json:"index"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
}

func (d *Document) EntityKind() Kind { return KindDocument }
func (d *Document) Label() string    { return d.Title }

// Tag carries topic and emotion annotations for a meeting. At most one Tag
// exists per meeting; its identifier is a deterministic hash of the meeting id.
type Tag struct {
	Base
	MeetingID     uuid.UUID `json:"meeting_id"`
	TopicsCovered []string  `json:"topics_covered,omitempty"`
	Emotions      []string  `json:"emotions,omitempty"`
}

func (t *Tag) EntityKind() Kind { return KindTag }
func (t *Tag) Label() string {
	if len(t.TopicsCovered) > 0 {
		return t.TopicsCovered[0]
	}
	return ""
}

// NewEntityOfKind returns a zero value of the entity variant for a kind,
// used to decode persisted JSON payloads into the right concrete type.
func NewEntityOfKind(kind Kind) Entity {
	switch kind {
	case KindWorkgroup:
		return &Workgroup{}
	case KindPerson:
		return &Person{}
	case KindMeeting:
		return &Meeting{}
	case KindAgendaItem:
		return &AgendaItem{}
	case KindDecisionItem:
		return &DecisionItem{}
	case KindActionItem:
		return &ActionItem{}
	case KindDocument:
		return &Document{}
	case KindTag:
		return &Tag{}
	default:
		return nil
	}
}
