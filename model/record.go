package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexStrings accepts either a single JSON string or a JSON list of strings
type FlexStrings []string

// UnmarshalJSON implements string-or-list decoding
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FlexStrings{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("value is neither a string nor a list of strings: %w", err)
	}
	*f = FlexStrings(list)
	return nil
}

// Values splits comma-separated members and trims whitespace, dropping empties
func (f FlexStrings) Values() []string {
	var values []string
	for _, member := range f {
		for _, part := range strings.Split(member, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// WorkingDoc is one working document reference in a meeting record.
// The link field may contain surrounding prose around the actual URL.
type WorkingDoc struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// MeetingInfo is the nested info block of a meeting record
type MeetingInfo struct {
	Date             string       `json:"date"`
	TypeOfMeeting    string       `json:"typeOfMeeting,omitempty"`
	Host             string       `json:"host,omitempty"`
	Documenter       string       `json:"documenter,omitempty"`
	PeoplePresent    string       `json:"peoplePresent,omitempty"`
	Purpose          string       `json:"purpose,omitempty"`
	MeetingVideoLink string       `json:"meetingVideoLink,omitempty"`
	WorkingDocs      []WorkingDoc `json:"workingDocs,omitempty"`
	TimestampedVideo Metadata     `json:"timestampedVideo,omitempty"`
}

// DecisionRecord is one decision inside an agenda item
type DecisionRecord struct {
	Decision  string `json:"decision"`
	Rationale string `json:"rationale,omitempty"`
	Effect    string `json:"effect,omitempty"`
}

// ActionRecord is one action item inside an agenda item
type ActionRecord struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
	Status   string `json:"status,omitempty"`
}

// AgendaItemRecord is one agenda item of a meeting record
type AgendaItemRecord struct {
	Status        string           `json:"status,omitempty"`
	Narrative     string           `json:"narrative,omitempty"`
	DecisionItems []DecisionRecord `json:"decisionItems,omitempty"`
	ActionItems   []ActionRecord   `json:"actionItems,omitempty"`
}

// TagRecord carries the tag annotations of a meeting record
type TagRecord struct {
	TopicsCovered FlexStrings `json:"topicsCovered,omitempty"`
	Emotions      FlexStrings `json:"emotions,omitempty"`
}

// MeetingRecord is the canonical parsed input shape of one meeting
type MeetingRecord struct {
	WorkgroupID     string             `json:"workgroup_id"`
	Workgroup       string             `json:"workgroup"`
	Type            string             `json:"type,omitempty"`
	NoSummaryGiven  bool               `json:"noSummaryGiven,omitempty"`
	CanceledSummary bool               `json:"canceledSummary,omitempty"`
	MeetingInfo     *MeetingInfo       `json:"meetingInfo,omitempty"`
	AgendaItems     []AgendaItemRecord `json:"agendaItems,omitempty"`
	Tags            *TagRecord         `json:"tags,omitempty"`
}

// legacyRecord is the flat shape of older meeting exports
type legacyRecord struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Participants []string `json:"participants,omitempty"`
	Transcript   string   `json:"transcript,omitempty"`
	Decisions    []string `json:"decisions,omitempty"`
}

// isLegacy reports whether the raw record carries the legacy flat fields
// instead of a nested meetingInfo block
func (l *legacyRecord) isLegacy() bool {
	return l.Date != "" && l.ID != ""
}

// normalize converts a legacy flat record into the canonical shape. Legacy
// exports predate multi-workgroup support, so the record id doubles as the
// workgroup id.
func (l *legacyRecord) normalize() *MeetingRecord {
	record := &MeetingRecord{
		WorkgroupID: l.ID,
		MeetingInfo: &MeetingInfo{
			Date:          l.Date,
			PeoplePresent: strings.Join(l.Participants, ", "),
			Purpose:       l.Transcript,
		},
	}

	if len(l.Decisions) > 0 {
		item := AgendaItemRecord{}
		for _, decision := range l.Decisions {
			item.DecisionItems = append(item.DecisionItems, DecisionRecord{Decision: decision})
		}
		record.AgendaItems = []AgendaItemRecord{item}
	}

	return record
}

// DecodeMeetingRecord parses raw JSON into a MeetingRecord, accepting both the
// canonical nested shape and the legacy flat shape
// ({id, date, participants[], transcript, decisions[]}).
func DecodeMeetingRecord(data []byte) (*MeetingRecord, error) {
	var legacy legacyRecord
	if err := json.Unmarshal(data, &legacy); err == nil && legacy.isLegacy() {
		return legacy.normalize(), nil
	}

	var record MeetingRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("error decoding meeting record: %w", err)
	}
	return &record, nil
}
