// Package extract walks parsed meeting records and materializes the typed
// entity graph through the identity service and the entity store.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/core/identity"
	"github.com/siherrmann/meetgraph/helper"
	"github.com/siherrmann/meetgraph/model"
	"github.com/siherrmann/meetgraph/store"
)

// NERIntegrator merges free-text entity mentions into the canonical graph.
// Optional collaborator of the converter, a failing or absent recognizer
// never aborts meeting conversion.
type NERIntegrator interface {
	ExtractFromText(text string, meetingID uuid.UUID, sourceField string) ([]model.NEREntity, error)
	MergeWithStructured(nerEntities []model.NEREntity, structured []model.Entity) []model.NEREntity
}

// Converter turns parsed meeting records into stored entities
type Converter struct {
	store store.EntityStore
	ner   NERIntegrator // may be nil
	log   *slog.Logger
}

// NewConverter creates a converter over the given store. The NER integrator
// may be nil, in which case free-text augmentation is skipped.
func NewConverter(entityStore store.EntityStore, nerIntegrator NERIntegrator, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Converter{
		store: entityStore,
		ner:   nerIntegrator,
		log:   logger,
	}
}

// ConvertMeetingToEntities is the primary entry of the extraction service.
// It creates or updates the Workgroup, Person, Meeting, Document, AgendaItem,
// DecisionItem, ActionItem and Tag entities of one meeting record. Only
// failures on the meeting's own required fields (workgroup, date) propagate;
// failures on individual sub-entities are logged and skipped.
func (c *Converter) ConvertMeetingToEntities(record *model.MeetingRecord) (*model.Meeting, error) {
	if record == nil {
		return nil, helper.NewError("convert meeting", fmt.Errorf("record is nil"))
	}

	workgroup, err := c.resolveWorkgroup(record)
	if err != nil {
		return nil, helper.NewError("resolve workgroup", err)
	}

	if record.MeetingInfo == nil {
		return nil, helper.NewError("convert meeting", fmt.Errorf("record has no meetingInfo"))
	}
	info := record.MeetingInfo

	date, err := ParseMeetingDate(info.Date)
	if err != nil {
		return nil, helper.NewError("parse meeting date", err)
	}

	// The meeting id only depends on workgroup and date, both fixed now.
	// Minting it here lets person upserts record source-meeting provenance.
	meetingID := identity.MeetingID(workgroup.ID, date)

	c.recordWorkgroupMeeting(workgroup, meetingID)

	meetingType := c.resolveMeetingType(record)

	var hostID, documenterID *uuid.UUID
	if host, err := c.UpsertPerson(info.Host, meetingID); err == nil && host != nil {
		hostID = &host.ID
	} else if err != nil && info.Host != "" {
		c.log.Debug("Skipping host", slog.String("name", info.Host), slog.String("reason", err.Error()))
	}
	if documenter, err := c.UpsertPerson(info.Documenter, meetingID); err == nil && documenter != nil {
		documenterID = &documenter.ID
	} else if err != nil && info.Documenter != "" {
		c.log.Debug("Skipping documenter", slog.String("name", info.Documenter), slog.String("reason", err.Error()))
	}

	c.upsertAttendees(info.PeoplePresent, meetingID)

	if info.Purpose != "" {
		c.augmentWithNER(info.Purpose, meetingID, "meetingInfo.purpose")
	}

	meeting := &model.Meeting{
		Base:             model.Base{ID: meetingID},
		WorkgroupID:      workgroup.ID,
		MeetingType:      meetingType,
		Date:             date,
		HostID:           hostID,
		DocumenterID:     documenterID,
		Purpose:          info.Purpose,
		VideoLink:        info.MeetingVideoLink,
		TimestampedVideo: info.TimestampedVideo,
		NoSummaryGiven:   record.NoSummaryGiven,
		CanceledSummary:  record.CanceledSummary,
	}

	if err := c.saveMeeting(meeting); err != nil {
		return nil, helper.NewError("save meeting", err)
	}

	// Children always re-extract so they stay in sync with the latest
	// source content, independent of whether the meeting itself was new
	c.extractDocuments(info.WorkingDocs, meetingID)
	c.extractAgendaItems(record.AgendaItems, meetingID)
	c.extractTag(record.Tags, meetingID)

	return meeting, nil
}

// resolveWorkgroup loads or creates the workgroup of the record, updating its
// name if it changed. The workgroup id is carried from the source record when
// present; a record naming a workgroup without an id gets a fresh random one.
func (c *Converter) resolveWorkgroup(record *model.MeetingRecord) (*model.Workgroup, error) {
	name := strings.TrimSpace(record.Workgroup)

	if record.WorkgroupID != "" {
		workgroupID, err := uuid.Parse(record.WorkgroupID)
		if err != nil {
			// Non-UUID source ids are still stable, hash them into the id space
			workgroupID = identity.DeterministicID("workgroup", record.WorkgroupID)
		}

		existing, err := c.store.Load(workgroupID, model.KindWorkgroup)
		if err == nil {
			workgroup := existing.(*model.Workgroup)
			if name != "" && workgroup.Name != name {
				workgroup.Name = name
				if err := c.store.Save(workgroup); err != nil {
					return nil, err
				}
			}
			return workgroup, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		if name == "" {
			name = record.WorkgroupID
		}
		workgroup := &model.Workgroup{Base: model.Base{ID: workgroupID}, Name: name}
		if err := c.store.Save(workgroup); err != nil {
			return nil, err
		}
		return workgroup, nil
	}

	if name == "" {
		return nil, fmt.Errorf("record has neither workgroup_id nor workgroup name")
	}

	// No id in the source, match by name before minting a random identity
	matches, err := c.store.FilterScan(model.KindWorkgroup, func(e model.Entity) bool {
		return strings.EqualFold(e.Label(), name)
	})
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches[0].(*model.Workgroup), nil
	}

	workgroup := &model.Workgroup{Base: model.Base{ID: uuid.New()}, Name: name}
	if err := c.store.Save(workgroup); err != nil {
		return nil, err
	}
	return workgroup, nil
}

// recordWorkgroupMeeting appends the meeting to the workgroup's source
// meetings for recurrence tracking
func (c *Converter) recordWorkgroupMeeting(workgroup *model.Workgroup, meetingID uuid.UUID) {
	for _, id := range workgroup.SourceMeetings {
		if id == meetingID {
			return
		}
	}
	workgroup.SourceMeetings = append(workgroup.SourceMeetings, meetingID)
	if err := c.store.Save(workgroup); err != nil {
		c.log.Warn("Failed to record workgroup source meeting",
			slog.String("workgroup_id", workgroup.ID.String()), slog.String("error", err.Error()))
	}
}

// resolveMeetingType matches the explicit type field or the nested
// meetingInfo field against the closed enum. Unmatched values leave the
// field unset rather than failing.
func (c *Converter) resolveMeetingType(record *model.MeetingRecord) model.MeetingType {
	declared := record.Type
	if declared == "" && record.MeetingInfo != nil {
		declared = record.MeetingInfo.TypeOfMeeting
	}
	if declared == "" {
		return ""
	}

	meetingType, ok := model.ParseMeetingType(declared)
	if !ok {
		c.log.Debug("Unknown meeting type", slog.String("value", declared))
		return ""
	}
	return meetingType
}

// saveMeeting saves the meeting only if it is new or its date changed,
// avoiding needless writes and timestamp churn on re-ingestion
func (c *Converter) saveMeeting(meeting *model.Meeting) error {
	existing, err := c.store.Load(meeting.ID, model.KindMeeting)
	if errors.Is(err, store.ErrNotFound) {
		return c.store.Save(meeting)
	}
	if err != nil {
		return err
	}

	stored := existing.(*model.Meeting)
	if !stored.Date.Equal(meeting.Date) {
		return c.store.Save(meeting)
	}

	// Keep the stored timestamps on the returned entity
	meeting.CreatedAt = stored.CreatedAt
	meeting.UpdatedAt = stored.UpdatedAt
	return nil
}

// UpsertPerson resolves a free-text name to a canonical person, creating one
// when no existing person matches. Returns (nil, nil) for an empty name.
// The person's identifier is a deterministic hash of the lowercased
// normalized display name; an identifier collision with a differing stored
// name resolves in favor of the already-stored entity.
func (c *Converter) UpsertPerson(rawName string, meetingID uuid.UUID) (*model.Person, error) {
	if strings.TrimSpace(rawName) == "" {
		return nil, nil
	}

	if !ShouldExtractEntity(rawName, "person", false) {
		return nil, fmt.Errorf("name %q rejected by extraction criteria", rawName)
	}

	persons, err := c.store.ScanAll(model.KindPerson)
	if err != nil {
		return nil, err
	}
	candidates := make([]identity.Candidate, 0, len(persons))
	for _, entity := range persons {
		candidates = append(candidates, identity.Candidate{ID: entity.EntityID(), Name: entity.Label()})
	}

	canonicalID, canonicalName, err := identity.NormalizeName(rawName, candidates)
	if err != nil {
		// Normalization failure falls back to the raw name as its own
		// canonical form
		c.log.Debug("Name normalization failed, using raw name",
			slog.String("name", rawName), slog.String("error", err.Error()))
		canonicalID, canonicalName = uuid.Nil, strings.TrimSpace(rawName)
		if canonicalName == "" {
			return nil, err
		}
	}

	if canonicalID != uuid.Nil {
		existing, err := c.store.Load(canonicalID, model.KindPerson)
		if err != nil {
			return nil, err
		}
		person := existing.(*model.Person)
		c.recordPersonMeeting(person, meetingID)
		return person, nil
	}

	personID := identity.PersonID(canonicalName)
	if existing, err := c.store.Load(personID, model.KindPerson); err == nil {
		// Hash collision with a differing name, prefer the stored entity
		person := existing.(*model.Person)
		c.recordPersonMeeting(person, meetingID)
		return person, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	person := &model.Person{
		Base:        model.Base{ID: personID},
		DisplayName: canonicalName,
	}
	if normalized := strings.TrimSpace(rawName); normalized != canonicalName {
		person.Alias = normalized
	}
	if meetingID != uuid.Nil {
		person.SourceMeetings = []uuid.UUID{meetingID}
	}
	if err := c.store.Save(person); err != nil {
		return nil, err
	}

	c.log.Debug("Created person", slog.String("id", person.ID.String()), slog.String("name", person.DisplayName))
	return person, nil
}

// recordPersonMeeting appends the meeting to the person's source meetings
func (c *Converter) recordPersonMeeting(person *model.Person, meetingID uuid.UUID) {
	if meetingID == uuid.Nil {
		return
	}
	for _, id := range person.SourceMeetings {
		if id == meetingID {
			return
		}
	}
	person.SourceMeetings = append(person.SourceMeetings, meetingID)
	if err := c.store.Save(person); err != nil {
		c.log.Warn("Failed to record person source meeting",
			slog.String("person_id", person.ID.String()), slog.String("error", err.Error()))
	}
}

// upsertAttendees upserts every name of a comma-separated attendee list.
// Failures for individual names never abort the batch.
func (c *Converter) upsertAttendees(peoplePresent string, meetingID uuid.UUID) {
	for _, name := range strings.Split(peoplePresent, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := c.UpsertPerson(name, meetingID); err != nil {
			c.log.Debug("Skipping attendee",
				slog.String("name", name),
				slog.String("source_field", "meetingInfo.peoplePresent"),
				slog.String("reason", err.Error()))
		}
	}
}

// augmentWithNER runs recognizer extraction and merge over a free-text field.
// Unmatched person mentions become candidates for new person entities.
// A failing recognizer logs a warning and never aborts conversion.
func (c *Converter) augmentWithNER(text string, meetingID uuid.UUID, sourceField string) {
	if c.ner == nil {
		return
	}

	nerEntities, err := c.ner.ExtractFromText(text, meetingID, sourceField)
	if err != nil {
		c.log.Warn("NER extraction unavailable, proceeding without augmentation",
			slog.String("source_field", sourceField), slog.String("error", err.Error()))
		return
	}
	if len(nerEntities) == 0 {
		return
	}

	structured := c.loadNamedEntities()
	merged := c.ner.MergeWithStructured(nerEntities, structured)

	for _, nerEntity := range merged {
		if nerEntity.NormalizedEntityID != uuid.Nil {
			continue
		}
		if nerEntity.Type != "PER" && nerEntity.Type != "PERSON" {
			c.log.Debug("Unlinked NER mention",
				slog.String("text", nerEntity.Text), slog.String("type", nerEntity.Type),
				slog.String("source_field", sourceField))
			continue
		}
		if _, err := c.UpsertPerson(nerEntity.Text, meetingID); err != nil {
			c.log.Debug("Skipping NER person mention",
				slog.String("text", nerEntity.Text), slog.String("reason", err.Error()))
		}
	}
}

// loadNamedEntities returns all persons and workgroups for NER merging
func (c *Converter) loadNamedEntities() []model.Entity {
	var structured []model.Entity
	for _, kind := range []model.Kind{model.KindPerson, model.KindWorkgroup} {
		entities, err := c.store.ScanAll(kind)
		if err != nil {
			c.log.Warn("Failed to scan entities for NER merge", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			continue
		}
		structured = append(structured, entities...)
	}
	return structured
}

// isRecurring reports whether a named entity is already known from more than
// one meeting, feeding the recurring criterion of the extraction filter
func (c *Converter) isRecurring(name string) bool {
	for _, kind := range []model.Kind{model.KindPerson, model.KindWorkgroup} {
		matches, err := c.store.FilterScan(kind, func(e model.Entity) bool {
			return strings.EqualFold(e.Label(), name)
		})
		if err != nil {
			continue
		}
		for _, entity := range matches {
			switch typed := entity.(type) {
			case *model.Person:
				if len(typed.SourceMeetings) > 1 {
					return true
				}
			case *model.Workgroup:
				if len(typed.SourceMeetings) > 1 {
					return true
				}
			}
		}
	}
	return false
}
