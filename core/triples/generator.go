// Package triples derives directed, typed relationship triples between
// already-materialized entities by traversing their structural associations.
// Triples are derived data, generated on demand and never persisted.
package triples

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/helper"
	"github.com/siherrmann/meetgraph/model"
	"github.com/siherrmann/meetgraph/store"
)

// Generator derives relationship triples for one meeting at a time
type Generator struct {
	store store.EntityStore
	log   *slog.Logger
}

// NewGenerator creates a triple generator over the given store
func NewGenerator(entityStore store.EntityStore, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		store: entityStore,
		log:   logger,
	}
}

// GenerateTriples derives the triple set for a meeting. The supplied entity
// list may be partial (at minimum the Meeting itself); agenda items and their
// decision/action items are loaded from the store to complete it. Entities
// whose structural parent cannot be resolved produce no triples and are
// skipped silently.
func (g *Generator) GenerateTriples(entities []model.Entity, meetingID uuid.UUID) ([]model.RelationshipTriple, error) {
	meeting, err := g.resolveMeeting(entities, meetingID)
	if err != nil {
		return nil, helper.NewError("resolve meeting", err)
	}

	workgroup := g.loadWorkgroup(meeting.WorkgroupID)

	agendaItems, err := g.store.FilterScan(model.KindAgendaItem, func(e model.Entity) bool {
		item, ok := e.(*model.AgendaItem)
		return ok && item.MeetingID == meetingID
	})
	if err != nil {
		return nil, helper.NewError("scan agenda items", err)
	}

	agendaIndex := make(map[uuid.UUID]*model.AgendaItem, len(agendaItems))
	for _, entity := range agendaItems {
		item := entity.(*model.AgendaItem)
		agendaIndex[item.ID] = item
	}

	belongsToMeeting := func(agendaItemID uuid.UUID) bool {
		_, ok := agendaIndex[agendaItemID]
		return ok
	}

	decisionItems, err := g.store.FilterScan(model.KindDecisionItem, func(e model.Entity) bool {
		item, ok := e.(*model.DecisionItem)
		return ok && belongsToMeeting(item.AgendaItemID)
	})
	if err != nil {
		return nil, helper.NewError("scan decision items", err)
	}

	actionItems, err := g.store.FilterScan(model.KindActionItem, func(e model.Entity) bool {
		item, ok := e.(*model.ActionItem)
		return ok && belongsToMeeting(item.AgendaItemID)
	})
	if err != nil {
		return nil, helper.NewError("scan action items", err)
	}

	meetingName := meetingLabel(meeting)
	var result []model.RelationshipTriple

	if workgroup != nil {
		result = append(result, model.RelationshipTriple{
			SubjectID:       workgroup.ID,
			SubjectType:     model.KindWorkgroup,
			SubjectName:     workgroup.Name,
			Relationship:    model.RelationHeld,
			ObjectID:        meeting.ID,
			ObjectType:      model.KindMeeting,
			ObjectName:      meetingName,
			SourceMeetingID: meetingID,
			SourceField:     "workgroup_id",
		})
	}

	for _, entity := range actionItems {
		action := entity.(*model.ActionItem)
		agendaItem := agendaIndex[action.AgendaItemID]
		sourceField := fmt.Sprintf("agendaItems[%d].actionItems[%d]", agendaItem.Index, action.Index)

		if action.AssigneeID != nil {
			if person := g.loadPerson(*action.AssigneeID); person != nil {
				result = append(result, model.RelationshipTriple{
					SubjectID:       action.ID,
					SubjectType:     model.KindActionItem,
					SubjectName:     action.Text,
					Relationship:    model.RelationAssignedTo,
					ObjectID:        person.ID,
					ObjectType:      model.KindPerson,
					ObjectName:      person.DisplayName,
					SourceMeetingID: meetingID,
					SourceField:     sourceField + ".assignee",
				})
			}
		}

		result = append(result, model.RelationshipTriple{
			SubjectID:       meeting.ID,
			SubjectType:     model.KindMeeting,
			SubjectName:     meetingName,
			Relationship:    model.RelationHas,
			ObjectID:        action.ID,
			ObjectType:      model.KindActionItem,
			ObjectName:      action.Text,
			SourceMeetingID: meetingID,
			SourceField:     sourceField,
		})

		if workgroup != nil {
			result = append(result, model.RelationshipTriple{
				SubjectID:       workgroup.ID,
				SubjectType:     model.KindWorkgroup,
				SubjectName:     workgroup.Name,
				Relationship:    model.RelationMade,
				ObjectID:        action.ID,
				ObjectType:      model.KindActionItem,
				ObjectName:      action.Text,
				SourceMeetingID: meetingID,
				SourceField:     sourceField,
			})
		}
	}

	for _, entity := range decisionItems {
		decision := entity.(*model.DecisionItem)
		agendaItem := agendaIndex[decision.AgendaItemID]
		sourceField := fmt.Sprintf("agendaItems[%d].decisionItems[%d]", agendaItem.Index, decision.Index)

		if decision.Effect != "" {
			// The effect is a label, not an entity, so the object id is nil
			result = append(result, model.RelationshipTriple{
				SubjectID:       decision.ID,
				SubjectType:     model.KindDecisionItem,
				SubjectName:     decision.Decision,
				Relationship:    model.RelationHasEffect,
				ObjectID:        uuid.Nil,
				ObjectName:      string(decision.Effect),
				SourceMeetingID: meetingID,
				SourceField:     sourceField + ".effect",
			})
		}

		result = append(result, model.RelationshipTriple{
			SubjectID:       meeting.ID,
			SubjectType:     model.KindMeeting,
			SubjectName:     meetingName,
			Relationship:    model.RelationProduced,
			ObjectID:        decision.ID,
			ObjectType:      model.KindDecisionItem,
			ObjectName:      decision.Decision,
			SourceMeetingID: meetingID,
			SourceField:     sourceField,
		})

		if workgroup != nil {
			result = append(result, model.RelationshipTriple{
				SubjectID:       workgroup.ID,
				SubjectType:     model.KindWorkgroup,
				SubjectName:     workgroup.Name,
				Relationship:    model.RelationMade,
				ObjectID:        decision.ID,
				ObjectType:      model.KindDecisionItem,
				ObjectName:      decision.Decision,
				SourceMeetingID: meetingID,
				SourceField:     sourceField,
			})
		}
	}

	return result, nil
}

// TriplesForEntity returns all triples of a meeting touching the given
// entity. Triples are not persisted, so this recomputes the meeting's triple
// set and filters it.
func (g *Generator) TriplesForEntity(meetingID uuid.UUID, entityID uuid.UUID) ([]model.RelationshipTriple, error) {
	all, err := g.GenerateTriples(nil, meetingID)
	if err != nil {
		return nil, err
	}

	var touching []model.RelationshipTriple
	for _, triple := range all {
		if triple.Touches(entityID) {
			touching = append(touching, triple)
		}
	}
	return touching, nil
}

// resolveMeeting finds the meeting in the supplied entities or loads it
func (g *Generator) resolveMeeting(entities []model.Entity, meetingID uuid.UUID) (*model.Meeting, error) {
	for _, entity := range entities {
		if meeting, ok := entity.(*model.Meeting); ok && meeting.ID == meetingID {
			return meeting, nil
		}
	}

	loaded, err := g.store.Load(meetingID, model.KindMeeting)
	if err != nil {
		return nil, fmt.Errorf("meeting %s not found: %w", meetingID, err)
	}
	return loaded.(*model.Meeting), nil
}

// loadWorkgroup resolves the meeting's workgroup, nil when unresolvable
func (g *Generator) loadWorkgroup(workgroupID uuid.UUID) *model.Workgroup {
	if workgroupID == uuid.Nil {
		return nil
	}
	loaded, err := g.store.Load(workgroupID, model.KindWorkgroup)
	if err != nil {
		g.log.Debug("Workgroup not resolvable for triples", slog.String("workgroup_id", workgroupID.String()))
		return nil
	}
	return loaded.(*model.Workgroup)
}

// loadPerson resolves a person reference, nil when unresolvable
func (g *Generator) loadPerson(personID uuid.UUID) *model.Person {
	loaded, err := g.store.Load(personID, model.KindPerson)
	if err != nil {
		g.log.Debug("Person not resolvable for triples", slog.String("person_id", personID.String()))
		return nil
	}
	return loaded.(*model.Person)
}

// meetingLabel gives a displayable name for a meeting, falling back to the
// date when no purpose text exists
func meetingLabel(meeting *model.Meeting) string {
	if meeting.Purpose != "" {
		return meeting.Purpose
	}
	return meeting.Date.Format("2006-01-02")
}
