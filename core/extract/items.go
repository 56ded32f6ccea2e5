package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/core/identity"
	"github.com/siherrmann/meetgraph/model"
)

// extractAgendaItems materializes agenda items and their nested decision and
// action items. Items are keyed by positional index under their parent for
// deterministic identity and idempotent re-ingestion. A failing item is
// logged and skipped, siblings continue.
func (c *Converter) extractAgendaItems(items []model.AgendaItemRecord, meetingID uuid.UUID) {
	for index, item := range items {
		agendaItemID := identity.AgendaItemID(meetingID, index)

		agendaItem := &model.AgendaItem{
			Base:      model.Base{ID: agendaItemID},
			MeetingID: meetingID,
			Index:     index,
			Narrative: strings.TrimSpace(item.Narrative),
		}
		if status, ok := model.ParseAgendaStatus(item.Status); ok {
			agendaItem.Status = status
		} else if item.Status != "" {
			c.log.Debug("Unknown agenda status", slog.String("value", item.Status), slog.Int("index", index))
		}

		if err := c.store.Save(agendaItem); err != nil {
			c.log.Warn("Skipping agenda item",
				slog.Int("index", index),
				slog.String("source_field", fmt.Sprintf("agendaItems[%d]", index)),
				slog.String("error", err.Error()))
			continue
		}

		c.extractDecisionItems(item.DecisionItems, agendaItemID, index)
		c.extractActionItems(item.ActionItems, agendaItemID, meetingID, index)
	}
}

func (c *Converter) extractDecisionItems(decisions []model.DecisionRecord, agendaItemID uuid.UUID, agendaIndex int) {
	for index, decision := range decisions {
		if err := c.extractDecisionItem(decision, agendaItemID, index); err != nil {
			c.log.Debug("Skipping decision item",
				slog.String("source_field", fmt.Sprintf("agendaItems[%d].decisionItems[%d]", agendaIndex, index)),
				slog.String("reason", err.Error()))
		}
	}
}

func (c *Converter) extractDecisionItem(decision model.DecisionRecord, agendaItemID uuid.UUID, index int) error {
	text := strings.TrimSpace(decision.Decision)
	if text == "" {
		return fmt.Errorf("decision text is empty")
	}
	if !ShouldExtractEntity(text, "decision", false) {
		return fmt.Errorf("decision %q rejected by extraction criteria", text)
	}

	decisionItem := &model.DecisionItem{
		Base:         model.Base{ID: identity.DecisionItemID(agendaItemID, index)},
		AgendaItemID: agendaItemID,
		Index:        index,
		Decision:     text,
		Rationale:    strings.TrimSpace(decision.Rationale),
	}
	if effect, ok := model.ParseDecisionEffect(decision.Effect); ok {
		decisionItem.Effect = effect
	} else if decision.Effect != "" {
		c.log.Debug("Unknown decision effect", slog.String("value", decision.Effect))
	}

	return c.store.Save(decisionItem)
}

func (c *Converter) extractActionItems(actions []model.ActionRecord, agendaItemID uuid.UUID, meetingID uuid.UUID, agendaIndex int) {
	for index, action := range actions {
		if err := c.extractActionItem(action, agendaItemID, meetingID, index); err != nil {
			c.log.Debug("Skipping action item",
				slog.String("source_field", fmt.Sprintf("agendaItems[%d].actionItems[%d]", agendaIndex, index)),
				slog.String("reason", err.Error()))
		}
	}
}

func (c *Converter) extractActionItem(action model.ActionRecord, agendaItemID uuid.UUID, meetingID uuid.UUID, index int) error {
	text := strings.TrimSpace(action.Text)
	if text == "" {
		return fmt.Errorf("action text is empty")
	}
	if !ShouldExtractEntity(text, "action", false) {
		return fmt.Errorf("action %q rejected by extraction criteria", text)
	}

	actionItem := &model.ActionItem{
		Base:         model.Base{ID: identity.ActionItemID(agendaItemID, index)},
		AgendaItemID: agendaItemID,
		Index:        index,
		Text:         text,
	}

	// Assignee failures are tolerated, the action item survives without one
	if assignee, err := c.UpsertPerson(action.Assignee, meetingID); err == nil && assignee != nil {
		actionItem.AssigneeID = &assignee.ID
	} else if err != nil {
		c.log.Debug("Skipping action assignee",
			slog.String("name", action.Assignee), slog.String("reason", err.Error()))
	}

	if action.DueDate != "" {
		if dueDate, err := ParseDueDate(action.DueDate); err == nil {
			actionItem.DueDate = &dueDate
		} else {
			c.log.Debug("Unparseable due date", slog.String("value", action.DueDate))
		}
	}

	if status, ok := model.ParseActionStatus(action.Status); ok {
		actionItem.Status = status
	} else if action.Status != "" {
		c.log.Debug("Unknown action status", slog.String("value", action.Status))
	}

	return c.store.Save(actionItem)
}
