package extract

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/core/identity"
	"github.com/siherrmann/meetgraph/model"
)

// extractTag materializes at most one Tag entity per meeting. Topics and
// emotions each accept a single string, a comma-separated string, or a list.
// A record with neither field populated creates no entity.
func (c *Converter) extractTag(tags *model.TagRecord, meetingID uuid.UUID) {
	if tags == nil {
		return
	}

	topics := tags.TopicsCovered.Values()
	emotions := tags.Emotions.Values()
	if len(topics) == 0 && len(emotions) == 0 {
		return
	}

	tag := &model.Tag{
		Base:          model.Base{ID: identity.TagID(meetingID)},
		MeetingID:     meetingID,
		TopicsCovered: topics,
		Emotions:      emotions,
	}
	if err := c.store.Save(tag); err != nil {
		c.log.Warn("Skipping tag",
			slog.String("meeting_id", meetingID.String()),
			slog.String("source_field", "tags"),
			slog.String("error", err.Error()))
	}
}
