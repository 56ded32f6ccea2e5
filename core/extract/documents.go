package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/core/identity"
	"github.com/siherrmann/meetgraph/model"
)

// urlPattern finds a scheme-qualified URL inside prose
var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// bareDomainPattern matches link text that looks like a domain without scheme
var bareDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}(/\S*)?$`)

// extractDocuments materializes one Document entity per working doc.
// A single bad document is skipped with a logged reason, never aborting
// its siblings.
func (c *Converter) extractDocuments(workingDocs []model.WorkingDoc, meetingID uuid.UUID) {
	for index, doc := range workingDocs {
		if err := c.extractDocument(doc, meetingID, index); err != nil {
			c.log.Debug("Skipping working doc",
				slog.Int("index", index),
				slog.String("title", doc.Title),
				slog.String("source_field", fmt.Sprintf("meetingInfo.workingDocs[%d]", index)),
				slog.String("reason", err.Error()))
		}
	}
}

func (c *Converter) extractDocument(doc model.WorkingDoc, meetingID uuid.UUID, index int) error {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		return fmt.Errorf("document title is empty")
	}
	if !ShouldExtractEntity(title, "doc", c.isRecurring(title)) {
		return fmt.Errorf("title %q rejected by extraction criteria", title)
	}

	link, err := resolveDocumentLink(doc.Link)
	if err != nil {
		return err
	}

	document := &model.Document{
		Base:      model.Base{ID: identity.DocumentID(meetingID, index, link)},
		MeetingID: meetingID,
		Index:     index,
		Title:     title,
		Link:      link,
	}
	return c.store.Save(document)
}

// resolveDocumentLink extracts an absolute URL from the link field. The field
// may contain surrounding prose; a URL pattern is searched within it, and a
// bare domain gets an https:// prefix.
func resolveDocumentLink(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("document link is empty")
	}

	link := urlPattern.FindString(trimmed)
	if link == "" {
		if !bareDomainPattern.MatchString(trimmed) {
			return "", fmt.Errorf("no URL found in link %q", raw)
		}
		link = "https://" + trimmed
	}

	parsed, err := url.Parse(link)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("link %q does not resolve to an absolute URL", raw)
	}

	return link, nil
}
