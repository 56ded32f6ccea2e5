package extract

import (
	"fmt"
	"strings"
	"time"
)

// meetingDateFormats are tried in order when parsing the meeting date.
// Formats with a time-of-day component are normalized to date-only.
var meetingDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2 January 2006",
	"January 2, 2006",
	"2/1/2006",
	"1/2/2006",
}

// dueDateFormats are tried in order when parsing action item due dates:
// ISO, "D Month YYYY", "Month D, YYYY", D/M/YYYY, M/D/YYYY.
// The first successful parse wins.
var dueDateFormats = []string{
	"2006-01-02",
	"2 January 2006",
	"January 2, 2006",
	"2/1/2006",
	"1/2/2006",
}

// ParseMeetingDate parses the meeting date against the known format list and
// normalizes the result to a canonical date-only value in UTC
func ParseMeetingDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("meeting date is empty")
	}

	for _, format := range meetingDateFormats {
		if parsed, err := time.Parse(format, trimmed); err == nil {
			return toDateOnly(parsed), nil
		}
	}

	return time.Time{}, fmt.Errorf("meeting date %q matches no known format", trimmed)
}

// ParseDueDate parses an action item due date against the ordered format list
func ParseDueDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("due date is empty")
	}

	for _, format := range dueDateFormats {
		if parsed, err := time.Parse(format, trimmed); err == nil {
			return toDateOnly(parsed), nil
		}
	}

	return time.Time{}, fmt.Errorf("due date %q matches no known format", trimmed)
}

func toDateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
