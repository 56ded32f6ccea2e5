package model

import (
	"strings"
	"unicode"
)

// matchEnum resolves a declared value against a closed set of labels.
// Matching is case-insensitive, exact first, then a partial pass where the
// declared value may be a prefix or substring of a label. Unmatched values
// return false so callers can leave the field unset instead of failing.
func matchEnum(value string, labels []string) (string, bool) {
	normalized := normalizeEnumToken(value)
	if normalized == "" {
		return "", false
	}

	for _, label := range labels {
		if normalized == normalizeEnumToken(label) {
			return label, true
		}
	}

	for _, label := range labels {
		if strings.Contains(normalizeEnumToken(label), normalized) {
			return label, true
		}
	}

	return "", false
}

// normalizeEnumToken folds camelCase boundaries, spaces and hyphens to
// underscores and lowercases, so "Carry Over", "carryOver" and "carry-over"
// all match "carry_over"
func normalizeEnumToken(s string) string {
	var builder strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && unicode.IsLower(rune(s[i-1])) {
			builder.WriteByte('_')
		}
		builder.WriteRune(unicode.ToLower(r))
	}
	normalized := strings.TrimSpace(builder.String())
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}

// ParseMeetingType resolves a raw value against the closed meeting type set
func ParseMeetingType(value string) (MeetingType, bool) {
	labels := make([]string, len(MeetingTypes))
	for i, t := range MeetingTypes {
		labels[i] = string(t)
	}
	matched, ok := matchEnum(value, labels)
	return MeetingType(matched), ok
}

// ParseAgendaStatus resolves a raw value against the closed agenda status set
func ParseAgendaStatus(value string) (AgendaStatus, bool) {
	labels := make([]string, len(AgendaStatuses))
	for i, s := range AgendaStatuses {
		labels[i] = string(s)
	}
	matched, ok := matchEnum(value, labels)
	return AgendaStatus(matched), ok
}

// ParseDecisionEffect resolves a raw value against the closed effect set
func ParseDecisionEffect(value string) (DecisionEffect, bool) {
	labels := make([]string, len(DecisionEffects))
	for i, e := range DecisionEffects {
		labels[i] = string(e)
	}
	matched, ok := matchEnum(value, labels)
	return DecisionEffect(matched), ok
}

// ParseActionStatus resolves a raw value against the closed action status set
func ParseActionStatus(value string) (ActionStatus, bool) {
	labels := make([]string, len(ActionStatuses))
	for i, s := range ActionStatuses {
		labels[i] = string(s)
	}
	matched, ok := matchEnum(value, labels)
	return ActionStatus(matched), ok
}
