// Package identity assigns deterministic identifiers to structurally-derived
// entities and resolves canonical identity for free-text name variants.
package identity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SimilarityThreshold is the minimum fuzzy similarity for two names to be
// treated as variants of the same canonical entity. Conservative on purpose,
// a false merge is worse than a duplicate.
const SimilarityThreshold = 0.95

// Namespace under which all deterministic ids are minted. Changing it would
// break idempotent re-ingestion, treat it as a stable contract.
var namespace = uuid.MustParse("9f2c1a4e-5b7d-4c3e-8a1f-2d6b9e0c4a71")

// partSeparator joins identity-defining parts before hashing. ASCII unit
// separator, cannot occur in the parts themselves.
const partSeparator = "\x1f"

// bracketQualifier matches bracketed name qualifiers like "[QADAO]",
// with or without surrounding whitespace
var bracketQualifier = regexp.MustCompile(`\s*\[[^\]]*\]`)

// DeterministicID hashes the canonical join of the identity-defining parts
// into a stable 128-bit identifier (UUIDv5 over SHA-1). The same parts in the
// same order always yield the same id. Part order and the "\x1f" separator
// are part of the identity contract.
func DeterministicID(parts ...string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(strings.Join(parts, partSeparator)))
}

// PersonID derives the deterministic identifier of a person from the
// lowercased normalized display name, so case variants of one normalized
// name converge on the same identifier across ingestion runs.
func PersonID(normalizedName string) uuid.UUID {
	return DeterministicID("person", strings.ToLower(normalizedName))
}

// MeetingID derives the deterministic identifier of a meeting from its owning
// workgroup and date, making re-ingestion of the same meeting idempotent
// regardless of any transient id in the source record.
func MeetingID(workgroupID uuid.UUID, date time.Time) uuid.UUID {
	return DeterministicID("meeting", workgroupID.String(), date.Format("2006-01-02"))
}

// AgendaItemID derives the deterministic identifier of an agenda item from
// its meeting and positional index
func AgendaItemID(meetingID uuid.UUID, index int) uuid.UUID {
	return DeterministicID("agenda_item", meetingID.String(), strconv.Itoa(index))
}

// DecisionItemID derives the deterministic identifier of a decision item
// from its agenda item and positional index
func DecisionItemID(agendaItemID uuid.UUID, index int) uuid.UUID {
	return DeterministicID("decision_item", agendaItemID.String(), strconv.Itoa(index))
}

// ActionItemID derives the deterministic identifier of an action item from
// its agenda item and positional index
func ActionItemID(agendaItemID uuid.UUID, index int) uuid.UUID {
	return DeterministicID("action_item", agendaItemID.String(), strconv.Itoa(index))
}

// DocumentID derives the deterministic identifier of a document from its
// meeting, positional index and resolved link
func DocumentID(meetingID uuid.UUID, index int, link string) uuid.UUID {
	return DeterministicID("document", meetingID.String(), strconv.Itoa(index), link)
}

// TagID derives the deterministic identifier of a meeting's tag entity.
// At most one tag exists per meeting.
func TagID(meetingID uuid.UUID) uuid.UUID {
	return DeterministicID("tag", meetingID.String())
}

// Candidate is one existing entity considered during canonical resolution
type Candidate struct {
	ID   uuid.UUID
	Name string
}

// NormalizeRawName strips bracketed qualifier annotations (e.g.
// "Stephen [QADAO]" -> "Stephen") and trims whitespace. Returns an error for
// empty or whitespace-only input.
func NormalizeRawName(rawName string) (string, error) {
	if strings.TrimSpace(rawName) == "" {
		return "", fmt.Errorf("name is empty or whitespace-only")
	}

	normalized := bracketQualifier.ReplaceAllString(rawName, "")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		// Name was nothing but qualifiers, keep the trimmed original
		normalized = strings.TrimSpace(rawName)
	}

	return normalized, nil
}

// NormalizeName resolves the canonical identity of a raw name against the
// given candidates. It first searches for an exact normalized match
// (case-insensitive), then applies fuzzy similarity and accepts the best
// candidate at or above SimilarityThreshold. When no candidate matches it
// returns uuid.Nil with the normalized name, signaling the caller to create
// a new entity.
func NormalizeName(rawName string, candidates []Candidate) (uuid.UUID, string, error) {
	normalized, err := NormalizeRawName(rawName)
	if err != nil {
		return uuid.Nil, "", err
	}

	for _, candidate := range candidates {
		if strings.EqualFold(normalized, candidate.Name) {
			return candidate.ID, candidate.Name, nil
		}
	}

	bestScore := 0.0
	var best *Candidate
	for i, candidate := range candidates {
		score := Ratio(normalized, candidate.Name)
		if score >= SimilarityThreshold && score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}
	if best != nil {
		return best.ID, best.Name, nil
	}

	return uuid.Nil, normalized, nil
}
