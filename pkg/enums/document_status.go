package enums

import "fmt"

// DocumentStatus describes the lifecycle state of an ingested document.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

var validDocumentStatuses = []DocumentStatus{
	DocumentStatusPending,
	DocumentStatusProcessing,
	DocumentStatusCompleted,
	DocumentStatusFailed,
}

// statusRank orders lifecycle states; transitions may only move to a higher
// rank. Completed and failed are both terminal.
var statusRank = map[DocumentStatus]int{
	DocumentStatusPending:    0,
	DocumentStatusProcessing: 1,
	DocumentStatusCompleted:  2,
	DocumentStatusFailed:     2,
}

// String returns the literal string for the status.
func (s DocumentStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s DocumentStatus) IsValid() bool {
	for _, candidate := range validDocumentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from the status.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusFailed
}

// Rank returns the monotonic position of the status in the lifecycle.
func (s DocumentStatus) Rank() int {
	if rank, ok := statusRank[s]; ok {
		return rank
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next is a forward move.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	return next.Rank() > s.Rank()
}

// StatusesBelow returns every status with a rank strictly below the given one.
// Repositories use it to build conditional-update guards.
func StatusesBelow(target DocumentStatus) []DocumentStatus {
	below := []DocumentStatus{}
	for _, candidate := range validDocumentStatuses {
		if candidate.Rank() < target.Rank() {
			below = append(below, candidate)
		}
	}
	return below
}

// ParseDocumentStatus converts raw input into a DocumentStatus.
func ParseDocumentStatus(value string) (DocumentStatus, error) {
	for _, candidate := range validDocumentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document status %q", value)
}
