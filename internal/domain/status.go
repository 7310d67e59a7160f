package domain

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// ErrInvalidStatus is returned when a value is not one of the known statuses.
const ErrInvalidStatus = errors.ConstError("invalid status")

// Status represents the lifecycle state of an epic or story
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Label returns the human readable form used by the CLI
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "OPEN"
	case StatusInProgress:
		return "IN PROGRESS"
	case StatusResolved:
		return "RESOLVED"
	case StatusClosed:
		return "CLOSED"
	}
	return string(s)
}

// ParseStatus converts user input to a Status. Matching is case-insensitive
// and accepts "in-progress" and "in_progress" for StatusInProgress.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "open":
		return StatusOpen, nil
	case "inprogress", "in-progress", "in_progress", "in progress":
		return StatusInProgress, nil
	case "resolved":
		return StatusResolved, nil
	case "closed":
		return StatusClosed, nil
	}
	return "", fmt.Errorf("%q: %w", value, ErrInvalidStatus)
}
