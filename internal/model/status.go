package model

import "strings"

// Status is the fixed lifecycle label describing a fridge's current condition.
type Status string

// Fridge statuses.
const (
	StatusAvailable     Status = "available"
	StatusLow           Status = "low"
	StatusNeedsCleaning Status = "needs cleaning"
	StatusUnavailable   Status = "unavailable"
	StatusUnknown       Status = "unknown"
)

// Statuses lists the canonical statuses in display order.
var Statuses = []Status{StatusAvailable, StatusLow, StatusNeedsCleaning, StatusUnavailable}

// ParseStatus normalizes a raw status string (lowercased, underscores treated
// as spaces) to a canonical Status. Unrecognized or empty values map to
// StatusUnknown. All status comparisons in the codebase go through this
// function so the matching rules live in one place.
func ParseStatus(raw string) Status {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", " ")
	switch Status(normalized) {
	case StatusAvailable, StatusLow, StatusNeedsCleaning, StatusUnavailable:
		return Status(normalized)
	default:
		return StatusUnknown
	}
}

// Valid reports whether s is one of the four canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusLow, StatusNeedsCleaning, StatusUnavailable:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
