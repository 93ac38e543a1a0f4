package domain

import "strings"

// Status is an appointment lifecycle bucket.
type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists the buckets in tab order.
var Statuses = []Status{StatusUpcoming, StatusInProgress, StatusCompleted}

// ParseStatus maps a raw status string onto a bucket, ignoring case and
// surrounding whitespace. ok is false for values outside the three buckets.
func ParseStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusUpcoming, StatusInProgress, StatusCompleted:
		return s, true
	default:
		return "", false
	}
}

// StatusForTab returns the bucket shown on tab index i (0 Upcoming,
// 1 In Progress, 2 Completed).
func StatusForTab(i int) (Status, bool) {
	if i < 0 || i >= len(Statuses) {
		return "", false
	}
	return Statuses[i], true
}

// Tab is the inverse of StatusForTab; -1 for unknown values.
func (s Status) Tab() int {
	for i, candidate := range Statuses {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Label is the title-cased display name, e.g. "In Progress".
func (s Status) Label() string {
	switch s {
	case StatusUpcoming:
		return "Upcoming"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is exactly one of the three canonical buckets.
func (s Status) Valid() bool {
	return s.Tab() >= 0
}

func (s Status) String() string { return string(s) }
