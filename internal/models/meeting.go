package models

import "time"

// Meeting is an immutable record of one lateness-tracking event for a group.
type Meeting struct {
	// ID is the unique identifier for the meeting (UUID format).
	ID string

	GroupID string

	// At is when the meeting took place.
	At time.Time

	// CurveShift is the group's curve shift at record time. Awards are never
	// recomputed when the group's setting changes later.
	CurveShift float64

	// RecordedBy is the actor who recorded the meeting.
	RecordedBy string

	Entries []MeetingEntry
}

// MeetingEntry is one member's lateness and award within a meeting.
type MeetingEntry struct {
	MemberID      string
	MinutesLate   int
	SlicesAwarded int
}

// TotalSlices sums the slices awarded across all entries.
func (m *Meeting) TotalSlices() int {
	total := 0
	for _, e := range m.Entries {
		total += e.SlicesAwarded
	}
	return total
}
