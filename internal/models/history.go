package models

import "time"

// HistoryKind distinguishes the two kinds of balance-changing records.
type HistoryKind string

const (
	HistoryMeeting    HistoryKind = "meeting"
	HistoryCorrection HistoryKind = "correction"
)

// HistoryItem is one entry of a group's merged meeting and correction history.
// Exactly one of Meeting or Correction is set, matching Kind.
type HistoryItem struct {
	Kind       HistoryKind
	At         time.Time
	Meeting    *Meeting
	Correction *Correction
}
